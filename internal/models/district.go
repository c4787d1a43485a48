package models

// District is a reference-list entry used by the registration form.
type District struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DistrictSecretary is a static directory entry shown on the public site.
type DistrictSecretary struct {
	Name     string `json:"name"`
	District string `json:"district"`
	Photo    string `json:"photo"`
}

// DistrictSecretaries is the published directory. Photos live under the
// static assets mount.
var DistrictSecretaries = []DistrictSecretary{
	{Name: "திரு. மு. செந்தில்", District: "சென்னை", Photo: "/assets/district_secretaries/dum.jpeg"},
	{Name: "திரு. க. ரமேஷ்", District: "மதுரை", Photo: "/assets/district_secretaries/dum.jpeg"},
	{Name: "திருமதி. சு. லதா", District: "கோயம்புத்தூர்", Photo: "/assets/district_secretaries/dum.jpeg"},
}
