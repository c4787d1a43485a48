package idcard

import "pbm-backend/internal/models"

// The layout is data: an ordered list of regions per page, each with its
// box, content source and optionality. A new card design is a new region
// list, not a new render path.

// Box is a region's bounding box in millimetres from the page's top-left
// corner.
type Box struct {
	X, Y, W, H float64
}

// Intersects reports whether two boxes overlap. Used to enforce the layout
// contract that the seal and QR regions stay apart.
func (b Box) Intersects(o Box) bool {
	return b.X < o.X+o.W && o.X < b.X+b.W && b.Y < o.Y+o.H && o.Y < b.Y+b.H
}

type RegionKind int

const (
	KindText RegionKind = iota
	KindLine
	KindRoundedRect
	KindCircle
	KindPhoto
	KindQR
)

const (
	PageFront = 1
	PageBack  = 2
)

// Region is one drawable element of the card.
type Region struct {
	Name string
	Page int
	Kind RegionKind
	Box  Box

	// Text regions. Content pulls the value from the record or assets;
	// Box.Y is the text baseline. Script selects the registered script
	// font over the core font.
	Content  func(m *models.Member, a *Assets) string
	FontSize float64
	Bold     bool
	Script   bool
	Centered bool
	Upper    bool
	Color    *RGB // nil draws black

	// Shape regions.
	Fill   *RGB
	Radius float64

	// Optional regions are skipped silently when their content is absent
	// (missing photo, disabled QR). Non-optional regions always draw.
	Optional bool
}

// cardLayout builds the two-page layout for a card of the given size. All
// positions are derived from the card dimensions so other physical formats
// remain a configuration change.
func cardLayout(w, h float64, a *Assets) []Region {
	dark := a.Dark
	light := a.Light

	return []Region{
		// Front: decorative brand bands along the right edge, overdrawn
		// dark then light to leave a two-tone curve.
		{Name: "band_dark", Page: PageFront, Kind: KindRoundedRect,
			Box: Box{X: w - 30, Y: -10, W: 40, H: h + 20}, Radius: 14, Fill: &dark},
		{Name: "band_light", Page: PageFront, Kind: KindRoundedRect,
			Box: Box{X: w - 38, Y: -10, W: 30, H: h + 20}, Radius: 14, Fill: &light},

		{Name: "org_name", Page: PageFront, Kind: KindText,
			Box: Box{X: 8, Y: 12}, FontSize: 10, Script: true, Color: &dark,
			Content: func(_ *models.Member, a *Assets) string { return a.OrgName }},

		{Name: "member_name", Page: PageFront, Kind: KindText,
			Box: Box{X: 8, Y: 26}, FontSize: 12, Bold: true, Upper: true,
			Content: func(m *models.Member, _ *Assets) string { return m.Name }},

		{Name: "divider", Page: PageFront, Kind: KindLine,
			Box: Box{X: 8, Y: 29, W: w - 45 - 8}},

		{Name: "phone", Page: PageFront, Kind: KindText,
			Box: Box{X: 8, Y: 38}, FontSize: 7,
			Content: func(m *models.Member, _ *Assets) string { return "Ph : " + m.Mobile }},
		{Name: "district", Page: PageFront, Kind: KindText,
			Box: Box{X: 8, Y: 46}, FontSize: 7,
			Content: func(m *models.Member, _ *Assets) string { return "Dist : " + m.District }},
		{Name: "membership_no", Page: PageFront, Kind: KindText,
			Box: Box{X: 8, Y: 54}, FontSize: 7,
			Content: func(m *models.Member, _ *Assets) string { return "ID : " + m.MembershipNo }},

		{Name: "photo", Page: PageFront, Kind: KindPhoto, Optional: true,
			Box: Box{X: w - 28, Y: 14, W: 20, H: 26}},

		// Back.
		{Name: "rules_heading", Page: PageBack, Kind: KindText,
			Box: Box{X: w / 2, Y: 20}, FontSize: 8, Script: true, Centered: true,
			Content: func(_ *models.Member, a *Assets) string { return a.RulesHeading }},
		{Name: "notice_1", Page: PageBack, Kind: KindText,
			Box: Box{X: w / 2, Y: 30}, FontSize: 6, Centered: true,
			Content: func(_ *models.Member, a *Assets) string { return a.NoticeLine1 }},
		{Name: "notice_2", Page: PageBack, Kind: KindText,
			Box: Box{X: w / 2, Y: 38}, FontSize: 6, Centered: true,
			Content: func(_ *models.Member, a *Assets) string { return a.NoticeLine2 }},

		{Name: "sign_line", Page: PageBack, Kind: KindLine,
			Box: Box{X: 10, Y: h - 15, W: 35}},
		{Name: "sign_caption", Page: PageBack, Kind: KindText,
			Box: Box{X: 10, Y: h - 10}, FontSize: 6,
			Content: func(_ *models.Member, a *Assets) string { return a.SignCaption }},

		// Official seal: drawn circle centred on the box.
		{Name: "seal", Page: PageBack, Kind: KindCircle,
			Box: Box{X: w - 28, Y: h - 23, W: 16, H: 16}, Radius: 8},
		{Name: "seal_caption", Page: PageBack, Kind: KindText,
			Box: Box{X: w - 20, Y: h - 10}, FontSize: 6, Centered: true,
			Content: func(_ *models.Member, a *Assets) string { return a.SealCaption }},

		// Verification QR, top-right of the back, clear of the seal box.
		{Name: "qr", Page: PageBack, Kind: KindQR, Optional: true,
			Box: Box{X: w - 26, Y: 6, W: 18, H: 18}},
	}
}

// FitBox returns the largest aspect-preserving placement of a srcW×srcH
// image centred inside box.
func FitBox(box Box, srcW, srcH float64) Box {
	if srcW <= 0 || srcH <= 0 {
		return Box{X: box.X, Y: box.Y}
	}
	scale := box.W / srcW
	if s := box.H / srcH; s < scale {
		scale = s
	}
	w := srcW * scale
	h := srcH * scale
	return Box{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}
