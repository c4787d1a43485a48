package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"pbm-backend/internal/live"
	"pbm-backend/internal/models"
	"pbm-backend/internal/monitoring"
	"pbm-backend/internal/services"

	"github.com/gorilla/mux"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10,15}$`)

// allowed photo upload extensions
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type MemberHandler struct {
	Membership   *services.MembershipService
	Cards        *services.CardService
	Verification *services.VerificationService
	Districts    services.DistrictStore
	Metrics      *monitoring.Metrics
	Live         *live.Hub
}

func NewMemberHandler(
	membership *services.MembershipService,
	cards *services.CardService,
	verification *services.VerificationService,
	districts services.DistrictStore,
	metrics *monitoring.Metrics,
	liveHub *live.Hub,
) *MemberHandler {
	return &MemberHandler{
		Membership:   membership,
		Cards:        cards,
		Verification: verification,
		Districts:    districts,
		Metrics:      metrics,
		Live:         liveHub,
	}
}

// Register handles POST /register: multipart form with the member fields
// and an optional photo.
func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	req, err := registerRequestFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	photo, ext, err := photoFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if photo != nil {
		defer photo.Close()
	}

	var photoReader io.Reader
	if photo != nil {
		photoReader = photo
	}

	member, err := h.Membership.Register(r.Context(), req, photoReader, ext)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateMobile):
			if h.Metrics != nil {
				h.Metrics.DuplicateRejections.Inc()
			}
			http.Error(w, "Mobile number already registered", http.StatusBadRequest)
		case errors.Is(err, models.ErrSequenceRace):
			http.Error(w, "Could not assign a membership number, please retry", http.StatusInternalServerError)
		default:
			log.Printf("Registration failed for %s: %v", req.Mobile, err)
			http.Error(w, "Registration failed", http.StatusInternalServerError)
		}
		return
	}

	if h.Metrics != nil {
		h.Metrics.RegistrationsTotal.Inc()
	}
	if h.Live != nil {
		h.Live.BroadcastRegistration(models.RegistrationEvent{
			ID:           member.ID,
			MembershipNo: member.MembershipNo,
			Name:         member.Name,
			District:     member.District,
			RegisteredAt: member.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":       "Registration successful",
		"membership_no": member.MembershipNo,
		"id":            member.ID,
	})
}

// List handles GET /admin: the projected member list for the dashboard.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Membership.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch members: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []models.MemberSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// IDCard handles GET /admin/idcard/{mobile}: streams the two-page card PDF.
func (h *MemberHandler) IDCard(w http.ResponseWriter, r *http.Request) {
	mobile := mux.Vars(r)["mobile"]

	doc, err := h.Cards.RenderByMobile(r.Context(), mobile)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMemberNotFound):
			http.Error(w, "Member not found", http.StatusNotFound)
		case errors.Is(err, models.ErrRenderConfiguration):
			log.Printf("Card render misconfigured: %v", err)
			http.Error(w, "Card rendering is not configured correctly", http.StatusInternalServerError)
		default:
			log.Printf("Card render failed for %s: %v", mobile, err)
			http.Error(w, "Failed to render card", http.StatusInternalServerError)
		}
		return
	}

	if h.Metrics != nil {
		h.Metrics.CardsRendered.Inc()
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+mobile+"_ID_CARD.pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.Write(doc)
}

// Verify handles GET /verify/{key}: the QR code's target endpoint.
func (h *MemberHandler) Verify(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	result, err := h.Verification.Verify(r.Context(), key)
	if err != nil {
		if errors.Is(err, models.ErrMemberNotFound) {
			if h.Metrics != nil {
				h.Metrics.Verifications.WithLabelValues("not_found").Inc()
			}
			http.Error(w, "Invalid Member", http.StatusNotFound)
			return
		}
		http.Error(w, "Verification failed", http.StatusInternalServerError)
		return
	}

	if h.Metrics != nil {
		h.Metrics.Verifications.WithLabelValues("valid").Inc()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ListDistricts handles GET /districts: the reference list the form uses.
func (h *MemberHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	names, err := h.Districts.ListNames(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch districts: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

// ListDistrictSecretaries handles GET /district-secretaries.
func (h *MemberHandler) ListDistrictSecretaries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.DistrictSecretaries)
}

// FixMembership handles POST /admin/fix-membership: assigns membership
// numbers to legacy records that lack one.
func (h *MemberHandler) FixMembership(w http.ResponseWriter, r *http.Request) {
	updated, err := h.Membership.Backfill(r.Context())
	if err != nil {
		log.Printf("Membership backfill failed after %d updates: %v", updated, err)
		http.Error(w, "Backfill failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Membership numbers updated",
		"updated": updated,
	})
}

func registerRequestFromForm(r *http.Request) (*models.RegisterRequest, error) {
	req := &models.RegisterRequest{
		Name:         strings.TrimSpace(r.FormValue("name")),
		FatherName:   strings.TrimSpace(r.FormValue("father_name")),
		Gender:       strings.TrimSpace(r.FormValue("gender")),
		DOB:          strings.TrimSpace(r.FormValue("dob")),
		BloodGroup:   strings.TrimSpace(r.FormValue("blood_group")),
		Mobile:       strings.TrimSpace(r.FormValue("mobile")),
		Email:        strings.TrimSpace(r.FormValue("email")),
		State:        strings.TrimSpace(r.FormValue("state")),
		District:     strings.TrimSpace(r.FormValue("district")),
		LocalBody:    strings.TrimSpace(r.FormValue("local_body")),
		Constituency: strings.TrimSpace(r.FormValue("constituency")),
		Ward:         strings.TrimSpace(r.FormValue("ward")),
		Address:      strings.TrimSpace(r.FormValue("address")),
		VoterID:      strings.TrimSpace(r.FormValue("voter_id")),
		Aadhaar:      strings.TrimSpace(r.FormValue("aadhaar")),
	}
	if req.State == "" {
		req.State = "Tamil Nadu"
	}

	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.Mobile == "" {
		return nil, errors.New("mobile is required")
	}
	if !mobilePattern.MatchString(req.Mobile) {
		return nil, errors.New("mobile must be 10-15 digits")
	}
	if req.District == "" {
		return nil, errors.New("district is required")
	}
	if req.BloodGroup == "" {
		return nil, errors.New("blood_group is required")
	}

	ageStr := strings.TrimSpace(r.FormValue("age"))
	if ageStr == "" {
		return nil, errors.New("age is required")
	}
	age, err := strconv.Atoi(ageStr)
	if err != nil || age <= 0 || age > 120 {
		return nil, errors.New("age must be a valid number")
	}
	req.Age = age

	return req, nil
}

func photoFromForm(r *http.Request) (multipart.File, string, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", nil
		}
		return nil, "", errors.New("error reading photo upload")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !photoExtensions[ext] {
		file.Close()
		return nil, "", errors.New("photo must be a .jpg, .jpeg or .png file")
	}
	return file, ext, nil
}
