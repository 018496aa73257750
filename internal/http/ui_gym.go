package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gymflow/console/internal/gymapi"
	"github.com/gymflow/console/internal/http/validation"
)

func gymProfileMeta(mode FormMode) PageMeta {
	title, pageTitle := "GymFlow - Gym Profile", "Gym Profile"
	if mode == FormModeCreate {
		title, pageTitle = "GymFlow - Set Up Gym", "Set Up Your Gym"
	}
	return PageMeta{Title: title, PageTitle: pageTitle, CurrentPage: PageGymProfile}
}

// GymProfile renders the gym profile form. A first-time operator with
// no profile yet gets the create variant of the same form.
// GET /gym.
func (h *UIHandlers) GymProfile(w http.ResponseWriter, r *http.Request) {
	gym, err := h.GymSvc.MyGym(r.Context())
	if apiErr, ok := gymapi.AsAPIError(err); ok && apiErr.IsNotFound() {
		h.renderGymForm(w, r, map[string]any{"Mode": FormModeCreate})
		return
	}
	if err != nil {
		h.logger().Error("failed to load gym profile", "error", err)
		h.renderGymForm(w, r, map[string]any{
			"Mode":         FormModeCreate,
			"Error":        true,
			"ErrorMessage": "Unable to load your gym profile.",
		})
		return
	}
	h.renderGymForm(w, r, gymFormData(gym))
}

func gymFormData(g gymapi.Gym) map[string]any {
	return map[string]any{
		"Mode":             FormModeEdit,
		"GymID":            g.ID,
		"FormName":         g.Name,
		"FormPhone":        g.Phone,
		"FormAddressLine1": g.AddressLine1,
		"FormAddressLine2": g.AddressLine2,
		"FormCity":         g.City,
		"FormState":        g.State,
		"FormCountry":      g.Country,
		"FormPostalCode":   g.PostalCode,
		"FormDescription":  g.Description,
		"FormOpeningHours": g.OpeningHours,
	}
}

func (h *UIHandlers) renderGymForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeEdit,
		MetaForMode: gymProfileMeta,
	})
	h.renderConsolePage(w, r, data)
}

// parseGymForm parses and validates the gym profile form.
func parseGymForm(r *http.Request) (gymapi.GymRequest, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return gymapi.GymRequest{}, map[string]string{"_": "Invalid form submission."}
	}

	req := gymapi.GymRequest{
		Name:         strings.TrimSpace(r.Form.Get("name")),
		Phone:        strings.TrimSpace(r.Form.Get("phone")),
		AddressLine1: strings.TrimSpace(r.Form.Get("address_line1")),
		AddressLine2: strings.TrimSpace(r.Form.Get("address_line2")),
		City:         strings.TrimSpace(r.Form.Get("city")),
		State:        strings.TrimSpace(r.Form.Get("state")),
		Country:      strings.TrimSpace(r.Form.Get("country")),
		PostalCode:   strings.TrimSpace(r.Form.Get("postal_code")),
		Description:  strings.TrimSpace(r.Form.Get("description")),
		OpeningHours: strings.TrimSpace(r.Form.Get("opening_hours")),
	}

	fv := validation.New().
		Validate("name", req.Name, validation.Required("Gym name", 255)).
		Validate("address_line1", req.AddressLine1, validation.Optional("Address", 255)).
		Validate("address_line2", req.AddressLine2, validation.Optional("Address", 255)).
		Validate("city", req.City, validation.Optional("City", 100)).
		Validate("state", req.State, validation.Optional("State", 100)).
		Validate("country", req.Country, validation.Optional("Country", 100)).
		Validate("postal_code", req.PostalCode, validation.Optional("Postal code", 20)).
		Validate("description", req.Description, validation.Optional("Description", 1000)).
		Validate("opening_hours", req.OpeningHours, validation.Optional("Opening hours", 255))
	if req.Phone != "" {
		fv.Validate("phone", req.Phone, validation.Phone("Phone"))
	}

	return req, fv.Errors()
}

// gymFormService adapts the gym API to the generic form handler.
type gymFormService struct {
	svc GymAPI
}

func (s gymFormService) Create(ctx context.Context, req gymapi.GymRequest) error {
	_, err := s.svc.CreateGym(ctx, req)
	return err
}

func (s gymFormService) Update(ctx context.Context, id int, req gymapi.GymRequest) error {
	_, err := s.svc.UpdateGym(ctx, id, req)
	return err
}

// renderGymFormWithData restores submitted values when the form re-renders.
func (h *UIHandlers) renderGymFormWithData(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if req, ok := data["FormData"].(gymapi.GymRequest); ok {
		data["FormName"] = req.Name
		data["FormPhone"] = req.Phone
		data["FormAddressLine1"] = req.AddressLine1
		data["FormAddressLine2"] = req.AddressLine2
		data["FormCity"] = req.City
		data["FormState"] = req.State
		data["FormCountry"] = req.Country
		data["FormPostalCode"] = req.PostalCode
		data["FormDescription"] = req.Description
		data["FormOpeningHours"] = req.OpeningHours
	}
	h.renderGymForm(w, r, data)
}

// GymCreate handles POST to create the gym profile.
func (h *UIHandlers) GymCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[gymapi.GymRequest]{
		W:            w,
		R:            r,
		Mode:         FormModeCreate,
		Parser:       parseGymForm,
		Service:      gymFormService{svc: h.GymSvc},
		Renderer:     h.renderGymFormWithData,
		SuccessURL:   "/gym",
		SuccessToast: "Gym profile created.",
		PageMeta:     gymProfileMeta(FormModeCreate),
	})
}

// GymUpdate handles POST to update the gym profile.
func (h *UIHandlers) GymUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[gymapi.GymRequest]{
		W:            w,
		R:            r,
		Mode:         FormModeEdit,
		Parser:       parseGymForm,
		Service:      gymFormService{svc: h.GymSvc},
		Renderer:     h.renderGymFormWithData,
		SuccessURL:   "/gym",
		SuccessToast: "Gym profile updated.",
		PageMeta:     gymProfileMeta(FormModeEdit),
		GetID: func(r *http.Request) (int, error) {
			return strconv.Atoi(r.PostFormValue("gym_id"))
		},
	})
}
