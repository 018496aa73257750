package httpx

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gymflow/console/internal/forms"
	"github.com/gymflow/console/internal/gymapi"
	"github.com/gymflow/console/internal/http/validation"
)

var salaryTypes = []string{
	gymapi.SalaryTypeFixed,
	gymapi.SalaryTypeCommission,
	gymapi.SalaryTypeMixed,
}

func trainerTitlesForMode(mode FormMode) (string, string) {
	if mode == FormModeEdit {
		return "GymFlow - Edit Trainer", "Edit Trainer"
	}
	return "GymFlow - New Trainer", "New Trainer"
}

// renderTrainerForm renders the trainer create/edit form.
func (h *UIHandlers) renderTrainerForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(mode FormMode) PageMeta {
			title, pageTitle := trainerTitlesForMode(mode)
			return PageMeta{Title: title, PageTitle: pageTitle, CurrentPage: PageTrainerForm}
		},
	})
	data["SalaryTypes"] = salaryTypes
	h.renderConsolePage(w, r, data)
}

// TrainerNew renders the create form.
func (h *UIHandlers) TrainerNew(w http.ResponseWriter, r *http.Request) {
	h.renderTrainerForm(w, r, map[string]any{
		"Mode":           FormModeCreate,
		"FormSalaryType": gymapi.SalaryTypeFixed,
		"FormIsActive":   true,
	})
}

// TrainerEdit renders the edit form populated from an existing trainer.
func (h *UIHandlers) TrainerEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		h.NotFound(w, r)
		return
	}
	t, err := h.TrainerSvc.GetTrainer(r.Context(), id)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	h.renderTrainerForm(w, r, map[string]any{
		"Mode":                  FormModeEdit,
		"TrainerID":             t.ID,
		"FormName":              t.Name,
		"FormPhone":             t.Phone,
		"FormSpecialization":    t.Specialization,
		"FormSalaryType":        t.SalaryType,
		"FormBaseSalary":        t.BaseSalary,
		"FormCommissionPercent": t.CommissionPercent,
		"FormIsActive":          t.IsActive,
	})
}

// parseTrainerForm parses and validates trainer form data. Salary
// fields are conditional: FIXED ignores commission, COMMISSION ignores
// base salary, MIXED requires both.
func parseTrainerForm(r *http.Request) (gymapi.TrainerRequest, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return gymapi.TrainerRequest{}, map[string]string{"_": "Invalid form submission."}
	}

	req := gymapi.TrainerRequest{
		Name:           strings.TrimSpace(r.Form.Get("name")),
		Phone:          strings.TrimSpace(r.Form.Get("phone")),
		Specialization: strings.TrimSpace(r.Form.Get("specialization")),
		SalaryType:     strings.ToUpper(strings.TrimSpace(r.Form.Get("salary_type"))),
		IsActive:       r.Form.Get("is_active") == "on",
	}

	fv := validation.New().
		Validate("name", req.Name, validation.Required("Name", 255)).
		Validate("specialization", req.Specialization, validation.Optional("Specialization", 255)).
		Validate("salary_type", req.SalaryType, validation.OneOf("Salary type", salaryTypes))
	if req.Phone != "" {
		fv.Validate("phone", req.Phone, validation.Phone("Phone"))
	}

	baseRaw := strings.TrimSpace(r.Form.Get("base_salary"))
	commissionRaw := strings.TrimSpace(r.Form.Get("commission_percent"))

	needBase := req.SalaryType == gymapi.SalaryTypeFixed || req.SalaryType == gymapi.SalaryTypeMixed
	needCommission := req.SalaryType == gymapi.SalaryTypeCommission || req.SalaryType == gymapi.SalaryTypeMixed

	if needBase {
		fv.Validate("base_salary", baseRaw, validation.Amount("Base salary"))
		if v, err := strconv.ParseFloat(baseRaw, 64); err == nil {
			req.BaseSalary = v
		}
	}
	if needCommission {
		if commissionRaw == "" {
			fv.Check("commission_percent", "Commission percent is required.")
		} else if v, err := strconv.ParseFloat(commissionRaw, 64); err != nil || v <= 0 || v > 100 {
			fv.Check("commission_percent", "Commission percent must be between 0 and 100.")
		} else {
			req.CommissionPercent = v
		}
	}

	return req, fv.Errors()
}

// trainerFormService adapts the trainers API to the generic form handler.
type trainerFormService struct {
	svc TrainersAPI
}

func (s trainerFormService) Create(ctx context.Context, req gymapi.TrainerRequest) error {
	_, err := s.svc.CreateTrainer(ctx, req)
	return err
}

func (s trainerFormService) Update(ctx context.Context, id int, req gymapi.TrainerRequest) error {
	_, err := s.svc.UpdateTrainer(ctx, id, req)
	return err
}

// renderTrainerFormWithData restores submitted values when the form re-renders.
func (h *UIHandlers) renderTrainerFormWithData(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if req, ok := data["FormData"].(gymapi.TrainerRequest); ok {
		data["FormName"] = req.Name
		data["FormPhone"] = req.Phone
		data["FormSpecialization"] = req.Specialization
		data["FormSalaryType"] = req.SalaryType
		data["FormBaseSalary"] = req.BaseSalary
		data["FormCommissionPercent"] = req.CommissionPercent
		data["FormIsActive"] = req.IsActive
	}
	if mode, ok := data["Mode"].(FormMode); ok && mode == FormModeEdit {
		if _, has := data["TrainerID"]; !has {
			if id, err := strconv.Atoi(r.PathValue("id")); err == nil {
				data["TrainerID"] = id
			}
		}
	}
	h.renderTrainerForm(w, r, data)
}

// TrainerCreate handles POST to create a trainer.
func (h *UIHandlers) TrainerCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[gymapi.TrainerRequest]{
		W:            w,
		R:            r,
		Mode:         FormModeCreate,
		Parser:       parseTrainerForm,
		Service:      trainerFormService{svc: h.TrainerSvc},
		Renderer:     h.renderTrainerFormWithData,
		SuccessURL:   "/trainers",
		SuccessToast: "Trainer created.",
		PageMeta:     PageMeta{Title: "GymFlow - New Trainer", PageTitle: "New Trainer", CurrentPage: PageTrainerForm},
	})
}

// TrainerUpdate handles POST to update an existing trainer.
func (h *UIHandlers) TrainerUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[gymapi.TrainerRequest]{
		W:            w,
		R:            r,
		Mode:         FormModeEdit,
		Parser:       parseTrainerForm,
		Service:      trainerFormService{svc: h.TrainerSvc},
		Renderer:     h.renderTrainerFormWithData,
		SuccessURL:   "/trainers",
		SuccessToast: "Trainer updated.",
		PageMeta:     PageMeta{Title: "GymFlow - Edit Trainer", PageTitle: "Edit Trainer", CurrentPage: PageTrainerForm},
	})
}

// --- Trainer payouts ---

// trainerHistoryController returns the per-browser trainer selection
// state for the payout page.
func (h *UIHandlers) trainerHistoryController(r *http.Request) *forms.SelectionController[int, []gymapi.TrainerPayment] {
	return h.TrainerSelections.Get(GetBrowserSessionID(r.Context()))
}

// buildTrainerSelectOptions returns [{ID, Name, Selected}] for the
// payout page trainer select.
func (h *UIHandlers) buildTrainerSelectOptions(ctx context.Context, selectedID int) ([]map[string]any, error) {
	trainers, err := h.TrainerSvc.AllTrainers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(trainers, func(i, j int) bool {
		return strings.ToLower(trainers[i].Name) < strings.ToLower(trainers[j].Name)
	})
	out := make([]map[string]any, 0, len(trainers))
	for _, t := range trainers {
		out = append(out, map[string]any{
			"ID":       t.ID,
			"Name":     t.Name,
			"Selected": t.ID == selectedID,
		})
	}
	return out, nil
}

func trainerPaymentsMeta() PageMeta {
	return PageMeta{
		Title:       "GymFlow - Trainer Payouts",
		PageTitle:   "Trainer Payouts",
		CurrentPage: PageTrainerPayments,
	}
}

// renderTrainerPaymentForm renders the payout page with the select, the
// history panel snapshot, and the payout form.
func (h *UIHandlers) renderTrainerPaymentForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(FormMode) PageMeta { return trainerPaymentsMeta() },
	})

	selectedID := 0
	if id, ok := data["FormTrainer"].(int); ok {
		selectedID = id
	}

	opts, err := h.buildTrainerSelectOptions(r.Context(), selectedID)
	if err != nil {
		h.logger().Error("failed to load trainer options", "error", err)
		data["Error"], data["ErrorMessage"] = true, "Failed to load trainers."
	}
	data["TrainerOptions"] = opts
	data["PaymentModes"] = gymapi.PaymentModes

	if _, ok := data["History"]; !ok {
		data["History"] = h.trainerHistoryController(r).Snapshot()
	}

	h.renderConsolePage(w, r, data)
}

// parseTrainerPaymentForm parses and validates the payout form.
func parseTrainerPaymentForm(r *http.Request) (gymapi.TrainerPaymentRequest, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return gymapi.TrainerPaymentRequest{}, map[string]string{"_": "Invalid form submission."}
	}

	trainerRaw := strings.TrimSpace(r.Form.Get("trainer"))
	amountRaw := strings.TrimSpace(r.Form.Get("amount"))

	req := gymapi.TrainerPaymentRequest{
		PaymentMode: r.Form.Get("payment_mode"),
		PaymentDate: strings.TrimSpace(r.Form.Get("payment_date")),
		Notes:       strings.TrimSpace(r.Form.Get("notes")),
	}

	fv := validation.New().
		Validate("amount", amountRaw, validation.Amount("Amount")).
		Validate("payment_mode", req.PaymentMode, validation.OneOf("Payment mode", gymapi.PaymentModes)).
		Validate("payment_date", req.PaymentDate, validation.Date("Payment date")).
		Validate("notes", req.Notes, validation.Optional("Notes", 500))

	if trainerRaw == "" {
		fv.Check("trainer", "Select a trainer.")
	} else if id, err := strconv.Atoi(trainerRaw); err != nil || id <= 0 {
		fv.Check("trainer", "Select a valid trainer.")
	} else {
		req.Trainer = id
	}
	if amount, err := strconv.ParseFloat(amountRaw, 64); err == nil {
		req.Amount = amount
	}

	return req, fv.Errors()
}

// trainerPaymentFormService adapts trainer payouts to the generic form
// handler. Payouts are append-only; Update is never routed.
type trainerPaymentFormService struct {
	svc TrainersAPI
}

func (s trainerPaymentFormService) Create(ctx context.Context, req gymapi.TrainerPaymentRequest) error {
	_, err := s.svc.CreateTrainerPayment(ctx, req)
	return err
}

func (s trainerPaymentFormService) Update(ctx context.Context, _ int, _ gymapi.TrainerPaymentRequest) error {
	return &gymapi.APIError{StatusCode: http.StatusMethodNotAllowed, Detail: "trainer payouts cannot be edited"}
}

// renderTrainerPaymentFormWithData restores submitted values on error.
func (h *UIHandlers) renderTrainerPaymentFormWithData(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if req, ok := data["FormData"].(gymapi.TrainerPaymentRequest); ok {
		data["FormTrainer"] = req.Trainer
		data["FormAmount"] = req.Amount
		data["FormPaymentMode"] = req.PaymentMode
		data["FormPaymentDate"] = req.PaymentDate
		data["FormNotes"] = req.Notes
	}
	h.renderTrainerPaymentForm(w, r, data)
}

// TrainerPaymentCreate handles POST to record a trainer payout.
func (h *UIHandlers) TrainerPaymentCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[gymapi.TrainerPaymentRequest]{
		W:            w,
		R:            r,
		Mode:         FormModeCreate,
		Parser:       parseTrainerPaymentForm,
		Service:      trainerPaymentFormService{svc: h.TrainerSvc},
		Renderer:     h.renderTrainerPaymentFormWithData,
		SuccessURL:   "/trainers/payments",
		SuccessToast: "Payout recorded.",
		PageMeta:     trainerPaymentsMeta(),
	})
}
