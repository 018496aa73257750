package httpx

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gymflow/console/internal/gymapi"
	"github.com/gymflow/console/internal/http/validation"
)

// buildTrainerOptions returns [{Name, Selected}] for the assigned
// trainer select. Trainers are referenced by name on the member record.
func (h *UIHandlers) buildTrainerOptions(ctx context.Context, selected string) ([]map[string]any, error) {
	trainers, err := h.TrainerSvc.AllTrainers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(trainers, func(i, j int) bool {
		return strings.ToLower(trainers[i].Name) < strings.ToLower(trainers[j].Name)
	})
	out := make([]map[string]any, 0, len(trainers))
	for _, t := range trainers {
		if !t.IsActive && t.Name != selected {
			continue
		}
		out = append(out, map[string]any{
			"Name":     t.Name,
			"Selected": t.Name == selected,
		})
	}
	return out, nil
}

func memberTitlesForMode(mode FormMode) (string, string) {
	if mode == FormModeEdit {
		return "GymFlow - Edit Member", "Edit Member"
	}
	return "GymFlow - New Member", "New Member"
}

// renderMemberForm renders the member create/edit form with common framing data.
func (h *UIHandlers) renderMemberForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(mode FormMode) PageMeta {
			title, pageTitle := memberTitlesForMode(mode)
			return PageMeta{Title: title, PageTitle: pageTitle, CurrentPage: PageMemberForm}
		},
	})

	opts, err := h.buildTrainerOptions(r.Context(), toString(data["FormAssignedTrainer"]))
	if err != nil {
		h.logger().Error("failed to load trainer options", "error", err)
		data["Error"], data["ErrorMessage"] = true, "Failed to load trainers."
	}
	data["TrainerOptions"] = opts
	data["PlanTypes"] = []string{gymapi.PlanTypeGeneral, gymapi.PlanTypePT}
	data["Statuses"] = []string{
		gymapi.MemberStatusActive,
		gymapi.MemberStatusExpired,
		gymapi.MemberStatusFrozen,
	}

	h.renderConsolePage(w, r, data)
}

// MemberNew renders the create form.
func (h *UIHandlers) MemberNew(w http.ResponseWriter, r *http.Request) {
	h.renderMemberForm(w, r, map[string]any{
		"Mode":           FormModeCreate,
		"FormPlanType":   gymapi.PlanTypeGeneral,
		"FormStatus":     gymapi.MemberStatusActive,
	})
}

// MemberEdit renders the edit form populated from an existing member.
func (h *UIHandlers) MemberEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		h.NotFound(w, r)
		return
	}
	m, err := h.MemberSvc.GetMember(r.Context(), id)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	history, err := h.PaymentSvc.MemberPayments(r.Context(), id)
	if err != nil {
		h.logger().Warn("failed to load member payment history", "member_id", id, "error", err)
		history = nil
	}
	h.renderMemberForm(w, r, map[string]any{
		"Mode":                FormModeEdit,
		"MemberID":            m.ID,
		"MemberPayments":      history,
		"FormName":            m.Name,
		"FormPhone":           m.Phone,
		"FormPlanType":        m.PlanType,
		"FormStartDate":       m.StartDate,
		"FormEndDate":         m.EndDate,
		"FormStatus":          m.Status,
		"FormAssignedTrainer": m.AssignedTrainer,
	})
}

// parseMemberForm parses and validates member form data.
func parseMemberForm(r *http.Request) (gymapi.MemberRequest, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return gymapi.MemberRequest{}, map[string]string{"_": "Invalid form submission."}
	}

	req := gymapi.MemberRequest{
		Name:            strings.TrimSpace(r.Form.Get("name")),
		Phone:           strings.TrimSpace(r.Form.Get("phone")),
		PlanType:        strings.ToUpper(strings.TrimSpace(r.Form.Get("plan_type"))),
		StartDate:       strings.TrimSpace(r.Form.Get("start_date")),
		EndDate:         strings.TrimSpace(r.Form.Get("end_date")),
		Status:          strings.ToUpper(strings.TrimSpace(r.Form.Get("status"))),
		AssignedTrainer: strings.TrimSpace(r.Form.Get("assigned_trainer")),
	}

	errs := validation.New().
		Validate("name", req.Name, validation.Required("Name", 255)).
		Validate("phone", req.Phone, validation.Phone("Phone")).
		Validate("plan_type", req.PlanType,
			validation.OneOf("Plan type", []string{gymapi.PlanTypeGeneral, gymapi.PlanTypePT})).
		Validate("start_date", req.StartDate, validation.Date("Start date")).
		Validate("end_date", req.EndDate, validation.Date("End date")).
		Validate("status", req.Status, validation.OneOf("Status", []string{
			gymapi.MemberStatusActive,
			gymapi.MemberStatusExpired,
			gymapi.MemberStatusFrozen,
		})).
		Check("end_date", validation.DateOrder(req.StartDate, req.EndDate,
			"End date must be after start date.")).
		Errors()

	return req, errs
}

// memberFormService adapts the members API to the generic form handler.
type memberFormService struct {
	svc MembersAPI
}

func (s memberFormService) Create(ctx context.Context, req gymapi.MemberRequest) error {
	_, err := s.svc.CreateMember(ctx, req)
	return err
}

func (s memberFormService) Update(ctx context.Context, id int, req gymapi.MemberRequest) error {
	_, err := s.svc.UpdateMember(ctx, id, req)
	return err
}

// renderMemberFormWithData adapts the generic form handler data to the
// member form renderer, restoring submitted values on error.
func (h *UIHandlers) renderMemberFormWithData(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if req, ok := data["FormData"].(gymapi.MemberRequest); ok {
		data["FormName"] = req.Name
		data["FormPhone"] = req.Phone
		data["FormPlanType"] = req.PlanType
		data["FormStartDate"] = req.StartDate
		data["FormEndDate"] = req.EndDate
		data["FormStatus"] = req.Status
		data["FormAssignedTrainer"] = req.AssignedTrainer
	}
	if mode, ok := data["Mode"].(FormMode); ok && mode == FormModeEdit {
		if _, has := data["MemberID"]; !has {
			if id, err := strconv.Atoi(r.PathValue("id")); err == nil {
				data["MemberID"] = id
			}
		}
	}
	h.renderMemberForm(w, r, data)
}

// MemberCreate handles POST to create a member.
func (h *UIHandlers) MemberCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[gymapi.MemberRequest]{
		W:            w,
		R:            r,
		Mode:         FormModeCreate,
		Parser:       parseMemberForm,
		Service:      memberFormService{svc: h.MemberSvc},
		Renderer:     h.renderMemberFormWithData,
		SuccessURL:   "/members",
		SuccessToast: "Member created.",
		PageMeta:     PageMeta{Title: "GymFlow - New Member", PageTitle: "New Member", CurrentPage: PageMemberForm},
	})
}

// MemberUpdate handles POST to update an existing member.
func (h *UIHandlers) MemberUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[gymapi.MemberRequest]{
		W:            w,
		R:            r,
		Mode:         FormModeEdit,
		Parser:       parseMemberForm,
		Service:      memberFormService{svc: h.MemberSvc},
		Renderer:     h.renderMemberFormWithData,
		SuccessURL:   "/members",
		SuccessToast: "Member updated.",
		PageMeta:     PageMeta{Title: "GymFlow - Edit Member", PageTitle: "Edit Member", CurrentPage: PageMemberForm},
	})
}
