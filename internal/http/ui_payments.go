package httpx

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gymflow/console/internal/forms"
	"github.com/gymflow/console/internal/gymapi"
	"github.com/gymflow/console/internal/http/validation"
)

func paymentsMeta() PageMeta {
	return PageMeta{Title: "GymFlow - Payments", PageTitle: "Payments", CurrentPage: PagePayments}
}

// duesController returns the per-browser dues selection state for this request.
func (h *UIHandlers) duesController(r *http.Request) *forms.SelectionController[int, gymapi.OutstandingDues] {
	return h.DuesSelections.Get(GetBrowserSessionID(r.Context()))
}

// buildMemberOptions returns [{ID, Name, Selected}] for the member select.
func (h *UIHandlers) buildMemberOptions(ctx context.Context, selectedID int) ([]map[string]any, error) {
	members, err := h.MemberSvc.AllMembers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(members, func(i, j int) bool {
		return strings.ToLower(members[i].Name) < strings.ToLower(members[j].Name)
	})
	out := make([]map[string]any, 0, len(members))
	for _, m := range members {
		out = append(out, map[string]any{
			"ID":       m.ID,
			"Name":     m.Name,
			"Selected": m.ID == selectedID,
		})
	}
	return out, nil
}

// Payments renders the payments page: the paginated payment history and
// the record-payment form side by side. The history page and the member
// options come from different endpoints and are fetched concurrently.
// GET /payments.
func (h *UIHandlers) Payments(w http.ResponseWriter, r *http.Request) {
	h.renderPaymentsPage(w, r, map[string]any{"Mode": FormModeCreate})
}

// renderPaymentsPage assembles the combined payments view. Form state
// in data (Form* keys, Errors) survives so a failed submit re-renders
// with the history still present.
func (h *UIHandlers) renderPaymentsPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(FormMode) PageMeta { return paymentsMeta() },
	})

	selectedID := 0
	if id, ok := data["FormMember"].(int); ok {
		selectedID = id
	}

	page, pageSize := getPageParams(r.URL.Query())

	var (
		payments      []gymapi.Payment
		total         int
		memberOptions []map[string]any
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		payments, total, err = h.PaymentSvc.ListPayments(gctx, gymapi.Page{Number: page, Size: pageSize})
		return err
	})
	g.Go(func() error {
		var err error
		memberOptions, err = h.buildMemberOptions(gctx, selectedID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger().Error("failed to load payments page", "error", err)
		markPageError(data, err)
	}

	builder := NewTemplateData(r, paymentsMeta()).
		WithPagination(PaginationData{
			Page:       page,
			PageSize:   pageSize,
			HasPrev:    page > 1,
			HasNext:    page*pageSize < total,
			TotalCount: total,
			BasePath:   "/payments",
		}).
		With("Payments", payments).
		With("MemberOptions", memberOptions).
		With("PaymentModes", gymapi.PaymentModes)

	// Form state rides on top of the page frame.
	for k, v := range data {
		builder.With(k, v)
	}

	final := builder.Build()
	if _, ok := final["Dues"]; !ok {
		final["Dues"] = h.duesController(r).Snapshot()
	}

	h.renderConsolePage(w, r, final)
}

// DuesPreview is the htmx fragment endpoint behind the member select on
// the payment form. Changing the selection triggers a dues fetch; the
// rendered fragment always reflects the newest selection even when
// responses for earlier selections arrive late.
// GET /payments/dues-preview?member=<id>.
func (h *UIHandlers) DuesPreview(w http.ResponseWriter, r *http.Request) {
	ctrl := h.duesController(r)

	raw := strings.TrimSpace(r.URL.Query().Get("member"))
	if raw == "" {
		ctrl.Clear()
		h.renderDuesFragment(w, r, ctrl.Snapshot())
		return
	}

	memberID, err := strconv.Atoi(raw)
	if err != nil || memberID <= 0 {
		h.renderDuesFragment(w, r, ctrl.Snapshot())
		return
	}

	h.renderDuesFragment(w, r, ctrl.Select(r.Context(), memberID))
}

// renderDuesFragment writes the dues panel plus an out-of-band swap of
// the amount input, so each selection change re-seeds the amount from
// the member's outstanding dues.
func (h *UIHandlers) renderDuesFragment(w http.ResponseWriter, r *http.Request, state forms.State[int, gymapi.OutstandingDues]) {
	h.renderFragment(w, r, "dues-preview", state)
	if err := h.T.t.ExecuteTemplate(w, "dues-amount-oob", state); err != nil {
		h.logger().Error("dues amount swap render failed", "error", err)
	}
}

// parsePaymentForm parses and validates the record-payment form.
func parsePaymentForm(r *http.Request) (gymapi.PaymentRequest, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return gymapi.PaymentRequest{}, map[string]string{"_": "Invalid form submission."}
	}

	memberRaw := strings.TrimSpace(r.Form.Get("member"))
	amountRaw := strings.TrimSpace(r.Form.Get("amount"))

	req := gymapi.PaymentRequest{
		PaymentMode: r.Form.Get("payment_mode"),
		PaymentDate: strings.TrimSpace(r.Form.Get("payment_date")),
		Notes:       strings.TrimSpace(r.Form.Get("notes")),
	}

	fv := validation.New().
		Validate("amount", amountRaw, validation.Amount("Amount")).
		Validate("payment_mode", req.PaymentMode, validation.OneOf("Payment mode", gymapi.PaymentModes)).
		Validate("payment_date", req.PaymentDate, validation.Date("Payment date")).
		Validate("notes", req.Notes, validation.Optional("Notes", 500))

	if memberRaw == "" {
		fv.Check("member", "Select a member.")
	} else if id, err := strconv.Atoi(memberRaw); err != nil || id <= 0 {
		fv.Check("member", "Select a valid member.")
	} else {
		req.Member = id
	}
	if amount, err := strconv.ParseFloat(amountRaw, 64); err == nil {
		req.Amount = amount
	}

	return req, fv.Errors()
}

// paymentFormService adapts the payments API to the generic form handler.
// Payments are append-only; Update is never routed.
type paymentFormService struct {
	svc PaymentsAPI
}

func (s paymentFormService) Create(ctx context.Context, req gymapi.PaymentRequest) error {
	_, err := s.svc.CreatePayment(ctx, req)
	return err
}

func (s paymentFormService) Update(ctx context.Context, _ int, _ gymapi.PaymentRequest) error {
	return &gymapi.APIError{StatusCode: http.StatusMethodNotAllowed, Detail: "payments cannot be edited"}
}

// renderPaymentFormWithData restores submitted values when the form re-renders.
func (h *UIHandlers) renderPaymentFormWithData(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if req, ok := data["FormData"].(gymapi.PaymentRequest); ok {
		data["FormMember"] = req.Member
		data["FormAmount"] = req.Amount
		data["FormPaymentMode"] = req.PaymentMode
		data["FormPaymentDate"] = req.PaymentDate
		data["FormNotes"] = req.Notes
	}
	h.renderPaymentsPage(w, r, data)
}

// PaymentCreate handles POST to record a payment. On success the member
// selection and its dues panel reset so the form starts clean.
func (h *UIHandlers) PaymentCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[gymapi.PaymentRequest]{
		W:      w,
		R:      r,
		Mode:   FormModeCreate,
		Parser: parsePaymentForm,
		Service: paymentFormCleanup{
			inner: paymentFormService{svc: h.PaymentSvc},
			after: func() { h.duesController(r).Clear() },
		},
		Renderer:     h.renderPaymentFormWithData,
		SuccessURL:   "/payments",
		SuccessToast: "Payment recorded.",
		PageMeta:     paymentsMeta(),
	})
}

// paymentFormCleanup runs a hook after a successful create.
type paymentFormCleanup struct {
	inner paymentFormService
	after func()
}

func (s paymentFormCleanup) Create(ctx context.Context, req gymapi.PaymentRequest) error {
	if err := s.inner.Create(ctx, req); err != nil {
		return err
	}
	if s.after != nil {
		s.after()
	}
	return nil
}

func (s paymentFormCleanup) Update(ctx context.Context, id int, req gymapi.PaymentRequest) error {
	return s.inner.Update(ctx, id, req)
}
