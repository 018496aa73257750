package httpx

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gymflow/console/internal/forms"
	"github.com/gymflow/console/internal/gymapi"
	"github.com/gymflow/console/internal/http/ui/viewmodel"
)

const errMsgFixBelow = "Please fix the errors below."

// MembersAPI is the slice of the API client the members UI needs.
type MembersAPI interface {
	ListMembers(ctx context.Context, page gymapi.Page) ([]gymapi.Member, int, error)
	SearchMembers(ctx context.Context, search gymapi.MemberSearch, page gymapi.Page) ([]gymapi.Member, int, error)
	GetMember(ctx context.Context, id int) (gymapi.Member, error)
	CreateMember(ctx context.Context, req gymapi.MemberRequest) (gymapi.Member, error)
	UpdateMember(ctx context.Context, id int, req gymapi.MemberRequest) (gymapi.Member, error)
	DeleteMember(ctx context.Context, id int) error
	AllMembers(ctx context.Context) ([]gymapi.Member, error)
}

// PaymentsAPI is the slice of the API client the payments UI needs.
type PaymentsAPI interface {
	ListPayments(ctx context.Context, page gymapi.Page) ([]gymapi.Payment, int, error)
	CreatePayment(ctx context.Context, req gymapi.PaymentRequest) (gymapi.Payment, error)
	MemberPayments(ctx context.Context, memberID int) ([]gymapi.Payment, error)
	OutstandingDues(ctx context.Context, memberID int) (gymapi.OutstandingDues, error)
}

// TrainersAPI is the slice of the API client the trainers UI needs.
type TrainersAPI interface {
	ListTrainers(ctx context.Context, page gymapi.Page) ([]gymapi.Trainer, int, error)
	GetTrainer(ctx context.Context, id int) (gymapi.Trainer, error)
	CreateTrainer(ctx context.Context, req gymapi.TrainerRequest) (gymapi.Trainer, error)
	UpdateTrainer(ctx context.Context, id int, req gymapi.TrainerRequest) (gymapi.Trainer, error)
	DeleteTrainer(ctx context.Context, id int) error
	AllTrainers(ctx context.Context) ([]gymapi.Trainer, error)
	TrainerPayments(ctx context.Context, trainerID int) ([]gymapi.TrainerPayment, error)
	CreateTrainerPayment(ctx context.Context, req gymapi.TrainerPaymentRequest) (gymapi.TrainerPayment, error)
}

// GymAPI is the slice of the API client the gym profile UI needs.
type GymAPI interface {
	MyGym(ctx context.Context) (gymapi.Gym, error)
	CreateGym(ctx context.Context, req gymapi.GymRequest) (gymapi.Gym, error)
	UpdateGym(ctx context.Context, id int, req gymapi.GymRequest) (gymapi.Gym, error)
}

// DashboardAPI is the slice of the API client the dashboard needs.
type DashboardAPI interface {
	DashboardStats(ctx context.Context) (gymapi.DashboardStats, error)
}

// Compile-time assertions that the concrete client satisfies the UI interfaces.
var (
	_ MembersAPI   = (*gymapi.Client)(nil)
	_ PaymentsAPI  = (*gymapi.Client)(nil)
	_ TrainersAPI  = (*gymapi.Client)(nil)
	_ GymAPI       = (*gymapi.Client)(nil)
	_ DashboardAPI = (*gymapi.Client)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	MemberSvc    MembersAPI
	PaymentSvc   PaymentsAPI
	TrainerSvc   TrainersAPI
	GymSvc       GymAPI
	DashboardSvc DashboardAPI

	// DuesSelections holds the per-browser member selection on the
	// payment form and its fetched dues summary.
	DuesSelections *forms.Registry[int, gymapi.OutstandingDues]
	// TrainerSelections holds the per-browser trainer selection on the
	// trainer payout form and that trainer's payout history.
	TrainerSelections *forms.Registry[int, []gymapi.TrainerPayment]

	IsDev  bool // Development mode flag for enhanced error reporting
	Logger *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// getPageParams parses pagination params from URL query with sane defaults.
func getPageParams(q url.Values) (int, int) {
	page := 1
	pageSize := 10
	if p := q.Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	if s := q.Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}

// pageOpts represents pagination options for list views.
type pageOpts struct {
	Page     int
	PageSize int
}

// apiPage converts UI pagination to the API's page parameters.
func (p pageOpts) apiPage() gymapi.Page {
	return gymapi.Page{Number: p.Page, Size: p.PageSize}
}

// deleteHandlerOpts encapsulates common delete-handling behavior for UI endpoints.
type deleteHandlerOpts struct {
	Delete       func(ctx context.Context, id int) error
	RedirectPath string
	SuccessToast string
}

// handleDelete coordinates delete flows shared across UI handlers. A
// 404 from the API means another operator already removed the record,
// which counts as done.
func (h *UIHandlers) handleDelete(w http.ResponseWriter, r *http.Request, opts deleteHandlerOpts) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		h.NotFound(w, r)
		return
	}

	if err := opts.Delete(r.Context(), id); err != nil {
		var apiErr *gymapi.APIError
		if !errors.As(err, &apiErr) || !apiErr.IsNotFound() {
			h.logger().Error("delete failed", "path", r.URL.Path, "error", err)
			http.Error(w, "Unable to delete. Please try again.", http.StatusInternalServerError)
			return
		}
	}

	if opts.SuccessToast != "" {
		triggerToast(w, opts.SuccessToast, "success")
	}
	HTMX(w).Redirect(opts.RedirectPath)
}

// triggerToast sends a standardized HX-Trigger payload for toast notifications.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	HTMX(w).Trigger("showToast", map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	})
}

// FormFrameOpts captures the parameters required to normalize common form data.
type FormFrameOpts struct {
	R           *http.Request
	Data        map[string]any
	DefaultMode FormMode
	MetaForMode func(FormMode) PageMeta
}

// prepareFormFrame normalizes common form rendering fields (Errors, Mode, base layout).
func prepareFormFrame(opts FormFrameOpts) (map[string]any, FormMode) {
	data := opts.Data
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Errors"]; !ok || data["Errors"] == nil {
		data["Errors"] = map[string]string{}
	}

	mode := resolveFormMode(data["Mode"], opts.DefaultMode)
	data["Mode"] = string(mode)

	if opts.MetaForMode != nil && opts.R != nil {
		maps.Copy(data, basePageData(opts.R, opts.MetaForMode(mode)))
	}

	return data, mode
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// resolveFormMode coerces assorted Mode representations to a FormMode value.
func resolveFormMode(raw any, fallback FormMode) FormMode {
	switch v := raw.(type) {
	case FormMode:
		if v != "" {
			return v
		}
	case string:
		candidate := FormMode(strings.TrimSpace(v))
		if candidate != "" {
			return candidate
		}
	}
	return fallback
}

// buildPageURL returns a URL with page and page_size set, preserving other query params.
func buildPageURL(basePath string, q url.Values, p pageOpts) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		// drop transient/htmx params and empty keys
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		tmp := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tmp = append(tmp, s)
			}
		}
		if len(tmp) > 0 {
			qq[k] = tmp
		}
	}
	qq.Set("page", strconv.Itoa(p.Page))
	qq.Set("page_size", strconv.Itoa(p.PageSize))
	if enc := qq.Encode(); enc != "" {
		return basePath + "?" + enc
	}
	return basePath
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
	}

	if csrfToken := GetCSRFToken(r); csrfToken != "" {
		layout.CSRFToken = csrfToken
	}
	layout.IsAuthenticated = IsAuthenticatedRequest(r)

	return layout
}

// basePageData constructs the common page data map.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
	}
	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			h.logger().Error("page fetch failed", "path", r.URL.Path, "error", err)
			markPageError(data, err)
		}
	}
	h.renderConsolePage(w, r, data)
}

// renderConsolePage renders a console page with htmx partial support.
// Partial responses include a <title> element and an out-of-band header
// swap so document chrome stays in sync with the content swap.
func (h *UIHandlers) renderConsolePage(w http.ResponseWriter, r *http.Request, data any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	layout := extractLayoutInfo(data)

	safeDocTitle := html.EscapeString(layout.Title)
	if _, err := w.Write([]byte(`<title>` + safeDocTitle + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}

	safeTitle := html.EscapeString(layout.PageTitle)
	if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + safeTitle + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}

	if err := h.T.t.ExecuteTemplate(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// renderFragment renders a named partial template directly, used for
// htmx endpoints that update one region of a page.
func (h *UIHandlers) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.T.t.ExecuteTemplate(w, name, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "fragment render")
	}
}

// markPageError records a display error, surfacing the API's own
// message when one exists.
func markPageError(data map[string]any, err error) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	var apiErr *gymapi.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			data["ErrorMessage"] = msg
			return
		}
	}
	data["ErrorMessage"] = "An unexpected error occurred. Please try again."
}

func extractLayoutInfo(data any) viewmodel.Layout {
	if provider, ok := data.(viewmodel.LayoutProvider); ok {
		if layout := provider.LayoutData(); layout != nil {
			return *layout
		}
	}
	if layout, ok := data.(viewmodel.Layout); ok {
		return layout
	}
	if layout, ok := data.(*viewmodel.Layout); ok && layout != nil {
		return *layout
	}
	return layoutFromMap(data)
}

func layoutFromMap(data any) viewmodel.Layout {
	m, ok := data.(map[string]any)
	if !ok {
		return viewmodel.Layout{}
	}

	layout := viewmodel.Layout{}
	if v, ok := m["Title"].(string); ok {
		layout.Title = v
	}
	if v, ok := m["PageTitle"].(string); ok {
		layout.PageTitle = v
	}
	if v, ok := m["CurrentPage"].(string); ok {
		layout.CurrentPage = v
	}
	return layout
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		contextHTML := html.EscapeString(context)
		if _, writeErr := w.Write([]byte(`
			<div style="padding: 20px; background: #fee; border: 2px solid #c33; border-radius: 4px; margin: 20px; font-family: monospace;">
				<h2 style="color: #c33; margin-top: 0;">Template Rendering Error</h2>
				<p><strong>Context:</strong> ` + contextHTML + `</p>
				<p><strong>Path:</strong> ` + pathHTML + `</p>
				<pre style="background: #fff; padding: 10px; border: 1px solid #ccc; overflow-x: auto;">` + errHTML + `</pre>
			</div>
		`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// NotFound renders the not-found page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	data := NewTemplateData(r, PageMeta{
		Title:     "Not Found",
		PageTitle: "Page Not Found",
	}).With("Status", http.StatusNotFound).Build()
	if err := h.T.RenderError(w, r, data); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
	}
}
