package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gymflow/console/internal/forms"
	"github.com/gymflow/console/internal/gymapi"
	"github.com/gymflow/console/internal/http/validation"
	"github.com/gymflow/console/internal/session"
)

// SessionService defines the session operations the auth handlers need.
type SessionService interface {
	Login(ctx context.Context, username, password string) session.LoginResult
	Logout(ctx context.Context)
	Authenticated() bool
}

// Registrar creates new accounts against the API.
type Registrar interface {
	Register(ctx context.Context, req gymapi.RegisterRequest) error
}

// sessionDropper is the slice of a forms registry used at logout.
type sessionDropper interface {
	Drop(sessionID string)
}

// AuthHandlers provides HTTP handlers for login, logout, and registration.
type AuthHandlers struct {
	T        *TemplateRenderer
	Sessions SessionService
	Register Registrar
	// FormState lists the per-browser form registries flushed at logout
	// so a later login starts from a clean slate.
	FormState []sessionDropper
	Logger    *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the login form.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.Sessions.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, loginPageData{
		RedirectURI: safeLoginRedirect(r.URL.Query().Get("redirect_uri")),
	})
}

// LoginSubmit validates credentials against the API and establishes the
// console session.
// POST /auth/login.
func (h *AuthHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	redirectURI := safeLoginRedirect(r.PostFormValue("redirect_uri"))

	if username == "" || password == "" {
		h.renderLogin(w, r, loginPageData{
			Username:    username,
			RedirectURI: redirectURI,
			Error:       "Username and password are required.",
		})
		return
	}

	result := h.Sessions.Login(r.Context(), username, password)
	if !result.Success {
		h.logger().Info("login rejected", "username", username)
		h.renderLogin(w, r, loginPageData{
			Username:    username,
			RedirectURI: redirectURI,
			Error:       result.Error,
		})
		return
	}

	h.logger().Info("login succeeded", "username", username)
	if IsHTMX(r) {
		SetHXRedirect(w, redirectURI)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

// Logout drops the session and any per-browser form state.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(r.Context())

	if sid := GetBrowserSessionID(r.Context()); sid != "" {
		for _, reg := range h.FormState {
			reg.Drop(sid)
		}
	}

	if IsHTMX(r) {
		SetHXRedirect(w, "/auth/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// RegisterPage renders the account registration form.
// GET /auth/register.
func (h *AuthHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.Sessions.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderRegister(w, r, registerPageData{})
}

// RegisterSubmit creates a new gym-owner account. Registration never
// logs the account in; on success the browser lands on the login page.
// POST /auth/register.
func (h *AuthHandlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	req := gymapi.RegisterRequest{
		Username:  strings.TrimSpace(r.PostFormValue("username")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Password:  r.PostFormValue("password"),
		Password2: r.PostFormValue("password2"),
		Phone:     strings.TrimSpace(r.PostFormValue("phone")),
	}

	fv := validation.New().
		Validate("username", req.Username, validation.RequiredRange("Username", 3, 150)).
		Validate("email", req.Email, validation.Required("Email", 254), validation.Email("Email")).
		Validate("password", req.Password, validation.RequiredRange("Password", 8, 128))
	if req.Phone != "" {
		fv.Validate("phone", req.Phone, validation.Phone("Phone"))
	}
	if req.Password2 != req.Password {
		fv.Check("password2", "Passwords do not match.")
	}

	if errs := fv.Errors(); len(errs) > 0 {
		h.renderRegister(w, r, registerPageData{Request: req, Errors: errs})
		return
	}

	if err := h.Register.Register(r.Context(), req); err != nil {
		h.renderRegister(w, r, registerErrorData(req, err))
		return
	}

	target := "/auth/login"
	if IsHTMX(r) {
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type loginPageData struct {
	Username    string
	RedirectURI string
	Error       string
}

func (h *AuthHandlers) renderLogin(w http.ResponseWriter, r *http.Request, p loginPageData) {
	builder := NewTemplateData(r, PageMeta{
		Title:       "Sign In",
		PageTitle:   "Sign In",
		CurrentPage: PageLogin,
	}).
		With("Username", p.Username).
		With("RedirectURI", p.RedirectURI)
	if p.Error != "" {
		builder.WithError(p.Error)
	}
	if err := h.T.RenderFull(w, r, builder.Build()); err != nil {
		h.logger().Error("login page render failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

type registerPageData struct {
	Request gymapi.RegisterRequest
	Errors  map[string]string
	Error   string
}

// registerErrorData maps an API failure back onto the registration form.
func registerErrorData(req gymapi.RegisterRequest, err error) registerPageData {
	data := registerPageData{Request: req}
	if apiErr, ok := gymapi.AsAPIError(err); ok {
		if len(apiErr.FieldErrors) > 0 {
			data.Errors = make(map[string]string, len(apiErr.FieldErrors))
			for field, msgs := range apiErr.FieldErrors {
				data.Errors[field] = strings.Join(msgs, " ")
			}
			data.Error = errMsgFixBelow
			return data
		}
		if msg := apiErr.Message(); msg != "" {
			data.Error = msg
			return data
		}
	}
	data.Error = "Registration failed. Please try again."
	return data
}

func (h *AuthHandlers) renderRegister(w http.ResponseWriter, r *http.Request, p registerPageData) {
	if p.Errors == nil {
		p.Errors = map[string]string{}
	}
	builder := NewTemplateData(r, PageMeta{
		Title:       "Create Account",
		PageTitle:   "Create Account",
		CurrentPage: PageRegister,
	}).
		With("FormData", p.Request).
		WithFieldErrors(p.Errors)
	if p.Error != "" {
		builder.WithError(p.Error)
	}
	if err := h.T.RenderFull(w, r, builder.Build()); err != nil {
		h.logger().Error("register page render failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// safeLoginRedirect accepts only same-site absolute paths, defaulting to "/".
func safeLoginRedirect(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") ||
		strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return candidate
}

// Ensure the forms registries satisfy sessionDropper.
var (
	_ sessionDropper = (*forms.Registry[int, gymapi.OutstandingDues])(nil)
	_ sessionDropper = (*forms.Registry[int, []gymapi.TrainerPayment])(nil)
)
