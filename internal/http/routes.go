package httpx

import (
	"bytes"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	console "github.com/gymflow/console"
	"github.com/gymflow/console/internal/forms"
	"github.com/gymflow/console/internal/gymapi"
	"github.com/gymflow/console/internal/session"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	API      *gymapi.Client
	Sessions *session.Manager
	// Per-browser derived-selection state for the payment and trainer
	// payout forms.
	DuesSelections    *forms.Registry[int, gymapi.OutstandingDues]
	TrainerSelections *forms.Registry[int, []gymapi.TrainerPayment]
	CookieDomain      string
	// CompressionEnabled turns on gzip for compressible responses.
	CompressionEnabled bool
	// CompressionLevel is the gzip level when compression is enabled.
	CompressionLevel int
	IsDev            bool         // Development mode flag for hot reloading, etc.
	Logger           *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures the console's HTTP handler.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	uiHandlers := setupUIHandlers(services)
	var authHandlers *AuthHandlers
	if uiHandlers != nil {
		authHandlers = &AuthHandlers{
			T:        uiHandlers.T,
			Sessions: services.Sessions,
			Register: services.API,
			FormState: []sessionDropper{
				services.DuesSelections,
				services.TrainerSelections,
			},
			Logger: services.Logger,
		}
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	if authHandlers != nil {
		registerAuthRoutes(mux, authHandlers)
	}
	if uiHandlers != nil {
		cfg := uiRouteConfig{Sessions: services.Sessions, CookieDomain: services.CookieDomain}
		registerUIRoutes(mux, uiHandlers, cfg)
	}

	// Wrap with NotFound handling, then the shared middleware chain.
	var handler http.Handler = &notFoundHandler{mux: mux, uiHandlers: uiHandlers}
	handler = BrowserDetection()(handler)
	handler = AuthContext(services.Sessions)(handler)
	handler = BrowserSession()(handler)
	if services.CompressionEnabled {
		handler = Compression(CompressionConfig{
			Level:  services.CompressionLevel,
			Logger: routerLogger(services),
		})(handler)
	}
	handler = Logging(routerLogger(services))(handler)
	handler = RequestID()(handler)
	handler = Recover(routerLogger(services))(handler)
	return handler
}

func routerLogger(services RouterServices) *slog.Logger {
	if services.Logger != nil {
		return services.Logger
	}
	return slog.Default()
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte("ok"))
	}
}

// setupUIHandlers creates UI handlers with the template renderer.
// In dev mode templates load from disk for hot reloading; in production
// they come from the embedded FS.
func setupUIHandlers(services RouterServices) *UIHandlers {
	var templateFS fs.FS
	if services.IsDev {
		templateFS = os.DirFS(TemplatePathFromRoot)
	} else {
		sub, err := fs.Sub(console.TemplateFS, "frontend/templates")
		if err != nil {
			log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
			sub = os.DirFS(TemplatePathFromRoot)
		}
		templateFS = sub
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Logger:     services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}

	return &UIHandlers{
		T:                 tr,
		MemberSvc:         services.API,
		PaymentSvc:        services.API,
		TrainerSvc:        services.API,
		GymSvc:            services.API,
		DashboardSvc:      services.API,
		DuesSelections:    services.DuesSelections,
		TrainerSelections: services.TrainerSelections,
		IsDev:             services.IsDev,
		Logger:            services.Logger,
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.LoginPage)
	mux.HandleFunc("POST /auth/login", h.LoginSubmit)
	mux.HandleFunc("GET /auth/register", h.RegisterPage)
	mux.HandleFunc("POST /auth/register", h.RegisterSubmit)
	mux.HandleFunc("POST /auth/logout", h.Logout)

	// Short aliases used by bookmarks and older links.
	mux.Handle("GET /login", redirectTo("/auth/login"))
	mux.Handle("GET /register", redirectTo("/auth/register"))
}

func redirectTo(target string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dest := target
		if r.URL.RawQuery != "" {
			dest += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, dest, http.StatusSeeOther)
	})
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Sessions     *session.Manager
	CookieDomain string
}

// authWrap gates a page on an active session.
func (cfg uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	if cfg.Sessions == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return RequireAuthBrowser(cfg.Sessions)
}

// writeWrap chains CSRF protection onto the auth gate for
// state-changing routes.
func (cfg uiRouteConfig) writeWrap() func(http.Handler) http.Handler {
	auth := cfg.authWrap()
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	return func(h http.Handler) http.Handler {
		return auth(csrf(h))
	}
}

// registerUIRoutes delegates to per-domain UI route registration functions.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	registerUIDashboardRoutes(mux, h, cfg)
	registerUIMemberRoutes(mux, h, cfg)
	registerUIPaymentRoutes(mux, h, cfg)
	registerUITrainerRoutes(mux, h, cfg)
	registerUIGymRoutes(mux, h, cfg)
}

func registerUIDashboardRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /", wrap(http.HandlerFunc(h.Home)))
	mux.Handle("GET /dashboard", wrap(http.HandlerFunc(h.DashboardHome)))
}

func registerUIMemberRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	wrapWrite := cfg.writeWrap()
	mux.Handle("GET /members", wrap(http.HandlerFunc(h.Members)))
	mux.Handle("GET /members/new", wrap(http.HandlerFunc(h.MemberNew)))
	mux.Handle("GET /members/{id}/edit", wrap(http.HandlerFunc(h.MemberEdit)))
	mux.Handle("POST /members", wrapWrite(http.HandlerFunc(h.MemberCreate)))
	mux.Handle("POST /members/{id}", wrapWrite(http.HandlerFunc(h.MemberUpdate)))
	mux.Handle("POST /members/{id}/delete", wrapWrite(http.HandlerFunc(h.MemberDelete)))
}

func registerUIPaymentRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	wrapWrite := cfg.writeWrap()
	mux.Handle("GET /payments", wrap(http.HandlerFunc(h.Payments)))
	mux.Handle("GET /payments/dues-preview", wrap(http.HandlerFunc(h.DuesPreview)))
	mux.Handle("POST /payments", wrapWrite(http.HandlerFunc(h.PaymentCreate)))
}

func registerUITrainerRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	wrapWrite := cfg.writeWrap()
	mux.Handle("GET /trainers", wrap(http.HandlerFunc(h.Trainers)))
	mux.Handle("GET /trainers/new", wrap(http.HandlerFunc(h.TrainerNew)))
	mux.Handle("GET /trainers/{id}/edit", wrap(http.HandlerFunc(h.TrainerEdit)))
	mux.Handle("POST /trainers", wrapWrite(http.HandlerFunc(h.TrainerCreate)))
	mux.Handle("POST /trainers/{id}", wrapWrite(http.HandlerFunc(h.TrainerUpdate)))
	mux.Handle("POST /trainers/{id}/delete", wrapWrite(http.HandlerFunc(h.TrainerDelete)))

	mux.Handle("GET /trainers/payments", wrap(http.HandlerFunc(h.TrainerPayments)))
	mux.Handle("GET /trainers/payments/history", wrap(http.HandlerFunc(h.TrainerHistory)))
	mux.Handle("POST /trainers/payments", wrapWrite(http.HandlerFunc(h.TrainerPaymentCreate)))
}

func registerUIGymRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	wrapWrite := cfg.writeWrap()
	mux.Handle("GET /gym", wrap(http.HandlerFunc(h.GymProfile)))
	mux.Handle("POST /gym", wrapWrite(http.HandlerFunc(h.GymCreate)))
	mux.Handle("POST /gym/{id}", wrapWrite(http.HandlerFunc(h.GymUpdate)))
}

// staticHandler serves /static/* assets.
func staticHandler(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(
			http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}

	staticSub, err := fs.Sub(console.StaticFS, "frontend/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		return staticWithCacheHeaders(
			http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

// staticWithCacheHeaders adds cache headers to static responses. Assets
// ship unhashed, so they get a short max-age rather than immutable.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter(w)
	// Serve the request through the mux, capturing status, headers, and body
	h.mux.ServeHTTP(cw, r)

	// If the mux didn't handle the request (404), use our custom handler
	if cw.status == http.StatusNotFound {
		// For missing static assets, preserve the default file server response
		if strings.HasPrefix(r.URL.Path, "/static/") {
			cw.flushTo(w)
			return
		}
		if h.uiHandlers != nil {
			h.uiHandlers.NotFound(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	// Not a 404: write the captured response
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}
