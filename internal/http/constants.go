package httpx

// CurrentPage constants identify pages for navigation state and the
// content template lookup. UI handlers and templates share these.
const (
	PageHome      = "home"
	PageDashboard = "dashboard"

	// Member pages.
	PageMembers    = "members"
	PageMemberForm = "member-form"

	// Payment pages.
	PagePayments = "payments"

	// Trainer pages.
	PageTrainers        = "trainers"
	PageTrainerForm     = "trainer-form"
	PageTrainerPayments = "trainer-payments"

	// Gym profile page.
	PageGymProfile = "gym-profile"

	// Auth pages.
	PageLogin    = "login"
	PageRegister = "register"
)

// MaxSelectOptions caps how many records are fetched for select
// dropdowns (member picker on the payment form, trainer picker).
const MaxSelectOptions = 1000

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:            "dashboard-content",
	PageDashboard:       "dashboard-content",
	PageMembers:         "members-content",
	PageMemberForm:      "member-form-content",
	PagePayments:        "payments-content",
	PageTrainers:        "trainers-content",
	PageTrainerForm:     "trainer-form-content",
	PageTrainerPayments: "trainer-payments-content",
	PageGymProfile:      "gym-profile-content",
	PageLogin:           "login-content",
	PageRegister:        "register-content",
}

// ContentTemplateFor returns the content template for the given
// CurrentPage, falling back to the dashboard for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
