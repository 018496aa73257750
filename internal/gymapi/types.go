package gymapi

// Package gymapi contains wire types for the remote GymFlow API.
// Dates travel as ISO "2006-01-02" strings end to end; the console
// never does date arithmetic, it only displays and forwards them.

// TokenPair is the credential pair issued by POST /api/auth/login/.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterRequest creates a new gym-owner account.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Phone     string `json:"phone,omitempty"`
}

// Member plan types and statuses as defined by the remote API.
const (
	PlanTypeGeneral = "GENERAL"
	PlanTypePT      = "PT"

	MemberStatusActive  = "ACTIVE"
	MemberStatusExpired = "EXPIRED"
	MemberStatusFrozen  = "FROZEN"
)

// PaymentModes accepted for member and trainer payments.
var PaymentModes = []string{"Cash", "UPI", "Online"}

// Member is a gym member record.
type Member struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	PlanType        string `json:"plan_type"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Status          string `json:"status"`
	AssignedTrainer string `json:"assigned_trainer,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// MemberRequest is the create/update payload for a member.
type MemberRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	PlanType        string `json:"plan_type"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Status          string `json:"status"`
	AssignedTrainer string `json:"assigned_trainer,omitempty"`
}

// MemberSearch holds filters for GET /api/members/search/.
type MemberSearch struct {
	Query    string
	PlanType string
	Status   string
}

// Payment is a member payment record.
type Payment struct {
	ID          int     `json:"id"`
	Member      int     `json:"member"`
	MemberName  string  `json:"member_name,omitempty"`
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"payment_mode"`
	PaymentDate string  `json:"payment_date"`
	Notes       string  `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// PaymentRequest is the create payload for a payment. Amount and Member
// are numeric on the wire, never strings.
type PaymentRequest struct {
	Member      int     `json:"member"`
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"payment_mode"`
	PaymentDate string  `json:"payment_date"`
	Notes       string  `json:"notes,omitempty"`
}

// OutstandingDues is the server-computed dues summary for one member.
type OutstandingDues struct {
	MemberID        int     `json:"member_id"`
	MemberName      string  `json:"member_name"`
	PlanPrice       float64 `json:"plan_price"`
	TotalPayments   float64 `json:"total_payments"`
	OutstandingDues float64 `json:"outstanding_dues"`
}

// Trainer is a trainer record.
type Trainer struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	Phone             string  `json:"phone,omitempty"`
	Specialization    string  `json:"specialization,omitempty"`
	SalaryType        string  `json:"salary_type"`
	BaseSalary        float64 `json:"base_salary"`
	CommissionPercent float64 `json:"commission_percent"`
	IsActive          bool    `json:"is_active"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

// TrainerRequest is the create/update payload for a trainer.
type TrainerRequest struct {
	Name              string  `json:"name"`
	Phone             string  `json:"phone,omitempty"`
	Specialization    string  `json:"specialization,omitempty"`
	SalaryType        string  `json:"salary_type"`
	BaseSalary        float64 `json:"base_salary"`
	CommissionPercent float64 `json:"commission_percent"`
	IsActive          bool    `json:"is_active"`
}

// TrainerPayment is a payout made to a trainer.
type TrainerPayment struct {
	ID          int     `json:"id"`
	Trainer     int     `json:"trainer"`
	TrainerName string  `json:"trainer_name,omitempty"`
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"payment_mode"`
	PaymentDate string  `json:"payment_date"`
	Notes       string  `json:"notes,omitempty"`
}

// TrainerPaymentRequest is the create payload for a trainer payout.
type TrainerPaymentRequest struct {
	Trainer     int     `json:"trainer"`
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"payment_mode"`
	PaymentDate string  `json:"payment_date"`
	Notes       string  `json:"notes,omitempty"`
}

// Gym is the gym profile record. The console treats the first gym
// returned by the API as the operator's gym (single-tenant).
type Gym struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Description  string `json:"description,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
}

// GymRequest is the create/update payload for a gym profile.
type GymRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Description  string `json:"description,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
}

// RecentPayment is the abbreviated payment shape on the dashboard.
type RecentPayment struct {
	ID          int     `json:"id"`
	MemberName  string  `json:"member_name"`
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"payment_mode"`
	PaymentDate string  `json:"payment_date"`
}

// ExpiringMember is a membership ending within the reminder window.
type ExpiringMember struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	EndDate  string `json:"end_date"`
	PlanType string `json:"plan_type"`
}

// DashboardStats is the aggregate payload from the dashboard endpoint.
type DashboardStats struct {
	TotalMembers   int              `json:"total_members"`
	ActiveMembers  int              `json:"active_members"`
	ExpiredMembers int              `json:"expired_members"`
	FrozenMembers  int              `json:"frozen_members"`
	MonthlyRevenue float64          `json:"monthly_revenue"`
	PTRevenue      float64          `json:"pt_revenue"`
	GeneralRevenue float64          `json:"general_revenue"`
	RecentPayments []RecentPayment  `json:"recent_payments"`
	ExpiringSoon   []ExpiringMember `json:"expiring_soon"`
}
