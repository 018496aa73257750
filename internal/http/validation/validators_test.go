package validation

import (
	"regexp"
	"testing"
)

const errNameRequired = "Name is required."

func TestRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		maxLen    int
		value     string
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid input",
			fieldName: "Name",
			maxLen:    10,
			value:     "valid",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "Name",
			maxLen:    10,
			value:     "",
			wantErr:   true,
			errMsg:    errNameRequired,
		},
		{
			name:      "whitespace only",
			fieldName: "Name",
			maxLen:    10,
			value:     "   ",
			wantErr:   true,
			errMsg:    errNameRequired,
		},
		{
			name:      "exceeds max length",
			fieldName: "Name",
			maxLen:    5,
			value:     "toolong",
			wantErr:   true,
			errMsg:    "Name cannot exceed 5 characters.",
		},
		{
			name:      "exactly max length",
			fieldName: "Name",
			maxLen:    5,
			value:     "exact",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Required(tt.fieldName, tt.maxLen)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Required() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Required() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("Required() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestRequiredRange(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		min       int
		max       int
		value     string
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid input",
			fieldName: "Name",
			min:       3,
			max:       10,
			value:     "valid",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "Name",
			min:       3,
			max:       10,
			value:     "",
			wantErr:   true,
			errMsg:    errNameRequired,
		},
		{
			name:      "too short",
			fieldName: "Name",
			min:       5,
			max:       10,
			value:     "ab",
			wantErr:   true,
			errMsg:    "Name must be between 5 and 10 characters.",
		},
		{
			name:      "too long",
			fieldName: "Name",
			min:       3,
			max:       5,
			value:     "toolong",
			wantErr:   true,
			errMsg:    "Name must be between 3 and 5 characters.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := RequiredRange(tt.fieldName, tt.min, tt.max)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("RequiredRange() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("RequiredRange() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("RequiredRange() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestIntRange(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		min       int
		max       int
		value     string
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid integer",
			fieldName: "Age",
			min:       1,
			max:       100,
			value:     "50",
			wantErr:   false,
		},
		{
			name:      "below minimum",
			fieldName: "Age",
			min:       10,
			max:       100,
			value:     "5",
			wantErr:   true,
			errMsg:    "Age must be between 10 and 100.",
		},
		{
			name:      "above maximum",
			fieldName: "Age",
			min:       1,
			max:       10,
			value:     "20",
			wantErr:   true,
			errMsg:    "Age must be between 1 and 10.",
		},
		{
			name:      "not a number",
			fieldName: "Age",
			min:       1,
			max:       100,
			value:     "abc",
			wantErr:   true,
			errMsg:    "Age must be a number.",
		},
		{
			name:      "empty string",
			fieldName: "Age",
			min:       1,
			max:       100,
			value:     "",
			wantErr:   true,
			errMsg:    "Age must be a number.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := IntRange(tt.fieldName, tt.min, tt.max)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("IntRange() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("IntRange() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("IntRange() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "plain local number", value: "5551234567", wantErr: false},
		{name: "with country code", value: "+15551234567", wantErr: false},
		{name: "nine digits", value: "555123456", wantErr: false},
		{name: "fifteen digits with plus", value: "+1555123456789", wantErr: false},
		{name: "too short", value: "12345678", wantErr: true},
		{name: "letters", value: "555-CALL-NOW", wantErr: true},
		{name: "dashes rejected", value: "555-123-4567", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Phone("Phone")(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Phone() expected error for %q but got none", tt.value)
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Phone() unexpected error for %q: %v", tt.value, err)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid address", value: "jo@example.com", wantErr: false},
		{name: "empty is allowed", value: "", wantErr: false},
		{name: "missing domain", value: "jo@", wantErr: true},
		{name: "not an address", value: "not-an-email", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email("Email")(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Email() expected error for %q but got none", tt.value)
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Email() unexpected error for %q: %v", tt.value, err)
			}
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid date", value: "2025-06-15", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "wrong layout", value: "15/06/2025", wantErr: true},
		{name: "impossible day", value: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Date("Start date")(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Date() expected error for %q but got none", tt.value)
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Date() unexpected error for %q: %v", tt.value, err)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "whole number", value: "1500", wantErr: false},
		{name: "decimal", value: "49.99", wantErr: false},
		{name: "zero", value: "0", wantErr: true},
		{name: "negative", value: "-10", wantErr: true},
		{name: "not a number", value: "ten", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Amount("Amount")(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Amount() expected error for %q but got none", tt.value)
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Amount() unexpected error for %q: %v", tt.value, err)
			}
		})
	}
}

func TestDateOrder(t *testing.T) {
	const msg = "End date must be after start date."

	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{name: "end after start", start: "2025-01-01", end: "2025-12-31", want: ""},
		{name: "end equals start", start: "2025-01-01", end: "2025-01-01", want: msg},
		{name: "end before start", start: "2025-06-01", end: "2025-01-01", want: msg},
		{name: "unparseable start ignored", start: "garbage", end: "2025-01-01", want: ""},
		{name: "unparseable end ignored", start: "2025-01-01", end: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateOrder(tt.start, tt.end, msg); got != tt.want {
				t.Errorf("DateOrder(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestOneOf(t *testing.T) {
	options := []string{"BASIC", "PREMIUM", "VIP"}

	tests := []struct {
		name    string
		value   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid option exact case",
			value:   "BASIC",
			wantErr: false,
		},
		{
			name:    "valid option different case",
			value:   "premium",
			wantErr: false,
		},
		{
			name:    "invalid option",
			value:   "GOLD",
			wantErr: true,
			errMsg:  "Plan must be one of: BASIC, PREMIUM, VIP",
		},
		{
			name:    "empty string",
			value:   "",
			wantErr: true,
			errMsg:  "Plan must be one of: BASIC, PREMIUM, VIP",
		},
		{
			name:    "whitespace trimmed",
			value:   "  VIP  ",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := OneOf("Plan", options)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("OneOf() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("OneOf() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("OneOf() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestPattern(t *testing.T) {
	alphanumericRe := regexp.MustCompile(`^[A-Za-z0-9]+$`)

	tests := []struct {
		name    string
		value   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "matches pattern",
			value:   "abc123",
			wantErr: false,
		},
		{
			name:    "does not match pattern",
			value:   "abc-123",
			wantErr: true,
			errMsg:  "Name has an invalid format.",
		},
		{
			name:    "empty string allowed",
			value:   "",
			wantErr: false,
		},
		{
			name:    "whitespace trimmed before validation",
			value:   "  abc123  ",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Pattern("Name", alphanumericRe)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Pattern() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Pattern() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("Pattern() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestFieldValidator_SingleField(t *testing.T) {
	fv := New().Validate("name", "test", Required("Name", 10))
	errs := fv.Errors()
	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}
}

func TestFieldValidator_SingleFieldWithError(t *testing.T) {
	fv := New().Validate("name", "", Required("Name", 10))
	errs := fv.Errors()
	if len(errs) != 1 {
		t.Errorf("Expected 1 error, got %d", len(errs))
	}
	if errs["name"] != errNameRequired {
		t.Errorf("Expected %q, got %v", errNameRequired, errs["name"])
	}
}

func TestFieldValidator_MultipleFieldsWithErrors(t *testing.T) {
	fv := New().
		Validate("name", "", Required("Name", 10)).
		Validate("age", "100", IntRange("Age", 1, 10))
	errs := fv.Errors()
	if len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(errs))
	}
	if errs["name"] != errNameRequired {
		t.Errorf("Expected %q, got %v", errNameRequired, errs["name"])
	}
	if errs["age"] != "Age must be between 1 and 10." {
		t.Errorf("Expected 'Age must be between 1 and 10.', got %v", errs["age"])
	}
}

func TestFieldValidator_StopsAtFirstError(t *testing.T) {
	fv := New().Validate("name", "", Required("Name", 10), Pattern("Name", regexp.MustCompile(`^[A-Z]+$`)))
	errs := fv.Errors()
	if len(errs) != 1 {
		t.Errorf("Expected 1 error, got %d", len(errs))
	}
	// Should stop at Required error, not reach Pattern
	if errs["name"] != errNameRequired {
		t.Errorf("Expected %q, got %v", errNameRequired, errs["name"])
	}
}

func TestFieldValidator_Check(t *testing.T) {
	fv := New().
		Validate("end_date", "2025-01-01", Date("End date")).
		Check("end_date", DateOrder("2025-06-01", "2025-01-01", "End date must be after start date."))
	errs := fv.Errors()
	if errs["end_date"] != "End date must be after start date." {
		t.Errorf("Expected cross-field error, got %v", errs)
	}
}

func TestFieldValidator_CheckDoesNotOverwrite(t *testing.T) {
	fv := New().
		Validate("end_date", "garbage", Date("End date")).
		Check("end_date", "End date must be after start date.")
	errs := fv.Errors()
	if errs["end_date"] != "End date must be a date in YYYY-MM-DD format." {
		t.Errorf("Expected per-field error to win, got %v", errs)
	}
}

func TestFieldValidator_EmptyErrors(t *testing.T) {
	fv := New()
	errs := fv.Errors()
	if len(errs) != 0 {
		t.Errorf("Expected empty errors map, got %v", errs)
	}
}
