package config

import "time"

// APIConfig contains configuration for the upstream GymFlow API.
type APIConfig struct {
	// BaseURL is the origin of the GymFlow API, including the path
	// prefix (e.g., "https://api.gymflow.example/api").
	BaseURL string `env:"GYM_API_URL" envDefault:"http://localhost:8000/api"`

	// Timeout bounds each upstream request.
	Timeout time.Duration `env:"GYM_API_TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	if a.Timeout <= 0 {
		a.Timeout = 15 * time.Second
	}
}
