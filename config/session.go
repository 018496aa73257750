package config

import "strings"

// SessionConfig contains session store configuration.
type SessionConfig struct {
	// KeyPrefix namespaces persisted session tokens in Redis so the
	// console can share an instance with other services.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"gymconsole:session:"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	s.KeyPrefix = strings.TrimSpace(s.KeyPrefix)
	if s.KeyPrefix == "" {
		s.KeyPrefix = "gymconsole:session:"
	}
}
