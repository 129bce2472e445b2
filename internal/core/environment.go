package core

import "strings"

// Environment is the deployment environment the service runs in, taken from
// APP_ENV. It gates log verbosity and output format.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the service runs in production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// IsDevelopment reports whether the service runs locally.
func (e Environment) IsDevelopment() bool {
	return e == Development
}

// ParseEnvironment maps an APP_ENV value to a known environment. Matching is
// case-insensitive and accepts the usual short forms; anything unrecognized
// falls back to Development so a misconfigured box stays verbose rather than
// silent.
func ParseEnvironment(v string) Environment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	case "testing", "test":
		return Testing
	default:
		return Development
	}
}
