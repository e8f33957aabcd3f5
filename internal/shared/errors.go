package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrAPIRequest          = fmt.Errorf("API request failed")
	ErrServiceUnavailable  = fmt.Errorf("service unavailable")
	ErrRateLimitExceeded   = fmt.Errorf("rate limit wait budget exceeded")
	ErrUnsupportedService  = fmt.Errorf("unsupported service")
	ErrNoMatchFound        = fmt.Errorf("no matching artist found")
	ErrInvalidChoice       = fmt.Errorf("invalid choice")
	ErrChoiceCancelled     = fmt.Errorf("selection cancelled")
	ErrPlayableUnavailable = fmt.Errorf("release has no playable unit")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
