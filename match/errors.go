package match

import "fmt"

// ValidationError reports a structurally invalid profile (bad budget range,
// underage, inverted move-in window). It aborts matching for that one profile
// only; the rest of the pool is still evaluated.
type ValidationError struct {
	ProfileID string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid profile %s: %s: %s", e.ProfileID, e.Field, e.Reason)
}

// ConfigurationError reports an unusable weight table. It is raised before any
// scoring happens and fails the whole invocation.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "match configuration: " + e.Reason
}
