package features

import (
	"alumninet/backend/pkg/config"
)

// IsEnabled reports whether a feature toggle is on. Toggle names match the
// environment variable name without the FEATURE_ prefix, case-sensitive
// (e.g. FEATURE_EXTERNAL_SEARCH=true -> IsEnabled("EXTERNAL_SEARCH")).
// An undefined feature is disabled.
func IsEnabled(featureName string) bool {
	if config.Cfg.FeatureToggles == nil {
		return false
	}
	enabled, exists := config.Cfg.FeatureToggles[featureName]
	if !exists {
		return false
	}
	return enabled
}

// GetFeatureToggleState returns the state of a toggle and whether it was
// configured at all, for callers that need to distinguish "explicitly off"
// from "not set".
func GetFeatureToggleState(featureName string) (enabled bool, exists bool) {
	if config.Cfg.FeatureToggles == nil {
		return false, false
	}
	enabled, exists = config.Cfg.FeatureToggles[featureName]
	return enabled, exists
}
