package datasources

import (
	"context"

	"github.com/smartcontent/engine/internal/domain"
)

// PreferenceGetter reads a user's declared preferences. Users with no stored
// preferences get the zero value, not an error; the preference store is an
// external collaborator and this engine only consumes it.
type PreferenceGetter interface {
	GetUserPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
}

// PreferenceSetter stores declared preferences. Used by seeding and tests;
// the engine itself never writes preferences.
type PreferenceSetter interface {
	SetUserPreferences(ctx context.Context, userID string, prefs domain.UserPreferences) error
}

// PreferenceRepository combines the preference operations.
type PreferenceRepository interface {
	PreferenceGetter
	PreferenceSetter
}
