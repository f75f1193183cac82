// Package timezone pins every clock reading to APP_TIMEZONE. The location is loaded
// once when the package is imported and falls back to UTC.
package timezone

import (
	"time"

	"inap/config"

	"github.com/rs/zerolog/log"
)

var appLocation = time.UTC

func init() {
	name := config.Get().App.Timezone
	if name == "" {
		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("failed to load timezone, using UTC")

		return
	}

	appLocation = loc
}

func Location() *time.Location {
	return appLocation
}

func Now() time.Time {
	return time.Now().In(appLocation)
}

// Today is the current calendar date in the application timezone, as midnight UTC so it
// compares directly with dates parsed from YYYY-MM-DD.
func Today() time.Time {
	now := Now()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func Format(t time.Time, layout string) string {
	return t.In(appLocation).Format(layout)
}
