package timezone_test

import (
	"testing"
	"time"

	"inap/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.Equal(t, timezone.Location(), now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestToday(t *testing.T) {
	today := timezone.Today()
	now := timezone.Now()

	assert.Equal(t, time.UTC, today.Location())
	assert.Equal(t, now.Day(), today.Day())
	assert.Zero(t, today.Hour())
	assert.Zero(t, today.Minute())
}

func TestFormat(t *testing.T) {
	instant := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, instant.In(timezone.Location()).Format(time.RFC3339), timezone.Format(instant, time.RFC3339))
}
