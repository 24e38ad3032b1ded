package solar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSite_Clamp_NightIsFalse(t *testing.T) {
	madrid := Site{Latitude: 40.4168, Longitude: -3.7038}
	assert.False(t, madrid.Clamp("2026-01-01 02:00:00"))
}

func TestSite_Clamp_NoonIsTrue(t *testing.T) {
	madrid := Site{Latitude: 40.4168, Longitude: -3.7038}
	assert.True(t, madrid.Clamp("2026-06-21 12:00:00"))
}

func TestSite_Clamp_MalformedTimestampDefaultsToDaylight(t *testing.T) {
	madrid := Site{Latitude: 40.4168, Longitude: -3.7038}
	assert.True(t, madrid.Clamp("not-a-timestamp"))
}
