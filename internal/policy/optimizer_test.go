package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSlope covers spec scenario E4.
func TestSlope(t *testing.T) {
	assert.InDelta(t, 0.72134752*0.6931471805599453+0.5, slope(2, 1), 1e-6)
	assert.InDelta(t, 0, slope(0, 0), 1e-9)
	assert.InDelta(t, 3, slope(0, 3), 1e-9)
	assert.InDelta(t, -3, slope(3, 0), 1e-9)
}

func TestSituation_EncodeIsStableAcrossFieldOrder(t *testing.T) {
	s := Situation{Surplus: true, GenerationLow: true}
	encoded := s.encode()
	assert.Equal(t, Situation{GenerationLow: true, Surplus: true}.encode(), encoded)
	assert.NotEqual(t, Situation{}.encode(), encoded)
}
