package photometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseFunc_KnownValues(t *testing.T) {
	phi1, err := PhaseFunc(1, math.Pi/4.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.14790968630394927, phi1, 1e-12)

	phi2, err := PhaseFunc(2, math.Pi/4.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5283212147726485, phi2, 1e-12)
}

func TestPhaseFunc_ZeroPhaseAngle(t *testing.T) {
	phi1, err := PhaseFunc(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, phi1)
}

func TestPhaseFunc_InvalidIndex(t *testing.T) {
	_, err := PhaseFunc(3, math.Pi/4.0)
	require.Error(t, err)
}

func TestReducedMag_KnownValues(t *testing.T) {
	red, err := ReducedMag(10.0, math.Pi/4.0, 0.10)
	require.NoError(t, err)
	assert.InDelta(t, 11.826504643588578, red, 1e-12)

	red, err = ReducedMag(10.0, math.Pi/4.0, DefaultSlopeG)
	require.NoError(t, err)
	assert.InDelta(t, 11.720766748872016, red, 1e-12)
}

func TestAppMag_OppositionGeometry(t *testing.T) {
	// Observer and Sun in line behind the object: phase angle zero, so the
	// apparent magnitude is H plus the distance term alone.
	mag, err := AppMag(10.0, [3]float64{-1, 0, 0}, [3]float64{-2, 0, 0}, 0.10)
	require.NoError(t, err)
	assert.InDelta(t, 11.505149978319906, mag, 1e-12)
}

func TestAppMag_ZeroVector(t *testing.T) {
	_, err := AppMag(10.0, [3]float64{0, 0, 0}, [3]float64{-2, 0, 0}, DefaultSlopeG)
	require.Error(t, err)
}

func TestAppMagToIrradiance(t *testing.T) {
	assert.InDelta(t, 1.5887638447672732e-11, AppMagToIrradiance(8.0), 1e-22)

	// Magnitude zero is the zero point itself.
	assert.InDelta(t, 2.518021002e-8, AppMagToIrradiance(0), 1e-18)
}

func TestAppMagToIrradiance_Monotonic(t *testing.T) {
	// Larger magnitudes are fainter.
	assert.Greater(t, AppMagToIrradiance(5.0), AppMagToIrradiance(6.0))
}
