// Package photometry implements the H-G visual magnitude system for asteroids:
// the phase function, reduced magnitude, apparent magnitude as seen from an
// observer, and the conversion from apparent magnitude to irradiance.
package photometry

import (
	"fmt"
	"math"
)

// DefaultSlopeG is the slope parameter applied for asteroids with an unknown
// G; it fits most asteroids well.
const DefaultSlopeG = 0.15

// zeroPointIrradiance is the apparent bolometric magnitude zero point in
// W/m^2, per IAU 2015 resolution B2.
const zeroPointIrradiance = 2.518021002e-8

// PhaseFunc evaluates the H-G phase function of the given version (1 or 2)
// at a phase angle in radians.
func PhaseFunc(index int, phaseAngle float64) (float64, error) {
	var a, b float64
	switch index {
	case 1:
		a, b = 3.33, 0.63
	case 2:
		a, b = 1.87, 1.22
	default:
		return 0, fmt.Errorf("phase function index must be 1 or 2, got %d", index)
	}
	return math.Exp(-a * math.Pow(math.Tan(0.5*phaseAngle), b)), nil
}

// ReducedMag computes the reduced magnitude of an object from its absolute
// magnitude, phase angle in radians, and slope parameter G in (0, 1).
func ReducedMag(absMag, phaseAngle, slopeG float64) (float64, error) {
	phi1, err := PhaseFunc(1, phaseAngle)
	if err != nil {
		return 0, err
	}
	phi2, err := PhaseFunc(2, phaseAngle)
	if err != nil {
		return 0, err
	}
	return absMag - 2.5*math.Log10((1.0-slopeG)*phi1+slopeG*phi2), nil
}

// AppMag computes the apparent magnitude of an asteroid from its absolute
// magnitude and the vectors from the object to the observer and to the
// illumination source, both in AU.
func AppMag(absMag float64, objToObs, objToIll [3]float64, slopeG float64) (float64, error) {
	obsNorm := norm(objToObs)
	illNorm := norm(objToIll)
	if obsNorm == 0 || illNorm == 0 {
		return 0, fmt.Errorf("direction vectors must be non-zero")
	}

	phaseAngle := math.Acos(dot(objToObs, objToIll) / (obsNorm * illNorm))

	redMag, err := ReducedMag(absMag, phaseAngle, slopeG)
	if err != nil {
		return 0, err
	}
	return redMag + 5.0*math.Log10(obsNorm*illNorm), nil
}

// AppMagToIrradiance converts an apparent bolometric magnitude to the
// corresponding irradiance in W/m^2.
func AppMagToIrradiance(appMag float64) float64 {
	return zeroPointIrradiance * math.Pow(10, -0.4*appMag)
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
