package calc

import (
	"fmt"
	"math"
)

// TubeStressStatus classifies a tube stress check outcome. Callers branch on
// status; no outcome is an error in the Go sense.
type TubeStressStatus string

const (
	TubeStressPass       TubeStressStatus = "pass"
	TubeStressEstimated  TubeStressStatus = "estimated"
	TubeStressWarn       TubeStressStatus = "warn"
	TubeStressFail       TubeStressStatus = "fail"
	TubeStressIncomplete TubeStressStatus = "incomplete"
	TubeStressError      TubeStressStatus = "error"
)

// Published stress limits for pulley tube assemblies, in psi.
const (
	TubeStressLimitDrumPSI    = 10000
	TubeStressLimitVGroovePSI = 3400
)

// TubeStressInput is the pulley tube geometry and loading for the stress
// check. All dimensions in inches, load in pounds.
type TubeStressInput struct {
	ODIn         float64 // tube outer diameter
	WallIn       float64 // tube wall thickness
	HubCentersIn float64 // distance between hub centers
	LoadLb       float64 // resultant belt load on the pulley
}

// TubeStressResult reports the computed bending stress and its
// classification. StressPSI is meaningful only when HasStress is true;
// it is unset exactly for the incomplete and error statuses.
type TubeStressResult struct {
	StressPSI    int
	HasStress    bool
	Status       TubeStressStatus
	ErrorMessage string
}

// CalculateTubeStress runs the PCI tube bending stress check:
//
//	ID = OD - 2*wall
//	stress = 8 * OD * F * H / (pi * (OD^4 - ID^4))
//
// rounded to the nearest psi. Guards short-circuit in order: non-positive
// OD/wall is incomplete geometry; a wall thicker than the tube radius or a
// degenerate section modulus is an error. Over the limit the check fails
// when enforce is set and warns otherwise; under it the result is estimated
// when the hub-center distance was itself an estimate, pass otherwise.
// The limit comparison is strict: stress exactly at the limit passes.
func CalculateTubeStress(in TubeStressInput, limitPSI float64, hubCentersEstimated, enforce bool) TubeStressResult {
	if in.ODIn <= 0 || in.WallIn <= 0 {
		return TubeStressResult{Status: TubeStressIncomplete}
	}

	id := in.ODIn - 2*in.WallIn
	if id <= 0 {
		return TubeStressResult{
			Status:       TubeStressError,
			ErrorMessage: fmt.Sprintf("wall %.3f in exceeds tube radius (OD %.3f in)", in.WallIn, in.ODIn),
		}
	}

	denom := math.Pow(in.ODIn, 4) - math.Pow(id, 4)
	if denom <= 0 {
		return TubeStressResult{
			Status:       TubeStressError,
			ErrorMessage: "degenerate tube section: OD^4 - ID^4 is not positive",
		}
	}

	stress := 8 * in.ODIn * in.LoadLb * in.HubCentersIn / (math.Pi * denom)
	rounded := int(math.Round(stress))

	res := TubeStressResult{StressPSI: rounded, HasStress: true}
	switch {
	case stress > limitPSI && enforce:
		res.Status = TubeStressFail
	case stress > limitPSI:
		res.Status = TubeStressWarn
	case hubCentersEstimated:
		res.Status = TubeStressEstimated
	default:
		res.Status = TubeStressPass
	}
	return res
}

// TubeStressLimit selects the stress limit for the pulley: 10000 psi for
// drum/plain pulleys, 3400 psi for V-groove pulleys.
//
// V-groove detection is a heuristic proxy: a V-guided tracking method with a
// V-guide key selected. There is no authoritative pulley-type field in the
// catalog yet, so callers must treat this as an approximation, not pulley
// truth.
func TubeStressLimit(trackingMethod, vguideKey string) float64 {
	if trackingMethod == "vguided" && vguideKey != "" {
		return TubeStressLimitVGroovePSI
	}
	return TubeStressLimitDrumPSI
}
