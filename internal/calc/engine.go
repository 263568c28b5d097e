package calc

import (
	"fmt"
	"math"

	"github.com/beltworks/camber/internal/payload"
)

// Speed modes. The sanitizer's mode gating guarantees at most one speed
// source survives into the inputs.
const (
	SpeedModeBeltSpeed = "belt_speed"
	SpeedModeDriveRPM  = "drive_rpm"
)

// Calculate runs the sizing pipeline over sanitized inputs and assembles
// outputs, warnings, and errors. It is pure and synchronous; inputs are
// expected to have passed through sanitize.Sanitize first.
func Calculate(inputs payload.Object) Result {
	errs := validate(inputs)
	if len(errs) > 0 {
		return Result{Success: false, Errors: errs}
	}

	length, _ := numField(inputs, "conveyor_length_in")
	width, _ := numField(inputs, "belt_width_in")
	pulleyDia, _ := numField(inputs, "drive_pulley_dia_in")
	incline := numFieldDefault(inputs, "incline_deg", 0)
	liveLoad := numFieldDefault(inputs, "load_total_lb", 0)
	beltWeight := numFieldDefault(inputs, "belt_weight_lb", 0)
	friction := numFieldDefault(inputs, "friction_coeff", DefaultFrictionCoeff)
	serviceFactor := numFieldDefault(inputs, "service_factor", DefaultServiceFactor)
	shaftAllow := numFieldDefault(inputs, "shaft_allow_stress_psi", DefaultShaftAllowPSI)

	var warnings []string

	// Belt speed and drive RPM from whichever source the mode supplies.
	mode, _ := strField(inputs, "speed_mode")
	var speedFPM, driveRPM float64
	if mode == SpeedModeBeltSpeed {
		speedFPM, _ = numField(inputs, "belt_speed_fpm")
		driveRPM = speedFPM * 12 / (math.Pi * pulleyDia)
	} else {
		driveRPM, _ = numField(inputs, "drive_rpm")
		speedFPM = driveRPM * math.Pi * pulleyDia / 12
	}

	// Effective belt pull: friction component on the supported weight plus
	// the lift component on an incline.
	theta := incline * math.Pi / 180
	totalWeight := liveLoad + beltWeight
	beltPull := friction*totalWeight*math.Cos(theta) + totalWeight*math.Sin(theta)
	designPull := beltPull * serviceFactor

	torque := designPull * pulleyDia / 2
	powerHP := designPull * speedFPM / 33000

	// Torsional shaft sizing, rounded up to the next 1/16 in.
	shaftDia := math.Cbrt(16 * torque / (math.Pi * shaftAllow))
	shaftDia = math.Ceil(shaftDia*16) / 16

	construction, _ := strField(inputs, "belt_construction")
	minPulleyDia, ok := minPulleyDiaByConstruction[construction]
	if !ok {
		minPulleyDia = minPulleyDiaByConstruction["standard"]
	}
	if pulleyDia < minPulleyDia {
		warnings = append(warnings, fmt.Sprintf(
			"drive pulley %.2f in is below the %.0f in minimum for %s belt construction",
			pulleyDia, minPulleyDia, constructionLabel(construction)))
	}

	if incline > steepInclineDeg {
		warnings = append(warnings, fmt.Sprintf(
			"incline %.1f deg exceeds %.0f deg; consider cleated belt or reduced load", incline, steepInclineDeg))
	}
	if serviceFactor < lowServiceFactorLimit {
		warnings = append(warnings, fmt.Sprintf(
			"service factor %.2f is below %.1f; sizing margin is thin", serviceFactor, lowServiceFactorLimit))
	}

	outputs := payload.Object{
		"belt_speed_fpm":         payload.Number(round2(speedFPM)),
		"drive_rpm":              payload.Number(round2(driveRPM)),
		"belt_pull_lb":           payload.Number(round2(beltPull)),
		"design_pull_lb":         payload.Number(round2(designPull)),
		"torque_in_lb":           payload.Number(round2(torque)),
		"power_hp":               payload.Number(round2(powerHP)),
		"shaft_dia_in":           payload.Number(shaftDia),
		"belt_min_pulley_dia_in": payload.Number(minPulleyDia),
	}

	var errsOut []ValidationError

	// Tube stress runs when tube geometry was supplied at all; partial
	// geometry surfaces as the incomplete status, not a validation error.
	if hasAny(inputs, "pulley_tube_od_in", "pulley_tube_wall_in", "hub_centers_in") {
		tube := runTubeStress(inputs, designPull)
		outputs["tube_stress"] = tubeStressPayload(tube)
		switch tube.Status {
		case TubeStressFail:
			errsOut = append(errsOut, ValidationError{
				Code:    ErrCodeTubeStress,
				Field:   "pulley_tube_od_in",
				Message: fmt.Sprintf("tube stress %d psi exceeds the enforced limit", tube.StressPSI),
			})
		case TubeStressWarn:
			warnings = append(warnings, fmt.Sprintf(
				"tube stress %d psi exceeds the published limit (not enforced)", tube.StressPSI))
		}
	}

	outputs["tracking"] = trackingPayload(RecommendTracking(trackingInput(inputs, length, width)))

	if len(errsOut) > 0 {
		return Result{Success: false, Warnings: warnings, Errors: errsOut}
	}
	return Result{Success: true, Outputs: outputs, Warnings: warnings}
}

// validate collects every failing input condition.
func validate(inputs payload.Object) []ValidationError {
	var errs []ValidationError

	requirePositive := func(key, what string) {
		v, ok := numField(inputs, key)
		switch {
		case !ok:
			errs = append(errs, ValidationError{Code: ErrCodeMissingField, Field: key, Message: what + " is required"})
		case v <= 0:
			errs = append(errs, ValidationError{Code: ErrCodeInvalidValue, Field: key, Message: what + " must be positive"})
		}
	}

	requirePositive("conveyor_length_in", "conveyor length")
	requirePositive("belt_width_in", "belt width")
	requirePositive("drive_pulley_dia_in", "drive pulley diameter")

	mode, ok := strField(inputs, "speed_mode")
	switch {
	case !ok:
		errs = append(errs, ValidationError{Code: ErrCodeMissingField, Field: "speed_mode", Message: "speed mode is required"})
	case mode == SpeedModeBeltSpeed:
		requirePositive("belt_speed_fpm", "belt speed")
	case mode == SpeedModeDriveRPM:
		requirePositive("drive_rpm", "drive RPM")
	default:
		errs = append(errs, ValidationError{Code: ErrCodeInvalidValue, Field: "speed_mode",
			Message: fmt.Sprintf("unknown speed mode %q", mode)})
	}

	if load, ok := numField(inputs, "load_total_lb"); ok && load < 0 {
		errs = append(errs, ValidationError{Code: ErrCodeInvalidValue, Field: "load_total_lb", Message: "load cannot be negative"})
	}

	return errs
}

func runTubeStress(inputs payload.Object, designPull float64) TubeStressResult {
	trackingMethod, _ := strField(inputs, "tracking_method")
	vguideKey, _ := strField(inputs, "vguide_key")
	limit := TubeStressLimit(trackingMethod, vguideKey)

	return CalculateTubeStress(
		TubeStressInput{
			ODIn:         numFieldDefault(inputs, "pulley_tube_od_in", 0),
			WallIn:       numFieldDefault(inputs, "pulley_tube_wall_in", 0),
			HubCentersIn: numFieldDefault(inputs, "hub_centers_in", 0),
			LoadLb:       numFieldDefault(inputs, "tube_load_lb", designPull),
		},
		limit,
		boolField(inputs, "hub_centers_estimated"),
		boolField(inputs, "tube_stress_enforce"),
	)
}

func trackingInput(inputs payload.Object, length, width float64) TrackingInput {
	appClass, _ := strField(inputs, "application_class")
	construction, _ := strField(inputs, "belt_construction")
	pref, _ := strField(inputs, "tracking_mode_preference")

	return TrackingInput{
		LengthIn:           length,
		WidthIn:            width,
		ReversingOperation: boolField(inputs, "reversing_operation"),
		SideLoading:        boolField(inputs, "side_loading"),
		LoadVariability:    boolField(inputs, "load_variability"),
		HarshEnvironment:   boolField(inputs, "harsh_environment"),
		InstallationRisk:   boolField(inputs, "installation_risk"),
		BulkHandling:       appClass == "bulk",
		StiffBelt:          construction == "steel_cord",
		ProfiledSidewall:   construction == "profiled_sidewall" || boolField(inputs, "has_profiled_sidewall"),
		PreferredMode:      TrackingMode(pref),
	}
}

func tubeStressPayload(r TubeStressResult) payload.Object {
	obj := payload.Object{
		"status": payload.String(string(r.Status)),
	}
	if r.HasStress {
		obj["stress_psi"] = payload.Number(r.StressPSI)
	}
	if r.ErrorMessage != "" {
		obj["error_message"] = payload.String(r.ErrorMessage)
	}
	return obj
}

func trackingPayload(r TrackingResult) payload.Object {
	note := payload.Value(payload.Null{})
	if r.Note != "" {
		note = payload.String(r.Note)
	}
	return payload.Object{
		"lw_ratio":          payload.Number(r.LWRatio),
		"lw_band":           payload.String(string(r.LWBand)),
		"disturbance_count": payload.Number(r.DisturbanceCount),
		"severity_raw":      payload.String(string(r.SeverityRaw)),
		"severity_modified": payload.String(string(r.SeverityModified)),
		"mode_recommended":  payload.String(string(r.ModeRecommended)),
		"rationale":         payload.String(r.Rationale),
		"note":              note,
	}
}

func constructionLabel(c string) string {
	if c == "" {
		return "standard"
	}
	return c
}

func hasAny(obj payload.Object, keys ...string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
