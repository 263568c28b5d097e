package calc

import (
	"fmt"

	"github.com/beltworks/camber/internal/payload"
)

// ValidationError is one engine-level input failure. The engine enumerates
// every failing condition, never just the first.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Validation error codes.
const (
	ErrCodeMissingField = "MISSING_FIELD"
	ErrCodeInvalidValue = "INVALID_VALUE"
	ErrCodeTubeStress   = "TUBE_STRESS_EXCEEDED"
)

// Result is the engine's public outcome. Success is false when any blocking
// error occurred, in which case Outputs is nil and Errors lists every
// failing condition. Warnings are additive and never suppress outputs.
type Result struct {
	Success  bool
	Outputs  payload.Object
	Warnings []string
	Errors   []ValidationError
}

// Engine defaults and thresholds.
const (
	DefaultFrictionCoeff = 0.30
	DefaultServiceFactor = 1.5
	DefaultShaftAllowPSI = 8000

	steepInclineDeg       = 18.0
	lowServiceFactorLimit = 1.2
)

// minPulleyDiaByConstruction maps belt construction class to the minimum
// pulley diameter the belt tolerates, in inches. Engine-side catalog data;
// client copies of these values are stripped by the sanitizer as derived.
var minPulleyDiaByConstruction = map[string]float64{
	"standard":          4,
	"heavy_duty":        6,
	"steel_cord":        8,
	"profiled_sidewall": 6,
}

// numField reads a numeric input. The second return is false when the key is
// absent or not a number.
func numField(obj payload.Object, key string) (float64, bool) {
	n, ok := obj[key].(payload.Number)
	return float64(n), ok
}

func numFieldDefault(obj payload.Object, key string, def float64) float64 {
	if v, ok := numField(obj, key); ok {
		return v
	}
	return def
}

func strField(obj payload.Object, key string) (string, bool) {
	s, ok := obj[key].(payload.String)
	return string(s), ok
}

func boolField(obj payload.Object, key string) bool {
	b, ok := obj[key].(payload.Bool)
	return ok && bool(b)
}
