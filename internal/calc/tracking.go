package calc

import (
	"fmt"
	"math"
)

// TrackingMode is a belt tracking strategy, ordered by tracking control:
// Crowned < Hybrid < VGuided.
type TrackingMode string

const (
	TrackingCrowned TrackingMode = "Crowned"
	TrackingHybrid  TrackingMode = "Hybrid"
	TrackingVGuided TrackingMode = "VGuided"
)

// LWBand classifies the conveyor length-to-width ratio.
type LWBand string

const (
	BandLow    LWBand = "Low"
	BandMedium LWBand = "Medium"
	BandHigh   LWBand = "High"
)

// Severity classifies the tracking disturbance picture.
type Severity string

const (
	SeverityMinimal     Severity = "Minimal"
	SeverityModerate    Severity = "Moderate"
	SeveritySignificant Severity = "Significant"
)

// TrackingInput describes the geometry, operating disturbances, and
// application class feeding the tracking-mode recommendation.
type TrackingInput struct {
	LengthIn float64
	WidthIn  float64

	// The five disturbance indicators.
	ReversingOperation bool
	SideLoading        bool
	LoadVariability    bool
	HarshEnvironment   bool
	InstallationRisk   bool

	// Severity modifiers, each worth one level, cumulative.
	BulkHandling     bool // bulk-handling application class
	StiffBelt        bool // steel-cord / very stiff construction
	ProfiledSidewall bool // profiled sidewall or high cleats

	// PreferredMode, when set, overrides the matrix recommendation.
	PreferredMode TrackingMode
}

// TrackingResult is the recommendation with its full derivation, so the UI
// can show how the answer was reached.
type TrackingResult struct {
	LWRatio          float64
	LWBand           LWBand
	DisturbanceCount int
	SeverityRaw      Severity
	SeverityModified Severity
	ModeRecommended  TrackingMode
	Rationale        string
	Note             string // empty means no note
}

var severityNames = [3]Severity{SeverityMinimal, SeverityModerate, SeveritySignificant}

// matrixCell pairs a recommended mode with whether the standard advisory
// note accompanies it.
type matrixCell struct {
	mode     TrackingMode
	withNote bool
}

// trackingMatrix is keyed by [band][severity level].
var trackingMatrix = map[LWBand][3]matrixCell{
	BandLow: {
		{TrackingCrowned, false},
		{TrackingCrowned, true},
		{TrackingHybrid, false},
	},
	BandMedium: {
		{TrackingCrowned, true},
		{TrackingHybrid, false},
		{TrackingVGuided, false},
	},
	BandHigh: {
		{TrackingHybrid, false},
		{TrackingVGuided, false},
		{TrackingVGuided, false},
	},
}

const crownedCareNote = "Crowned tracking is workable at this ratio and severity, but requires careful squaring at install and periodic tracking checks."

// controlRank orders modes by tracking control.
func controlRank(m TrackingMode) int {
	switch m {
	case TrackingVGuided:
		return 2
	case TrackingHybrid:
		return 1
	default:
		return 0
	}
}

// RecommendTracking is a pure function from conveyor characteristics to a
// tracking-mode recommendation.
//
// Derivation: L/W ratio rounded to the nearest 0.1 bands Low (<=5),
// Medium (<=10), High (>10); the five disturbance flags count toward a raw
// severity (0 Minimal, 1-2 Moderate, 3+ Significant, with reversing plus
// side loading forcing Significant outright); application/belt modifiers
// each bump severity one level, capped at Significant; a fixed band-by-
// severity matrix yields the mode. An explicit caller preference always
// wins, with a note when it gives up tracking control.
func RecommendTracking(in TrackingInput) TrackingResult {
	ratio := math.Inf(1)
	if in.WidthIn != 0 {
		ratio = math.Round(in.LengthIn/in.WidthIn*10) / 10
	}

	var band LWBand
	switch {
	case ratio <= 5:
		band = BandLow
	case ratio <= 10:
		band = BandMedium
	default:
		band = BandHigh
	}

	count := 0
	for _, flag := range []bool{
		in.ReversingOperation,
		in.SideLoading,
		in.LoadVariability,
		in.HarshEnvironment,
		in.InstallationRisk,
	} {
		if flag {
			count++
		}
	}

	rawLevel := 0
	switch {
	case in.ReversingOperation && in.SideLoading:
		// Reversing plus side loading compounds; forced Significant even at
		// a count of two.
		rawLevel = 2
	case count >= 3:
		rawLevel = 2
	case count >= 1:
		rawLevel = 1
	}

	modLevel := rawLevel
	for _, bump := range []bool{in.BulkHandling, in.StiffBelt, in.ProfiledSidewall} {
		if bump && modLevel < 2 {
			modLevel++
		}
	}

	cell := trackingMatrix[band][modLevel]

	res := TrackingResult{
		LWRatio:          ratio,
		LWBand:           band,
		DisturbanceCount: count,
		SeverityRaw:      severityNames[rawLevel],
		SeverityModified: severityNames[modLevel],
		ModeRecommended:  cell.mode,
		Rationale: fmt.Sprintf("L/W %.1f (%s band), %d disturbance(s), severity %s -> %s",
			ratio, band, count, severityNames[modLevel], cell.mode),
	}
	if cell.withNote {
		res.Note = crownedCareNote
	}

	if in.PreferredMode != "" {
		forced := in.PreferredMode
		res.ModeRecommended = forced
		res.Rationale = fmt.Sprintf("caller preference %s overrides matrix recommendation %s", forced, cell.mode)
		if controlRank(forced) < controlRank(cell.mode) {
			res.Note = fmt.Sprintf("Preferred mode %s provides less tracking control than recommended %s; expect reduced tracking margin.", forced, cell.mode)
		} else {
			res.Note = ""
		}
	}

	return res
}
