package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The literal baseline case: 100x24 conveyor, no disturbances.
func TestRecommendTrackingBaseline(t *testing.T) {
	res := RecommendTracking(TrackingInput{LengthIn: 100, WidthIn: 24})

	assert.Equal(t, 4.2, res.LWRatio)
	assert.Equal(t, BandLow, res.LWBand)
	assert.Equal(t, 0, res.DisturbanceCount)
	assert.Equal(t, SeverityMinimal, res.SeverityRaw)
	assert.Equal(t, SeverityMinimal, res.SeverityModified)
	assert.Equal(t, TrackingCrowned, res.ModeRecommended)
	assert.Empty(t, res.Note)
}

func TestRecommendTrackingBands(t *testing.T) {
	tests := []struct {
		name   string
		length float64
		width  float64
		band   LWBand
	}{
		{"ratio 5.0 is Low", 120, 24, BandLow},
		{"ratio just above 5 is Medium", 122, 24, BandMedium},
		{"ratio 10.0 is Medium", 240, 24, BandMedium},
		{"ratio above 10 is High", 250, 24, BandHigh},
		{"zero width is High", 100, 0, BandHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := RecommendTracking(TrackingInput{LengthIn: tt.length, WidthIn: tt.width})
			assert.Equal(t, tt.band, res.LWBand)
		})
	}
}

func TestRecommendTrackingZeroWidthRatioIsInf(t *testing.T) {
	res := RecommendTracking(TrackingInput{LengthIn: 100, WidthIn: 0})
	assert.True(t, math.IsInf(res.LWRatio, 1))
}

func TestRecommendTrackingSeverityCounts(t *testing.T) {
	tests := []struct {
		name string
		in   TrackingInput
		raw  Severity
	}{
		{"no flags", TrackingInput{LengthIn: 100, WidthIn: 24}, SeverityMinimal},
		{"one flag", TrackingInput{LengthIn: 100, WidthIn: 24, SideLoading: true}, SeverityModerate},
		{"two generic flags", TrackingInput{LengthIn: 100, WidthIn: 24, LoadVariability: true, HarshEnvironment: true}, SeverityModerate},
		{"three flags", TrackingInput{LengthIn: 100, WidthIn: 24, LoadVariability: true, HarshEnvironment: true, InstallationRisk: true}, SeveritySignificant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := RecommendTracking(tt.in)
			assert.Equal(t, tt.raw, res.SeverityRaw)
		})
	}
}

// Reversing plus side loading forces Significant even at count 2, where the
// count rule alone would say Moderate.
func TestRecommendTrackingReversingPlusSideLoading(t *testing.T) {
	res := RecommendTracking(TrackingInput{
		LengthIn:           100,
		WidthIn:            24,
		ReversingOperation: true,
		SideLoading:        true,
	})

	assert.Equal(t, 2, res.DisturbanceCount)
	assert.Equal(t, SeveritySignificant, res.SeverityRaw)
}

func TestRecommendTrackingModifiersAreCumulative(t *testing.T) {
	// One flag gives Moderate; bulk handling and steel cord together lift it
	// two levels, capped at Significant.
	res := RecommendTracking(TrackingInput{
		LengthIn:     100,
		WidthIn:      24,
		SideLoading:  true,
		BulkHandling: true,
		StiffBelt:    true,
	})
	assert.Equal(t, SeverityModerate, res.SeverityRaw)
	assert.Equal(t, SeveritySignificant, res.SeverityModified)

	// Already Significant stays capped with all three modifiers.
	res = RecommendTracking(TrackingInput{
		LengthIn:           100,
		WidthIn:            24,
		ReversingOperation: true,
		SideLoading:        true,
		BulkHandling:       true,
		StiffBelt:          true,
		ProfiledSidewall:   true,
	})
	assert.Equal(t, SeveritySignificant, res.SeverityModified)
}

func TestRecommendTrackingMatrix(t *testing.T) {
	tests := []struct {
		name     string
		band     LWBand
		level    int
		mode     TrackingMode
		withNote bool
	}{
		{"low minimal", BandLow, 0, TrackingCrowned, false},
		{"low moderate", BandLow, 1, TrackingCrowned, true},
		{"low significant", BandLow, 2, TrackingHybrid, false},
		{"medium minimal", BandMedium, 0, TrackingCrowned, true},
		{"medium moderate", BandMedium, 1, TrackingHybrid, false},
		{"medium significant", BandMedium, 2, TrackingVGuided, false},
		{"high minimal", BandHigh, 0, TrackingHybrid, false},
		{"high moderate", BandHigh, 1, TrackingVGuided, false},
		{"high significant", BandHigh, 2, TrackingVGuided, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := trackingMatrix[tt.band][tt.level]
			assert.Equal(t, tt.mode, cell.mode)
			assert.Equal(t, tt.withNote, cell.withNote)
		})
	}
}

func TestRecommendTrackingPreferenceOverride(t *testing.T) {
	// High band, significant severity: matrix says VGuided.
	base := TrackingInput{
		LengthIn:           300,
		WidthIn:            24,
		ReversingOperation: true,
		SideLoading:        true,
	}

	t.Run("less control forces a warning note", func(t *testing.T) {
		in := base
		in.PreferredMode = TrackingCrowned
		res := RecommendTracking(in)

		assert.Equal(t, TrackingCrowned, res.ModeRecommended)
		assert.NotEmpty(t, res.Note)
		assert.Contains(t, res.Note, "less tracking control")
		assert.Contains(t, res.Rationale, "preference")
	})

	t.Run("equal control emits no note", func(t *testing.T) {
		in := base
		in.PreferredMode = TrackingVGuided
		res := RecommendTracking(in)

		assert.Equal(t, TrackingVGuided, res.ModeRecommended)
		assert.Empty(t, res.Note)
	})

	t.Run("more control emits no note", func(t *testing.T) {
		res := RecommendTracking(TrackingInput{
			LengthIn:      100,
			WidthIn:       24,
			PreferredMode: TrackingVGuided,
		})
		assert.Equal(t, TrackingVGuided, res.ModeRecommended)
		assert.Empty(t, res.Note)
	})
}
