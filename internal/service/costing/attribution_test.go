package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAttribution_Daily(t *testing.T) {
	got := ResolveAttribution(250, 50, &Total{TotalProduction: 1000}, nil)

	assert.Equal(t, SourceDaily, got.Source)
	assert.InDelta(t, 25.0, got.ManualPercentage, 1e-9)
	assert.InDelta(t, 5.0, got.RepairPercentage, 1e-9)
	assert.Equal(t, "measured", got.Source.Label())
}

func TestResolveAttribution_DailyWinsOverMonthly(t *testing.T) {
	got := ResolveAttribution(10, 10, &Total{TotalProduction: 100}, &Total{TotalProduction: 3000})
	assert.Equal(t, SourceDaily, got.Source)
	assert.InDelta(t, 10.0, got.ManualPercentage, 1e-9)
}

func TestResolveAttribution_MonthlyWhenDailyEmpty(t *testing.T) {
	got := ResolveAttribution(30, 15, &Total{TotalProduction: 0}, &Total{TotalProduction: 3000})

	assert.Equal(t, SourceMonthly, got.Source)
	assert.InDelta(t, 1.0, got.ManualPercentage, 1e-9)
	assert.InDelta(t, 0.5, got.RepairPercentage, 1e-9)
	assert.True(t, got.Source.Measured())
}

func TestResolveAttribution_RecordFallback(t *testing.T) {
	got := ResolveAttribution(3, 1, nil, nil)

	assert.Equal(t, SourceRecord, got.Source)
	assert.InDelta(t, 75.0, got.ManualPercentage, 1e-9)
	assert.InDelta(t, 25.0, got.RepairPercentage, 1e-9)
	assert.False(t, got.Source.Measured())
	assert.Equal(t, "estimated", got.Source.Label())
}

func TestResolveAttribution_RecordSumsTo100(t *testing.T) {
	pairs := [][2]float64{{1, 2}, {7, 0}, {0, 13}, {333, 667}, {0.1, 0.2}}

	for _, p := range pairs {
		got := ResolveAttribution(p[0], p[1], nil, &Total{})
		assert.Equal(t, SourceRecord, got.Source)
		assert.InDelta(t, 100.0, got.ManualPercentage+got.RepairPercentage, 1e-9, "pair %v", p)
	}
}

func TestResolveAttribution_None(t *testing.T) {
	got := ResolveAttribution(0, 0, nil, nil)

	assert.Equal(t, SourceNone, got.Source)
	assert.Zero(t, got.ManualPercentage)
	assert.Zero(t, got.RepairPercentage)
	assert.Equal(t, "none", got.Source.Label())
}

func TestResolveAttribution_NegativeTreatedAsZero(t *testing.T) {
	got := ResolveAttribution(-5, 0, nil, nil)
	assert.Equal(t, SourceNone, got.Source)
}
