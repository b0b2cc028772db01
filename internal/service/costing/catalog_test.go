package costing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(validFrom time.Time, cost string) CostEntry {
	return CostEntry{ValidFrom: validFrom, TotalCostPerSecond: decimal.RequireFromString(cost)}
}

func TestResolveCost_LatestBeforeDate(t *testing.T) {
	catalog := []CostEntry{
		entry(day(2024, 1, 1), "2.0"),
		entry(day(2024, 6, 1), "2.5"),
	}

	got, err := ResolveCost(catalog, day(2024, 7, 1))
	require.NoError(t, err)
	assert.True(t, got.TotalCostPerSecond.Equal(decimal.RequireFromString("2.5")))
}

func TestResolveCost_FallbackToEarliest(t *testing.T) {
	catalog := []CostEntry{
		entry(day(2024, 6, 1), "2.5"),
		entry(day(2024, 1, 1), "2.0"),
	}

	res, err := Resolve(catalog, day(2023, 1, 1))
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.True(t, res.Entry.TotalCostPerSecond.Equal(decimal.RequireFromString("2.0")))
}

func TestResolveCost_Unsorted(t *testing.T) {
	catalog := []CostEntry{
		entry(day(2024, 9, 1), "4.0"),
		entry(day(2024, 1, 1), "2.0"),
		entry(day(2024, 6, 1), "2.5"),
		entry(day(2024, 3, 1), "2.2"),
	}

	got, err := ResolveCost(catalog, day(2024, 8, 31))
	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 1), got.ValidFrom)
}

func TestResolveCost_SameDayIsEffective(t *testing.T) {
	catalog := []CostEntry{
		entry(day(2024, 1, 1), "2.0"),
		entry(day(2024, 6, 1), "2.5"),
	}

	// время внутри дня не должно сдвигать выбор
	got, err := ResolveCost(catalog, time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 1), got.ValidFrom)
}

func TestResolveCost_TieLastWins(t *testing.T) {
	catalog := []CostEntry{
		entry(day(2024, 1, 1), "2.0"),
		entry(day(2024, 1, 1), "3.0"),
	}

	got, err := ResolveCost(catalog, day(2024, 2, 1))
	require.NoError(t, err)
	assert.True(t, got.TotalCostPerSecond.Equal(decimal.RequireFromString("3.0")))

	got, err = ResolveCost(catalog, day(2023, 2, 1))
	require.NoError(t, err)
	assert.True(t, got.TotalCostPerSecond.Equal(decimal.RequireFromString("3.0")))
}

func TestResolveCost_Empty(t *testing.T) {
	got, err := ResolveCost(nil, day(2024, 1, 1))
	assert.ErrorIs(t, err, ErrNoData)
	assert.True(t, got.TotalCostPerSecond.IsZero())
	assert.True(t, got.ValidFrom.IsZero())
}

func TestResolveCost_MaximalValidFromProperty(t *testing.T) {
	catalog := []CostEntry{
		entry(day(2023, 5, 10), "1.1"),
		entry(day(2024, 2, 29), "1.7"),
		entry(day(2022, 12, 31), "0.9"),
		entry(day(2024, 11, 1), "2.4"),
	}

	for d := day(2022, 12, 1); d.Before(day(2025, 2, 1)); d = d.AddDate(0, 0, 7) {
		got, err := ResolveCost(catalog, d)
		require.NoError(t, err)

		var want *CostEntry
		for i := range catalog {
			if catalog[i].ValidFrom.After(d) {
				continue
			}
			if want == nil || catalog[i].ValidFrom.After(want.ValidFrom) {
				want = &catalog[i]
			}
		}

		if want == nil {
			assert.Equal(t, day(2022, 12, 31), got.ValidFrom, "date %s", d)
			continue
		}
		assert.Equal(t, want.ValidFrom, got.ValidFrom, "date %s", d)
	}
}

func TestCostAt(t *testing.T) {
	catalog := []CostEntry{
		entry(day(2024, 1, 1), "2.0"),
		entry(day(2024, 6, 1), "2.5"),
	}

	amount, err := CostAt(catalog, day(2024, 7, 1), decimal.NewFromInt(100), decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.Equal(t, "7500", amount.String())

	amount, err = CostAt(nil, day(2024, 7, 1), decimal.NewFromInt(100), decimal.NewFromInt(30))
	assert.ErrorIs(t, err, ErrNoData)
	assert.True(t, amount.IsZero())
}
