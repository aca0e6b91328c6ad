package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whendid/whendid/internal/common"
)

func intp(v int) *int { return &v }

func TestPartialTimeValidate_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pt    PartialTime
		field string // expected invalid field, "" when valid
	}{
		{"year min", PartialTime{Year: intp(1)}, ""},
		{"year max", PartialTime{Year: intp(9999)}, ""},
		{"year below min", PartialTime{Year: intp(0)}, "year"},
		{"year above max", PartialTime{Year: intp(10000)}, "year"},
		{"month min", PartialTime{Month: intp(1)}, ""},
		{"month max", PartialTime{Month: intp(12)}, ""},
		{"month below min", PartialTime{Month: intp(0)}, "month"},
		{"month above max", PartialTime{Month: intp(13)}, "month"},
		{"day min", PartialTime{Day: intp(1)}, ""},
		{"day max", PartialTime{Day: intp(31)}, ""},
		{"day below min", PartialTime{Day: intp(0)}, "day"},
		{"day above max", PartialTime{Day: intp(32)}, "day"},
		{"hour min", PartialTime{Hour: intp(0)}, ""},
		{"hour max", PartialTime{Hour: intp(23)}, ""},
		{"hour below min", PartialTime{Hour: intp(-1)}, "hour"},
		{"hour above max", PartialTime{Hour: intp(24)}, "hour"},
		{"minute min", PartialTime{Minute: intp(0)}, ""},
		{"minute max", PartialTime{Minute: intp(59)}, ""},
		{"minute below min", PartialTime{Minute: intp(-1)}, "minute"},
		{"minute above max", PartialTime{Minute: intp(60)}, "minute"},
		{"second min", PartialTime{Second: intp(0)}, ""},
		{"second max", PartialTime{Second: intp(59)}, ""},
		{"second below min", PartialTime{Second: intp(-1)}, "second"},
		{"second above max", PartialTime{Second: intp(60)}, "second"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.pt.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			var fieldErr *common.InvalidFieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.field, fieldErr.Field)
		})
	}
}

func TestPartialTimeValidate_Empty(t *testing.T) {
	t.Parallel()

	err := PartialTime{}.Validate()
	assert.True(t, errors.Is(err, common.ErrEmptyTimestamp))
}

func TestPartialTimeValidate_FirstFailureWins(t *testing.T) {
	t.Parallel()

	// month and second are both out of range; the fixed check order reports
	// month first
	pt := PartialTime{Month: intp(13), Second: intp(99)}
	var fieldErr *common.InvalidFieldError
	require.ErrorAs(t, pt.Validate(), &fieldErr)
	assert.Equal(t, "month", fieldErr.Field)
}

func TestPartialTimeNormalize_Defaults(t *testing.T) {
	t.Parallel()

	got := PartialTime{Hour: intp(15)}.Normalize()
	want := time.Date(2000, time.January, 1, 15, 0, 0, 0, time.Local)
	assert.True(t, got.Equal(want), "got %v want %v", got, want)
}

func TestPartialTimeNormalize_EqualAcrossGranularity(t *testing.T) {
	t.Parallel()

	// "2024" and "2024-01-01T00:00:00" fill to the same instant
	coarse := PartialTime{Year: intp(2024)}
	fine := PartialTime{
		Year: intp(2024), Month: intp(1), Day: intp(1),
		Hour: intp(0), Minute: intp(0), Second: intp(0),
	}
	assert.True(t, coarse.Normalize().Equal(fine.Normalize()))
}

func TestPartialTimeNormalize_CalendarOverflowCarries(t *testing.T) {
	t.Parallel()

	// day=31 with month=2 passes validation (no cross-field check) and must
	// normalize without failing; time.Date carries it into March
	pt := PartialTime{Year: intp(2023), Month: intp(2), Day: intp(31)}
	require.NoError(t, pt.Validate())

	got := pt.Normalize()
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 3, got.Day())
}

func TestPartialTimeNormalize_TotalOrder(t *testing.T) {
	t.Parallel()

	earlier := PartialTime{Year: intp(2024), Month: intp(1), Day: intp(15)}
	later := PartialTime{Year: intp(2024), Month: intp(6), Day: intp(1)}
	assert.True(t, earlier.Normalize().Before(later.Normalize()))

	// a bare month sorts by the default year 2000
	bareMonth := PartialTime{Month: intp(6)}
	assert.True(t, bareMonth.Normalize().Before(earlier.Normalize()))
}
