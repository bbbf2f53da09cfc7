package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  Interval
		expectErr bool
	}{
		{
			name:     "Plain range",
			raw:      "18:30-22:00",
			expected: Interval{Start: 1110, End: 1320},
		},
		{
			name:     "Range with spaces around dash",
			raw:      "18:30 - 22:00",
			expected: Interval{Start: 1110, End: 1320},
		},
		{
			name:     "Range with space after dash only",
			raw:      "18:30- 22:00",
			expected: Interval{Start: 1110, End: 1320},
		},
		{
			name:     "Single digit hours",
			raw:      "9:00-10:30",
			expected: Interval{Start: 540, End: 630},
		},
		{
			name:     "Full day",
			raw:      "00:00-23:59",
			expected: Interval{Start: 0, End: 1439},
		},
		{
			name:     "Open ended",
			raw:      "после 16:00",
			expected: Interval{Start: 960, End: 1439},
		},
		{
			name:     "Open ended uppercase",
			raw:      "После 20:30",
			expected: Interval{Start: 1230, End: 1439},
		},
		{
			name:     "Open ended with padding",
			raw:      "  после 8:05  ",
			expected: Interval{Start: 485, End: 1439},
		},
		{
			name:      "Hours out of range",
			raw:       "25:00-26:00",
			expectErr: true,
		},
		{
			name:      "Minutes out of range",
			raw:       "18:70-19:00",
			expectErr: true,
		},
		{
			name:      "Zero length",
			raw:       "18:00-18:00",
			expectErr: true,
		},
		{
			name:      "Inverted",
			raw:       "22:00-18:00",
			expectErr: true,
		},
		{
			name:      "Open ended at last minute",
			raw:       "после 23:59",
			expectErr: true,
		},
		{
			name:      "Not a time at all",
			raw:       "not a time",
			expectErr: true,
		},
		{
			name:      "Empty string",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			iv, err := Parse(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, iv)
			}
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "18:30-22:00", Interval{Start: 1110, End: 1320}.String())
	assert.Equal(t, "09:00-10:00", Interval{Start: 540, End: 600}.String())
	assert.Equal(t, "16:00-23:59", Interval{Start: 960, End: 1439}.String())
	assert.Equal(t, "00:00-00:01", Interval{Start: 0, End: 1}.String())
}

// Rendering a parsed interval and parsing it again must reproduce the
// identical interval, including open-ended slots once normalized.
func TestRoundTrip(t *testing.T) {
	for _, raw := range []string{"18:30-22:00", " 7:05 - 8:00", "после 16:00", "00:00-23:59"} {
		iv, err := Parse(raw)
		require.NoError(t, err)

		again, err := Parse(iv.String())
		require.NoError(t, err)
		assert.Equal(t, iv, again)
	}
}

func TestParseAll(t *testing.T) {
	ivs, err := ParseAll([]string{"09:00-10:00", "после 16:00"})
	require.NoError(t, err)
	assert.Equal(t, []Interval{{Start: 540, End: 600}, {Start: 960, End: 1439}}, ivs)
	assert.Equal(t, []string{"09:00-10:00", "16:00-23:59"}, Render(ivs))

	_, err = ParseAll([]string{"09:00-10:00", "garbage"})
	assert.Error(t, err)
}
