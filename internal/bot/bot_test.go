package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnabramov-cyber/telegram-bot/internal/interval"
	"github.com/alnabramov-cyber/telegram-bot/internal/overlap"
)

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "24.12 ср", dayLabel("2025-12-24")) // Wednesday
	assert.Equal(t, "28.12 вс", dayLabel("2025-12-28")) // Sunday
	assert.Equal(t, "29.12 пн", dayLabel("2025-12-29")) // Monday
	assert.Equal(t, "garbage", dayLabel("garbage"))
}

func TestDayKeyboard(t *testing.T) {
	slots := map[string][]string{
		"2025-12-21": {"После 16:00"},
		"2025-12-24": {"После 20:00"},
		"2025-12-25": {"До 12"},
		"2025-12-26": {"После 14:00"},
		"2025-12-27": {"После 13:00"},
	}

	kb := dayKeyboard(slots, "2025-12-24")

	// Past dates are dropped, the rest sorted and chunked by three.
	require.Len(t, kb.InlineKeyboard, 2)
	require.Len(t, kb.InlineKeyboard[0], 3)
	require.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, "24.12 ср", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "day:2025-12-24", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "day:2025-12-27", *kb.InlineKeyboard[1][0].CallbackData)
}

func TestDayKeyboard_AllPast(t *testing.T) {
	kb := dayKeyboard(map[string][]string{"2020-01-01": {"x"}}, "2025-12-24")
	assert.Empty(t, kb.InlineKeyboard)
}

func TestTimeKeyboard(t *testing.T) {
	kb := timeKeyboard("2025-12-24", []string{"После 20:00", "18:00-19:00"})

	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "После 20:00", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "time:2025-12-24:После 20:00", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "back:days", *kb.InlineKeyboard[2][0].CallbackData)
}

func TestMatchCodeword(t *testing.T) {
	accepted := []string{"пуф", "пуфф"}

	assert.True(t, matchCodeword("пуф", accepted))
	assert.True(t, matchCodeword("  ПУФФ ", accepted))
	assert.False(t, matchCodeword("пу", accepted))
	assert.False(t, matchCodeword("", accepted))
}

func TestRenderOverlaps(t *testing.T) {
	now := time.Date(2025, 12, 24, 12, 0, 0, 0, time.UTC)
	ov := overlap.DaySlots{
		"2025-12-24": {{Start: 1200, End: 1380}},
		"2025-12-26": {{Start: 540, End: 600}, {Start: 960, End: 1439}},
		"2026-01-15": {{Start: 0, End: 60}},   // beyond the window
		"2025-12-20": {{Start: 0, End: 60}},   // already past
	}

	got := renderOverlaps(ov, now, 7)
	assert.Equal(t,
		"Совпадает:\n24.12 ср: 20:00-23:00\n26.12 пт: 09:00-10:00, 16:00-23:59",
		got)
}

func TestRenderOverlaps_Empty(t *testing.T) {
	now := time.Date(2025, 12, 24, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, noOverlapsText, renderOverlaps(overlap.DaySlots{}, now, 7))
	assert.Equal(t, noOverlapsText, renderOverlaps(overlap.DaySlots{
		"2020-01-01": {{Start: 0, End: 60}},
	}, now, 7))
}

// renderOverlaps shows canonical interval text, so a stored open-ended
// slot surfaces as its normalized range.
func TestRenderOverlaps_CanonicalForm(t *testing.T) {
	iv, err := interval.Parse("после 16:00")
	require.NoError(t, err)

	now := time.Date(2025, 12, 24, 12, 0, 0, 0, time.UTC)
	got := renderOverlaps(overlap.DaySlots{"2025-12-25": {iv}}, now, 7)
	assert.Contains(t, got, "16:00-23:59")
}
