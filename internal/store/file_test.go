package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnabramov-cyber/telegram-bot/internal/interval"
	"github.com/alnabramov-cyber/telegram-bot/internal/model"
	"github.com/alnabramov-cyber/telegram-bot/internal/overlap"
)

func newFileStore(t *testing.T) (Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "availability.json")
	return NewFileStore(path), path
}

func TestFileStore_MissingDocumentIsEmpty(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	snap := s.Load(ctx)
	assert.Empty(t, snap[PartyAdmin])
	assert.Empty(t, snap[PartyUser])
	assert.Empty(t, s.GetDay(ctx, PartyAdmin, "2025-12-24"))
}

func TestFileStore_CorruptDocumentIsEmpty(t *testing.T) {
	s, path := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	snap := s.Load(ctx)
	assert.Empty(t, snap[PartyAdmin])
	assert.Empty(t, snap[PartyUser])
}

func TestFileStore_SetDayOverwrites(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	first := []interval.Interval{{Start: 540, End: 600}}
	second := []interval.Interval{{Start: 1110, End: 1320}, {Start: 1350, End: 1439}}

	require.NoError(t, s.SetDay(ctx, PartyUser, "2025-12-24", first))
	assert.Equal(t, first, s.GetDay(ctx, PartyUser, "2025-12-24"))

	require.NoError(t, s.SetDay(ctx, PartyUser, "2025-12-24", second))
	assert.Equal(t, second, s.GetDay(ctx, PartyUser, "2025-12-24"))
}

func TestFileStore_SetDayKeepsOtherKeys(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetDay(ctx, PartyAdmin, "2025-12-24", []interval.Interval{{Start: 0, End: 60}}))
	require.NoError(t, s.SetDay(ctx, PartyAdmin, "2025-12-25", []interval.Interval{{Start: 60, End: 120}}))
	require.NoError(t, s.SetDay(ctx, PartyUser, "2025-12-24", []interval.Interval{{Start: 30, End: 90}}))

	assert.Equal(t, []interval.Interval{{Start: 0, End: 60}}, s.GetDay(ctx, PartyAdmin, "2025-12-24"))
	assert.Equal(t, []interval.Interval{{Start: 60, End: 120}}, s.GetDay(ctx, PartyAdmin, "2025-12-25"))
	assert.Equal(t, []interval.Interval{{Start: 30, End: 90}}, s.GetDay(ctx, PartyUser, "2025-12-24"))
}

func TestFileStore_LoadIsIdempotent(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetDay(ctx, PartyAdmin, "2025-12-24", []interval.Interval{{Start: 960, End: 1439}}))

	assert.Equal(t, s.Load(ctx), s.Load(ctx))
}

// The persisted document has exactly two top-level keys with arrays of
// canonical strings, and no leftover temp files after a save.
func TestFileStore_DocumentLayout(t *testing.T) {
	s, path := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetDay(ctx, PartyAdmin, "2025-12-24", []interval.Interval{{Start: 960, End: 1439}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string][]string
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc, 2)
	assert.Equal(t, []string{"16:00-23:59"}, doc["admin"]["2025-12-24"])
	assert.Empty(t, doc["user"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_Overlaps(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetDay(ctx, PartyAdmin, "2025-12-24", []interval.Interval{{Start: 1080, End: 1380}}))
	require.NoError(t, s.SetDay(ctx, PartyUser, "2025-12-24", []interval.Interval{{Start: 1200, End: 1439}}))
	require.NoError(t, s.SetDay(ctx, PartyUser, "2025-12-25", []interval.Interval{{Start: 540, End: 600}}))

	got := s.Overlaps(ctx)
	assert.Equal(t, overlap.DaySlots{
		"2025-12-24": {{Start: 1200, End: 1380}},
	}, got)
}

func TestFileStore_Bookings(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBooking(ctx, &model.Booking{ChatID: 42, Username: "@polina", Date: "2025-12-24", Slot: "20:00-23:00"}))
	require.NoError(t, s.CreateBooking(ctx, &model.Booking{ChatID: 42, Username: "@polina", Date: "2025-12-25", Slot: "09:00-10:00"}))

	all, err := s.Bookings(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	day, err := s.Bookings(ctx, "2025-12-24")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "20:00-23:00", day[0].Slot)
	assert.NotZero(t, day[0].ID)
}

func TestResolveParty(t *testing.T) {
	assert.Equal(t, PartyAdmin, ResolveParty(100, 100))
	assert.Equal(t, PartyUser, ResolveParty(101, 100))
	assert.Equal(t, PartyUser, ResolveParty(0, 100))
}
