// Package store persists each party's declared availability and the
// bookings made through the bot. Two implementations exist: a single
// JSON document on disk and a GORM-backed database, selected by
// configuration. Both share the same semantics: reads fail open to an
// empty snapshot, writes replace the whole document atomically, and a
// concurrent writer that did not see the latest load is clobbered
// (last-write-wins at document granularity).
package store

import (
	"context"

	"github.com/alnabramov-cyber/telegram-bot/internal/interval"
	"github.com/alnabramov-cyber/telegram-bot/internal/model"
	"github.com/alnabramov-cyber/telegram-bot/internal/overlap"
)

// Party identifies one of the exactly two sides tracked by the store.
type Party string

const (
	PartyAdmin Party = "admin"
	PartyUser  Party = "user"
)

// ResolveParty maps a Telegram user ID onto a party slot. The configured
// admin ID maps to "admin"; everyone else shares the single "user" slot.
func ResolveParty(userID, adminID int64) Party {
	if userID == adminID {
		return PartyAdmin
	}
	return PartyUser
}

// Snapshot is the full availability document: one slot set per party.
// Both party keys are always present, possibly mapping to empty sets.
type Snapshot map[Party]overlap.DaySlots

// EmptySnapshot returns a snapshot with both party keys present.
func EmptySnapshot() Snapshot {
	return Snapshot{
		PartyAdmin: overlap.DaySlots{},
		PartyUser:  overlap.DaySlots{},
	}
}

// Store is the persistence surface used by the bot and the HTTP API.
type Store interface {
	// Load reads the full persisted document. A missing or corrupt
	// document yields an empty snapshot; read errors are never
	// propagated to callers.
	Load(ctx context.Context) Snapshot

	// Save atomically replaces the entire persisted document.
	Save(ctx context.Context, snap Snapshot) error

	// SetDay replaces, without merging, the interval sequence stored
	// for (party, date) via a load-mutate-save cycle.
	SetDay(ctx context.Context, party Party, date string, slots []interval.Interval) error

	// GetDay returns the stored sequence for (party, date), or an
	// empty slice if nothing is stored.
	GetDay(ctx context.Context, party Party, date string) []interval.Interval

	// Overlaps loads the current snapshot and intersects the two
	// parties' declared intervals.
	Overlaps(ctx context.Context) overlap.DaySlots

	CreateBooking(ctx context.Context, b *model.Booking) error

	// Bookings lists stored bookings, optionally filtered by ISO date.
	Bookings(ctx context.Context, date string) ([]model.Booking, error)
}
