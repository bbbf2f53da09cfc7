package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/alnabramov-cyber/telegram-bot/internal/interval"
	"github.com/alnabramov-cyber/telegram-bot/internal/model"
	"github.com/alnabramov-cyber/telegram-bot/internal/overlap"
)

// gormStore keeps the availability document as availability_days rows,
// one row per (party, date), with the interval list encoded as a JSON
// array of canonical strings. Save rewrites the whole table in one
// transaction so document semantics match the file store.
type gormStore struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewGormStore creates a database-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Load(ctx context.Context) Snapshot {
	snap := EmptySnapshot()

	var rows []model.AvailabilityDay
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		log.Printf("availability rows unreadable, starting empty: %v", err)
		return snap
	}

	for _, row := range rows {
		p := Party(row.Party)
		if p != PartyAdmin && p != PartyUser {
			continue
		}
		var texts []string
		if err := json.Unmarshal([]byte(row.Slots), &texts); err != nil {
			log.Printf("skipping stored intervals for %s/%s: %v", row.Party, row.Date, err)
			continue
		}
		ivs, err := interval.ParseAll(texts)
		if err != nil {
			log.Printf("skipping stored intervals for %s/%s: %v", row.Party, row.Date, err)
			continue
		}
		snap[p][row.Date] = ivs
	}
	return snap
}

func (s *gormStore) Save(ctx context.Context, snap Snapshot) error {
	now := time.Now()

	var rows []model.AvailabilityDay
	for _, party := range []Party{PartyAdmin, PartyUser} {
		for date, ivs := range snap[party] {
			if len(ivs) == 0 {
				continue
			}
			encoded, err := json.Marshal(interval.Render(ivs))
			if err != nil {
				return fmt.Errorf("encode intervals for %s/%s: %w", party, date, err)
			}
			rows = append(rows, model.AvailabilityDay{
				Party:     string(party),
				Date:      date,
				Slots:     string(encoded),
				UpdatedAt: now,
			})
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&model.AvailabilityDay{}).Error; err != nil {
			return fmt.Errorf("clear availability rows: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("write availability rows: %w", err)
		}
		return nil
	})
}

func (s *gormStore) SetDay(ctx context.Context, party Party, date string, slots []interval.Interval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.Load(ctx)
	snap[party][date] = slots
	return s.Save(ctx, snap)
}

func (s *gormStore) GetDay(ctx context.Context, party Party, date string) []interval.Interval {
	return s.Load(ctx)[party][date]
}

func (s *gormStore) Overlaps(ctx context.Context) overlap.DaySlots {
	snap := s.Load(ctx)
	return overlap.Compute(snap[PartyAdmin], snap[PartyUser])
}

func (s *gormStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create booking for chat %d: %w", b.ChatID, err)
	}
	return nil
}

func (s *gormStore) Bookings(ctx context.Context, date string) ([]model.Booking, error) {
	q := s.db.WithContext(ctx).Order("created_at")
	if date != "" {
		q = q.Where("date = ?", date)
	}
	var bookings []model.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
