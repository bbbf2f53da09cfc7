package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnabramov-cyber/telegram-bot/internal/interval"
	"github.com/alnabramov-cyber/telegram-bot/internal/model"
	"github.com/alnabramov-cyber/telegram-bot/internal/overlap"
)

// fileStore keeps the availability document as a single JSON file with
// exactly two top-level keys, "admin" and "user", each mapping ISO dates
// to arrays of canonical interval strings. Bookings live in a sibling
// file next to it. Absence of either file is a valid initial state.
type fileStore struct {
	path         string
	bookingsPath string
	mu           sync.Mutex
}

// NewFileStore creates a file-backed store rooted at path. The parent
// directory is created on demand at save time.
func NewFileStore(path string) Store {
	return &fileStore{
		path:         path,
		bookingsPath: filepath.Join(filepath.Dir(path), "bookings.json"),
	}
}

func (s *fileStore) Load(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads and decodes the document. Callers hold s.mu.
func (s *fileStore) load() Snapshot {
	snap := EmptySnapshot()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("availability file %s unreadable, starting empty: %v", s.path, err)
		}
		return snap
	}

	var doc map[string]map[string][]string
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("availability file %s corrupt, starting empty: %v", s.path, err)
		return snap
	}

	for party, days := range doc {
		p := Party(party)
		if p != PartyAdmin && p != PartyUser {
			continue
		}
		for date, texts := range days {
			ivs, err := interval.ParseAll(texts)
			if err != nil {
				log.Printf("skipping stored intervals for %s/%s: %v", party, date, err)
				continue
			}
			snap[p][date] = ivs
		}
	}
	return snap
}

func (s *fileStore) Save(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(snap)
}

// save serializes the whole document and swaps it in atomically via a
// rename. Callers hold s.mu.
func (s *fileStore) save(snap Snapshot) error {
	doc := map[string]map[string][]string{
		string(PartyAdmin): {},
		string(PartyUser):  {},
	}
	for _, party := range []Party{PartyAdmin, PartyUser} {
		for date, ivs := range snap[party] {
			if len(ivs) == 0 {
				continue
			}
			doc[string(party)][date] = interval.Render(ivs)
		}
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode availability document: %w", err)
	}
	return writeFileAtomic(s.path, raw)
}

func (s *fileStore) SetDay(ctx context.Context, party Party, date string, slots []interval.Interval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.load()
	snap[party][date] = slots
	return s.save(snap)
}

func (s *fileStore) GetDay(ctx context.Context, party Party, date string) []interval.Interval {
	return s.Load(ctx)[party][date]
}

func (s *fileStore) Overlaps(ctx context.Context) overlap.DaySlots {
	snap := s.Load(ctx)
	return overlap.Compute(snap[PartyAdmin], snap[PartyUser])
}

func (s *fileStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings := s.loadBookings()
	b.ID = int64(len(bookings) + 1)
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	bookings = append(bookings, *b)

	raw, err := json.MarshalIndent(bookings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bookings: %w", err)
	}
	return writeFileAtomic(s.bookingsPath, raw)
}

func (s *fileStore) Bookings(ctx context.Context, date string) ([]model.Booking, error) {
	s.mu.Lock()
	all := s.loadBookings()
	s.mu.Unlock()

	if date == "" {
		return all, nil
	}
	var out []model.Booking
	for _, b := range all {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

// loadBookings reads the bookings file, falling back to an empty list on
// any read or decode failure. Callers hold s.mu.
func (s *fileStore) loadBookings() []model.Booking {
	raw, err := os.ReadFile(s.bookingsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("bookings file %s unreadable, starting empty: %v", s.bookingsPath, err)
		}
		return nil
	}
	var bookings []model.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		log.Printf("bookings file %s corrupt, starting empty: %v", s.bookingsPath, err)
		return nil
	}
	return bookings
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
