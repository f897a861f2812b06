package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robertmeta/calorie-cli/day"
	"github.com/robertmeta/calorie-cli/model"
)

// Entries is the food log. Entries are bucketed by calendar day and only
// today's and yesterday's buckets are retained.
//
// Every mutation reads the whole log, changes it in memory and writes the
// whole log back inside one transaction. Mutations are serialized.
type Entries struct {
	store  *Store
	window day.Window
	log    *slog.Logger
	mu     sync.Mutex
}

// NewEntries creates the food log on top of s.
func NewEntries(s *Store, window day.Window, logger *slog.Logger) *Entries {
	return &Entries{
		store:  s,
		window: window,
		log:    logger.With("component", "entries"),
	}
}

// ListToday returns today's entries in the order they were added. An
// unreadable log is reported as empty.
func (e *Entries) ListToday(ctx context.Context) ([]model.FoodEntry, error) {
	return e.listDay(ctx, e.window.Today())
}

// ListYesterday returns yesterday's entries in the order they were added.
func (e *Entries) ListYesterday(ctx context.Context) ([]model.FoodEntry, error) {
	return e.listDay(ctx, e.window.Yesterday())
}

func (e *Entries) listDay(ctx context.Context, key string) ([]model.FoodEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := loadDocument(ctx, e.store.db)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.log.WarnContext(ctx, "food log unreadable, showing empty day",
			slog.String("day", key), slog.String("error", err.Error()))
		return []model.FoodEntry{}, nil
	}

	entries := data[key]
	if entries == nil {
		entries = []model.FoodEntry{}
	}
	return entries, nil
}

// Add appends a new entry to today's bucket and prunes every bucket outside
// the retention window. Values are stored as given.
func (e *Entries) Add(ctx context.Context, name string, calories int, protein *int) (model.FoodEntry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.FoodEntry{}, model.NewStorageError("add entry", fmt.Errorf("failed to generate id: %w", err))
	}

	now := e.window.Now()
	entry := model.FoodEntry{
		ID:        id.String(),
		Name:      name,
		Calories:  calories,
		Timestamp: now.UTC().Truncate(time.Millisecond),
	}
	if protein != nil {
		entry.Protein = model.IntPtr(*protein)
	}
	today := e.window.Key(now)

	var removed []string
	err = e.mutate(ctx, "add entry", func(data model.DayData) bool {
		data[today] = append(data[today], entry)
		removed = e.prune(data, now)
		return true
	})
	if err != nil {
		return model.FoodEntry{}, err
	}

	e.log.DebugContext(ctx, "entry added",
		slog.String("id", entry.ID),
		slog.String("day", today),
		slog.Int("calories", entry.Calories),
	)
	if len(removed) > 0 {
		e.log.InfoContext(ctx, "pruned old days", slog.Any("days", removed))
	}

	return entry, nil
}

// Update merges u into the entry with the given id. Only today's bucket is
// searched; an unknown id is not an error and leaves the log untouched.
func (e *Entries) Update(ctx context.Context, id string, u model.EntryUpdate) error {
	today := e.window.Today()
	return e.mutate(ctx, "update entry", func(data model.DayData) bool {
		bucket := data[today]
		for i := range bucket {
			if bucket[i].ID == id {
				bucket[i].Apply(u)
				return true
			}
		}
		e.log.DebugContext(ctx, "update skipped, id not in today's bucket", slog.String("id", id))
		return false
	})
}

// Delete removes the entry with the given id from today's bucket. An unknown
// id is not an error and leaves the log untouched.
func (e *Entries) Delete(ctx context.Context, id string) error {
	today := e.window.Today()
	return e.mutate(ctx, "delete entry", func(data model.DayData) bool {
		bucket, ok := data[today]
		if !ok {
			return false
		}
		kept := make([]model.FoodEntry, 0, len(bucket))
		for _, entry := range bucket {
			if entry.ID != id {
				kept = append(kept, entry)
			}
		}
		if len(kept) == len(bucket) {
			return false
		}
		data[today] = kept
		return true
	})
}

// TotalCalories returns the sum of today's calories.
func (e *Entries) TotalCalories(ctx context.Context) (int, error) {
	entries, err := e.ListToday(ctx)
	if err != nil {
		return 0, err
	}
	calories, _ := model.Sum(entries)
	return calories, nil
}

// TotalProtein returns the sum of today's protein grams.
func (e *Entries) TotalProtein(ctx context.Context) (int, error) {
	entries, err := e.ListToday(ctx)
	if err != nil {
		return 0, err
	}
	_, protein := model.Sum(entries)
	return protein, nil
}

// RunStartupRetention drops every bucket other than today and yesterday.
// It is safe to call any number of times and returns the dropped days.
func (e *Entries) RunStartupRetention(ctx context.Context) ([]string, error) {
	var removed []string
	err := e.mutate(ctx, "startup retention", func(data model.DayData) bool {
		removed = e.prune(data, e.window.Now())
		return len(removed) > 0
	})
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		e.log.InfoContext(ctx, "pruned old days", slog.Any("days", removed))
	}
	return removed, nil
}

// ClearAll deletes the whole log.
func (e *Entries) ClearAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := deleteDocument(ctx, e.store.db); err != nil {
		return model.NewStorageError("clear log", err)
	}
	e.log.InfoContext(ctx, "food log cleared")
	return nil
}

// mutate runs fn against the whole log inside a transaction and writes the
// log back when fn reports a change.
func (e *Entries) mutate(ctx context.Context, op string, fn func(data model.DayData) bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.store.db.BeginTx(ctx, nil)
	if err != nil {
		return model.NewStorageError(op, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	data, err := loadDocument(ctx, tx)
	if err != nil {
		return model.NewStorageError(op, err)
	}

	if !fn(data) {
		return nil
	}

	if err := saveDocument(ctx, tx, data); err != nil {
		return model.NewStorageError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return model.NewStorageError(op, fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

// prune deletes every bucket outside the retention window as seen at now and
// returns the deleted keys in order.
func (e *Entries) prune(data model.DayData, now time.Time) []string {
	w := e.window.At(now)

	var removed []string
	for key := range data {
		if !w.Retains(key) {
			delete(data, key)
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	return removed
}
