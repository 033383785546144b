package app

import (
	"context"
	"errors"
	"strconv"
	"time"

	"fishwrapper-service/internal/domain"
)

// WeekCounter names the global counter new submissions are tagged with.
const WeekCounter = "TimelineWeek"

// TimelineStore persists timeline entries.
type TimelineStore interface {
	PutEntry(ctx context.Context, entry domain.TimelineEntry) error
	ListEntries(ctx context.Context) ([]domain.TimelineEntry, error)
	// SelectedEntries returns every selected entry ordered by week ascending.
	SelectedEntries(ctx context.Context) ([]domain.TimelineEntry, error)
	// SetSelected sets or clears the selected marker on one entry.
	SetSelected(ctx context.Context, id int64, selected bool) error
	DeleteEntry(ctx context.Context, id int64) error
}

// CounterStore persists named global counters.
type CounterStore interface {
	GetCounter(ctx context.Context, name string) (int, error)
	SetCounter(ctx context.Context, name string, value int) error
}

// TimelineScheduler manages the collaborative infinite timeline: readers
// submit entries tagged with the current week, editors pick one entry per
// week and eventually purge the rest.
type TimelineScheduler struct {
	entries  TimelineStore
	counters CounterStore
	feed     *StoryFeed
	clock    func() time.Time
}

func NewTimelineScheduler(entries TimelineStore, counters CounterStore, feed *StoryFeed) *TimelineScheduler {
	return &TimelineScheduler{
		entries:  entries,
		counters: counters,
		feed:     feed,
		clock:    time.Now,
	}
}

// NewTimelineSchedulerWithClock is test-only for deterministic entry ids.
func NewTimelineSchedulerWithClock(entries TimelineStore, counters CounterStore, feed *StoryFeed, clock func() time.Time) *TimelineScheduler {
	s := NewTimelineScheduler(entries, counters, feed)
	s.clock = clock
	return s
}

// CurrentWeek reads the global week counter.
func (s *TimelineScheduler) CurrentWeek(ctx context.Context) (int, error) {
	return s.counters.GetCounter(ctx, WeekCounter)
}

// Submit creates a new entry tagged with the current week. The id is the
// creation time in milliseconds, matching ids already in the table.
func (s *TimelineScheduler) Submit(ctx context.Context, content string) (domain.TimelineEntry, error) {
	if content == "" {
		return domain.TimelineEntry{}, domain.ErrContentRequired
	}
	week, err := s.CurrentWeek(ctx)
	if err != nil {
		return domain.TimelineEntry{}, err
	}
	entry := domain.TimelineEntry{
		ID:      s.clock().UnixMilli(),
		Content: content,
		Week:    week,
	}
	if err := s.entries.PutEntry(ctx, entry); err != nil {
		return domain.TimelineEntry{}, err
	}
	return entry, nil
}

// SelectableEntries returns the entries for one week, for the editor's
// selection page. The week arrives as a query/form value; a non-numeric or
// empty value falls back to the current week. Returns the resolved week
// alongside the entries.
func (s *TimelineScheduler) SelectableEntries(ctx context.Context, week string) ([]domain.TimelineEntry, int, error) {
	target, err := s.resolveWeek(ctx, week)
	if err != nil {
		return nil, 0, err
	}
	all, err := s.entries.ListEntries(ctx)
	if err != nil {
		return nil, 0, err
	}
	var matched []domain.TimelineEntry
	for _, entry := range all {
		if entry.Week == target {
			matched = append(matched, entry)
		}
	}
	return matched, target, nil
}

// Select marks chosenID as the entry for the week and clears the marker on
// every other entry of that week. The sweep is a sequence of independent
// per-entry updates, not a transaction; a submit racing the sweep can be
// missed, and a crash mid-sweep can leave two entries marked. Entries
// deleted mid-sweep are skipped. Selecting the same entry twice is a no-op.
func (s *TimelineScheduler) Select(ctx context.Context, week string, chosenID int64) error {
	entries, _, err := s.SelectableEntries(ctx, week)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := s.entries.SetSelected(ctx, entry.ID, entry.ID == chosenID); err != nil {
			if errors.Is(err, domain.ErrEntryNotFound) {
				continue
			}
			return err
		}
	}
	s.publish(ctx)
	return nil
}

// StorySoFar returns the selected entry of every week, ascending, which is
// the story readers see on the index page.
func (s *TimelineScheduler) StorySoFar(ctx context.Context) ([]domain.TimelineEntry, error) {
	return s.entries.SelectedEntries(ctx)
}

// AdvanceWeek overwrites the global week counter. Nothing checks that the
// new value is an advance at all; the form is editor-only and trusted.
func (s *TimelineScheduler) AdvanceWeek(ctx context.Context, newWeek int) error {
	return s.counters.SetCounter(ctx, WeekCounter, newWeek)
}

// Cleanup deletes every unselected entry regardless of week, including the
// current week's not-yet-judged submissions. Editors trigger this only
// after selection for the current week is final. Returns the number of
// entries removed.
func (s *TimelineScheduler) Cleanup(ctx context.Context) (int, error) {
	all, err := s.entries.ListEntries(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range all {
		if entry.Selected {
			continue
		}
		if err := s.entries.DeleteEntry(ctx, entry.ID); err != nil {
			if errors.Is(err, domain.ErrEntryNotFound) {
				continue
			}
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *TimelineScheduler) resolveWeek(ctx context.Context, week string) (int, error) {
	if week != "" {
		if n, err := strconv.Atoi(week); err == nil {
			return n, nil
		}
	}
	return s.CurrentWeek(ctx)
}

func (s *TimelineScheduler) publish(ctx context.Context) {
	if s.feed == nil {
		return
	}
	story, err := s.StorySoFar(ctx)
	if err != nil {
		return
	}
	s.feed.Publish(story)
}
