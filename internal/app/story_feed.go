package app

import (
	"sync"

	"fishwrapper-service/internal/domain"
)

// StoryFeed fans selection changes out to live timeline watchers.
type StoryFeed struct {
	mu          sync.Mutex
	subscribers map[chan []domain.TimelineEntry]struct{}
}

func NewStoryFeed() *StoryFeed {
	return &StoryFeed{subscribers: make(map[chan []domain.TimelineEntry]struct{})}
}

// Subscribe returns a channel receiving story snapshots. The caller must
// invoke the returned cancel function to avoid leaks.
func (f *StoryFeed) Subscribe() (<-chan []domain.TimelineEntry, func()) {
	ch := make(chan []domain.TimelineEntry, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber. A subscriber that has
// fallen behind loses its oldest pending snapshot rather than blocking the
// publisher.
func (f *StoryFeed) Publish(story []domain.TimelineEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- story:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- story
		}
	}
}
