package memory

import (
	"context"
	"sort"
	"sync"

	"fishwrapper-service/internal/domain"
)

// Store is an in-memory backend for quizzes, timeline entries, global
// counters, and editors. It is the default when no postgres URL is
// configured, and the workhorse of the unit tests.
type Store struct {
	mu       sync.RWMutex
	quizzes  map[string]domain.Quiz
	entries  map[int64]domain.TimelineEntry
	counters map[string]int
	editors  map[string]domain.Editor
}

func NewStore() *Store {
	return &Store{
		quizzes:  make(map[string]domain.Quiz),
		entries:  make(map[int64]domain.TimelineEntry),
		counters: make(map[string]int),
		editors:  make(map[string]domain.Editor),
	}
}

func (s *Store) GetQuiz(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *Store) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		out = append(out, quiz)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) PutQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *Store) UpdateQuiz(_ context.Context, id string, upd domain.QuizUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.ErrQuizNotFound
	}
	upd.Apply(&quiz)
	s.quizzes[id] = quiz
	return nil
}

func (s *Store) DeleteQuiz(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quizzes, id)
	return nil
}

func (s *Store) PutEntry(_ context.Context, entry domain.TimelineEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
	return nil
}

func (s *Store) ListEntries(_ context.Context) ([]domain.TimelineEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TimelineEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SelectedEntries(_ context.Context) ([]domain.TimelineEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.TimelineEntry
	for _, entry := range s.entries {
		if entry.Selected {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) SetSelected(_ context.Context, id int64, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	entry.Selected = selected
	s.entries[id] = entry
	return nil
}

func (s *Store) DeleteEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) GetCounter(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.counters[name]
	if !ok {
		return 0, domain.ErrCounterNotFound
	}
	return value, nil
}

func (s *Store) SetCounter(_ context.Context, name string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] = value
	return nil
}

func (s *Store) GetEditor(_ context.Context, username string) (domain.Editor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	editor, ok := s.editors[username]
	if !ok {
		return domain.Editor{}, domain.ErrEditorNotFound
	}
	return editor, nil
}

func (s *Store) PutEditor(_ context.Context, editor domain.Editor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editors[editor.Username] = editor
	return nil
}
