package app

import (
	"context"

	"fishwrapper-service/internal/domain"
)

// QuizStore persists quizzes.
type QuizStore interface {
	GetQuiz(ctx context.Context, id string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	PutQuiz(ctx context.Context, quiz domain.Quiz) error
	UpdateQuiz(ctx context.Context, id string, upd domain.QuizUpdate) error
	DeleteQuiz(ctx context.Context, id string) error
}

// QuizReader serves quiz reads, normally through a TTL cache in front of
// the store. Invalidate drops a cached quiz after an edit or delete.
type QuizReader interface {
	GetQuiz(ctx context.Context, id string) (domain.Quiz, error)
	Invalidate(id string)
}

// QuizView is a quiz with its blurb rendered for display.
type QuizView struct {
	domain.Quiz
	BlurbHTML string `json:"blurbHtml"`
}

// GradeOutcome is the rendered result of grading one submission. Result is
// nil when no answer resolved to a known result bucket.
type GradeOutcome struct {
	Quiz   QuizView            `json:"quiz"`
	Result *domain.Result      `json:"result"`
	Pairs  []domain.GradedPair `json:"pairs"`
}

// QuizService contains the quiz use cases.
type QuizService struct {
	store  QuizStore
	reader QuizReader
}

func NewQuizService(store QuizStore, reader QuizReader) *QuizService {
	return &QuizService{store: store, reader: reader}
}

// Index lists every quiz, blurbs rendered, split into two columns.
func (s *QuizService) Index(ctx context.Context) (left, center []QuizView, err error) {
	quizzes, err := s.store.ListQuizzes(ctx)
	if err != nil {
		return nil, nil, err
	}
	views := make([]QuizView, 0, len(quizzes))
	for _, quiz := range quizzes {
		views = append(views, QuizView{Quiz: quiz, BlurbHTML: renderMarkdown(quiz.Blurb)})
	}
	half := len(views) / 2
	return views[:half], views[half:], nil
}

// List returns every quiz unrendered, for the sitemap.
func (s *QuizService) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.store.ListQuizzes(ctx)
}

// Show fetches one quiz for display.
func (s *QuizService) Show(ctx context.Context, id string) (QuizView, error) {
	quiz, err := s.reader.GetQuiz(ctx, id)
	if err != nil {
		return QuizView{}, err
	}
	return QuizView{Quiz: quiz, BlurbHTML: renderMarkdown(quiz.Blurb)}, nil
}

// Create parses a submitted form into a new quiz. The id is derived from
// the title, so two quizzes whose titles share the first 20 characters
// collide; the later one wins, same as the original site.
func (s *QuizService) Create(ctx context.Context, fields domain.FormFields) (domain.Quiz, error) {
	title := fields.Value("title")
	if title == "" {
		return domain.Quiz{}, domain.ErrTitleRequired
	}
	draft := ParseSubmission(fields)
	quiz := domain.Quiz{
		ID:              SlugFromTitle(title),
		Title:           title,
		Author:          fields.Value("author"),
		Blurb:           fields.Value("blurb"),
		Thumbnail:       fields.Value("thumbnail"),
		ThumbnailCredit: fields.Value("thumbnail_credit"),
		Questions:       draft.Questions,
		Results:         draft.Results,
	}
	if err := s.store.PutQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// Update applies a full form resubmission to an existing quiz. Results are
// merged against the stored list so result metadata the form does not
// round-trip survives the edit.
func (s *QuizService) Update(ctx context.Context, fields domain.FormFields) error {
	id := fields.Value("quizId")
	if id == "" {
		return domain.ErrQuizNotFound
	}
	existing, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		return err
	}
	draft := ParseSubmission(fields)
	upd := domain.QuizUpdate{
		Title:           fields.Value("title"),
		Author:          fields.Value("author"),
		Blurb:           fields.Value("blurb"),
		ThumbnailCredit: fields.Value("thumbnail_credit"),
		Questions:       draft.Questions,
		Results:         MergeResults(existing.Results, draft.Results),
	}
	if thumb, ok := fields.Get("thumbnail"); ok && thumb != "" {
		upd.Thumbnail = &thumb
	}
	if err := s.store.UpdateQuiz(ctx, id, upd); err != nil {
		return err
	}
	s.reader.Invalidate(id)
	return nil
}

// Destroy deletes a quiz.
func (s *QuizService) Destroy(ctx context.Context, id string) error {
	if err := s.store.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	s.reader.Invalidate(id)
	return nil
}

// GradeSubmission grades a reader's answer form against the quiz. Every
// field is treated as a questionId→resultId choice, in form order.
func (s *QuizService) GradeSubmission(ctx context.Context, id string, fields domain.FormFields) (GradeOutcome, error) {
	quiz, err := s.reader.GetQuiz(ctx, id)
	if err != nil {
		return GradeOutcome{}, err
	}
	choices := make([]domain.AnswerChoice, 0, len(fields))
	for _, field := range fields {
		choices = append(choices, domain.AnswerChoice{QuestionID: field.Key, ResultID: field.Value})
	}
	winner, pairs := Grade(quiz, choices)
	outcome := GradeOutcome{
		Quiz:  QuizView{Quiz: quiz, BlurbHTML: renderMarkdown(quiz.Blurb)},
		Pairs: pairs,
	}
	if winner != nil {
		rendered := *winner
		rendered.Text = renderMarkdownInline(winner.Text)
		outcome.Result = &rendered
	}
	return outcome, nil
}
