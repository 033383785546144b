package domain

import "strings"

// Answer is one selectable answer on a quiz question. ResultID names the
// result bucket this answer counts toward when the quiz is graded.
type Answer struct {
	ID       string `json:"aId"`
	Text     string `json:"aContent"`
	ResultID string `json:"aResult"`
}

// Question is a quiz question with its answers in form order.
type Question struct {
	ID      string   `json:"qId"`
	Text    string   `json:"qContent"`
	Answers []Answer `json:"answers"`
}

// Result is one quiz outcome bucket. ThumbnailCredit is server-side
// metadata the edit form does not round-trip.
type Result struct {
	ID              string `json:"rId"`
	Text            string `json:"rContent"`
	ThumbnailCredit string `json:"thumbnail_credit,omitempty"`
}

// Quiz is a personality-style quiz as stored.
type Quiz struct {
	ID              string     `json:"quizId"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Blurb           string     `json:"blurb"`
	Thumbnail       string     `json:"thumbnail,omitempty"`
	ThumbnailCredit string     `json:"thumbnail_credit,omitempty"`
	Questions       []Question `json:"questions"`
	Results         []Result   `json:"results"`
}

// QuizDraft is the structured form of a create/edit submission before it is
// combined with the quiz's scalar fields.
type QuizDraft struct {
	Questions []Question
	Results   []Result
}

// QuizUpdate carries a partial quiz edit. Thumbnail is only set when a new
// upload accompanied the form, so nil means "keep the stored one".
type QuizUpdate struct {
	Title           string
	Author          string
	Blurb           string
	ThumbnailCredit string
	Thumbnail       *string
	Questions       []Question
	Results         []Result
}

// Apply writes the update onto a stored quiz.
func (u QuizUpdate) Apply(q *Quiz) {
	q.Title = u.Title
	q.Author = u.Author
	q.Blurb = u.Blurb
	q.ThumbnailCredit = u.ThumbnailCredit
	q.Questions = u.Questions
	q.Results = u.Results
	if u.Thumbnail != nil {
		q.Thumbnail = *u.Thumbnail
	}
}

// AnswerChoice is one (question, result) pair from a graded submission, in
// the order the reader's form listed it.
type AnswerChoice struct {
	QuestionID string
	ResultID   string
}

// GradedPair records which question led to which result for one choice.
// Either side may be nil when the submitted id resolves to nothing.
type GradedPair struct {
	Question *Question `json:"question"`
	Result   *Result   `json:"result"`
}

// TimelineEntry is one reader contribution to the infinite timeline.
// Selected marks the canonical entry for its week.
type TimelineEntry struct {
	ID       int64  `json:"id"`
	Content  string `json:"content"`
	Week     int    `json:"week"`
	Selected bool   `json:"selected,omitempty"`
}

// Editor is a staff account allowed to run administrative operations.
type Editor struct {
	Username string
	PassHash []byte
}

// FormField is a single submitted form field. Fields are kept as an ordered
// list rather than a map because question/answer/result ordering follows
// the order the form listed them in.
type FormField struct {
	Key   string
	Value string
}

// FormFields is an insertion-ordered form submission.
type FormFields []FormField

// Get returns the first value for key and whether it was present.
func (f FormFields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Value returns the first value for key, or "" when absent.
func (f FormFields) Value(key string) string {
	v, _ := f.Get(key)
	return v
}

// WithPrefix returns the fields whose key starts with prefix, in order.
func (f FormFields) WithPrefix(prefix string) FormFields {
	var out FormFields
	for _, field := range f {
		if strings.HasPrefix(field.Key, prefix) {
			out = append(out, field)
		}
	}
	return out
}
