package app

import (
	"regexp"
	"strings"

	"fishwrapper-service/internal/domain"
)

// The create/edit form encodes its repeating structure in field names:
//
//	qContent-<qId>          question text
//	aContent-<aId>          answer text; <aId> ends with the owning <qId>
//	aResult-<aId>           result bucket the answer counts toward
//	rContent-<rId>          result text
//	rThumbnailCredit-<rId>  optional credit for the result's thumbnail
//
// Field order is meaningful: questions, answers and results keep the order
// the form listed them in.

var whitespace = regexp.MustCompile(`\s`)

// SlugFromTitle derives the stable quiz id from a submitted title:
// lower-cased, truncated to 20 characters, whitespace replaced by hyphens.
func SlugFromTitle(title string) string {
	slug := strings.ToLower(title)
	if runes := []rune(slug); len(runes) > 20 {
		slug = string(runes[:20])
	}
	return whitespace.ReplaceAllString(slug, "-")
}

// ParseSubmission builds a structured draft from the flat form fields.
// Incomplete records (empty question, answer or result text) are dropped
// without error; a question survives even if all of its answers are dropped.
func ParseSubmission(fields domain.FormFields) domain.QuizDraft {
	draft := domain.QuizDraft{}

	for _, field := range fields.WithPrefix("qContent-q") {
		qid := strings.TrimPrefix(field.Key, "qContent-")
		if qid == "" || field.Value == "" {
			continue
		}
		question := domain.Question{ID: qid, Text: field.Value}
		for _, af := range fields.WithPrefix("aContent-a") {
			if !strings.HasSuffix(af.Key, qid) {
				continue
			}
			aid := strings.TrimPrefix(af.Key, "aContent-")
			if aid == "" || af.Value == "" {
				continue
			}
			question.Answers = append(question.Answers, domain.Answer{
				ID:       aid,
				Text:     af.Value,
				ResultID: fields.Value("aResult-" + aid),
			})
		}
		draft.Questions = append(draft.Questions, question)
	}

	for _, field := range fields.WithPrefix("rContent-r") {
		rid := strings.TrimPrefix(field.Key, "rContent-")
		if rid == "" || field.Value == "" {
			continue
		}
		result := domain.Result{ID: rid, Text: field.Value}
		if credit := fields.Value("rThumbnailCredit-" + rid); credit != "" {
			result.ThumbnailCredit = credit
		}
		draft.Results = append(draft.Results, result)
	}

	return draft
}

// MergeResults folds a resubmitted results list onto the stored one.
// Editors resubmit the whole form on every edit; overwriting wholesale
// would drop server-only result metadata the form does not carry, so each
// incoming result only overrides the fields it actually changed.
func MergeResults(existing, incoming []domain.Result) []domain.Result {
	merged := make([]domain.Result, 0, len(incoming))
	for _, in := range incoming {
		out := in
		for _, old := range existing {
			if old.ID != in.ID {
				continue
			}
			out = old
			if in.Text != old.Text {
				out.Text = in.Text
			}
			if in.ThumbnailCredit != "" && in.ThumbnailCredit != old.ThumbnailCredit {
				out.ThumbnailCredit = in.ThumbnailCredit
			}
			break
		}
		merged = append(merged, out)
	}
	return merged
}

// Grade tallies which result bucket the reader's choices referenced most
// often and returns it, with the per-choice question/result pairing for
// display. Choices whose result id resolves to nothing are dropped from the
// tally; an unknown question id does not block tallying. The winner needs a
// strictly highest count; on a tie the result that reached the maximum
// first (in choice order) wins. Returns nil when no choice resolves.
func Grade(quiz domain.Quiz, choices []domain.AnswerChoice) (*domain.Result, []domain.GradedPair) {
	type tally struct {
		result *domain.Result
		count  int
	}
	var tallies []*tally
	byResult := make(map[string]*tally)
	pairs := make([]domain.GradedPair, 0, len(choices))

	for _, choice := range choices {
		var question *domain.Question
		for i := range quiz.Questions {
			// last match wins when ids are duplicated
			if quiz.Questions[i].ID == choice.QuestionID {
				question = &quiz.Questions[i]
			}
		}
		var result *domain.Result
		for i := range quiz.Results {
			if quiz.Results[i].ID == choice.ResultID {
				result = &quiz.Results[i]
				break
			}
		}
		pairs = append(pairs, domain.GradedPair{Question: question, Result: result})
		if result == nil {
			continue
		}
		if t, ok := byResult[result.ID]; ok {
			t.count++
		} else {
			t := &tally{result: result, count: 1}
			byResult[result.ID] = t
			tallies = append(tallies, t)
		}
	}

	var best *tally
	for _, t := range tallies {
		if best == nil || t.count > best.count {
			best = t
		}
	}
	if best == nil {
		return nil, pairs
	}
	return best.result, pairs
}
