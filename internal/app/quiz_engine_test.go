package app

import (
	"testing"

	"fishwrapper-service/internal/domain"
)

func TestParseSubmissionBuildsQuestionAnswerResult(t *testing.T) {
	fields := domain.FormFields{
		{Key: "qContent-q1", Value: "Q1"},
		{Key: "aContent-a1q1", Value: "A1"},
		{Key: "aResult-a1q1", Value: "r1"},
		{Key: "rContent-r1", Value: "R1"},
	}

	draft := ParseSubmission(fields)

	if len(draft.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(draft.Questions))
	}
	question := draft.Questions[0]
	if question.ID != "q1" || question.Text != "Q1" {
		t.Fatalf("unexpected question %+v", question)
	}
	if len(question.Answers) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(question.Answers))
	}
	answer := question.Answers[0]
	if answer.ID != "a1q1" || answer.Text != "A1" || answer.ResultID != "r1" {
		t.Fatalf("unexpected answer %+v", answer)
	}
	if len(draft.Results) != 1 || draft.Results[0].ID != "r1" || draft.Results[0].Text != "R1" {
		t.Fatalf("unexpected results %+v", draft.Results)
	}
}

func TestParseSubmissionDropsEmptyQuestion(t *testing.T) {
	fields := domain.FormFields{
		{Key: "qContent-q1", Value: "Q1"},
		{Key: "qContent-q2", Value: ""},
		{Key: "aContent-a1q2", Value: "orphan"},
		{Key: "aResult-a1q2", Value: "r1"},
		{Key: "rContent-r1", Value: "R1"},
	}

	draft := ParseSubmission(fields)

	if len(draft.Questions) != 1 || draft.Questions[0].ID != "q1" {
		t.Fatalf("expected only q1 to survive, got %+v", draft.Questions)
	}
}

func TestParseSubmissionDropsEmptyAnswersAndResults(t *testing.T) {
	fields := domain.FormFields{
		{Key: "qContent-q1", Value: "Q1"},
		{Key: "aContent-a1q1", Value: ""},
		{Key: "aContent-a2q1", Value: "A2"},
		{Key: "aResult-a2q1", Value: "r1"},
		{Key: "rContent-r1", Value: "R1"},
		{Key: "rContent-r2", Value: ""},
	}

	draft := ParseSubmission(fields)

	if len(draft.Questions[0].Answers) != 1 || draft.Questions[0].Answers[0].ID != "a2q1" {
		t.Fatalf("expected only a2q1 to survive, got %+v", draft.Questions[0].Answers)
	}
	if len(draft.Results) != 1 {
		t.Fatalf("expected empty result dropped, got %+v", draft.Results)
	}
}

func TestParseSubmissionKeepsFormOrder(t *testing.T) {
	fields := domain.FormFields{
		{Key: "qContent-q2", Value: "second on the form first"},
		{Key: "qContent-q1", Value: "first on the form second"},
		{Key: "rContent-r9", Value: "R9"},
		{Key: "rContent-r1", Value: "R1"},
	}

	draft := ParseSubmission(fields)

	if draft.Questions[0].ID != "q2" || draft.Questions[1].ID != "q1" {
		t.Fatalf("question order not preserved: %+v", draft.Questions)
	}
	if draft.Results[0].ID != "r9" || draft.Results[1].ID != "r1" {
		t.Fatalf("result order not preserved: %+v", draft.Results)
	}
}

func TestParseSubmissionResultCredit(t *testing.T) {
	fields := domain.FormFields{
		{Key: "rContent-r1", Value: "R1"},
		{Key: "rThumbnailCredit-r1", Value: "Alice"},
		{Key: "rContent-r2", Value: "R2"},
	}

	draft := ParseSubmission(fields)

	if draft.Results[0].ThumbnailCredit != "Alice" {
		t.Fatalf("expected credit kept, got %+v", draft.Results[0])
	}
	if draft.Results[1].ThumbnailCredit != "" {
		t.Fatalf("expected no credit on r2, got %+v", draft.Results[1])
	}
}

func TestMergeResultsPreservesCredit(t *testing.T) {
	existing := []domain.Result{{ID: "r1", Text: "old", ThumbnailCredit: "Alice"}}
	incoming := []domain.Result{{ID: "r1", Text: "old"}}

	merged := MergeResults(existing, incoming)

	if len(merged) != 1 {
		t.Fatalf("expected 1 result, got %d", len(merged))
	}
	if merged[0].ThumbnailCredit != "Alice" {
		t.Fatalf("expected credit preserved, got %+v", merged[0])
	}
}

func TestMergeResultsAppliesChanges(t *testing.T) {
	existing := []domain.Result{{ID: "r1", Text: "old", ThumbnailCredit: "Alice"}}
	incoming := []domain.Result{
		{ID: "r1", Text: "new", ThumbnailCredit: "Bob"},
		{ID: "r2", Text: "brand new"},
	}

	merged := MergeResults(existing, incoming)

	if merged[0].Text != "new" || merged[0].ThumbnailCredit != "Bob" {
		t.Fatalf("expected changed fields applied, got %+v", merged[0])
	}
	if merged[1].ID != "r2" || merged[1].Text != "brand new" {
		t.Fatalf("expected unseen result kept as-is, got %+v", merged[1])
	}
}

func gradeQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "which-fish-are-you",
		Results: []domain.Result{
			{ID: "r1", Text: "a **noble** halibut"},
			{ID: "r2", Text: "a plain cod"},
		},
		Questions: []domain.Question{
			{ID: "q1", Text: "Q1"},
			{ID: "q2", Text: "Q2"},
			{ID: "q3", Text: "Q3"},
		},
	}
}

func TestGradePicksMostReferencedResult(t *testing.T) {
	winner, pairs := Grade(gradeQuiz(), []domain.AnswerChoice{
		{QuestionID: "q1", ResultID: "r1"},
		{QuestionID: "q2", ResultID: "r1"},
		{QuestionID: "q3", ResultID: "r2"},
	})

	if winner == nil || winner.ID != "r1" {
		t.Fatalf("expected r1 to win, got %+v", winner)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
}

func TestGradeReturnsNilWhenNothingResolves(t *testing.T) {
	winner, pairs := Grade(gradeQuiz(), []domain.AnswerChoice{
		{QuestionID: "q1", ResultID: "nope"},
		{QuestionID: "q2", ResultID: "also-nope"},
	})

	if winner != nil {
		t.Fatalf("expected nil winner, got %+v", winner)
	}
	if len(pairs) != 2 || pairs[0].Result != nil {
		t.Fatalf("expected unresolved pairs, got %+v", pairs)
	}
}

func TestGradeEmptySubmission(t *testing.T) {
	winner, _ := Grade(gradeQuiz(), nil)
	if winner != nil {
		t.Fatalf("expected nil winner for empty submission, got %+v", winner)
	}
}

func TestGradeTieGoesToFirstSeen(t *testing.T) {
	winner, _ := Grade(gradeQuiz(), []domain.AnswerChoice{
		{QuestionID: "q1", ResultID: "r2"},
		{QuestionID: "q2", ResultID: "r1"},
	})

	if winner == nil || winner.ID != "r2" {
		t.Fatalf("expected first-seen r2 on a tie, got %+v", winner)
	}
}

func TestGradeUnknownQuestionStillTallies(t *testing.T) {
	winner, pairs := Grade(gradeQuiz(), []domain.AnswerChoice{
		{QuestionID: "q-missing", ResultID: "r2"},
	})

	if winner == nil || winner.ID != "r2" {
		t.Fatalf("expected r2 despite unknown question, got %+v", winner)
	}
	if pairs[0].Question != nil {
		t.Fatalf("expected nil question in pair, got %+v", pairs[0].Question)
	}
}

func TestSlugFromTitle(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Which Fish Are You?", "which-fish-are-you?"},
		{"A Very Long Quiz Title That Keeps Going", "a-very-long-quiz-tit"},
		{"NoSpaces", "nospaces"},
	}
	for _, tc := range cases {
		if got := SlugFromTitle(tc.title); got != tc.want {
			t.Fatalf("SlugFromTitle(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
