package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fishwrapper-service/internal/domain"
)

// Store is the Postgres backend. Quizzes are stored whole as jsonb;
// timeline entries, global counters, and editors get their own tables.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

func (s *Store) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM quizzes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []domain.Quiz
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err != nil {
			return nil, fmt.Errorf("unmarshal quiz: %w", err)
		}
		out = append(out, quiz)
	}
	return out, rows.Err()
}

func (s *Store) PutQuiz(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quizzes (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, quiz.ID, data)
	if err != nil {
		return fmt.Errorf("put quiz: %w", err)
	}
	return nil
}

// UpdateQuiz applies a partial update under a row lock so two concurrent
// edits cannot interleave their read-modify-write on the jsonb blob.
func (s *Store) UpdateQuiz(ctx context.Context, id string, upd domain.QuizUpdate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1 FOR UPDATE`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrQuizNotFound
	}
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return fmt.Errorf("unmarshal quiz: %w", err)
	}
	upd.Apply(&quiz)
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE quizzes SET data=$2::jsonb WHERE id=$1`, id, data); err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Store) DeleteQuiz(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

func (s *Store) PutEntry(ctx context.Context, entry domain.TimelineEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO timeline_entries (id, content, week, selected) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET content=EXCLUDED.content, week=EXCLUDED.week, selected=EXCLUDED.selected`,
		entry.ID, entry.Content, entry.Week, entry.Selected)
	if err != nil {
		return fmt.Errorf("put entry: %w", err)
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context) ([]domain.TimelineEntry, error) {
	return s.queryEntries(ctx, `SELECT id, content, week, selected FROM timeline_entries ORDER BY id`)
}

func (s *Store) SelectedEntries(ctx context.Context) ([]domain.TimelineEntry, error) {
	return s.queryEntries(ctx,
		`SELECT id, content, week, selected FROM timeline_entries WHERE selected ORDER BY week, id`)
}

func (s *Store) queryEntries(ctx context.Context, sql string) ([]domain.TimelineEntry, error) {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []domain.TimelineEntry
	for rows.Next() {
		var entry domain.TimelineEntry
		if err := rows.Scan(&entry.ID, &entry.Content, &entry.Week, &entry.Selected); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *Store) SetSelected(ctx context.Context, id int64, selected bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE timeline_entries SET selected=$2 WHERE id=$1`, id, selected)
	if err != nil {
		return fmt.Errorf("set selected: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM timeline_entries WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (s *Store) GetCounter(ctx context.Context, name string) (int, error) {
	var value int
	err := s.pool.QueryRow(ctx, `SELECT value FROM globals WHERE key=$1`, name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrCounterNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get counter: %w", err)
	}
	return value, nil
}

func (s *Store) SetCounter(ctx context.Context, name string, value int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO globals (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value`, name, value)
	if err != nil {
		return fmt.Errorf("set counter: %w", err)
	}
	return nil
}

func (s *Store) GetEditor(ctx context.Context, username string) (domain.Editor, error) {
	editor := domain.Editor{Username: username}
	err := s.pool.QueryRow(ctx, `SELECT pass_hash FROM editors WHERE username=$1`, username).Scan(&editor.PassHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Editor{}, domain.ErrEditorNotFound
	}
	if err != nil {
		return domain.Editor{}, fmt.Errorf("get editor: %w", err)
	}
	return editor, nil
}

func (s *Store) PutEditor(ctx context.Context, editor domain.Editor) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO editors (username, pass_hash) VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET pass_hash=EXCLUDED.pass_hash`,
		editor.Username, editor.PassHash)
	if err != nil {
		return fmt.Errorf("put editor: %w", err)
	}
	return nil
}
