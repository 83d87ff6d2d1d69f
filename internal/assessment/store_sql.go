package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mind-engage/culturetest/internal/db"
)

// SQLStore works on any handle from db.Open; both drivers accept $n placeholders.
type SQLStore struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

func NewSQLStore(h *sql.DB) *SQLStore {
	return &SQLStore{
		db:    h,
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewID,
	}
}

var _ Store = (*SQLStore)(nil)

func (s *SQLStore) CreateTest(ctx context.Context, t Test) (Test, error) {
	if err := t.Validate(); err != nil {
		return Test{}, err
	}
	qj, err := json.Marshal(t.Questions)
	if err != nil {
		return Test{}, err
	}
	created := s.now()
	t.ID = s.newID()
	t.CreatedAt = &created
	_, err = s.db.ExecContext(ctx, `INSERT INTO tests (id,name,behaviors,questions_json,question_count,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.Name, t.BehaviorsDescription, string(qj), len(t.Questions), created.UnixMilli())
	if err != nil {
		return Test{}, err
	}
	return t, nil
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,name,behaviors,questions_json,created_at FROM tests WHERE id=$1`, id)
	var (
		t       Test
		qjson   string
		created int64
	)
	if err := row.Scan(&t.ID, &t.Name, &t.BehaviorsDescription, &qjson, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, notFound("test", id)
		}
		return Test{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &t.Questions); err != nil {
		return Test{}, err
	}
	ts := time.UnixMilli(created).UTC()
	t.CreatedAt = &ts
	return t, nil
}

func (s *SQLStore) ListTests(ctx context.Context) ([]TestSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name,question_count,created_at FROM tests ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []TestSummary{}
	for rows.Next() {
		var (
			ts      TestSummary
			created int64
		)
		if err := rows.Scan(&ts.ID, &ts.Name, &ts.QuestionCount, &created); err != nil {
			return nil, err
		}
		ts.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (s *SQLStore) RecordStart(ctx context.Context, testID string) (Submission, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tests WHERE id=$1`, testID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, notFound("test", testID)
		}
		return Submission{}, err
	}
	sub := Submission{
		ID:        s.newID(),
		TestID:    testID,
		Started:   true,
		StartedAt: s.now(),
		Answers:   Answers{},
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO submissions (id,test_id,started,completed,answers_json,score,percentage,started_at)
		VALUES ($1,$2,1,0,'{}',0,0,$3)`,
		sub.ID, testID, sub.StartedAt.UnixMilli())
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) RecordCompletion(ctx context.Context, c Completion) (Submission, error) {
	aj, err := json.Marshal(answersOrEmpty(c.Answers))
	if err != nil {
		return Submission{}, err
	}
	var out Submission
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var (
			id        string
			completed int
		)
		if c.SubmissionID != "" {
			err := tx.QueryRowContext(ctx, `SELECT id,completed FROM submissions WHERE id=$1 AND test_id=$2`,
				c.SubmissionID, c.TestID).Scan(&id, &completed)
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("submission", c.SubmissionID)
			}
			if err != nil {
				return err
			}
			if completed != 0 {
				return ErrAlreadyCompleted
			}
		} else {
			err := tx.QueryRowContext(ctx, `SELECT id,completed FROM submissions
				WHERE test_id=$1 AND completed=0 ORDER BY seq DESC LIMIT 1`, c.TestID).Scan(&id, &completed)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoInProgress
			}
			if err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx, `UPDATE submissions
			SET completed=1, completed_at=$1, answers_json=$2, score=$3, percentage=$4
			WHERE id=$5 AND completed=0`,
			s.now().UnixMilli(), string(aj), c.Score, c.Percentage, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrAlreadyCompleted
		}
		out, err = scanSubmission(tx.QueryRowContext(ctx, selectSubmission+` WHERE id=$1`, id))
		return err
	})
	if err != nil {
		return Submission{}, err
	}
	return out, nil
}

func (s *SQLStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	sub, err := scanSubmission(s.db.QueryRowContext(ctx, selectSubmission+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, notFound("submission", id)
	}
	return sub, err
}

func (s *SQLStore) ListSubmissions(ctx context.Context, testID string) ([]Submission, error) {
	return s.querySubmissions(ctx, selectSubmission+` WHERE test_id=$1 ORDER BY seq`, testID)
}

func (s *SQLStore) CompletedSubmissions(ctx context.Context, testID string) ([]Submission, error) {
	return s.querySubmissions(ctx, selectSubmission+` WHERE test_id=$1 AND completed=1 ORDER BY seq`, testID)
}

const selectSubmission = `SELECT id,test_id,started,completed,answers_json,score,percentage,started_at,completed_at FROM submissions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(r rowScanner) (Submission, error) {
	var (
		sub                Submission
		started, completed int
		ajson              string
		startedAt          int64
		completedAt        sql.NullInt64
	)
	if err := r.Scan(&sub.ID, &sub.TestID, &started, &completed, &ajson, &sub.Score, &sub.Percentage, &startedAt, &completedAt); err != nil {
		return Submission{}, err
	}
	sub.Started = started != 0
	sub.Completed = completed != 0
	sub.StartedAt = time.UnixMilli(startedAt).UTC()
	if completedAt.Valid {
		t := time.UnixMilli(completedAt.Int64).UTC()
		sub.CompletedAt = &t
	}
	if err := json.Unmarshal([]byte(ajson), &sub.Answers); err != nil {
		return Submission{}, fmt.Errorf("submission %s: decode answers: %w", sub.ID, err)
	}
	if sub.Answers == nil {
		sub.Answers = Answers{}
	}
	return sub, nil
}

func (s *SQLStore) querySubmissions(ctx context.Context, query string, args ...any) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func answersOrEmpty(a Answers) Answers {
	if a == nil {
		return Answers{}
	}
	return a
}
