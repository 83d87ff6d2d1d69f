package assessment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	CreateTest(ctx context.Context, t Test) (Test, error)
	GetTest(ctx context.Context, id string) (Test, error)
	ListTests(ctx context.Context) ([]TestSummary, error)

	RecordStart(ctx context.Context, testID string) (Submission, error)
	RecordCompletion(ctx context.Context, c Completion) (Submission, error)
	GetSubmission(ctx context.Context, id string) (Submission, error)
	ListSubmissions(ctx context.Context, testID string) ([]Submission, error)
	CompletedSubmissions(ctx context.Context, testID string) ([]Submission, error)
}

// NewID returns a URL-safe identifier that does not collide under rapid creation.
func NewID() string { return uuid.NewString() }

type memoryStore struct {
	mu          sync.RWMutex
	tests       map[string]Test
	testOrder   []string
	submissions []Submission
	now         func() time.Time
	newID       func() string
}

func NewMemoryStore() Store {
	return &memoryStore{
		tests: map[string]Test{},
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewID,
	}
}

func (m *memoryStore) CreateTest(_ context.Context, t Test) (Test, error) {
	if err := t.Validate(); err != nil {
		return Test{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	created := m.now()
	t.ID = m.newID()
	t.CreatedAt = &created
	t.Questions = append([]Question(nil), t.Questions...)
	m.tests[t.ID] = t
	m.testOrder = append(m.testOrder, t.ID)
	return t, nil
}

func (m *memoryStore) GetTest(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, notFound("test", id)
	}
	return t, nil
}

func (m *memoryStore) ListTests(_ context.Context) ([]TestSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TestSummary, 0, len(m.testOrder))
	for _, id := range m.testOrder {
		t := m.tests[id]
		out = append(out, TestSummary{ID: t.ID, Name: t.Name, QuestionCount: len(t.Questions), CreatedAt: *t.CreatedAt})
	}
	// newest first
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryStore) RecordStart(_ context.Context, testID string) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tests[testID]; !ok {
		return Submission{}, notFound("test", testID)
	}
	s := Submission{
		ID:        m.newID(),
		TestID:    testID,
		Started:   true,
		StartedAt: m.now(),
		Answers:   Answers{},
	}
	m.submissions = append(m.submissions, s)
	return s, nil
}

func (m *memoryStore) RecordCompletion(_ context.Context, c Completion) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := -1
	if c.SubmissionID != "" {
		for i := range m.submissions {
			if m.submissions[i].ID == c.SubmissionID && m.submissions[i].TestID == c.TestID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return Submission{}, notFound("submission", c.SubmissionID)
		}
		if m.submissions[idx].Completed {
			return Submission{}, ErrAlreadyCompleted
		}
	} else {
		// most recent first
		for i := len(m.submissions) - 1; i >= 0; i-- {
			if m.submissions[i].TestID == c.TestID && !m.submissions[i].Completed {
				idx = i
				break
			}
		}
		if idx < 0 {
			return Submission{}, ErrNoInProgress
		}
	}

	done := m.now()
	s := m.submissions[idx]
	s.Completed = true
	s.CompletedAt = &done
	s.Answers = copyAnswers(c.Answers)
	s.Score = c.Score
	s.Percentage = c.Percentage
	m.submissions[idx] = s
	return s, nil
}

func (m *memoryStore) GetSubmission(_ context.Context, id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.submissions {
		if s.ID == id {
			return s, nil
		}
	}
	return Submission{}, notFound("submission", id)
}

func (m *memoryStore) ListSubmissions(_ context.Context, testID string) ([]Submission, error) {
	return m.filter(func(s Submission) bool { return s.TestID == testID }), nil
}

func (m *memoryStore) CompletedSubmissions(_ context.Context, testID string) ([]Submission, error) {
	return m.filter(func(s Submission) bool { return s.TestID == testID && s.Completed }), nil
}

func (m *memoryStore) filter(keep func(Submission) bool) []Submission {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Submission{}
	for _, s := range m.submissions {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func copyAnswers(a Answers) Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
