package lifecycle

import (
	"context"
	"fmt"

	"github.com/mind-engage/culturetest/internal/assessment"
	"github.com/mind-engage/culturetest/internal/grading"
	"github.com/mind-engage/culturetest/internal/log"
	"github.com/mind-engage/culturetest/internal/metrics"
	syncx "github.com/mind-engage/culturetest/internal/sync"
)

// EventSink receives lifecycle events. *syncx.EventRepo satisfies it.
type EventSink interface {
	Append(ctx context.Context, e syncx.Event) error
}

type Service struct {
	store   assessment.Store
	events  EventSink
	scoring []grading.Option
}

type Option func(*Service)

func WithEvents(sink EventSink) Option { return func(s *Service) { s.events = sink } }

// WithScoring passes engine options to every Score call.
func WithScoring(opts ...grading.Option) Option {
	return func(s *Service) { s.scoring = append(s.scoring, opts...) }
}

func New(store assessment.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, o := range opts {
		o(s)
	}
	return s
}

type CompleteInput struct {
	TestID       string             `json:"test_id"`
	SubmissionID string             `json:"submission_id,omitempty"`
	Answers      assessment.Answers `json:"answers"`
}

type Outcome struct {
	Submission *assessment.Submission `json:"submission,omitempty"`
	Result     grading.Result         `json:"result"`
	Rank       string                 `json:"rank"`
	Standing   grading.Standing       `json:"standing"`
}

func (s *Service) Publish(ctx context.Context, draft assessment.Test) (assessment.Test, error) {
	t, err := s.store.CreateTest(ctx, draft)
	if err != nil {
		return assessment.Test{}, err
	}
	metrics.TestPublished()
	s.emit(ctx, syncx.TestPublished, t.ID, map[string]any{
		"test_id":        t.ID,
		"name":           t.Name,
		"question_count": len(t.Questions),
	})
	log.WithFields(log.Fields{"test_id": t.ID, "questions": len(t.Questions)}).Info("test published")
	return t, nil
}

func (s *Service) Test(ctx context.Context, id string) (assessment.Test, error) {
	return s.store.GetTest(ctx, id)
}

func (s *Service) Tests(ctx context.Context) ([]assessment.TestSummary, error) {
	return s.store.ListTests(ctx)
}

func (s *Service) Start(ctx context.Context, testID string) (assessment.Submission, error) {
	sub, err := s.store.RecordStart(ctx, testID)
	if err != nil {
		return assessment.Submission{}, err
	}
	metrics.SubmissionStarted()
	s.emit(ctx, syncx.SubmissionStarted, sub.ID, map[string]any{
		"test_id":       testID,
		"submission_id": sub.ID,
	})
	return sub, nil
}

// Complete scores the answers against the published test, finalizes the
// in-progress submission and ranks it among all completed submissions.
func (s *Service) Complete(ctx context.Context, in CompleteInput) (Outcome, error) {
	t, err := s.store.GetTest(ctx, in.TestID)
	if err != nil {
		return Outcome{}, err
	}
	if err := assessment.ValidateAnswers(t.Questions, in.Answers); err != nil {
		return Outcome{}, err
	}
	res := grading.Score(t.Questions, in.Answers, s.scoring...)

	sub, err := s.store.RecordCompletion(ctx, assessment.Completion{
		TestID:       t.ID,
		SubmissionID: in.SubmissionID,
		Answers:      in.Answers,
		Score:        res.RawScore,
		Percentage:   res.Percentage,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("record completion: %w", err)
	}

	// The completion is committed; rank against this submission alone if the
	// cohort cannot be read.
	scores := []float64{sub.Score}
	if done, err := s.store.CompletedSubmissions(ctx, t.ID); err != nil {
		log.WithFields(log.Fields{"test_id": t.ID, "submission_id": sub.ID}).Warnf("load completed submissions: %v", err)
	} else {
		scores = make([]float64, len(done))
		for i, d := range done {
			scores[i] = d.Score
		}
	}
	standing := grading.Rank(scores, sub.Score)

	metrics.SubmissionCompleted(string(res.Insight), res.Percentage)
	s.emit(ctx, syncx.SubmissionCompleted, sub.ID, map[string]any{
		"test_id":       t.ID,
		"submission_id": sub.ID,
		"score":         sub.Score,
		"percentage":    sub.Percentage,
		"rank":          standing.String(),
	})
	return Outcome{Submission: &sub, Result: res, Rank: standing.String(), Standing: standing}, nil
}

// Preview scores an unpublished test. Nothing is stored and the rank is always 1/1.
func (s *Service) Preview(_ context.Context, t assessment.Test, answers assessment.Answers) (Outcome, error) {
	if t.Name == "" {
		t.Name = "Preview"
	}
	if err := t.Validate(); err != nil {
		return Outcome{}, err
	}
	if err := assessment.ValidateAnswers(t.Questions, answers); err != nil {
		return Outcome{}, err
	}
	res := grading.Score(t.Questions, answers, s.scoring...)
	return Outcome{Result: res, Rank: grading.FirstStanding.String(), Standing: grading.FirstStanding}, nil
}

func (s *Service) Analytics(ctx context.Context, testID string) (Analytics, error) {
	if _, err := s.store.GetTest(ctx, testID); err != nil {
		return Analytics{}, err
	}
	records, err := s.store.ListSubmissions(ctx, testID)
	if err != nil {
		return Analytics{}, err
	}
	return Summarize(testID, records), nil
}

func (s *Service) Results(ctx context.Context, testID string) ([]assessment.Submission, error) {
	if _, err := s.store.GetTest(ctx, testID); err != nil {
		return nil, err
	}
	return s.store.CompletedSubmissions(ctx, testID)
}

// emit appends an event; failures are logged and never surface to the caller.
func (s *Service) emit(ctx context.Context, typ syncx.EventType, key string, payload any) {
	if s.events == nil {
		return
	}
	ev, err := syncx.NewEvent(typ, key, payload)
	if err == nil {
		err = s.events.Append(ctx, ev)
	}
	if err != nil {
		log.WithFields(log.Fields{"type": typ, "key": key}).Warnf("event append failed: %v", err)
	}
}
