package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func questionsJSON(n int) string {
	qs := make([]map[string]any, n)
	for i := range qs {
		qs[i] = map[string]any{
			"tag":      "Ownership",
			"question": fmt.Sprintf("Scenario %d?", i+1),
			"options": []map[string]any{
				{"text": "best", "score": 10},
				{"text": "good", "score": 7},
				{"text": "weak", "score": 4},
				{"text": "poor", "score": 1},
			},
		}
	}
	b, _ := json.Marshal(map[string]any{"questions": qs})
	return "Here you go:\n" + string(b) + "\nGood luck."
}

func chatServer(t *testing.T, replies ...func(w http.ResponseWriter)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("authorization = %q", got)
		}
		n := int(atomic.AddInt32(&calls, 1)) - 1
		if n >= len(replies) {
			t.Errorf("unexpected call %d", n+1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		replies[n](w)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func content(s string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": s}}},
		})
	}
}

func status(code int) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) { http.Error(w, "upstream says no", code) }
}

func TestGenerateFullCount(t *testing.T) {
	srv, calls := chatServer(t, content(questionsJSON(10)))
	c := &Client{BaseURL: srv.URL + "/v1", APIKey: "k", HTTP: srv.Client()}

	qs, err := c.Generate(context.Background(), Request{TestName: "Culture", Behaviors: "ownership", Count: 10})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) != 10 || *calls != 1 {
		t.Fatalf("got %d questions in %d calls", len(qs), *calls)
	}
	if qs[0].ID != "q1" || qs[9].ID != "q10" || qs[0].Prompt != "Scenario 1?" {
		t.Fatalf("unexpected questions: %+v ... %+v", qs[0], qs[9])
	}
}

func TestGenerateRetriesOnceForMissing(t *testing.T) {
	srv, calls := chatServer(t, content(questionsJSON(7)), content(questionsJSON(5)))
	c := &Client{BaseURL: srv.URL + "/v1", APIKey: "k", HTTP: srv.Client()}

	qs, err := c.Generate(context.Background(), Request{TestName: "Culture", Count: 10})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if *calls != 2 {
		t.Fatalf("calls = %d, want 2", *calls)
	}
	if len(qs) != 10 || qs[9].ID != "q10" {
		t.Fatalf("got %d questions", len(qs))
	}
}

func TestGenerateKeepsFirstBatchWhenRetryFails(t *testing.T) {
	srv, calls := chatServer(t, content(questionsJSON(4)), status(http.StatusTooManyRequests))
	c := &Client{BaseURL: srv.URL + "/v1", APIKey: "k", HTTP: srv.Client()}

	qs, err := c.Generate(context.Background(), Request{TestName: "Culture", Count: 10})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if *calls != 2 || len(qs) != 4 {
		t.Fatalf("calls=%d questions=%d, want 2 and 4", *calls, len(qs))
	}
}

func TestGenerateErrors(t *testing.T) {
	cases := map[string]func(w http.ResponseWriter){
		"upstream error": status(http.StatusBadGateway),
		"no json":        content("sorry, I cannot help with that"),
		"bad json":       content("{not json}"),
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := chatServer(t, reply)
			c := &Client{BaseURL: srv.URL + "/v1", APIKey: "k", HTTP: srv.Client()}
			_, err := c.Generate(context.Background(), Request{TestName: "x", Count: 10})
			if !errors.Is(err, ErrGeneration) {
				t.Fatalf("err = %v, want ErrGeneration", err)
			}
			var ge *GenerationError
			if !errors.As(err, &ge) {
				t.Fatalf("err = %T, want *GenerationError", err)
			}
		})
	}

	c := &Client{}
	if _, err := c.Generate(context.Background(), Request{Count: 10}); !errors.Is(err, ErrGeneration) {
		t.Fatalf("missing key: err = %v", err)
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	reply := `{"questions":[
		{"question":"No tag, no options?"},
		{"tag":" Candour ","question":"Partial options?","options":[{"text":""},{"text":"b","score":0},{"text":"c"}]},
		{"tag":"Skip","question":"   "}
	]}`
	gen, err := parseQuestions(reply)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	qs := normalize(gen)
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}

	if qs[0].Tag != "General" || len(qs[0].Options) != 4 || qs[0].Options[3].Score != 1 {
		t.Fatalf("defaults not applied: %+v", qs[0])
	}
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			t.Fatalf("normalized question invalid: %v", err)
		}
	}

	opts := qs[1].Options
	if qs[1].Tag != "Candour" || opts[0].Text != "Option 1" || opts[0].Score != 10 {
		t.Fatalf("first option = %+v", opts[0])
	}
	if opts[1].Score != 0 || opts[2].Score != 4 {
		t.Fatalf("scores = %v, %v; want explicit 0 kept and 4 filled", opts[1].Score, opts[2].Score)
	}
}

func TestClampCount(t *testing.T) {
	for in, want := range map[int]int{0: 10, 9: 10, 10: 10, 25: 25, 50: 50, 51: 50} {
		if got := ClampCount(in); got != want {
			t.Fatalf("ClampCount(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestPromptNamesCount(t *testing.T) {
	p := buildPrompt("Culture", "ownership", 12)
	if !strings.Contains(p, "EXACTLY 12") || !strings.Contains(p, `"Culture"`) {
		t.Fatalf("prompt = %s", p)
	}
}
