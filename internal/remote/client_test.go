package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestAnalyzeSendsMultipartAndDecodesFeedback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		for _, field := range []string{"cv", "job_description"} {
			if _, _, err := r.FormFile(field); err != nil {
				t.Errorf("missing form file %s: %v", field, err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"feedback":{"match_percentage":72,"similarities":["Python"],"missing":["Kubernetes"],"course_recommendations":[{"name":"K8s 101","url":"https://example.com/k8s"}]}}`))
	})

	fb, err := client.Analyze(context.Background(),
		NamedPayload{FileName: "cv.pdf", Data: []byte("cv bytes")},
		NamedPayload{FileName: "jd.txt", Data: []byte("jd bytes")},
	)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if fb.MatchPercentage != 72 {
		t.Fatalf("unexpected match percentage %d", fb.MatchPercentage)
	}
	if len(fb.CourseRecommendations) != 1 || fb.CourseRecommendations[0].Name != "K8s 101" {
		t.Fatalf("unexpected recommendations %+v", fb.CourseRecommendations)
	}
}

func TestAnalyzeNonSuccessStatusIsTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	})

	_, err := client.Analyze(context.Background(),
		NamedPayload{FileName: "cv.pdf", Data: []byte("x")},
		NamedPayload{FileName: "jd.txt", Data: []byte("y")},
	)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestAnalyzeMalformedBodyIsDecode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"feedback": not json`))
	})

	_, err := client.Analyze(context.Background(),
		NamedPayload{FileName: "cv.pdf", Data: []byte("x")},
		NamedPayload{FileName: "jd.txt", Data: []byte("y")},
	)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestGenerateQuestions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get-questions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"questions":[{"question":"Why Go?","answer":"Concurrency."}]}`))
	})

	qs, err := client.GenerateQuestions(context.Background(), "We need Go engineers")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != 1 || qs[0].Question != "Why Go?" {
		t.Fatalf("unexpected questions %+v", qs)
	}
}

func TestGenerateQuestionsMissingArrayIsDecode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.GenerateQuestions(context.Background(), "jd")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestAsk(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Ask" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"answer":"Practice whiteboarding."}`))
	})

	answer, err := client.Ask(context.Background(), "How do I prepare?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "Practice whiteboarding." {
		t.Fatalf("unexpected answer %q", answer)
	}
}

func TestAskEmptyAnswerIsDecode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer":""}`))
	})

	_, err := client.Ask(context.Background(), "anything")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  ", time.Second); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
