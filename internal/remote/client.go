// Package remote is the HTTP client for the agent service hosting the
// analysis, question-generation and answering endpoints.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrTransport reports a network failure or non-success status.
	ErrTransport = errors.New("agent service unavailable")
	// ErrDecode reports a malformed response body. Callers treat it the
	// same way as ErrTransport.
	ErrDecode = errors.New("malformed agent response")
)

// NamedPayload is a document payload with its display name.
type NamedPayload struct {
	FileName string
	Data     []byte
}

// Feedback is the wire form of an analysis result.
type Feedback struct {
	MatchPercentage       int      `json:"match_percentage"`
	Similarities          []string `json:"similarities"`
	Missing               []string `json:"missing"`
	CourseRecommendations []Course `json:"course_recommendations"`
}

// Course is a recommended course with a link.
type Course struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// QA is one generated interview question with its reference answer.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Client calls the agent service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("AGENT_BASE_URL is required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Analyze submits the CV and job description as a multipart body and
// returns the feedback report.
func (c *Client) Analyze(ctx context.Context, cv, jd NamedPayload) (Feedback, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, part := range []struct {
		field   string
		payload NamedPayload
	}{
		{"cv", cv},
		{"job_description", jd},
	} {
		fw, err := writer.CreateFormFile(part.field, part.payload.FileName)
		if err != nil {
			return Feedback{}, err
		}
		if _, err := fw.Write(part.payload.Data); err != nil {
			return Feedback{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return Feedback{}, err
	}

	var parsed struct {
		Feedback *Feedback `json:"feedback"`
		Error    string    `json:"error"`
	}
	if err := c.post(ctx, "/analyze", writer.FormDataContentType(), body, &parsed); err != nil {
		return Feedback{}, err
	}
	if parsed.Feedback == nil {
		return Feedback{}, fmt.Errorf("%w: missing feedback object", ErrDecode)
	}
	return *parsed.Feedback, nil
}

// GenerateQuestions returns interview questions derived from the job
// description. The reference deployment returns ten; the count is not
// enforced here.
func (c *Client) GenerateQuestions(ctx context.Context, jobDescription string) ([]QA, error) {
	payload, err := json.Marshal(map[string]string{"job_description": jobDescription})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []QA   `json:"questions"`
		Error     string `json:"error"`
	}
	if err := c.post(ctx, "/get-questions", "application/json", bytes.NewReader(payload), &parsed); err != nil {
		return nil, err
	}
	if parsed.Questions == nil {
		return nil, fmt.Errorf("%w: missing questions array", ErrDecode)
	}
	return parsed.Questions, nil
}

// Ask returns the agent's answer to a single free-form question. The
// request carries no conversation history.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return "", err
	}

	var parsed struct {
		Answer string `json:"answer"`
		Error  string `json:"error"`
	}
	if err := c.post(ctx, "/Ask", "application/json", bytes.NewReader(payload), &parsed); err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.Answer) == "" {
		return "", fmt.Errorf("%w: empty answer", ErrDecode)
	}
	return parsed.Answer, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return fmt.Errorf("%w: timeout on %s: %v", ErrTransport, path, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrTransport, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransport, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", ErrTransport, path, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return nil
}
