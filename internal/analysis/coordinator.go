// Package analysis orchestrates the CV vs job-description match flow: it
// validates the uploaded pair, submits it to the agent service, caches the
// returned feedback for the session and publishes the job description for
// the interview-prep flow.
package analysis

import (
	"context"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/jobcontext"
	"jobmatch-backend/internal/remote"
	"jobmatch-backend/internal/session"
	"jobmatch-backend/internal/shared/telemetry"
)

// Kind identifies which document an upload carries.
type Kind string

const (
	KindCV             Kind = "cv"
	KindJobDescription Kind = "job_description"
)

// Upload is a selected document: its display name plus the transient
// payload. Only the display name outlives the request.
type Upload struct {
	Kind        Kind
	DisplayName string
	Data        []byte
}

// AgentClient is the part of the agent service the coordinator needs.
type AgentClient interface {
	Analyze(ctx context.Context, cv, jd remote.NamedPayload) (remote.Feedback, error)
}

// Coordinator owns the feedback, cvName and jdName store keys and is the
// single writer of the shared job context.
type Coordinator struct {
	Store session.Store
	Jobs  *jobcontext.Context
	Agent AgentClient
}

// RecordSelection persists the display name for a document kind, so a
// reload within the session still shows the chosen file. At most one name
// is active per kind; a new selection overwrites the old one.
func (c *Coordinator) RecordSelection(ctx context.Context, sessionID string, kind Kind, displayName string) error {
	key, err := nameKey(kind)
	if err != nil {
		return err
	}
	return session.WriteJSON(ctx, c.Store, sessionID, key, displayName)
}

// Analyze submits the CV and job description to the agent service and
// caches the feedback. A failed call leaves the previously cached feedback
// untouched, so the last good report stays visible.
func (c *Coordinator) Analyze(ctx context.Context, sessionID string, cv, jd Upload) (remote.Feedback, error) {
	if len(cv.Data) == 0 || len(jd.Data) == 0 {
		return remote.Feedback{}, ErrMissingDocuments
	}

	// Selections are persisted up front: the original flow records them at
	// file-pick time, before the analysis outcome is known.
	if err := c.RecordSelection(ctx, sessionID, KindCV, cv.DisplayName); err != nil {
		return remote.Feedback{}, err
	}
	if err := c.RecordSelection(ctx, sessionID, KindJobDescription, jd.DisplayName); err != nil {
		return remote.Feedback{}, err
	}

	feedback, err := c.Agent.Analyze(ctx,
		remote.NamedPayload{FileName: cv.DisplayName, Data: cv.Data},
		remote.NamedPayload{FileName: jd.DisplayName, Data: jd.Data},
	)
	if err != nil {
		return remote.Feedback{}, err
	}

	if err := session.WriteJSON(ctx, c.Store, sessionID, session.KeyFeedback, feedback); err != nil {
		return remote.Feedback{}, err
	}

	c.publishJobDescription(sessionID, jd)

	return feedback, nil
}

// Feedback returns the cached report for the session, if any.
func (c *Coordinator) Feedback(ctx context.Context, sessionID string) (remote.Feedback, bool, error) {
	var feedback remote.Feedback
	ok, err := session.ReadJSON(ctx, c.Store, sessionID, session.KeyFeedback, &feedback)
	return feedback, ok, err
}

// Selections returns the persisted display names for the session.
func (c *Coordinator) Selections(ctx context.Context, sessionID string) (cvName, jdName string, err error) {
	if _, err = session.ReadJSON(ctx, c.Store, sessionID, session.KeyCVName, &cvName); err != nil {
		return "", "", err
	}
	if _, err = session.ReadJSON(ctx, c.Store, sessionID, session.KeyJDName, &jdName); err != nil {
		return "", "", err
	}
	return cvName, jdName, nil
}

// publishJobDescription extracts the JD text and shares it with the
// interview-prep flow. Extraction failure is not fatal to the analysis: the
// shared handle stays unset and question generation remains idle.
func (c *Coordinator) publishJobDescription(sessionID string, jd Upload) {
	text, err := extract.Text(jd.Data, jd.DisplayName)
	if err != nil {
		telemetry.Warn("analysis.jd_extract_failed", map[string]any{
			"session_id": sessionID,
			"file_name":  jd.DisplayName,
			"error":      err.Error(),
		})
		return
	}
	c.Jobs.SetJobDescription(sessionID, jobcontext.Handle{
		DisplayName: jd.DisplayName,
		Text:        text,
	})
}

func nameKey(kind Kind) (string, error) {
	switch kind {
	case KindCV:
		return session.KeyCVName, nil
	case KindJobDescription:
		return session.KeyJDName, nil
	default:
		return "", ErrInvalidKind
	}
}
