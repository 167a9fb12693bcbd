// Package jobcontext holds the active job description for each session so
// the analysis and interview-prep flows can share it without re-uploading.
// State is in-process only; after a restart it is re-derived from a fresh
// analyze call.
package jobcontext

import "sync"

// Handle references the active job description for one session.
type Handle struct {
	DisplayName string
	Text        string
}

// Context is a cross-view holder of job descriptions, keyed by session.
// One writer (the analysis flow), any number of readers; an unset handle is
// a legitimate non-error state.
type Context struct {
	mu      sync.RWMutex
	handles map[string]Handle
}

// New constructs an empty Context.
func New() *Context {
	return &Context{handles: make(map[string]Handle)}
}

// SetJobDescription publishes the active job description for a session.
func (c *Context) SetJobDescription(sessionID string, h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles[sessionID] = h
}

// GetJobDescription returns the active job description, if set.
func (c *Context) GetJobDescription(sessionID string) (Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handles[sessionID]
	return h, ok
}

// Clear drops the handle for a session. Safe to call more than once.
func (c *Context) Clear(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handles, sessionID)
}
