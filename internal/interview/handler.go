package interview

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/remote"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the coordinator.
type Handler struct {
	Coord *Coordinator
}

// NewHandler constructs a Handler.
func NewHandler(coord *Coordinator) *Handler {
	return &Handler{Coord: coord}
}

// RegisterRoutes attaches interview-prep routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/questions", h.questions)
	rg.GET("/qa", h.log)
	rg.POST("/ask", h.ask)
}

func (h *Handler) questions(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	state, questions, err := h.Coord.EnsureQuestions(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, remote.ErrTransport) || errors.Is(err, remote.ErrDecode) {
			respond.Error(c, http.StatusBadGateway, "upstream_error", "question generation failed", gin.H{"state": state})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load questions", nil)
		return
	}
	if questions == nil {
		questions = []remote.QA{}
	}

	respond.OK(c, gin.H{"state": state, "questions": questions})
}

func (h *Handler) log(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	log, err := h.Coord.Log(c.Request.Context(), sessionID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load conversation log", nil)
		return
	}
	if log == nil {
		log = []Entry{}
	}

	respond.OK(c, gin.H{"qa": log})
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *Handler) ask(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Question = strings.TrimSpace(req.Question)

	ticket, err := h.Coord.Submit(c.Request.Context(), sessionID, req.Question)
	if err != nil {
		if errors.Is(err, ErrEmptyQuestion) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to submit question", nil)
		return
	}

	// The answer fetch must survive the client navigating away, so it runs
	// on a context detached from the request.
	entry, ok := h.Coord.Resolve(context.WithoutCancel(c.Request.Context()), ticket, req.Question)
	if !ok {
		respond.Error(c, http.StatusGone, "session_ended", "session ended before the answer arrived", nil)
		return
	}

	respond.OK(c, gin.H{"question": entry.Question, "answer": entry.Answer, "index": ticket.Index})
}
