package analysis

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/remote"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the coordinator.
type Handler struct {
	Coord *Coordinator
}

// NewHandler constructs a Handler.
func NewHandler(coord *Coordinator) *Handler {
	return &Handler{Coord: coord}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.recordSelection)
	rg.GET("/documents", h.selections)
	rg.POST("/analyze", h.analyze)
	rg.GET("/feedback", h.feedback)
}

type selectionRequest struct {
	Kind     string `json:"kind"`
	FileName string `json:"fileName"`
}

func (h *Handler) recordSelection(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.FileName = strings.TrimSpace(req.FileName)
	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileName is required", nil)
		return
	}

	err := h.Coord.RecordSelection(c.Request.Context(), sessionID, Kind(req.Kind), req.FileName)
	if err != nil {
		if errors.Is(err, ErrInvalidKind) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "kind must be cv or job_description", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to record selection", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) selections(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	cvName, jdName, err := h.Coord.Selections(c.Request.Context(), sessionID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load selections", nil)
		return
	}

	respond.OK(c, gin.H{"cvFileName": cvName, "jdFileName": jdName})
}

func (h *Handler) analyze(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	cv, cvErr := readFormFile(c, "cv")
	jd, jdErr := readFormFile(c, "job_description")
	if cvErr != nil || jdErr != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", ErrMissingDocuments.Error(), nil)
		return
	}

	feedback, err := h.Coord.Analyze(c.Request.Context(), sessionID,
		Upload{Kind: KindCV, DisplayName: cv.name, Data: cv.data},
		Upload{Kind: KindJobDescription, DisplayName: jd.name, Data: jd.data},
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingDocuments):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, remote.ErrTransport), errors.Is(err, remote.ErrDecode):
			respond.Error(c, http.StatusBadGateway, "upstream_error", "analysis service request failed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "analysis failed", nil)
		}
		return
	}

	respond.OK(c, gin.H{"feedback": feedback})
}

func (h *Handler) feedback(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	feedback, ok, err := h.Coord.Feedback(c.Request.Context(), sessionID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load feedback", nil)
		return
	}
	if !ok {
		respond.OK(c, gin.H{"feedback": nil})
		return
	}

	respond.OK(c, gin.H{"feedback": feedback})
}

type formFile struct {
	name string
	data []byte
}

func readFormFile(c *gin.Context, field string) (formFile, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return formFile{}, err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return formFile{}, err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return formFile{}, err
	}
	return formFile{name: fileHeader.Filename, data: data}, nil
}
