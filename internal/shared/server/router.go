package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/analysis"
	"jobmatch-backend/internal/interview"
	"jobmatch-backend/internal/session"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

// RouterDeps carries everything the router wires up.
type RouterDeps struct {
	Config           config.Config
	Manager          *session.Manager
	AnalysisHandler  *analysis.Handler
	InterviewHandler *interview.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Session(deps.Manager),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	// Session termination: the SPA calls this from its unload hook; the
	// idle sweeper covers clients that never get the chance.
	api.DELETE("/session", func(c *gin.Context) {
		id := middleware.SessionIDFromContext(c)
		deps.Manager.End(c.Request.Context(), id)
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
		c.Status(http.StatusNoContent)
	})

	deps.AnalysisHandler.RegisterRoutes(api)
	deps.InterviewHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
