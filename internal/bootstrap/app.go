// Package bootstrap assembles the application: store selection, session
// lifecycle wiring, agent client, coordinators and router.
package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/analysis"
	"jobmatch-backend/internal/interview"
	"jobmatch-backend/internal/jobcontext"
	"jobmatch-backend/internal/remote"
	"jobmatch-backend/internal/session"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/server"
	"jobmatch-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            session.Store
	Manager          *session.Manager
	Guard            *session.Guard
	Jobs             *jobcontext.Context
	Agent            *remote.Client
	AnalysisCoord    *analysis.Coordinator
	InterviewCoord   *interview.Coordinator
	AnalysisHandler  *analysis.Handler
	InterviewHandler *interview.Handler
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var store session.Store
	if sqlDB != nil {
		store = &session.PGStore{DB: sqlDB}
	} else {
		store = session.NewMemoryStore()
	}

	agent, err := remote.NewClient(cfg.AgentBaseURL, cfg.AgentTimeout)
	if err != nil {
		return nil, err
	}

	jobs := jobcontext.New()
	manager := session.NewManager(cfg.SessionTTL)
	guard := &session.Guard{Store: store}

	analysisCoord := &analysis.Coordinator{Store: store, Jobs: jobs, Agent: agent}
	interviewCoord := interview.NewCoordinator(store, jobs, agent)

	// Termination hooks: the guard purges the persisted keys, the rest
	// drop their in-process state. All tolerate duplicate fires.
	manager.OnSessionEnd(guard.Purge)
	manager.OnSessionEnd(func(_ context.Context, id string) { jobs.Clear(id) })
	manager.OnSessionEnd(func(_ context.Context, id string) { interviewCoord.Forget(id) })

	app := &App{
		Config:           cfg,
		DB:               sqlDB,
		Store:            store,
		Manager:          manager,
		Guard:            guard,
		Jobs:             jobs,
		Agent:            agent,
		AnalysisCoord:    analysisCoord,
		InterviewCoord:   interviewCoord,
		AnalysisHandler:  analysis.NewHandler(analysisCoord),
		InterviewHandler: interview.NewHandler(interviewCoord),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		Manager:          manager,
		AnalysisHandler:  app.AnalysisHandler,
		InterviewHandler: app.InterviewHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory session store")
			return nil, nil
		}
		return nil, errDatabaseRequired
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultServerOptions())
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory session store: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
