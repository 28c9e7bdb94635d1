// Package server exposes the practice engine over HTTP with gin:
// JWT-authenticated learner routes, content management, the adaptive
// practice loop, and generation-backed backfill.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/UgwuGeorge/Past-Questions/internal/backfill"
	"github.com/UgwuGeorge/Past-Questions/internal/config"
	"github.com/UgwuGeorge/Past-Questions/internal/practice"
	"github.com/UgwuGeorge/Past-Questions/internal/scoring"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Store    *store.Store
	Engine   *practice.Engine
	Scorer   *scoring.Scorer
	Backfill *backfill.Service
	Auth     config.AuthConfig
	Log      *zap.SugaredLogger
}

// Server wraps the gin engine.
type Server struct {
	Engine *gin.Engine
}

// New builds the router. A nil logger is replaced with a no-op one.
func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}

	auth := newAuthenticator(deps.Store.Users(), deps.Auth.JWTSecret, deps.Auth.TokenTTL)
	h := &handlers{deps: deps}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(deps.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	r.GET("/healthz", h.health)
	r.POST("/register", auth.register)
	r.POST("/token", auth.login)

	r.GET("/exams", h.listExams)
	r.GET("/exams/:id/subjects", h.listSubjects)
	r.GET("/subjects/:id/questions", h.listQuestions)

	protected := r.Group("/", auth.requireAuth())
	{
		protected.POST("/exams", h.createExam)
		protected.POST("/questions", h.createQuestion)

		protected.GET("/practice/next", h.practiceNext)
		protected.GET("/practice/batch", h.practiceBatch)
		protected.POST("/attempts", h.logAttempt)

		protected.GET("/learners/:id/weak-topics", h.weakTopics)
		protected.GET("/learners/:id/report", h.report)
		protected.POST("/sessions/submit", h.submitSession)

		protected.POST("/generate", h.generate)
	}

	return &Server{Engine: r}
}

// Run starts the listener.
func (s *Server) Run(addr string) error {
	return s.Engine.Run(addr)
}

// requestLogger logs one line per request with method, path, status
// and latency.
func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
