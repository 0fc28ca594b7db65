// Package server exposes calculators over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zephyrtronium/keycalc/internal/session"
)

// Options configures the HTTP server.
type Options struct {
	// AllowOrigins enables CORS for the listed origins when not empty.
	AllowOrigins []string
	// Debug puts gin in debug mode.
	Debug bool
	// Logger receives request logs. Nil means slog.Default.
	Logger *slog.Logger
}

// Server serves the stateless evaluation endpoint and calculator sessions.
type Server struct {
	sessions *session.Store
	log      *slog.Logger
	router   *gin.Engine
}

// New creates a server backed by the given session store.
func New(store *session.Store, opts Options) *Server {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		sessions: store,
		log:      log,
		router:   gin.New(),
	}
	s.router.Use(gin.Recovery(), requestLogger(log))
	if len(opts.AllowOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowOrigins,
			AllowMethods:  []string{"POST", "GET", "DELETE"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length"},
			ExposeHeaders: []string{"Content-Type", "Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/", healthCheck)

	v1 := s.router.Group("/v1")
	v1.POST("/eval", requirePayload(), s.eval)
	v1.POST("/sessions", s.createSession)

	sess := v1.Group("/sessions/:id", s.loadSession())
	sess.GET("", s.getSession)
	sess.DELETE("", s.deleteSession)
	sess.POST("/keys", requirePayload(), s.pressKeys)
	sess.POST("/digit/:d", s.digit)
	sess.POST("/decimal", s.decimal)
	sess.POST("/operator/:op", s.operator)
	sess.POST("/clear-entry", s.clearEntry)
	sess.POST("/reset", s.reset)
	sess.POST("/equals", s.equals)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// WriteRoutes writes the method and path of each route to a file, sorted by
// path.
func (s *Server) WriteRoutes(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	routes := s.router.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	for _, r := range routes {
		if _, err := fmt.Fprintf(f, "%s\t%s\n", r.Method, r.Path); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// Run serves on addr until ctx is done, then shuts down gracefully, waiting
// up to grace for requests in flight.
func (s *Server) Run(ctx context.Context, addr string, grace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting calculator server", slog.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down calculator server")
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
