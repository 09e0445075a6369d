// Package inspect serves a read-only admin surface over the
// host-simulated kernel: health, the thread table, and prometheus
// metrics. It only exists on host targets; embedded deployments have no
// admin listener to run.
package inspect

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/bootctl/internal/kernel/hostkernel"
	"github.com/danmuck/bootctl/internal/observability"
)

type Server struct {
	node     string
	sched    *hostkernel.Scheduler
	appeared time.Time
	router   *gin.Engine
}

func NewServer(node string, sched *hostkernel.Scheduler, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(node))
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	s := &Server{
		node:     node,
		sched:    sched,
		appeared: time.Now(),
		router:   r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": s.node,
			"version": "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/threads", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"threads": s.sched.Snapshot(),
		})
	})

	s.router.GET("/threads/:name", func(c *gin.Context) {
		status, ok := s.sched.Lookup(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "unknown thread",
				"name":  c.Param("name"),
			})
			return
		}
		c.JSON(http.StatusOK, status)
	})
}

func (s *Server) Serve(addr string) error {
	log.Info().Str("addr", addr).Msg("admin surface listening")
	return s.router.Run(addr)
}
