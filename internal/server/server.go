package server

import (
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mkoecher/audit-cockpit/internal/archive"
	"github.com/mkoecher/audit-cockpit/internal/audit"
	"github.com/mkoecher/audit-cockpit/internal/common"
)

// Server exposes the audit cockpit API. It owns the current result set: one
// audit at a time, replaced wholesale on each run.
type Server struct {
	cfg  *common.Config
	svc  *audit.Service
	runs *archive.Store
	log  *slog.Logger

	mu      sync.Mutex
	current *audit.Result
}

func New(cfg *common.Config, svc *audit.Service, runs *archive.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{cfg: cfg, svc: svc, runs: runs, log: log}
}

// Router wires the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = s.cfg.Upload.MaxUploadMB << 20

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/audit", s.handleAudit)
		api.POST("/audit/llm", s.handleLLMAudit)
		api.GET("/result", s.handleResult)
		api.GET("/export/csv", s.handleExportCSV)
		api.GET("/export/pdf", s.handleExportPDF)
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id/csv", s.handleRunCSV)
	}
	return r
}

// setResult replaces the session result; the previous run is discarded.
func (s *Server) setResult(res *audit.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = res
}

func (s *Server) result() *audit.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Server) fail(c *gin.Context, err error) {
	status := common.HTTPStatus(err)
	if status >= 500 {
		s.log.Error("http.request_failed", "path", c.FullPath(), "error", err)
	} else {
		s.log.Warn("http.request_rejected", "path", c.FullPath(), "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
