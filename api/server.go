// Package api exposes the import coordinator over HTTP for the bulk-import
// driver.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"goat-importer/auth"
	"goat-importer/importer"
	"goat-importer/models"
)

// RowImporter is what the HTTP layer needs from the coordinator.
type RowImporter interface {
	Import(ctx context.Context, row *models.ImportRow, identity string) (*models.ImportResult, error)
}

// importRequest is the POST /import-row body.
type importRequest struct {
	Row models.ImportRow `json:"row"`
}

// Server wires the coordinator behind a gin engine.
type Server struct {
	engine   *gin.Engine
	importer RowImporter
	verifier auth.Verifier
	logger   *logrus.Logger
}

// NewServer builds the routed engine.
func NewServer(imp RowImporter, verifier auth.Verifier, logger *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:   gin.New(),
		importer: imp,
		verifier: verifier,
		logger:   logger,
	}

	s.engine.HandleMethodNotAllowed = true
	s.engine.Use(s.recovery(), s.cors())
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	s.engine.POST("/import-row", s.handleImportRow)
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return s
}

// Handler exposes the engine for tests and custom servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the given port until the listener fails.
func (s *Server) Run(port string) error {
	s.logger.Infof("[api] Listening on :%s", port)
	return s.engine.Run(":" + port)
}

// cors answers preflights and stamps the CORS headers on every response.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// recovery converts panics into the 500 shape the driver expects. Raw
// messages in responses are acceptable for an internal admin tool.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		s.logger.Errorf("[api] Panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprint(recovered)})
	})
}

func (s *Server) handleImportRow(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	identity, err := s.verifier.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: row.title, row.goat_url"})
		return
	}

	result, err := s.importer.Import(c.Request.Context(), &req.Row, identity)
	switch {
	case errors.Is(err, importer.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: admins only"})
	case errors.Is(err, importer.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: row.title, row.goat_url"})
	case err != nil:
		s.logger.Errorf("[api] Import failed for %q: %v", req.Row.Title, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		// Duplicates and per-row persistence failures are business
		// outcomes; the driver branches on status, not on HTTP code.
		c.JSON(http.StatusOK, result)
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
