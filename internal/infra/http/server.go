// Package http exposes the review API over gin. Handlers are thin: they
// resolve and reconcile identity, push the auth scope into the repository
// and enrich the result, leaving tenant isolation to the scoped queries.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tessera/internal/domain"
	"tessera/internal/usecase"
)

// ReviewStore is the slice of the review repository the server consumes.
type ReviewStore interface {
	Create(ctx context.Context, review *domain.Review) error
	List(ctx context.Context, filter domain.ReviewFilter, page, size int) ([]domain.Review, int64, error)
	GetByID(ctx context.Context, caller domain.Identity, policy domain.VisibilityPolicy, id uuid.UUID) (*domain.Review, error)
	Update(ctx context.Context, caller domain.Identity, policy domain.VisibilityPolicy, id uuid.UUID, update domain.ReviewUpdate) (*domain.Review, error)
	SoftDelete(ctx context.Context, caller domain.Identity, policy domain.VisibilityPolicy, id uuid.UUID, updatedBy *uuid.UUID) error
}

type Server struct {
	log               logrus.FieldLogger
	reviews           ReviewStore
	enricher          *usecase.Enricher
	policy            domain.VisibilityEngine
	rateLimiter       domain.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
}

type ServerConfig struct {
	Log                logrus.FieldLogger
	Reviews            ReviewStore
	Enricher           *usecase.Enricher
	Policy             domain.VisibilityEngine
	RateLimiter        domain.RateLimiter
	RateLimitPerMinute int
}

func NewServer(cfg ServerConfig) *Server {
	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		log:               log,
		reviews:           cfg.Reviews,
		enricher:          cfg.Enricher,
		policy:            cfg.Policy,
		rateLimiter:       cfg.RateLimiter,
		rateLimitRequests: cfg.RateLimitPerMinute,
		rateLimitWindow:   time.Minute,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(s.resolveIdentity())
	router.Use(s.enforceRateLimit())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.POST("/reviews", s.createReview)
	v1.GET("/reviews", s.listReviews)
	v1.GET("/reviews/:id", s.getReview)
	v1.PUT("/reviews/:id", s.updateReview)
	v1.DELETE("/reviews/:id", s.deleteReview)

	return router
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// writeNotFound is the single not-found shape. Rows that exist but belong
// to another tenant and rows that do not exist produce byte-identical
// responses, so existence never leaks across tenants.
func writeNotFound(c *gin.Context) {
	writeError(c, http.StatusNotFound, "not found")
}
