package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"tessera/internal/domain"
	"tessera/internal/infra/credential"
	"tessera/internal/infra/ratelimit"
)

// resolveIdentity extracts the caller's identity from the bearer
// credential once per request and stores it on the request context.
// Signature verification happens upstream; here an absent or malformed
// credential is a normal anonymous state, never a request failure.
func (s *Server) resolveIdentity() gin.HandlerFunc {
	parser := jwt.NewParser()
	return func(c *gin.Context) {
		ident := domain.Identity{}
		if token := bearerToken(c.GetHeader("Authorization")); token != "" {
			claims := jwt.MapClaims{}
			if _, _, err := parser.ParseUnverified(token, claims); err == nil {
				ident = domain.ResolveIdentity(credential.PayloadFromClaims(claims))
			} else {
				// Fall back to the defensive decoder so garbled tokens
				// still surface whatever payload they carry.
				ident = domain.ResolveIdentity(credential.Parse(token))
				s.log.WithError(err).Debug("bearer credential did not parse as a token")
			}
		}
		setCallerIdentity(c, ident)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ident := CallerIdentity(c)
		fields := logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if ident.UserID != nil {
			fields["user_id"] = ident.UserID.String()
		}
		if ident.CustomerID != nil {
			fields["customer_id"] = ident.CustomerID.String()
		}
		s.log.WithFields(fields).Info("request")
	}
}

// enforceRateLimit throttles per tenant; anonymous callers are keyed by
// client address. A limiter outage never takes the API down.
func (s *Server) enforceRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.rateLimiter == nil || s.rateLimitRequests <= 0 {
			c.Next()
			return
		}
		key := ratelimit.TenantKey(CallerIdentity(c), c.ClientIP())
		decision, err := s.rateLimiter.Allow(c.Request.Context(), key, s.rateLimitRequests, s.rateLimitWindow)
		if err != nil {
			s.log.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			writeError(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

// decidePolicy asks the visibility engine how to scope this request. An
// unavailable engine falls back to the closed side.
func (s *Server) decidePolicy(c *gin.Context, caller domain.Identity) domain.VisibilityPolicy {
	input := domain.VisibilityInput{
		HasUserID:     caller.UserID != nil,
		HasCustomerID: caller.CustomerID != nil,
	}
	policy, err := s.policy.Decide(c.Request.Context(), input)
	if err != nil {
		s.log.WithError(err).Warn("visibility engine unavailable, failing closed")
		return domain.VisibilityFailClosed
	}
	return policy
}
