package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/dmitrijs2005/scicatalog/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userKey      = "scicatalog_user"
	requestIDKey = "scicatalog_request_id"

	// RequestIDHeader is read from the request when present and always
	// echoed in the response.
	RequestIDHeader = "X-Request-ID"
)

// requestToken returns the token stored in the named cookie, or the bearer
// token of the Authorization header when the cookie is absent.
func requestToken(c *gin.Context, cookie string) string {
	if v, err := c.Cookie(cookie); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if len(h) > len("Bearer ") && strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return ""
}

// authRequired resolves the access token into a user and stores it in the
// gin context. Requests without a valid session end here with 401.
func (s *HTTPServer) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c, common.AccessTokenCookieName)
		user, err := s.users.ResolveSession(c.Request.Context(), token)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// currentUser returns the user stored by authRequired.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if u := currentUser(c); u != nil {
			args = append(args, "user_id", u.ID)
		}

		if c.Writer.Status() >= 500 {
			s.logger.Warn(c.Request.Context(), "request", args...)
			return
		}
		s.logger.Info(c.Request.Context(), "request", args...)
	}
}
