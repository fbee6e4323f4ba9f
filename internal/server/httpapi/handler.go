package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/dmitrijs2005/scicatalog/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	result, err := s.users.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", result.User.ID)
	s.setSessionCookies(c, result)
	c.JSON(http.StatusCreated, newAuthResponse(result))
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	result, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.setSessionCookies(c, result)
	c.JSON(http.StatusOK, newAuthResponse(result))
}

func (s *HTTPServer) refresh(c *gin.Context) {
	token := requestToken(c, common.RefreshTokenCookieName)

	result, err := s.users.Refresh(c.Request.Context(), token)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.setSessionCookies(c, result)
	c.JSON(http.StatusOK, newAuthResponse(result))
}

func (s *HTTPServer) logout(c *gin.Context) {
	s.setCookie(c, common.AccessTokenCookieName, "", -1)
	s.setCookie(c, common.RefreshTokenCookieName, "", -1)
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponse(currentUser(c)))
}

func (s *HTTPServer) setSessionCookies(c *gin.Context, r *services.AuthResult) {
	s.setCookie(c, common.AccessTokenCookieName, r.AccessToken, maxAge(s.cookies.AccessTTL))
	s.setCookie(c, common.RefreshTokenCookieName, r.RefreshToken, maxAge(s.cookies.RefreshTTL))
}

func (s *HTTPServer) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", s.cookies.Secure, true)
}

func maxAge(ttl time.Duration) int {
	return int(ttl / time.Second)
}
