package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgNoToken            = "No token, authorization denied"
	msgInvalidToken       = "Token is not valid"
	msgUserNotFound       = "User not found"
	msgServerError        = "Server error"
)

type errorItem struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

type errorResponse struct {
	Errors []errorItem `json:"errors"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// userResponse is the public view of a user. It has no password field.
type userResponse struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Date:   u.CreatedAt,
	}
}

func abortWithErrors(c *gin.Context, status int, items ...errorItem) {
	c.AbortWithStatusJSON(status, errorResponse{Errors: items})
}

func abortWithMessage(c *gin.Context, status int, msg string) {
	abortWithErrors(c, status, errorItem{Msg: msg})
}

// abortServerError logs err and answers with the generic 500. The error
// text never reaches the client.
func (s *RESTServer) abortServerError(c *gin.Context, err error) {
	s.logger.Error(c.Request.Context(), "request failed",
		"error", err, "path", c.Request.URL.Path, "request_id", c.GetString(requestIDKey))
	c.Abort()
	c.String(http.StatusInternalServerError, msgServerError)
}
