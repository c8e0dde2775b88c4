package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/auth"
	"github.com/gin-gonic/gin"
)

var requestValidator = newValidator()

func (s *RESTServer) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if items := validate(requestValidator, &req); items != nil {
		abortWithErrors(c, http.StatusBadRequest, items...)
		return
	}

	token, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUser) {
			abortWithMessage(c, http.StatusBadRequest, msgUserExists)
			return
		}
		s.abortServerError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "request_id", c.GetString(requestIDKey))
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (s *RESTServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if items := validate(requestValidator, &req); items != nil {
		abortWithErrors(c, http.StatusBadRequest, items...)
		return
	}

	token, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			abortWithMessage(c, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		s.abortServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (s *RESTServer) getAuthUser(c *gin.Context) {
	id, ok := auth.IdentityFromContext(c.Request.Context())
	if !ok {
		abortWithMessage(c, http.StatusUnauthorized, msgNoToken)
		return
	}

	user, err := s.users.GetUser(c.Request.Context(), id.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			abortWithMessage(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		s.abortServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
