package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todoboard/internal/adapter/http/helper"
	"todoboard/internal/adapter/http/middleware"
	"todoboard/internal/adapter/http/validation"
	"todoboard/internal/adapter/telemetry"
	"todoboard/internal/core/model/request"
	"todoboard/internal/core/port"
	"todoboard/internal/core/util"
)

type AuthHandler struct {
	auth    port.AuthService
	metrics *telemetry.AppMetrics
}

func NewAuthHandler(auth port.AuthService, metrics *telemetry.AppMetrics) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: metrics}
}

func (h *AuthHandler) Register(c *gin.Context) {
	params, err := util.BindJSON[request.RegisterRequest](c)

	if err != nil {
		helper.SendBadRequest(c, "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendBadRequest(c, validation.FormatValidationError(err))
		return
	}

	if err := h.auth.Register(c.Request.Context(), &params); err != nil {
		helper.SendError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordAuthOperation(c.Request.Context(), "register")
	}

	helper.SendMessage(c, http.StatusCreated, "User Registered Successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	params, err := util.BindJSON[request.LoginRequest](c)

	if err != nil {
		helper.SendBadRequest(c, "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendBadRequest(c, validation.FormatValidationError(err))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), &params)

	if err != nil {
		helper.SendError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordAuthOperation(c.Request.Context(), "login")
	}

	c.JSON(http.StatusOK, result)
}

// Logout runs behind the gateway, so the payload is always present here.
func (h *AuthHandler) Logout(c *gin.Context) {
	payload, ok := middleware.CurrentUser(c)

	if !ok {
		helper.SendUnauthorized(c, "Access Denied")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), payload.ID); err != nil {
		helper.SendError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordAuthOperation(c.Request.Context(), "logout")
	}

	helper.SendMessage(c, http.StatusOK, "Logged Out Successfully")
}
