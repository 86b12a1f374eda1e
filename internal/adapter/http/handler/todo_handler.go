package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todoboard/internal/adapter/cache"
	"todoboard/internal/adapter/http/helper"
	"todoboard/internal/adapter/http/middleware"
	"todoboard/internal/adapter/http/validation"
	"todoboard/internal/adapter/telemetry"
	"todoboard/internal/core/domain"
	"todoboard/internal/core/model/request"
	"todoboard/internal/core/port"
	"todoboard/internal/core/util"
)

type TodoHandler struct {
	todos   port.TodoService
	cache   *cache.ResponseCache
	metrics *telemetry.AppMetrics
}

// NewTodoHandler wires the workflow service plus the optional response cache
// and metrics sinks; both may be nil in tests.
func NewTodoHandler(todos port.TodoService, responseCache *cache.ResponseCache, metrics *telemetry.AppMetrics) *TodoHandler {
	return &TodoHandler{todos: todos, cache: responseCache, metrics: metrics}
}

func (h *TodoHandler) Create(c *gin.Context) {
	payload, userID, ok := h.identify(c)

	if !ok {
		return
	}

	params, err := util.BindJSON[request.CreateTodoRequest](c)

	if err != nil {
		helper.SendBadRequest(c, "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendBadRequest(c, validation.FormatValidationError(err))
		return
	}

	todo, err := h.todos.Create(c.Request.Context(), payload, userID, &params)

	if err != nil {
		helper.SendError(c, err)
		return
	}

	h.recordWrite(c, userID, "create")

	c.JSON(http.StatusCreated, todo)
}

func (h *TodoHandler) GetByID(c *gin.Context) {
	payload, userID, ok := h.identify(c)

	if !ok {
		return
	}

	todoID, err := strconv.Atoi(c.Param("todoId"))

	if err != nil {
		helper.SendBadRequest(c, "Invalid todo id")
		return
	}

	todo, err := h.todos.GetByID(c.Request.Context(), payload, userID, todoID)

	if err != nil {
		helper.SendError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTodoOperation(c.Request.Context(), "get")
	}

	c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) List(c *gin.Context) {
	payload, userID, ok := h.identify(c)

	if !ok {
		return
	}

	opts := request.ListTodosOptions{Cursor: c.Query("cursor")}

	if rawLimit := c.Query("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)

		if err != nil || limit < 1 {
			helper.SendBadRequest(c, "Invalid limit")
			return
		}

		opts.Limit = limit
	}

	todos, err := h.todos.ListAll(c.Request.Context(), payload, userID, opts)

	if err != nil {
		helper.SendError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTodoOperation(c.Request.Context(), "list")
	}

	c.JSON(http.StatusOK, todos)
}

func (h *TodoHandler) Update(c *gin.Context) {
	payload, userID, ok := h.identify(c)

	if !ok {
		return
	}

	todoID, err := strconv.Atoi(c.Param("todoId"))

	if err != nil {
		helper.SendBadRequest(c, "Invalid todo id")
		return
	}

	params, err := util.BindJSON[request.UpdateTodoRequest](c)

	if err != nil {
		helper.SendBadRequest(c, "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendBadRequest(c, validation.FormatValidationError(err))
		return
	}

	todo, err := h.todos.Update(c.Request.Context(), payload, userID, todoID, &params)

	if err != nil {
		helper.SendError(c, err)
		return
	}

	h.recordWrite(c, userID, "update")

	c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	payload, userID, ok := h.identify(c)

	if !ok {
		return
	}

	todoID, err := strconv.Atoi(c.Param("todoId"))

	if err != nil {
		helper.SendBadRequest(c, "Invalid todo id")
		return
	}

	if err := h.todos.Delete(c.Request.Context(), payload, userID, todoID); err != nil {
		helper.SendError(c, err)
		return
	}

	h.recordWrite(c, userID, "delete")

	helper.SendMessage(c, http.StatusOK, "Todo Deleted")
}

// identify resolves the gateway payload and the path user id. A malformed
// path segment is the caller's mistake, not an authorization failure.
func (h *TodoHandler) identify(c *gin.Context) (payload domain.TokenPayload, userID int, ok bool) {
	payload, found := middleware.CurrentUser(c)

	if !found {
		helper.SendUnauthorized(c, "Access Denied")
		return payload, 0, false
	}

	userID, err := strconv.Atoi(c.Param("userId"))

	if err != nil {
		helper.SendBadRequest(c, "Invalid user id")
		return payload, 0, false
	}

	return payload, userID, true
}

func (h *TodoHandler) recordWrite(c *gin.Context, userID int, operation string) {
	if h.metrics != nil {
		h.metrics.RecordTodoOperation(c.Request.Context(), operation)
	}

	if h.cache != nil {
		h.cache.InvalidateUser(c, userID)
	}
}
