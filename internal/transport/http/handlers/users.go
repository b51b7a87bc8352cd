package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/transport/http/middleware"
	"github.com/joshwanee/hcdc-partnership/internal/usecase"
)

// UserHandler exposes administrative user management endpoints.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes binds user management routes.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.DELETE("/:id", h.delete)
}

var userErrorCases = []ErrorCase{
	{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "permission denied"},
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	{Err: usecase.ErrPasswordRequired, Status: http.StatusBadRequest, Message: "password is required"},
	{Err: usecase.ErrUsernameRequired, Status: http.StatusBadRequest, Message: "username is required"},
	{Err: usecase.ErrInvalidRole, Status: http.StatusBadRequest, Message: "unknown role"},
	{Err: usecase.ErrDepartmentNotFound, Status: http.StatusUnprocessableEntity, Message: "referenced department does not exist"},
	{Err: usecase.ErrUsernameTaken, Status: http.StatusConflict, Message: "username or email already in use"},
	{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusUnprocessableEntity, Message: "password does not meet the strength policy"},
}

func (h *UserHandler) list(c *gin.Context) {
	filter := port.UserFilter{}

	if raw := c.Query("role"); raw != "" {
		role, err := domain.ParseRole(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown role filter"))
			return
		}
		filter.Role = role
	}

	var err error
	if filter.Limit, err = intQuery(c, "limit"); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "limit must be an integer"))
		return
	}
	if filter.Offset, err = intQuery(c, "offset"); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "offset must be an integer"))
		return
	}

	users, err := h.users.List(c.Request.Context(), middleware.GetIdentity(c), filter)
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, newUserModels(users))
}

func (h *UserHandler) get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, newUserModel(*user))
}

func (h *UserHandler) create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username, email, and role are required"))
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown role"))
		return
	}

	user, err := h.users.Create(c.Request.Context(), middleware.GetIdentity(c), usecase.CreateUserInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Role:         role,
		CollegeID:    req.College,
		DepartmentID: req.Department,
	})
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, newUserModel(user))
}

func (h *UserHandler) update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid update payload"))
		return
	}

	input := usecase.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown role"))
			return
		}
		input.Role = &role
	}

	var err error
	if input.College, err = refChange(req.College); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "college must be a string id or null"))
		return
	}
	if input.Department, err = refChange(req.Department); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "department must be a string id or null"))
		return
	}

	user, err := h.users.Update(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), input)
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, newUserModel(*user))
}

func (h *UserHandler) delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), middleware.GetIdentity(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}

func refChange(field RefField) (usecase.RefChange, error) {
	if !field.Provided() {
		return usecase.RefChange{}, nil
	}
	id, err := field.Value()
	if err != nil {
		return usecase.RefChange{}, err
	}
	return usecase.RefChange{Provided: true, ID: id}, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
