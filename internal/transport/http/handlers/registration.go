package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshwanee/hcdc-partnership/internal/usecase"
)

// RegistrationHandler exposes the guest self-registration endpoint.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registration *usecase.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

// RegisterRoutes binds registration routes.
func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/guest", h.registerGuest)
}

func (h *RegistrationHandler) registerGuest(c *gin.Context) {
	var req GuestRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username, email, and password are required"))
		return
	}

	user, err := h.registration.RegisterGuest(c.Request.Context(), usecase.RegisterGuestInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUsernameTaken, Status: http.StatusConflict, Message: "username or email already in use"},
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusUnprocessableEntity, Message: "password does not meet the strength policy"},
			{Err: usecase.ErrUsernameRequired, Status: http.StatusBadRequest, Message: "username is required"},
			{Err: usecase.ErrEmailRequired, Status: http.StatusBadRequest, Message: "email is required"},
			{Err: usecase.ErrPasswordRequired, Status: http.StatusBadRequest, Message: "password is required"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, GuestRegistrationResponse{
		User:    newUserModel(user),
		Message: "account created",
	})
}
