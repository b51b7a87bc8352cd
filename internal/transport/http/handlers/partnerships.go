package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joshwanee/hcdc-partnership/internal/transport/http/middleware"
	"github.com/joshwanee/hcdc-partnership/internal/usecase"
)

// PartnershipHandler exposes partnership lifecycle endpoints and the growth
// aggregation.
type PartnershipHandler struct {
	partnerships *usecase.PartnershipService
}

// NewPartnershipHandler constructs PartnershipHandler.
func NewPartnershipHandler(partnerships *usecase.PartnershipService) *PartnershipHandler {
	return &PartnershipHandler{partnerships: partnerships}
}

// RegisterRoutes binds partnership routes. The growth route is registered
// before the parameterized routes so "growth" is never captured as an id.
func (h *PartnershipHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/growth", h.growth)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.delete)
}

var partnershipErrorCases = []ErrorCase{
	{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "permission denied"},
	{Err: usecase.ErrPartnershipNotFound, Status: http.StatusNotFound, Message: "partnership not found"},
	{Err: usecase.ErrDepartmentNotFound, Status: http.StatusUnprocessableEntity, Message: "referenced department does not exist"},
	{Err: usecase.ErrInvalidStatus, Status: http.StatusBadRequest, Message: "status must be active or inactive"},
	{Err: usecase.ErrDepartmentRequired, Status: http.StatusBadRequest, Message: "department is required"},
	{Err: usecase.ErrTitleRequired, Status: http.StatusBadRequest, Message: "title is required"},
}

func (h *PartnershipHandler) list(c *gin.Context) {
	var departmentID *string
	if raw := c.Query("department"); raw != "" {
		departmentID = &raw
	}

	partnerships, err := h.partnerships.List(c.Request.Context(), middleware.GetIdentity(c), departmentID)
	if err != nil {
		RespondWithMappedError(c, err, partnershipErrorCases, http.StatusInternalServerError, "failed to list partnerships")
		return
	}

	c.JSON(http.StatusOK, newPartnershipModels(partnerships))
}

func (h *PartnershipHandler) get(c *gin.Context) {
	partnership, err := h.partnerships.Get(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, partnershipErrorCases, http.StatusInternalServerError, "failed to load partnership")
		return
	}

	c.JSON(http.StatusOK, newPartnershipModel(*partnership))
}

func (h *PartnershipHandler) create(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	partnership, err := h.partnerships.Create(c.Request.Context(), middleware.GetIdentity(c), input)
	if err != nil {
		RespondWithMappedError(c, err, partnershipErrorCases, http.StatusInternalServerError, "failed to create partnership")
		return
	}

	c.JSON(http.StatusCreated, newPartnershipModel(partnership))
}

func (h *PartnershipHandler) update(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	partnership, err := h.partnerships.Update(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), input)
	if err != nil {
		RespondWithMappedError(c, err, partnershipErrorCases, http.StatusInternalServerError, "failed to update partnership")
		return
	}

	c.JSON(http.StatusOK, newPartnershipModel(*partnership))
}

func (h *PartnershipHandler) delete(c *gin.Context) {
	if err := h.partnerships.Delete(c.Request.Context(), middleware.GetIdentity(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, partnershipErrorCases, http.StatusInternalServerError, "failed to delete partnership")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PartnershipHandler) growth(c *gin.Context) {
	filter := usecase.GrowthFilter{}

	var err error
	if filter.Year, err = optionalIntQuery(c, "year"); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "year must be an integer"))
		return
	}
	if filter.Month, err = optionalIntQuery(c, "month"); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "month must be an integer"))
		return
	}
	if raw := c.Query("college"); raw != "" {
		filter.CollegeID = &raw
	}

	points, err := h.partnerships.Growth(c.Request.Context(), middleware.GetIdentity(c), filter)
	if err != nil {
		RespondWithMappedError(c, err, partnershipErrorCases, http.StatusInternalServerError, "failed to compute growth")
		return
	}

	c.JSON(http.StatusOK, GrowthResponse{Growth: newGrowthPointModels(points)})
}

func (h *PartnershipHandler) bindInput(c *gin.Context) (usecase.PartnershipInput, bool) {
	var req PartnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid partnership payload"))
		return usecase.PartnershipInput{}, false
	}

	dateStarted, err := parseAPIDate(req.DateStarted)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return usecase.PartnershipInput{}, false
	}
	dateEnded, err := parseAPIDate(req.DateEnded)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return usecase.PartnershipInput{}, false
	}

	return usecase.PartnershipInput{
		DepartmentID:  req.Department,
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		DateStarted:   dateStarted,
		DateEnded:     dateEnded,
	}, true
}

func optionalIntQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
