package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshwanee/hcdc-partnership/internal/transport/http/middleware"
	"github.com/joshwanee/hcdc-partnership/internal/usecase"
)

// DepartmentHandler exposes department lifecycle endpoints.
type DepartmentHandler struct {
	departments *usecase.DepartmentService
}

// NewDepartmentHandler constructs DepartmentHandler.
func NewDepartmentHandler(departments *usecase.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// RegisterRoutes binds department routes.
func (h *DepartmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.delete)
	r.GET("/:id/partnerships", h.partnerships)
}

var departmentErrorCases = []ErrorCase{
	{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "permission denied"},
	{Err: usecase.ErrDepartmentNotFound, Status: http.StatusNotFound, Message: "department not found"},
	{Err: usecase.ErrCollegeNotFound, Status: http.StatusUnprocessableEntity, Message: "referenced college does not exist"},
	{Err: usecase.ErrDepartmentCodeTaken, Status: http.StatusConflict, Message: "department code already in use"},
	{Err: usecase.ErrCodeRequired, Status: http.StatusBadRequest, Message: "code is required"},
	{Err: usecase.ErrNameRequired, Status: http.StatusBadRequest, Message: "name is required"},
}

func (h *DepartmentHandler) list(c *gin.Context) {
	var collegeID *string
	if raw := c.Query("college"); raw != "" {
		collegeID = &raw
	}

	departments, err := h.departments.List(c.Request.Context(), middleware.GetIdentity(c), collegeID)
	if err != nil {
		RespondWithMappedError(c, err, departmentErrorCases, http.StatusInternalServerError, "failed to list departments")
		return
	}

	c.JSON(http.StatusOK, newDepartmentModels(departments))
}

func (h *DepartmentHandler) get(c *gin.Context) {
	department, err := h.departments.Get(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, departmentErrorCases, http.StatusInternalServerError, "failed to load department")
		return
	}

	c.JSON(http.StatusOK, newDepartmentModel(*department))
}

func (h *DepartmentHandler) create(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "code and name are required"))
		return
	}

	department, err := h.departments.Create(c.Request.Context(), middleware.GetIdentity(c), usecase.DepartmentInput{
		CollegeID: req.College,
		Code:      req.Code,
		Name:      req.Name,
		AdminID:   req.Admin,
	})
	if err != nil {
		RespondWithMappedError(c, err, departmentErrorCases, http.StatusInternalServerError, "failed to create department")
		return
	}

	c.JSON(http.StatusCreated, newDepartmentModel(department))
}

func (h *DepartmentHandler) update(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "code and name are required"))
		return
	}

	department, err := h.departments.Update(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), usecase.DepartmentInput{
		CollegeID: req.College,
		Code:      req.Code,
		Name:      req.Name,
		AdminID:   req.Admin,
	})
	if err != nil {
		RespondWithMappedError(c, err, departmentErrorCases, http.StatusInternalServerError, "failed to update department")
		return
	}

	c.JSON(http.StatusOK, newDepartmentModel(*department))
}

func (h *DepartmentHandler) delete(c *gin.Context) {
	if err := h.departments.Delete(c.Request.Context(), middleware.GetIdentity(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, departmentErrorCases, http.StatusInternalServerError, "failed to delete department")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DepartmentHandler) partnerships(c *gin.Context) {
	partnerships, err := h.departments.Partnerships(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, departmentErrorCases, http.StatusInternalServerError, "failed to list partnerships")
		return
	}

	c.JSON(http.StatusOK, newPartnershipModels(partnerships))
}
