package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshwanee/hcdc-partnership/internal/transport/http/middleware"
	"github.com/joshwanee/hcdc-partnership/internal/usecase"
)

// CollegeHandler exposes college lifecycle endpoints.
type CollegeHandler struct {
	colleges *usecase.CollegeService
}

// NewCollegeHandler constructs CollegeHandler.
func NewCollegeHandler(colleges *usecase.CollegeService) *CollegeHandler {
	return &CollegeHandler{colleges: colleges}
}

// RegisterRoutes binds college routes.
func (h *CollegeHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.delete)
	r.GET("/:id/departments", h.departments)
}

var collegeErrorCases = []ErrorCase{
	{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "permission denied"},
	{Err: usecase.ErrCollegeNotFound, Status: http.StatusNotFound, Message: "college not found"},
	{Err: usecase.ErrCollegeCodeTaken, Status: http.StatusConflict, Message: "college code already in use"},
	{Err: usecase.ErrCodeRequired, Status: http.StatusBadRequest, Message: "code is required"},
	{Err: usecase.ErrNameRequired, Status: http.StatusBadRequest, Message: "name is required"},
}

func (h *CollegeHandler) list(c *gin.Context) {
	colleges, err := h.colleges.List(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		RespondWithMappedError(c, err, collegeErrorCases, http.StatusInternalServerError, "failed to list colleges")
		return
	}

	c.JSON(http.StatusOK, newCollegeModels(colleges))
}

func (h *CollegeHandler) get(c *gin.Context) {
	college, err := h.colleges.Get(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, collegeErrorCases, http.StatusInternalServerError, "failed to load college")
		return
	}

	c.JSON(http.StatusOK, newCollegeModel(*college))
}

func (h *CollegeHandler) create(c *gin.Context) {
	var req CollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "code and name are required"))
		return
	}

	college, err := h.colleges.Create(c.Request.Context(), middleware.GetIdentity(c), usecase.CollegeInput{
		Code:    req.Code,
		Name:    req.Name,
		AdminID: req.Admin,
	})
	if err != nil {
		RespondWithMappedError(c, err, collegeErrorCases, http.StatusInternalServerError, "failed to create college")
		return
	}

	c.JSON(http.StatusCreated, newCollegeModel(college))
}

func (h *CollegeHandler) update(c *gin.Context) {
	var req CollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "code and name are required"))
		return
	}

	college, err := h.colleges.Update(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), usecase.CollegeInput{
		Code:    req.Code,
		Name:    req.Name,
		AdminID: req.Admin,
	})
	if err != nil {
		RespondWithMappedError(c, err, collegeErrorCases, http.StatusInternalServerError, "failed to update college")
		return
	}

	c.JSON(http.StatusOK, newCollegeModel(*college))
}

func (h *CollegeHandler) delete(c *gin.Context) {
	if err := h.colleges.Delete(c.Request.Context(), middleware.GetIdentity(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, collegeErrorCases, http.StatusInternalServerError, "failed to delete college")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CollegeHandler) departments(c *gin.Context) {
	departments, err := h.colleges.Departments(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, collegeErrorCases, http.StatusInternalServerError, "failed to list departments")
		return
	}

	c.JSON(http.StatusOK, newDepartmentModels(departments))
}
