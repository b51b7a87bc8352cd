package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshwanee/hcdc-partnership/internal/usecase"
)

// ViewingHandler exposes the unauthenticated read-only surface. Every
// operation runs with an anonymous identity regardless of any credentials on
// the request, so the listings are always the public unrestricted view.
type ViewingHandler struct {
	colleges     *usecase.CollegeService
	departments  *usecase.DepartmentService
	partnerships *usecase.PartnershipService
}

// NewViewingHandler constructs ViewingHandler.
func NewViewingHandler(colleges *usecase.CollegeService, departments *usecase.DepartmentService, partnerships *usecase.PartnershipService) *ViewingHandler {
	return &ViewingHandler{
		colleges:     colleges,
		departments:  departments,
		partnerships: partnerships,
	}
}

// RegisterRoutes binds the public viewing routes.
func (h *ViewingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/colleges", h.listColleges)
	r.GET("/colleges/:id", h.getCollege)
	r.GET("/departments", h.listDepartments)
	r.GET("/departments/:id", h.getDepartment)
	r.GET("/partnerships", h.listPartnerships)
	r.GET("/partnerships/:id", h.getPartnership)
}

func (h *ViewingHandler) listColleges(c *gin.Context) {
	colleges, err := h.colleges.List(c.Request.Context(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list colleges"))
		return
	}

	c.JSON(http.StatusOK, newCollegeModels(colleges))
}

func (h *ViewingHandler) getCollege(c *gin.Context) {
	college, err := h.colleges.Get(c.Request.Context(), nil, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, collegeErrorCases, http.StatusInternalServerError, "failed to load college")
		return
	}

	c.JSON(http.StatusOK, newCollegeModel(*college))
}

func (h *ViewingHandler) listDepartments(c *gin.Context) {
	var collegeID *string
	if raw := c.Query("college"); raw != "" {
		collegeID = &raw
	}

	departments, err := h.departments.List(c.Request.Context(), nil, collegeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list departments"))
		return
	}

	c.JSON(http.StatusOK, newDepartmentModels(departments))
}

func (h *ViewingHandler) getDepartment(c *gin.Context) {
	department, err := h.departments.Get(c.Request.Context(), nil, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, departmentErrorCases, http.StatusInternalServerError, "failed to load department")
		return
	}

	c.JSON(http.StatusOK, newDepartmentModel(*department))
}

func (h *ViewingHandler) listPartnerships(c *gin.Context) {
	var departmentID *string
	if raw := c.Query("department"); raw != "" {
		departmentID = &raw
	}

	partnerships, err := h.partnerships.List(c.Request.Context(), nil, departmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list partnerships"))
		return
	}

	c.JSON(http.StatusOK, newPartnershipModels(partnerships))
}

func (h *ViewingHandler) getPartnership(c *gin.Context) {
	partnership, err := h.partnerships.Get(c.Request.Context(), nil, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, partnershipErrorCases, http.StatusInternalServerError, "failed to load partnership")
		return
	}

	c.JSON(http.StatusOK, newPartnershipModel(*partnership))
}
