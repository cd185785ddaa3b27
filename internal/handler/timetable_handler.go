package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-workload-api/internal/dto"
	"github.com/noah-isme/faculty-workload-api/internal/models"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
	"github.com/noah-isme/faculty-workload-api/pkg/response"
)

type timetableService interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableSlotView, *models.Pagination, error)
	CommitSlot(ctx context.Context, actor *models.JWTClaims, req dto.CommitSlotRequest) (*models.TimetableSlot, error)
	EditSlot(ctx context.Context, actor *models.JWTClaims, id string, req dto.EditSlotRequest) (*models.TimetableSlot, error)
	DeleteSlot(ctx context.Context, actor *models.JWTClaims, id string) error
}

// TimetableHandler exposes timetable slot endpoints.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler builds a timetable handler.
func NewTimetableHandler(svc timetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// List godoc
// @Summary List timetable slots
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Param department_id query string false "Department ID"
// @Param class_year query string false "Class year"
// @Param faculty_id query string false "Faculty ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.ListSlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	filter := models.TimetableFilter{
		DepartmentID: query.DepartmentID,
		ClassYear:    query.ClassYear,
		FacultyID:    query.FacultyID,
		Page:         query.Page,
		PageSize:     query.PageSize,
	}
	if query.Date != "" {
		date, err := models.ParseDate(query.Date)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid date"))
			return
		}
		filter.Date = &date
	}

	slots, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, pagination)
}

// Commit godoc
// @Summary Commit a timetable slot
// @Description Validates period range, capacity, faculty and class clashes and the continuity cap before inserting.
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CommitSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /timetable [post]
func (h *TimetableHandler) Commit(c *gin.Context) {
	var req dto.CommitSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	slot, err := h.service.CommitSlot(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Edit godoc
// @Summary Edit a timetable slot
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param payload body dto.EditSlotRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /timetable/{id} [put]
func (h *TimetableHandler) Edit(c *gin.Context) {
	var req dto.EditSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	slot, err := h.service.EditSlot(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Delete a timetable slot
// @Tags Timetable
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteSlot(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
