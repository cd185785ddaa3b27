package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-workload-api/internal/middleware"
	"github.com/noah-isme/faculty-workload-api/internal/models"
	"github.com/noah-isme/faculty-workload-api/internal/service"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
	"github.com/noah-isme/faculty-workload-api/pkg/response"
)

type facultyService interface {
	Current(ctx context.Context, actor *models.JWTClaims) (*models.Faculty, error)
	MyTimetable(ctx context.Context, actor *models.JWTClaims) ([]models.TimetableSlotView, error)
	Details(ctx context.Context, facultyID string) (*models.FacultyDetail, error)
	DepartmentWorkload(ctx context.Context, departmentID string) ([]models.FacultyWorkload, bool, error)
}

type timetableExporter interface {
	FacultyTimetable(ctx context.Context, facultyID, format string) (*service.ExportFile, error)
}

type driftReconciler interface {
	Reconcile(ctx context.Context, actor *models.JWTClaims, facultyID string, repair bool) (*models.WorkloadDrift, error)
}

// FacultyHandler serves faculty self-service and academics views.
type FacultyHandler struct {
	faculty    facultyService
	exporter   timetableExporter
	reconciler driftReconciler
}

// NewFacultyHandler builds a faculty handler.
func NewFacultyHandler(faculty facultyService, exporter timetableExporter, reconciler driftReconciler) *FacultyHandler {
	return &FacultyHandler{faculty: faculty, exporter: exporter, reconciler: reconciler}
}

// Me godoc
// @Summary My faculty profile
// @Tags Faculty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/me [get]
func (h *FacultyHandler) Me(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	profile, err := h.faculty.Current(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// MyTimetable godoc
// @Summary My timetable
// @Tags Faculty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /faculty/me/timetable [get]
func (h *FacultyHandler) MyTimetable(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	slots, err := h.faculty.MyTimetable(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Details godoc
// @Summary Faculty details with timetable
// @Tags Academics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /academics/faculty/{id} [get]
func (h *FacultyHandler) Details(c *gin.Context) {
	detail, err := h.faculty.Details(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// DepartmentWorkload godoc
// @Summary Department workload summary
// @Tags Academics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /academics/departments/{id}/workload [get]
func (h *FacultyHandler) DepartmentWorkload(c *gin.Context) {
	rows, cached, err := h.faculty.DepartmentWorkload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, middleware.MetaCacheHit, cached)
	response.JSON(c, http.StatusOK, rows, nil, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export a faculty timetable
// @Tags Academics
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Faculty ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /academics/faculty/{id}/timetable/export [get]
func (h *FacultyHandler) Export(c *gin.Context) {
	file, err := h.exporter.FacultyTimetable(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Reconcile godoc
// @Summary Check and optionally repair a faculty hour counter
// @Tags Academics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Faculty ID"
// @Param repair query bool false "Repair drift"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /academics/faculty/{id}/reconcile [post]
func (h *FacultyHandler) Reconcile(c *gin.Context) {
	repair := false
	if raw := c.Query("repair"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "repair must be a boolean"))
			return
		}
		repair = parsed
	}
	drift, err := h.reconciler.Reconcile(c.Request.Context(), actorFromContext(c), c.Param("id"), repair)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drift, nil)
}
