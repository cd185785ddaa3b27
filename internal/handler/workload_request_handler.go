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

type workloadRequestService interface {
	Raise(ctx context.Context, actor *models.JWTClaims, req dto.RaiseWorkloadRequest) (*models.WorkloadRequest, error)
	ListMine(ctx context.Context, actor *models.JWTClaims) ([]models.WorkloadRequestView, error)
	List(ctx context.Context, statuses []string) ([]models.WorkloadRequestView, error)
	Get(ctx context.Context, id string) (*models.WorkloadRequest, error)
	Update(ctx context.Context, id string, req dto.UpdateWorkloadRequest) (*models.WorkloadRequest, error)
	Delete(ctx context.Context, id string) error
}

type reassigner interface {
	AutoReassign(ctx context.Context, actor *models.JWTClaims, requestID string) (*models.ReassignmentResult, error)
}

// WorkloadRequestHandler exposes the workload request lifecycle and auto-reassignment.
type WorkloadRequestHandler struct {
	requests   workloadRequestService
	reassigner reassigner
}

// NewWorkloadRequestHandler builds a workload request handler.
func NewWorkloadRequestHandler(requests workloadRequestService, reassigner reassigner) *WorkloadRequestHandler {
	return &WorkloadRequestHandler{requests: requests, reassigner: reassigner}
}

// Raise godoc
// @Summary Raise a workload request
// @Description Faculty member asks to be relieved of periods on a date. FULL_DAY without periods covers 1..8.
// @Tags Faculty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.RaiseWorkloadRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /faculty/me/workload-requests [post]
func (h *WorkloadRequestHandler) Raise(c *gin.Context) {
	var req dto.RaiseWorkloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid workload request payload"))
		return
	}
	record, err := h.requests.Raise(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// ListMine godoc
// @Summary List my workload requests
// @Tags Faculty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /faculty/me/workload-requests [get]
func (h *WorkloadRequestHandler) ListMine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	rows, err := h.requests.ListMine(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// List godoc
// @Summary List workload requests
// @Tags Workload Requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} response.Envelope
// @Router /workload-requests [get]
func (h *WorkloadRequestHandler) List(c *gin.Context) {
	rows, err := h.requests.List(c.Request.Context(), c.QueryArray("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Get godoc
// @Summary Get a workload request
// @Tags Workload Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workload-requests/{id} [get]
func (h *WorkloadRequestHandler) Get(c *gin.Context) {
	record, err := h.requests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Update godoc
// @Summary Record a decision on a workload request
// @Tags Workload Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param payload body dto.UpdateWorkloadRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /workload-requests/{id} [put]
func (h *WorkloadRequestHandler) Update(c *gin.Context) {
	var req dto.UpdateWorkloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid workload request payload"))
		return
	}
	record, err := h.requests.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete a workload request
// @Tags Workload Requests
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204
// @Router /workload-requests/{id} [delete]
func (h *WorkloadRequestHandler) Delete(c *gin.Context) {
	if err := h.requests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reassign godoc
// @Summary Auto-reassign a workload request
// @Description Hands each requested period to the least-loaded eligible colleague in the same department.
// @Tags Workload Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workload-requests/{id}/reassign [post]
func (h *WorkloadRequestHandler) Reassign(c *gin.Context) {
	result, err := h.reassigner.AutoReassign(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
