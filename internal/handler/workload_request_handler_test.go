package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-workload-api/internal/dto"
	"github.com/noah-isme/faculty-workload-api/internal/models"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
)

type workloadRequestServiceMock struct {
	lastRaise    dto.RaiseWorkloadRequest
	lastStatuses []string
	lastUpdate   dto.UpdateWorkloadRequest
	getErr       error
}

func (m *workloadRequestServiceMock) Raise(ctx context.Context, actor *models.JWTClaims, req dto.RaiseWorkloadRequest) (*models.WorkloadRequest, error) {
	m.lastRaise = req
	return &models.WorkloadRequest{ID: "req-1", Status: models.WorkloadStatusPending}, nil
}

func (m *workloadRequestServiceMock) ListMine(ctx context.Context, actor *models.JWTClaims) ([]models.WorkloadRequestView, error) {
	return []models.WorkloadRequestView{}, nil
}

func (m *workloadRequestServiceMock) List(ctx context.Context, statuses []string) ([]models.WorkloadRequestView, error) {
	m.lastStatuses = statuses
	return []models.WorkloadRequestView{}, nil
}

func (m *workloadRequestServiceMock) Get(ctx context.Context, id string) (*models.WorkloadRequest, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &models.WorkloadRequest{ID: id}, nil
}

func (m *workloadRequestServiceMock) Update(ctx context.Context, id string, req dto.UpdateWorkloadRequest) (*models.WorkloadRequest, error) {
	m.lastUpdate = req
	return &models.WorkloadRequest{ID: id}, nil
}

func (m *workloadRequestServiceMock) Delete(ctx context.Context, id string) error {
	return nil
}

type reassignerMock struct {
	result *models.ReassignmentResult
	err    error
	lastID string
}

func (m *reassignerMock) AutoReassign(ctx context.Context, actor *models.JWTClaims, requestID string) (*models.ReassignmentResult, error) {
	m.lastID = requestID
	return m.result, m.err
}

func TestWorkloadRequestHandlerRaise(t *testing.T) {
	svc := &workloadRequestServiceMock{}
	handler := NewWorkloadRequestHandler(svc, &reassignerMock{})

	c, w := newTestContext(http.MethodPost, "/faculty/me/workload-requests", []byte(`{"date":"2024-03-04","type":"SINGLE","periods":[2,3],"reason":"seminar"}`))
	handler.Raise(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []int{2, 3}, svc.lastRaise.Periods)

	c, w = newTestContext(http.MethodPost, "/faculty/me/workload-requests", []byte(`{"periods":"x"}`))
	handler.Raise(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkloadRequestHandlerList(t *testing.T) {
	svc := &workloadRequestServiceMock{}
	handler := NewWorkloadRequestHandler(svc, &reassignerMock{})

	c, w := newTestContext(http.MethodGet, "/workload-requests?status=Pending,Escalated", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Pending,Escalated"}, svc.lastStatuses)

	c, w = newTestContext(http.MethodGet, "/faculty/me/workload-requests", nil)
	handler.ListMine(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWorkloadRequestHandlerGetUpdateDelete(t *testing.T) {
	svc := &workloadRequestServiceMock{}
	handler := NewWorkloadRequestHandler(svc, &reassignerMock{})

	c, w := newTestContext(http.MethodPut, "/workload-requests/req-1", []byte(`{"status":"Rejected","decisionLog":"no cover"}`))
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}
	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastUpdate.Status)
	assert.Equal(t, "Rejected", *svc.lastUpdate.Status)

	c, w = newTestContext(http.MethodDelete, "/workload-requests/req-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusNoContent, w.Code)

	svc.getErr = appErrors.Clone(appErrors.ErrNotFound, "workload request not found")
	c, w = newTestContext(http.MethodGet, "/workload-requests/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkloadRequestHandlerReassign(t *testing.T) {
	reassign := &reassignerMock{result: &models.ReassignmentResult{
		RequestID:   "req-1",
		Status:      models.WorkloadStatusApproved,
		DecisionLog: "P1: Reassigned to Bala",
	}}
	handler := NewWorkloadRequestHandler(&workloadRequestServiceMock{}, reassign)

	c, w := newTestContext(http.MethodPost, "/workload-requests/req-1/reassign", nil)
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}
	handler.Reassign(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", reassign.lastID)
	assert.Contains(t, w.Body.String(), "P1: Reassigned to Bala")

	reassign.err = appErrors.ErrAlreadyReassigned
	c, w = newTestContext(http.MethodPost, "/workload-requests/req-1/reassign", nil)
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}
	handler.Reassign(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrAlreadyReassigned.Code, decodeError(t, w).Code)
}
