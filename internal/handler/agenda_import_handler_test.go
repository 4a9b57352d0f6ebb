package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/traineo/agenda-api/internal/repository"
	"github.com/traineo/agenda-api/internal/service"
	"github.com/traineo/agenda-api/pkg/jobs"
)

type queueMock struct {
	tasks []jobs.Task
}

func (q *queueMock) Enqueue(task jobs.Task) error {
	q.tasks = append(q.tasks, task)
	return nil
}

func newImportHandler(t *testing.T) (*AgendaImportHandler, *queueMock, *repository.MemoryJobStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	queue := &queueMock{}
	jobStore := repository.NewMemoryJobStore()
	svc := service.NewAgendaImportService(
		nil, nil, nil, nil, jobStore, queue, nil, nil, zap.NewNop(),
		service.AgendaImportConfig{},
	)
	return NewAgendaImportHandler(svc), queue, jobStore
}

func TestAgendaImportHandlerKickoffAccepted(t *testing.T) {
	handler, queue, _ := newImportHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"trainingPlanId":"plan-1"}`
	req, _ := http.NewRequest(http.MethodPost, "/projects/project-1/agenda/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "project-1"}}

	handler.Kickoff(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, queue.tasks, 1)

	var envelope struct {
		Data struct {
			JobID  string `json:"jobId"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.JobID)
	assert.Equal(t, "starting", envelope.Data.Status)
}

func TestAgendaImportHandlerKickoffRejectsBadBody(t *testing.T) {
	handler, queue, _ := newImportHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/projects/project-1/agenda/import", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "project-1"}}

	handler.Kickoff(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, queue.tasks)
}

func TestAgendaImportHandlerKickoffRequiresPlanID(t *testing.T) {
	handler, queue, _ := newImportHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/projects/project-1/agenda/import", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "project-1"}}

	handler.Kickoff(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, queue.tasks)
}

func TestAgendaImportHandlerStatusNotFound(t *testing.T) {
	handler, _, _ := newImportHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/agenda/imports/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "jobId", Value: "missing"}}

	handler.Status(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
