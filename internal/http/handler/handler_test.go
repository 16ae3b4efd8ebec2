package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cubebridge/internal/model"
	"cubebridge/internal/runner"
	"cubebridge/internal/service"
	serviceMocks "cubebridge/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExecuteCommand(t *testing.T) {
	mockSvc := new(serviceMocks.MockBridgeService)
	app := fiber.New()
	app.Post("/api/v1/execute", ExecuteCommand(mockSvc))

	t.Run("success returns stdout", func(t *testing.T) {
		inv := &model.Invocation{ID: uuid.NewString(), Stdout: "claude says hi\n"}
		mockSvc.On("Execute", mock.Anything, "say hi").Return(inv, nil).Once()

		req := jsonRequest(t, http.MethodPost, "/api/v1/execute", executeRequest{Command: "say hi"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result executeResponse
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "claude says hi\n", result.Output)
		assert.Equal(t, inv.ID, result.InvocationID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("non-zero exit surfaces stderr", func(t *testing.T) {
		mockSvc.On("Execute", mock.Anything, "bad").
			Return(nil, &runner.ExitError{Code: 1, Stderr: "unknown directive"}).Once()

		req := jsonRequest(t, http.MethodPost, "/api/v1/execute", executeRequest{Command: "bad"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "COMMAND_FAILED", body.Error.Code)
		assert.Equal(t, "unknown directive", body.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("spawn failure surfaces OS error", func(t *testing.T) {
		mockSvc.On("Execute", mock.Anything, "any").
			Return(nil, errors.New("execute claude: no such file or directory")).Once()

		req := jsonRequest(t, http.MethodPost, "/api/v1/execute", executeRequest{Command: "any"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SPAWN_FAILED", body.Error.Code)
		assert.Contains(t, body.Error.Message, "no such file or directory")
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/execute", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_BODY", body.Error.Code)
	})
}

func TestLogMemoryThread(t *testing.T) {
	mockSvc := new(serviceMocks.MockBridgeService)
	app := fiber.New()
	app.Post("/api/v1/memory-thread", LogMemoryThread(mockSvc))

	t.Run("success", func(t *testing.T) {
		entry := &model.MemoryThreadEntry{
			Filename:  "memory-thread-1700000000.log",
			Path:      "cube/logs/memory-thread-1700000000.log",
			Size:      9,
			WrittenAt: time.Unix(1700000000, 0).UTC(),
		}
		mockSvc.On("LogMemoryThread", mock.Anything, "restored").Return(entry, nil).Once()

		req := jsonRequest(t, http.MethodPost, "/api/v1/memory-thread", memoryThreadRequest{Message: "restored"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.MemoryThreadEntry
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, entry.Filename, result.Filename)
		mockSvc.AssertExpectations(t)
	})

	t.Run("write failure surfaces error text", func(t *testing.T) {
		mockSvc.On("LogMemoryThread", mock.Anything, "restored").
			Return(nil, errors.New("create log directory: permission denied")).Once()

		req := jsonRequest(t, http.MethodPost, "/api/v1/memory-thread", memoryThreadRequest{Message: "restored"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "LOG_WRITE_FAILED", body.Error.Code)
		assert.Contains(t, body.Error.Message, "permission denied")
		mockSvc.AssertExpectations(t)
	})
}

func TestListInvocations(t *testing.T) {
	mockSvc := new(serviceMocks.MockBridgeService)
	app := fiber.New()
	app.Get("/api/v1/invocations", ListInvocations(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.InvocationListResult{
			Items: []model.Invocation{{ID: uuid.NewString(), Command: "say hi"}},
			Total: 1,
		}
		mockSvc.On("History", mock.Anything, 10, 0).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/invocations?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.InvocationListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/invocations?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_LIMIT", body.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("History", mock.Anything, 10, 0).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/invocations", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetInvocation(t *testing.T) {
	mockSvc := new(serviceMocks.MockBridgeService)
	app := fiber.New()
	app.Get("/api/v1/invocations/:id", GetInvocation(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Invocation", mock.Anything, id).Return(&model.Invocation{ID: id}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/invocations/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/invocations/not-a-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_ID", body.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Invocation", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/invocations/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestMemoryThreadArchiveURL(t *testing.T) {
	mockSvc := new(serviceMocks.MockBridgeService)
	app := fiber.New()
	app.Get("/api/v1/memory-threads/:filename/url", MemoryThreadArchiveURL(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("ArchiveURL", mock.Anything, "memory-thread-1.log").
			Return("https://minio.local/signed", nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/memory-threads/memory-thread-1.log/url", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result archiveURLResponse
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "https://minio.local/signed", result.URL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid filename", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/memory-threads/etc-passwd/url", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_FILENAME", body.Error.Code)
	})

	t.Run("archive disabled", func(t *testing.T) {
		mockSvc.On("ArchiveURL", mock.Anything, "memory-thread-2.log").
			Return("", service.ErrArchiveDisabled).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/memory-threads/memory-thread-2.log/url", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}
