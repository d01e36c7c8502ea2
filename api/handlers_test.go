package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/gateway"
	"github.com/poiesic/docquery/ingestion"
	"github.com/poiesic/docquery/orchestrator"
	"github.com/poiesic/docquery/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTaskService is a function-field test double for TaskService.
type mockTaskService struct {
	SubmitFunc    func(ctx context.Context, prompt, ownerID string, docIDs []string) (string, error)
	GetStatusFunc func(ctx context.Context, taskID string) (*core.Task, error)
}

func (m *mockTaskService) Submit(ctx context.Context, prompt, ownerID string, docIDs []string) (string, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, prompt, ownerID, docIDs)
	}
	return "task-1", nil
}

func (m *mockTaskService) GetStatus(ctx context.Context, taskID string) (*core.Task, error) {
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx, taskID)
	}
	return &core.Task{
		TaskID:    taskID,
		Status:    core.TaskStatusRunning,
		Prompt:    "p",
		OwnerID:   "owner-1",
		CreatedAt: time.Now().UTC(),
	}, nil
}

// mockChatService is a function-field test double for ChatService.
type mockChatService struct {
	ChatFunc func(ctx context.Context, prompt, sessionID string) (*gateway.ChatResult, error)
}

func (m *mockChatService) Chat(ctx context.Context, prompt, sessionID string) (*gateway.ChatResult, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, prompt, sessionID)
	}
	return &gateway.ChatResult{Text: "reply", SessionID: "sess-1"}, nil
}

// mockIndexService is a function-field test double for IndexService.
type mockIndexService struct {
	IndexDocumentFunc func(ctx context.Context, ownerID, documentID string) (*ingestion.IndexResult, error)
}

func (m *mockIndexService) IndexDocument(ctx context.Context, ownerID, documentID string) (*ingestion.IndexResult, error) {
	if m.IndexDocumentFunc != nil {
		return m.IndexDocumentFunc(ctx, ownerID, documentID)
	}
	return &ingestion.IndexResult{
		OwnerID:    ownerID,
		DocumentID: documentID,
		DocType:    core.DocTypePDF,
		ChunkCount: 3,
		Location:   storage.EmbeddingKey(ownerID, documentID),
	}, nil
}

func newTestRouter(tasks TaskService, chat ChatService, index IndexService) *gin.Engine {
	return NewRouter(NewHandler(tasks, chat, index), nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestSubmitTask(t *testing.T) {
	router := newTestRouter(&mockTaskService{}, &mockChatService{}, &mockIndexService{})

	recorder := doJSON(t, router, http.MethodPost, "/v1/tasks", gin.H{
		"prompt":  "summarize",
		"ownerId": "owner-1",
		"docIds":  []string{"doc-1"},
	})

	require.Equal(t, http.StatusAccepted, recorder.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "task-1", data["taskId"])
}

func TestSubmitTask_MissingFields(t *testing.T) {
	router := newTestRouter(&mockTaskService{}, &mockChatService{}, &mockIndexService{})

	recorder := doJSON(t, router, http.MethodPost, "/v1/tasks", gin.H{"prompt": "p"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSubmitTask_DispatchFailure(t *testing.T) {
	tasks := &mockTaskService{
		SubmitFunc: func(ctx context.Context, prompt, ownerID string, docIDs []string) (string, error) {
			return "", fmt.Errorf("%w: pool exhausted", orchestrator.ErrDispatchFailed)
		},
	}
	router := newTestRouter(tasks, &mockChatService{}, &mockIndexService{})

	recorder := doJSON(t, router, http.MethodPost, "/v1/tasks", gin.H{
		"prompt":  "p",
		"ownerId": "owner-1",
		"docIds":  []string{"doc-1"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestGetTask(t *testing.T) {
	completed := time.Now().UTC().Truncate(time.Second)
	tasks := &mockTaskService{
		GetStatusFunc: func(ctx context.Context, taskID string) (*core.Task, error) {
			return &core.Task{
				TaskID:      taskID,
				Status:      core.TaskStatusCompleted,
				Prompt:      "summarize",
				OwnerID:     "owner-1",
				DocIDs:      []string{"doc-1"},
				CreatedAt:   completed.Add(-time.Minute),
				Result:      "the answer",
				CompletedAt: completed,
				SessionID:   "sess-1",
			}, nil
		},
	}
	router := newTestRouter(tasks, &mockChatService{}, &mockIndexService{})

	recorder := doJSON(t, router, http.MethodGet, "/v1/tasks/task-42", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "task-42", data["taskId"])
	assert.Equal(t, "COMPLETED", data["status"])
	assert.Equal(t, "the answer", data["result"])
	assert.Equal(t, "sess-1", data["sessionId"])
	assert.NotEmpty(t, data["completedAt"])
}

func TestGetTask_NotFound(t *testing.T) {
	tasks := &mockTaskService{
		GetStatusFunc: func(ctx context.Context, taskID string) (*core.Task, error) {
			return nil, storage.ErrNotFound
		},
	}
	router := newTestRouter(tasks, &mockChatService{}, &mockIndexService{})

	recorder := doJSON(t, router, http.MethodGet, "/v1/tasks/absent", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestChat(t *testing.T) {
	router := newTestRouter(&mockTaskService{}, &mockChatService{}, &mockIndexService{})

	recorder := doJSON(t, router, http.MethodPost, "/v1/chat", gin.H{"prompt": "hello"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "reply", data["text"])
	assert.Equal(t, "sess-1", data["sessionId"])
}

func TestChat_EmptyPrompt(t *testing.T) {
	chat := &mockChatService{
		ChatFunc: func(ctx context.Context, prompt, sessionID string) (*gateway.ChatResult, error) {
			return nil, core.ErrEmptyPrompt
		},
	}
	router := newTestRouter(&mockTaskService{}, chat, &mockIndexService{})

	recorder := doJSON(t, router, http.MethodPost, "/v1/chat", gin.H{"prompt": "   "})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestChat_Throttled(t *testing.T) {
	chat := &mockChatService{
		ChatFunc: func(ctx context.Context, prompt, sessionID string) (*gateway.ChatResult, error) {
			return nil, fmt.Errorf("%w: last error", gateway.ErrThrottled)
		},
	}
	router := newTestRouter(&mockTaskService{}, chat, &mockIndexService{})

	recorder := doJSON(t, router, http.MethodPost, "/v1/chat", gin.H{"prompt": "hello"})
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
}

func TestIndex(t *testing.T) {
	router := newTestRouter(&mockTaskService{}, &mockChatService{}, &mockIndexService{})

	recorder := doJSON(t, router, http.MethodPost, "/v1/index", gin.H{
		"ownerId": "owner-1",
		"docId":   "doc-1",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(3), data["chunkCount"])
	assert.Equal(t, "embeddings/owner-1/doc-1.jsonl", data["location"])
}

func TestIndex_DocumentNotFound(t *testing.T) {
	index := &mockIndexService{
		IndexDocumentFunc: func(ctx context.Context, ownerID, documentID string) (*ingestion.IndexResult, error) {
			return nil, fmt.Errorf("%w: %s/%s", ingestion.ErrDocumentNotFound, ownerID, documentID)
		},
	}
	router := newTestRouter(&mockTaskService{}, &mockChatService{}, index)

	recorder := doJSON(t, router, http.MethodPost, "/v1/index", gin.H{
		"ownerId": "owner-1",
		"docId":   "absent",
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestIndex_InternalError(t *testing.T) {
	index := &mockIndexService{
		IndexDocumentFunc: func(ctx context.Context, ownerID, documentID string) (*ingestion.IndexResult, error) {
			return nil, errors.New("disk full")
		},
	}
	router := newTestRouter(&mockTaskService{}, &mockChatService{}, index)

	recorder := doJSON(t, router, http.MethodPost, "/v1/index", gin.H{
		"ownerId": "owner-1",
		"docId":   "doc-1",
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&mockTaskService{}, &mockChatService{}, &mockIndexService{})

	recorder := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
