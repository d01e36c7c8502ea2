package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/gateway"
	"github.com/poiesic/docquery/ingestion"
	"github.com/poiesic/docquery/orchestrator"
	"github.com/poiesic/docquery/storage"
)

// TaskService manages asynchronous analysis tasks.
// *orchestrator.Orchestrator satisfies this interface.
type TaskService interface {
	Submit(ctx context.Context, prompt, ownerID string, docIDs []string) (string, error)
	GetStatus(ctx context.Context, taskID string) (*core.Task, error)
}

// ChatService handles synchronous conversation.
// *gateway.Gateway satisfies this interface.
type ChatService interface {
	Chat(ctx context.Context, prompt, sessionID string) (*gateway.ChatResult, error)
}

// IndexService indexes stored source documents.
// *ingestion.Indexer satisfies this interface.
type IndexService interface {
	IndexDocument(ctx context.Context, ownerID, documentID string) (*ingestion.IndexResult, error)
}

// Handler exposes the service surface over HTTP.
type Handler struct {
	tasks  TaskService
	chat   ChatService
	index  IndexService
	logger *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets a custom logger.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a Handler.
func NewHandler(tasks TaskService, chat ChatService, index IndexService, opts ...HandlerOption) *Handler {
	h := &Handler{
		tasks:  tasks,
		chat:   chat,
		index:  index,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SubmitTaskRequest is the body of POST /v1/tasks.
type SubmitTaskRequest struct {
	Prompt  string   `json:"prompt" binding:"required"`
	OwnerID string   `json:"ownerId" binding:"required"`
	DocIDs  []string `json:"docIds" binding:"required,min=1"`
}

// TaskView is the wire form of a task's state.
type TaskView struct {
	TaskID      string     `json:"taskId"`
	Status      string     `json:"status"`
	Prompt      string     `json:"prompt"`
	OwnerID     string     `json:"ownerId"`
	DocIDs      []string   `json:"docIds"`
	CreatedAt   time.Time  `json:"createdAt"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	SessionID   string     `json:"sessionId,omitempty"`
}

func taskView(task *core.Task) TaskView {
	view := TaskView{
		TaskID:    task.TaskID,
		Status:    task.Status.String(),
		Prompt:    task.Prompt,
		OwnerID:   task.OwnerID,
		DocIDs:    task.DocIDs,
		CreatedAt: task.CreatedAt,
		Result:    task.Result,
		Error:     task.Error,
		SessionID: task.SessionID,
	}
	if !task.CompletedAt.IsZero() {
		completed := task.CompletedAt
		view.CompletedAt = &completed
	}
	return view
}

// SubmitTask handles POST /v1/tasks.
func (h *Handler) SubmitTask(c *gin.Context) {
	var req SubmitTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	taskID, err := h.tasks.Submit(c.Request.Context(), req.Prompt, req.OwnerID, req.DocIDs)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidTask):
			fail(c, http.StatusBadRequest, "invalid task", err)
		case errors.Is(err, orchestrator.ErrDispatchFailed):
			fail(c, http.StatusServiceUnavailable, "task could not be started", err)
		default:
			h.logger.Error("task submission failed", "error", err)
			fail(c, http.StatusInternalServerError, "task submission failed", err)
		}
		return
	}

	accepted(c, gin.H{"taskId": taskID})
}

// GetTask handles GET /v1/tasks/:id.
func (h *Handler) GetTask(c *gin.Context) {
	taskID := c.Param("id")

	task, err := h.tasks.GetStatus(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "task not found", nil)
			return
		}
		h.logger.Error("task lookup failed", "task", taskID, "error", err)
		fail(c, http.StatusInternalServerError, "task lookup failed", err)
		return
	}

	success(c, taskView(task))
}

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"sessionId"`
}

// Chat handles POST /v1/chat.
func (h *Handler) Chat(c *gin.Context) {
	if h.chat == nil {
		fail(c, http.StatusServiceUnavailable, "chat backend is not configured", nil)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.chat.Chat(c.Request.Context(), req.Prompt, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyPrompt):
			fail(c, http.StatusBadRequest, "prompt must not be empty", nil)
		case errors.Is(err, gateway.ErrThrottled):
			fail(c, http.StatusTooManyRequests, "upstream model is rate limiting", err)
		default:
			h.logger.Error("chat failed", "error", err)
			fail(c, http.StatusInternalServerError, "chat failed", err)
		}
		return
	}

	success(c, result)
}

// IndexRequest is the body of POST /v1/index.
type IndexRequest struct {
	OwnerID string `json:"ownerId" binding:"required"`
	DocID   string `json:"docId" binding:"required"`
}

// Index handles POST /v1/index.
func (h *Handler) Index(c *gin.Context) {
	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.index.IndexDocument(c.Request.Context(), req.OwnerID, req.DocID)
	if err != nil {
		if errors.Is(err, ingestion.ErrDocumentNotFound) {
			fail(c, http.StatusNotFound, "source document not found", err)
			return
		}
		h.logger.Error("indexing failed",
			"owner", req.OwnerID,
			"document", req.DocID,
			"error", err)
		fail(c, http.StatusInternalServerError, "indexing failed", err)
		return
	}

	success(c, result)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
