// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package docquery wires the document analysis service together: durable
// task state in Badger, source documents and embedding records on a
// filesystem object store, and OpenAI-compatible model backends.
package docquery

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/ai/openai"
	"github.com/poiesic/docquery/answer"
	"github.com/poiesic/docquery/api"
	"github.com/poiesic/docquery/gateway"
	"github.com/poiesic/docquery/ingestion"
	"github.com/poiesic/docquery/orchestrator"
	"github.com/poiesic/docquery/parse"
	"github.com/poiesic/docquery/search"
	"github.com/poiesic/docquery/storage"
	"github.com/poiesic/docquery/storage/badger"
	"github.com/poiesic/docquery/storage/object"
)

const defaultWorkerPoolSize = 8

// App bundles every service component behind one constructor so callers get
// a consistently wired system: one Badger backend, one object store, and one
// AI provider shared by ingestion, retrieval, and chat.
type App struct {
	backend   *badger.Backend
	tasks     storage.TaskRepository
	objects   storage.ObjectStore
	vectors   *storage.VectorStore
	provider  ai.AIProvider
	parser    *parse.Client
	indexer   *ingestion.Indexer
	retriever *search.Retriever
	trigger   *orchestrator.PoolTrigger
	orch      *orchestrator.Orchestrator
	gateway   *gateway.Gateway
	logger    *slog.Logger
}

type appOptions struct {
	aiConfig      *ai.Config
	aiProvider    ai.AIProvider
	parseURL      string
	parseKey      string
	workers       int
	taskRetention time.Duration
	searchConfig  *search.Config
}

// AppOption is a functional option for configuring an App.
type AppOption func(*appOptions)

// WithAIConfig sets the AI provider configuration.
// If not provided, ai.DefaultConfig() is used.
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built AI provider instead of constructing
// one from the config. The app takes ownership and closes it on Close.
func WithAIProvider(provider ai.AIProvider) AppOption {
	return func(o *appOptions) {
		o.aiProvider = provider
	}
}

// WithParseService points the ingestion pipeline at an external document
// parsing API. An empty URL keeps the client in stub mode.
func WithParseService(apiURL, apiKey string) AppOption {
	return func(o *appOptions) {
		o.parseURL = apiURL
		o.parseKey = apiKey
	}
}

// WithWorkers sets the size of the task worker pool.
func WithWorkers(n int) AppOption {
	return func(o *appOptions) {
		o.workers = n
	}
}

// WithTaskRetention sets how long completed task records remain readable.
func WithTaskRetention(d time.Duration) AppOption {
	return func(o *appOptions) {
		o.taskRetention = d
	}
}

// WithSearchConfig replaces the default retrieval configuration.
func WithSearchConfig(config search.Config) AppOption {
	return func(o *appOptions) {
		o.searchConfig = &config
	}
}

// NewApp opens the task database at dbPath, roots the object store at
// dataDir, and wires the full pipeline. Model backends left unconfigured
// degrade per component: no embedder means zero-vector indexing and empty
// retrieval, no chat model means preview-only answers and a 503 on /v1/chat.
func NewApp(dbPath, dataDir string, opts ...AppOption) (*App, error) {
	options := &appOptions{
		workers: defaultWorkerPoolSize,
	}
	for _, opt := range opts {
		opt(options)
	}

	aiConfig := options.aiConfig
	if aiConfig == nil {
		aiConfig = ai.DefaultConfig()
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open task database: %w", err)
	}

	app, err := buildApp(backend, dataDir, aiConfig, options)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return app, nil
}

// NewMemoryApp wires an App against an in-memory Badger backend. Intended
// for tests; the object store still writes under dataDir.
func NewMemoryApp(dataDir string, opts ...AppOption) (*App, error) {
	options := &appOptions{
		workers: defaultWorkerPoolSize,
	}
	for _, opt := range opts {
		opt(options)
	}

	aiConfig := options.aiConfig
	if aiConfig == nil {
		aiConfig = ai.DefaultConfig()
	}

	backend, err := badger.OpenBackend("", true)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory task database: %w", err)
	}

	app, err := buildApp(backend, dataDir, aiConfig, options)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return app, nil
}

func buildApp(backend *badger.Backend, dataDir string, aiConfig *ai.Config, options *appOptions) (*App, error) {
	logger := slog.Default().With("component", "docquery")

	provider := options.aiProvider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(aiConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI provider: %w", err)
		}
	}

	objects, err := object.NewStore(dataDir)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to open object store: %w", err)
	}

	var taskOpts []badger.TaskRepositoryOption
	if options.taskRetention > 0 {
		taskOpts = append(taskOpts, badger.WithRetention(options.taskRetention))
	}
	tasks := badger.NewTaskRepository(backend, taskOpts...)

	vectors := storage.NewVectorStore(objects)
	parser := parse.NewClient(options.parseURL, options.parseKey)

	indexer, err := ingestion.NewIndexer(objects, vectors, parser, provider.Embedder())
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to create indexer: %w", err)
	}

	var retrieverOpts []search.Option
	if options.searchConfig != nil {
		retrieverOpts = append(retrieverOpts, search.WithConfig(*options.searchConfig))
	}
	retriever, err := search.NewRetriever(vectors, provider.Embedder(), retrieverOpts...)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to create retriever: %w", err)
	}

	composer := answer.NewComposer(provider.Responder())

	trigger, err := orchestrator.NewPoolTrigger(options.workers)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	orch, err := orchestrator.NewOrchestrator(tasks, trigger, retriever, composer)
	if err != nil {
		trigger.Release()
		provider.Close()
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	var chatGateway *gateway.Gateway
	if agent := provider.Agent(); agent != nil {
		chatGateway, err = gateway.NewGateway(agent)
		if err != nil {
			trigger.Release()
			provider.Close()
			return nil, fmt.Errorf("failed to create chat gateway: %w", err)
		}
	}

	return &App{
		backend:   backend,
		tasks:     tasks,
		objects:   objects,
		vectors:   vectors,
		provider:  provider,
		parser:    parser,
		indexer:   indexer,
		retriever: retriever,
		trigger:   trigger,
		orch:      orch,
		gateway:   chatGateway,
		logger:    logger,
	}, nil
}

// Close releases all resources held by the app. Errors during shutdown are
// logged rather than returned so every component gets a chance to close.
func (a *App) Close() error {
	a.trigger.Release()

	if err := a.provider.Close(); err != nil {
		a.logger.Error("failed to close AI provider", "error", err)
	}
	if err := a.tasks.Close(); err != nil {
		a.logger.Error("failed to close task repository", "error", err)
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("failed to close storage backend", "error", err)
		return err
	}
	return nil
}

// Orchestrator returns the async task workflow orchestrator.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	return a.orch
}

// Indexer returns the document ingestion pipeline.
func (a *App) Indexer() *ingestion.Indexer {
	return a.indexer
}

// Retriever returns the similarity-search retriever.
func (a *App) Retriever() *search.Retriever {
	return a.retriever
}

// Gateway returns the chat gateway, or nil when no chat backend is configured.
func (a *App) Gateway() *gateway.Gateway {
	return a.gateway
}

// TaskRepository returns the durable task store.
func (a *App) TaskRepository() storage.TaskRepository {
	return a.tasks
}

// ObjectStore returns the filesystem store holding source documents,
// parsed snapshots, and embedding records.
func (a *App) ObjectStore() storage.ObjectStore {
	return a.objects
}

// Provider returns the configured AI provider.
func (a *App) Provider() ai.AIProvider {
	return a.provider
}

// Handler builds the HTTP handler set over this app's services. The chat
// service is omitted when no chat backend is configured so the API reports
// it as unavailable instead of panicking on a nil gateway.
func (a *App) Handler() *api.Handler {
	var chat api.ChatService
	if a.gateway != nil {
		chat = a.gateway
	}
	return api.NewHandler(a.orch, chat, a.indexer)
}

// Router builds the HTTP router over this app's handlers.
func (a *App) Router() *gin.Engine {
	return api.NewRouter(a.Handler(), a.logger)
}
