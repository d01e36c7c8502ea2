// Package api exposes the document analysis service over HTTP.
//
// Routes:
//
//	POST /v1/tasks     submit an analysis task, returns a task id to poll
//	GET  /v1/tasks/:id poll a task's status and result
//	POST /v1/chat      synchronous conversation with the model
//	POST /v1/index     index a stored source document
//	GET  /healthz      liveness probe
package api
