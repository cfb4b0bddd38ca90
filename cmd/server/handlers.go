package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	archiverag "github.com/SingularityNET-Archive/Archive-RAG-sub000"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/entity"
)

type handler struct {
	engine archiverag.Engine
}

func newHandler(e archiverag.Engine) *handler {
	return &handler{engine: e}
}

// POST /query
func (h *handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		Question          string `json:"question"`
		MaxResults        int    `json:"max_results,omitempty"`
		RequireExtraction bool   `json:"require_extraction,omitempty"`
		CallerID          string `json:"caller_id,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	// Bound parameters.
	if req.MaxResults < 0 || req.MaxResults > 100 {
		req.MaxResults = 0 // use default
	}

	var opts []archiverag.QueryOption
	if req.MaxResults > 0 {
		opts = append(opts, archiverag.WithMaxResults(req.MaxResults))
	}
	if req.RequireExtraction {
		opts = append(opts, archiverag.WithRequireExtraction())
	}
	// Fall back to the request id so the audit record can always be
	// joined back to a server log line.
	callerID := req.CallerID
	if callerID == "" {
		callerID = requestID(ctx)
	}
	if callerID != "" {
		opts = append(opts, archiverag.WithCallerID(callerID))
	}

	result, err := h.engine.Query(ctx, req.Question, opts...)
	if err != nil {
		writeEngineError(w, err)
		slog.Error("query error", "question", req.Question, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// POST /ingest
// Accepts a JSON body naming a directory of meeting summary files.
func (h *handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
	defer cancel()

	var req struct {
		Dir string `json:"dir"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Dir == "" {
		writeError(w, http.StatusBadRequest, "dir is required")
		return
	}

	absDir, err := filepath.Abs(req.Dir)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(absDir)
	if err != nil || !info.IsDir() {
		writeError(w, http.StatusBadRequest, "dir must be an existing directory")
		return
	}

	loaded, err := h.engine.Ingest(ctx, absDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ingestion failed")
		slog.Error("ingest error", "dir", absDir, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dir":      absDir,
		"meetings": loaded,
	})
}

// GET /entities/{kind}
func (h *handler) handleListEntities(w http.ResponseWriter, r *http.Request) {
	kind := entity.Kind(r.PathValue("kind"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown entity kind")
		return
	}

	ents, err := h.engine.Entities().List(r.Context(), kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entities")
		slog.Error("list entities error", "kind", kind, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"kind":     kind,
		"entities": ents,
	})
}

// GET /entities/{kind}/{id}/related
func (h *handler) handleRelated(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	kind := entity.Kind(r.PathValue("kind"))
	id := entity.ID(r.PathValue("id"))

	result, err := h.engine.QueryRelated(ctx, kind, id)
	if err != nil {
		writeEngineError(w, err)
		slog.Error("related query error", "kind", kind, "id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, archiverag.ErrQueryTooShort):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, archiverag.ErrUnknownEntityKind):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, archiverag.ErrEntityNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, archiverag.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, "collaborator timed out")
	case errors.Is(err, archiverag.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "query failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
