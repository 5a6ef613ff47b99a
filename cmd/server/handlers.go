package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/w-h-a/rag"
	"github.com/w-h-a/rag/document"
)

// The HTTP surface maps 1:1 onto the core operations; validation happens
// here, before any core work begins.

func registerRoutes(router *mux.Router, r *rag.RAG) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", handleHealth(r)).Methods(http.MethodGet)
	api.HandleFunc("/ask", handleAsk(r)).Methods(http.MethodPost)
	api.HandleFunc("/ingest", handleIngest(r)).Methods(http.MethodPost)
	api.HandleFunc("/index", handleClearIndex(r)).Methods(http.MethodDelete)

	api.HandleFunc("/sessions", handleCreateSession(r)).Methods(http.MethodPost)
	api.HandleFunc("/sessions", handleListSessions(r)).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", handleSessionContext(r)).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", handleDeleteSession(r)).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/stats", handleSessionStats(r)).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/clear", handleClearSession(r)).Methods(http.MethodPost)

	api.HandleFunc("/config", handleGetConfig(r)).Methods(http.MethodGet)
	api.HandleFunc("/config", handleUpdateConfig(r)).Methods(http.MethodPut)
}

func handleHealth(r *rag.RAG) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		count, err := r.IndexCount(req.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "index unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "indexed_chunks": count})
	}
}

func handleAsk(r *rag.RAG) http.HandlerFunc {
	type askRequest struct {
		Question  string `json:"question"`
		SessionId string `json:"session_id"`
	}

	return func(w http.ResponseWriter, req *http.Request) {
		var body askRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if len(strings.TrimSpace(body.Question)) == 0 {
			writeError(w, http.StatusBadRequest, "question is required")
			return
		}

		rsp, err := r.Answer(req.Context(), body.Question, body.SessionId)
		if err != nil {
			slog.ErrorContext(req.Context(), "failed to answer question", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, rsp)
	}
}

func handleIngest(r *rag.RAG) http.HandlerFunc {
	type ingestRequest struct {
		Directory string `json:"directory"`
	}

	return func(w http.ResponseWriter, req *http.Request) {
		var body ingestRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if len(strings.TrimSpace(body.Directory)) == 0 {
			writeError(w, http.StatusBadRequest, "directory is required")
			return
		}

		report, err := r.IngestDirectory(req.Context(), body.Directory)
		if err != nil {
			if errors.Is(err, document.ErrNoDocuments) {
				writeJSON(w, http.StatusUnprocessableEntity, report)
				return
			}
			slog.ErrorContext(req.Context(), "ingestion failed", "directory", body.Directory, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func handleClearIndex(r *rag.RAG) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := r.ClearIndex(req.Context()); err != nil {
			slog.ErrorContext(req.Context(), "failed to clear index", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
	}
}

func handleCreateSession(r *rag.RAG) http.HandlerFunc {
	type createRequest struct {
		Id string `json:"id"`
	}

	return func(w http.ResponseWriter, req *http.Request) {
		var body createRequest
		if req.ContentLength > 0 {
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		id := r.CreateSession(body.Id)

		writeJSON(w, http.StatusCreated, map[string]any{"id": id})
	}
}

func handleListSessions(r *rag.RAG) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ids": r.SessionIds()})
	}
}

func handleSessionContext(r *rag.RAG) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)["id"]

		// unknown sessions are a benign empty window, not a 404
		messages := r.SessionContext(id, false)

		writeJSON(w, http.StatusOK, map[string]any{"id": id, "messages": messages})
	}
}

func handleDeleteSession(r *rag.RAG) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.DeleteSession(mux.Vars(req)["id"])
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSessionStats(r *rag.RAG) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)["id"]

		stats, exists := r.SessionStats(id)
		if !exists {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

func handleClearSession(r *rag.RAG) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.ClearSession(mux.Vars(req)["id"])
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
	}
}

func handleGetConfig(r *rag.RAG) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, r.ContextConfig())
	}
}

func handleUpdateConfig(r *rag.RAG) http.HandlerFunc {
	type configRequest struct {
		MaxContextLength int `json:"max_context_length"`
		MaxTokens        int `json:"max_tokens"`
	}

	return func(w http.ResponseWriter, req *http.Request) {
		var body configRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		r.UpdateContextConfig(body.MaxContextLength, body.MaxTokens)

		writeJSON(w, http.StatusOK, r.ContextConfig())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
