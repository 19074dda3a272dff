package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"podium/internal/config"
	"podium/internal/pipeline"
)

// Server exposes the question pipeline over HTTP. All state lives in the
// session; handlers stay request-scoped.
type Server struct {
	cfg     config.Config
	session *pipeline.Session
}

func NewServer(cfg config.Config, session *pipeline.Session) *Server {
	return &Server{cfg: cfg, session: session}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/dataset", s.handleDataset)
	mux.HandleFunc("/query", s.handleQuery)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "loaded": s.session.Current() != nil})
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}

	body, err := datasetBody(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	defer body.Close()

	snap, err := s.session.LoadDataset(r.Context(), body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("load dataset: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dataset_id": snap.Dataset.ID,
		"rows":       snap.Dataset.Len(),
		"columns":    snap.Dataset.Columns,
		"profile":    snap.Profile,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}

	out, err := s.session.Process(r.Context(), req.Query)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	// A missing dataset is an answerable state, not a transport fault, so it
	// still returns 200 with the error carried in the result metadata.
	rows := out.Result.Rows
	if len(rows) > s.cfg.MaxPromptRows {
		rows = rows[:s.cfg.MaxPromptRows]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"answer":           out.Answer,
		"normalized_query": out.Normalized,
		"entities":         out.Entities,
		"intent":           out.Intent,
		"meta":             out.Result.Meta,
		"columns":          out.Result.Columns,
		"rows":             rows,
		"processing_ms":    out.ProcessingMS,
	})
}

// datasetBody accepts either a multipart upload (field "file", or the first
// file of any field) or a raw CSV request body.
func datasetBody(r *http.Request) (io.ReadCloser, error) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/") {
		return r.Body, nil
	}
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		return nil, fmt.Errorf("parse multipart: %w", err)
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		if single, ok := firstSingleFile(r.MultipartForm.File); ok {
			files = append(files, single)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no file provided")
	}
	return files[0].Open()
}

func firstSingleFile(m map[string][]*multipart.FileHeader) (*multipart.FileHeader, bool) {
	for _, v := range m {
		if len(v) > 0 {
			return v[0], true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "PD-API-4000"

	switch {
	case status >= 500:
		return apiError{
			Code:    "PD-API-5000",
			Message: "Internal server error. Please retry or check service logs.",
		}
	case status == http.StatusBadRequest:
		code = "PD-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusMethodNotAllowed:
		code = "PD-API-4005"
		msg = "This endpoint does not support the requested method."
	}

	// For 4xx, keep user-safe validation context only.
	if status >= 400 && status < 500 && err != nil {
		low := strings.ToLower(err.Error())
		switch {
		case strings.Contains(low, "query is required"):
			msg = "A question is required."
		case strings.Contains(low, "no file provided"):
			msg = "No CSV file was provided."
		case strings.Contains(low, "invalid json"):
			msg = "Malformed JSON request body."
		case strings.Contains(low, "load dataset"):
			msg = "The CSV could not be parsed. Check the file and retry."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
