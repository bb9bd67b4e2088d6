package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/umputun/appscope/pkg/domain"
)

const maxRunsLimit = 500

// stateResponse is the JSON view of the workspace state
type stateResponse struct {
	Phase  string                 `json:"phase"`
	Token  uint64                 `json:"token"`
	URL    string                 `json:"url,omitempty"`
	Error  string                 `json:"error,omitempty"`
	Tab    domain.Tab             `json:"tab"`
	Result *domain.AnalysisResult `json:"result,omitempty"`
}

// runResponse is the JSON view of a journal entry
type runResponse struct {
	ID         string           `json:"id"`
	URL        string           `json:"url"`
	Store      string           `json:"store"`
	Token      uint64           `json:"token"`
	Status     domain.RunStatus `json:"status"`
	ErrorKind  string           `json:"error_kind,omitempty"`
	DurationMs int64            `json:"duration_ms"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"phase":   string(s.workspace.Snapshot().Phase),
		"journal": s.runs != nil,
	}
	renderJSON(w, r, http.StatusOK, status)
}

// stateHandler returns a snapshot of the workspace state
func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	st := s.workspace.Snapshot()
	renderJSON(w, r, http.StatusOK, stateResponse{
		Phase:  string(st.Phase),
		Token:  st.Token,
		URL:    st.URL,
		Error:  st.Error,
		Tab:    st.Tab,
		Result: st.Result,
	})
}

// runsHandler returns recent journal entries, newest first
func (s *Server) runsHandler(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		renderError(w, r, fmt.Errorf("run journal is disabled"), http.StatusNotFound)
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			renderError(w, r, fmt.Errorf("invalid limit"), http.StatusBadRequest)
			return
		}
		limit = min(l, maxRunsLimit)
	}

	runs, err := s.runs.RecentRuns(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get recent runs: %v", err)
		renderError(w, r, fmt.Errorf("failed to get runs"), http.StatusInternalServerError)
		return
	}

	res := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		res = append(res, runResponse{
			ID:         run.ID,
			URL:        run.URL,
			Store:      run.Store,
			Token:      run.Token,
			Status:     run.Status,
			ErrorKind:  run.ErrorKind,
			DurationMs: run.Duration.Milliseconds(),
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		})
	}
	renderJSON(w, r, http.StatusOK, res)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
