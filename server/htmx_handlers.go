package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/umputun/appscope/pkg/domain"
	"github.com/umputun/appscope/pkg/session"
)

// template names
const (
	templateWorkspace  = "workspace.html"
	templateResults    = "results.html"
	templateCopyButton = "copy-button.html"
	templateFormError  = "form-error.html"
)

// indexHandler renders the full page for the current state
func (s *Server) indexHandler(w http.ResponseWriter, _ *http.Request) {
	data := struct {
		Version   string
		Workspace workspaceView
	}{
		Version:   s.version,
		Workspace: buildWorkspace(s.workspace.Snapshot(), s.workspace.Copied),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderPage(w, "index.html", data); err != nil {
		log.Printf("[ERROR] failed to render index page: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// analyzeHandler validates the submitted url and starts a new analysis
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	appURL, err := validateAppURL(r.FormValue("url"))
	if err != nil {
		log.Printf("[DEBUG] rejected analysis request: %v", err)
		w.Header().Set("HX-Retarget", "#form-error")
		w.Header().Set("HX-Reswap", "outerHTML")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		if err := s.templates.ExecuteTemplate(w, templateFormError, invalidURLText); err != nil {
			log.Printf("[WARN] failed to render form error: %v", err)
		}
		return
	}

	st := s.workspace.Submit(appURL)
	log.Printf("[INFO] analysis #%d requested for %s", st.Token, appURL)

	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderWorkspace(w, st)
}

// resultHandler long-polls until the in-flight analysis settles or the poll wait expires.
// A still loading workspace re-triggers the poll on the client.
func (s *Server) resultHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.config.GetPollWait())
	defer cancel()

	s.renderWorkspace(w, s.workspace.Wait(ctx))
}

// tabHandler switches the displayed facet of a ready result
func (s *Server) tabHandler(w http.ResponseWriter, r *http.Request) {
	tab, err := domain.ParseTab(r.PathValue("tab"))
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Unknown tab", err)
		return
	}

	if err := s.workspace.SelectTab(tab); err != nil {
		if errors.Is(err, session.ErrNoResult) {
			s.respondWithError(w, http.StatusConflict, "No analysis result to show", err)
			return
		}
		s.respondWithError(w, http.StatusBadRequest, "Can't select tab", err)
		return
	}

	results := buildResults(s.workspace.Snapshot(), s.workspace.Copied)
	if results == nil {
		// reset or resubmitted between select and snapshot
		s.respondWithError(w, http.StatusConflict, "No analysis result to show", session.ErrNoResult)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, templateResults, results); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render results", err)
	}
}

// copyHandler starts the copy confirmation. The page has already put the document's
// data-markdown source on the clipboard within the click.
func (s *Server) copyHandler(w http.ResponseWriter, r *http.Request) {
	tab, ok := documentTab(r)
	if !ok {
		s.respondWithError(w, http.StatusBadRequest, "Tab has no document to copy", fmt.Errorf("bad copy tab %q", r.PathValue("tab")))
		return
	}

	if _, err := s.workspace.MarkCopied(tab); err != nil {
		if errors.Is(err, session.ErrNoResult) {
			s.respondWithError(w, http.StatusConflict, "No analysis result to copy", err)
			return
		}
		s.respondWithError(w, http.StatusBadRequest, "Can't copy document", err)
		return
	}

	s.renderCopyButton(w, buildCopyButton(tab, true))
}

// copyStateHandler renders the copy button in its current state, used to revert the confirmation
func (s *Server) copyStateHandler(w http.ResponseWriter, r *http.Request) {
	tab, ok := documentTab(r)
	if !ok {
		s.respondWithError(w, http.StatusBadRequest, "Tab has no document to copy", fmt.Errorf("bad copy tab %q", r.PathValue("tab")))
		return
	}
	s.renderCopyButton(w, buildCopyButton(tab, s.workspace.Copied(tab)))
}

// resetHandler cancels any in-flight analysis and returns to idle
func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	st := s.workspace.Reset()
	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderWorkspace(w, st)
}

// renderPage renders a full page template with the base layout
func (s *Server) renderPage(w http.ResponseWriter, templateName string, data interface{}) error {
	tmpl, ok := s.pageTemplates[templateName]
	if !ok {
		return fmt.Errorf("template %s not found", templateName)
	}
	return tmpl.ExecuteTemplate(w, templateName, data)
}

// renderWorkspace renders the workspace fragment for st
func (s *Server) renderWorkspace(w http.ResponseWriter, st session.State) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, templateWorkspace, buildWorkspace(st, s.workspace.Copied)); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render workspace", err)
	}
}

func (s *Server) renderCopyButton(w http.ResponseWriter, v copyButtonView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, templateCopyButton, v); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render copy button", err)
	}
}

// respondWithError logs the error and sends a plain text message
func (s *Server) respondWithError(w http.ResponseWriter, code int, msg string, err error) {
	if code >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s: %v", msg, err)
	} else {
		log.Printf("[DEBUG] %s: %v", msg, err)
	}
	http.Error(w, msg, code)
}

// validateAppURL accepts absolute http(s) urls only
func validateAppURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}
	return u.String(), nil
}

func documentTab(r *http.Request) (domain.Tab, bool) {
	tab, err := domain.ParseTab(r.PathValue("tab"))
	if err != nil || !tab.IsDocument() {
		return "", false
	}
	return tab, true
}
