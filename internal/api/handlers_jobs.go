package api

import (
	"net/http"

	"github.com/dgallion1/docmodel/internal/doctree"
	"github.com/dgallion1/docmodel/internal/pipeline"
	"github.com/dgallion1/docmodel/internal/view"
	"github.com/go-chi/chi/v5"
)

// analysis looks up the job in the URL and its analysis results. It writes
// the error response itself and returns nil when there is nothing to show.
func (s *Server) analysis(w http.ResponseWriter, r *http.Request) *pipeline.Analysis {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil
	}
	a := job.Analysis()
	if a == nil {
		snap := job.Snapshot()
		if snap.Status == pipeline.StatusFailed {
			jsonError(w, "job failed before analysis", http.StatusUnprocessableEntity)
		} else {
			jsonError(w, "job not analysed yet: "+string(snap.Status), http.StatusConflict)
		}
		return nil
	}
	return a
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if a := s.analysis(w, r); a != nil {
		writeJSON(w, http.StatusOK, view.Summarize(a.Document))
	}
}

func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	if a := s.analysis(w, r); a != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"title": a.Document.Title,
			"toc":   view.TOC(a.TOC),
		})
	}
}

func (s *Server) handleFigures(w http.ResponseWriter, r *http.Request) {
	if a := s.analysis(w, r); a != nil {
		writeJSON(w, http.StatusOK, map[string]any{"figures": view.Figures(doctree.Figures(a.Document))})
	}
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	if a := s.analysis(w, r); a != nil {
		writeJSON(w, http.StatusOK, map[string]any{"tables": view.Tables(doctree.Tables(a.Document))})
	}
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	if a := s.analysis(w, r); a != nil {
		writeJSON(w, http.StatusOK, map[string]any{"links": view.Links(doctree.WebLinks(a.Document))})
	}
}

func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	if a := s.analysis(w, r); a != nil {
		writeJSON(w, http.StatusOK, map[string]any{"chunks": a.Chunks})
	}
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	a := s.analysis(w, r)
	if a == nil {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(view.Text(a.Document)))
}
