// Package server implements the live preview HTTP server behind
// `procflow serve`: an HTML page that renders the current diagram through
// the Mermaid browser library, plus JSON and text endpoints for tooling.
package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/procflow/procflow/pkg/document"
	apperrors "github.com/procflow/procflow/pkg/errors"
	"github.com/procflow/procflow/pkg/mermaid"
	"github.com/procflow/procflow/pkg/process"
)

// Server serves a single process for preview and editing. The process has
// one logical owner; the mutex serializes HTTP access so handler calls see
// the model's single-threaded semantics.
type Server struct {
	mu     sync.Mutex
	proc   *process.Process
	logger *log.Logger
}

// New creates a server owning the given process.
func New(p *process.Process, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{proc: p, logger: logger}
}

// Process returns the served process. Callers use this after shutdown to
// persist edits made through the API.
func (s *Server) Process() *process.Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/diagram", s.handleDiagram)
	r.Get("/process", s.handleGetProcess)
	r.Post("/process", s.handleLoadProcess)
	r.Post("/nodes", s.handleAddNode)
	r.Post("/decisions", s.handleAddDecision)
	r.Delete("/nodes/{id}", s.handleRemoveNode)

	return r
}

// indexTemplate embeds the diagram markup into a page that renders it with
// the Mermaid browser library, matching the original live preview.
var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Name}} - procflow</title>
  <script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
  <style>
    body { margin: 0; padding: 2rem; font-family: sans-serif; }
    h1 { font-size: 1.2rem; }
    pre.source { background: #f4f4f4; padding: 1rem; overflow-x: auto; }
  </style>
</head>
<body>
  <h1>{{.Name}}</h1>
  <div class="mermaid">
{{.Diagram}}
  </div>
  <h2>Markup</h2>
  <pre class="source">{{.Diagram}}</pre>
  <script>mermaid.initialize({startOnLoad:true});</script>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data := struct {
		Name    string
		Diagram string
	}{s.proc.Name, mermaid.Render(s.proc)}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	text := mermaid.Render(s.proc)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, text)
}

func (s *Server) handleGetProcess(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc := document.FromProcess(s.proc)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, doc)
}

// handleLoadProcess replaces the served process with an uploaded document.
// The swap is atomic: a document that fails the schema check leaves the
// current process untouched.
func (s *Server) handleLoadProcess(w http.ResponseWriter, r *http.Request) {
	loaded, err := document.Read(r.Body)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeMalformedDocument, err, "load process"))
		return
	}

	s.mu.Lock()
	s.proc = loaded
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

type addNodeRequest struct {
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Parent string `json:"parent,omitempty"` // edge source; empty means no edge
}

type addNodeResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if err := apperrors.ValidateLabel(req.Label); err != nil {
		s.writeError(w, err)
		return
	}
	kind := process.Kind(req.Kind)
	if kind == "" {
		kind = process.KindTask
	}
	if !kind.IsValid() {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidKind, "unknown kind %q", req.Kind))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Parent != "" {
		if _, ok := s.proc.Node(req.Parent); !ok {
			s.writeError(w, apperrors.New(apperrors.ErrCodeUnknownNode, "parent %q does not exist", req.Parent))
			return
		}
	}
	id := s.proc.AddNode(req.Label, kind)
	if req.Parent != "" {
		if err := s.proc.AddEdge(req.Parent, id, ""); err != nil {
			s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "link node"))
			return
		}
	}

	writeJSON(w, http.StatusCreated, addNodeResponse{ID: id})
}

type addDecisionRequest struct {
	Parent string `json:"parent"`
	Label  string `json:"label"`
	Yes    string `json:"yes,omitempty"`
	No     string `json:"no,omitempty"`
}

func (s *Server) handleAddDecision(w http.ResponseWriter, r *http.Request) {
	var req addDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if err := apperrors.ValidateLabel(req.Label); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.proc.AddDecision(req.Parent, req.Label, req.Yes, req.No)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeUnknownNode, err, "parent %q", req.Parent))
		return
	}

	writeJSON(w, http.StatusCreated, addNodeResponse{ID: id})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.proc.Node(id); !ok {
		s.writeError(w, apperrors.New(apperrors.ErrCodeUnknownNode, "node %q does not exist", id))
		return
	}
	if err := s.proc.RemoveNode(id); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeProtectedNode, err, "remove %q", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// writeError maps an error code to an HTTP status and writes the JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidKind,
		apperrors.ErrCodeInvalidName, apperrors.ErrCodeMalformedDocument:
		status = http.StatusBadRequest
	case apperrors.ErrCodeUnknownNode, apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeProtectedNode, apperrors.ErrCodeEdgeIndex:
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    apperrors.GetCode(err),
		Message: apperrors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
