package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphit/pkg/codec"
	"github.com/matzehuels/graphit/pkg/document"
	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
	"github.com/matzehuels/graphit/pkg/store"
)

// =============================================================================
// Response Types
// =============================================================================

type errorBody struct {
	Error errorInfo `json:"error"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type entryInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

type searchHit struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Color *string `json:"color"`
}

type searchResponse struct {
	Query   string      `json:"query"`
	Results []searchHit `json:"results"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	out := make([]entryInfo, len(entries))
	for i, e := range entries {
		out[i] = toEntryInfo(&e)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	v, err := decodeBody(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	entry, err := s.svc.Create(r.Context(), r.URL.Query().Get("name"), v)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/documents/"+entry.ID)
	respondJSON(w, http.StatusCreated, toEntryInfo(entry))
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, entry, err := s.svc.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("X-Document-Name", entry.Name)
	s.respondDocument(w, r, doc)
}

func (s *Server) replaceDocument(w http.ResponseWriter, r *http.Request) {
	v, err := decodeBody(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	entry, err := s.svc.Replace(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("name"), v)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toEntryInfo(entry))
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) mergeDocument(w http.ResponseWriter, r *http.Request) {
	v, err := decodeBody(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	incoming, ok := v.(*jsonvalue.Object)
	if !ok {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "merge body must be an object, got %s", jsonvalue.Kind(v)))
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := s.svc.MergeStored(r.Context(), id, incoming); err != nil {
		s.respondError(w, r, err)
		return
	}
	doc, _, err := s.svc.Open(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondDocument(w, r, doc)
}

func (s *Server) searchDocument(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := s.limit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", raw))
			return
		}
		limit = n
	}
	query := q.Get("q")
	nodes, err := s.svc.SearchStored(r.Context(), chi.URLParam(r, "id"), query, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	hits := make([]searchHit, len(nodes))
	for i, n := range nodes {
		hits[i] = searchHit{ID: n.ID, Label: n.Label, Color: n.Color}
	}
	respondJSON(w, http.StatusOK, searchResponse{Query: query, Results: hits})
}

// =============================================================================
// Helpers
// =============================================================================

func toEntryInfo(e *store.Entry) entryInfo {
	return entryInfo{ID: e.ID, Name: e.Name, UpdatedAt: e.UpdatedAt}
}

// decodeBody reads the request body with the codec named by Content-Type.
func decodeBody(w http.ResponseWriter, r *http.Request) (jsonvalue.Value, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()
	return bodyCodec(r.Header.Get("Content-Type")).Decode(body)
}

func bodyCodec(contentType string) codec.Codec {
	if strings.Contains(strings.ToLower(contentType), "yaml") {
		return codec.NewYAMLCodec()
	}
	return codec.NewJSONCodec()
}

func (s *Server) respondDocument(w http.ResponseWriter, r *http.Request, doc *document.GraphDocument) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = codec.FormatJSON
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	v, err := doc.SaveValue()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if c.Format() == codec.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	if err := c.Encode(v, w); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	respondJSON(w, status, errorBody{Error: errorInfo{
		Code:    string(code),
		Message: msg,
		Field:   errors.GetField(err),
	}})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeValidation,
		errors.ErrCodeDanglingReference,
		errors.ErrCodeDuplicateKey,
		errors.ErrCodeMalformedDefaults:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeUnsupportedVersion:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
