package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/cognicore/deinflect/pkg/deinflect"
	"github.com/cognicore/deinflect/pkg/deinflect/config"
	"github.com/cognicore/deinflect/pkg/deinflect/kana"
)

// ---- JSON response types ------------------------------------------------

type deinflectResponse struct {
	Word       string             `json:"word"`
	Candidates []deinflect.Result `json:"candidates"`
}

type prefixesResponse struct {
	Text     string              `json:"text"`
	Prefixes []deinflectResponse `json:"prefixes"`
}

type reasonsResponse struct {
	Rules   int      `json:"rules"`
	Reasons []string `json:"reasons"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func toResponse(ds *deinflect.Deinflections) deinflectResponse {
	return deinflectResponse{Word: ds.Source(), Candidates: ds.Results()}
}

// ---- handlers -----------------------------------------------------------

type server struct {
	d   *deinflect.Deinflector
	cfg *config.ServerConfig
}

func newServer(d *deinflect.Deinflector, cfg *config.ServerConfig) *server {
	return &server{d: d, cfg: cfg}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/deinflect", s.handleDeinflect)
	mux.HandleFunc("/api/prefixes", s.handlePrefixes)
	mux.HandleFunc("/api/reasons", s.handleReasons)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// input reads and validates a query parameter. It writes the error response
// itself and returns false when the request should stop.
func (s *server) input(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return "", false
	}
	v := r.URL.Query().Get(param)
	if v == "" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing '%s' query parameter", param))
		return "", false
	}
	if !utf8.ValidString(v) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("'%s' is not valid UTF-8", param))
		return "", false
	}
	if n := utf8.RuneCountInString(v); n > s.cfg.MaxWordRunes {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("'%s' has %d characters, limit is %d", param, n, s.cfg.MaxWordRunes))
		return "", false
	}
	if s.cfg.Normalize {
		v = kana.Normalize(v)
	}
	return v, true
}

func (s *server) handleDeinflect(w http.ResponseWriter, r *http.Request) {
	word, ok := s.input(w, r, "word")
	if !ok {
		return
	}
	ds, err := s.d.Deinflect(word)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toResponse(ds))
}

func (s *server) handlePrefixes(w http.ResponseWriter, r *http.Request) {
	text, ok := s.input(w, r, "text")
	if !ok {
		return
	}
	sets, err := s.d.Prefixes(text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out := prefixesResponse{Text: text, Prefixes: make([]deinflectResponse, 0, len(sets))}
	for _, ds := range sets {
		out.Prefixes = append(out.Prefixes, toResponse(ds))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleReasons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	cat := s.d.Catalog()
	writeJSON(w, http.StatusOK, reasonsResponse{Rules: cat.Len(), Reasons: cat.Reasons()})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
