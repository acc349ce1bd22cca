// Package fakeapi serves an in-memory JSONPlaceholder-style /posts API.
//
// By default writes are acknowledged and echoed but not stored, like the
// public demo service: a POST answers with a fresh id, a PUT answers with the
// submitted body, a DELETE answers 200, and the next GET /posts still returns
// the seed data. Options.Persist makes writes stick. FailNext and Latency
// let tests provoke the error and overlap paths of a session.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/postboard/internal/records"
)

// Options configure a Server.
type Options struct {
	Seed    []records.Record
	Persist bool
	Latency time.Duration
	Logger  *zap.Logger
}

// Server is an http.Handler for /posts.
type Server struct {
	mu       sync.Mutex
	posts    []records.Record
	nextID   int64
	persist  bool
	latency  time.Duration
	failures map[string][]int
	requests map[string]int
	logger   *zap.Logger
	mux      *http.ServeMux
}

// New builds a Server holding a copy of opts.Seed.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		posts:    append([]records.Record(nil), opts.Seed...),
		persist:  opts.Persist,
		latency:  opts.Latency,
		failures: make(map[string][]int),
		requests: make(map[string]int),
		logger:   logger.Named("fakeapi"),
		mux:      http.NewServeMux(),
	}
	for _, p := range s.posts {
		if p.ID > s.nextID {
			s.nextID = p.ID
		}
	}
	s.mux.HandleFunc("GET /posts", s.handleList)
	s.mux.HandleFunc("POST /posts", s.handleCreate)
	s.mux.HandleFunc("GET /posts/{id}", s.handleGet)
	s.mux.HandleFunc("PUT /posts/{id}", s.handleReplace)
	s.mux.HandleFunc("DELETE /posts/{id}", s.handleRemove)
	return s
}

// SeedPosts generates n posts spread over owners of ten posts each, the
// shape of the public demo data set.
func SeedPosts(n int) []records.Record {
	out := make([]records.Record, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, records.Record{
			ID:      int64(i),
			Title:   fmt.Sprintf("post %03d", i),
			Body:    fmt.Sprintf("body of post %d", i),
			OwnerID: int64((i-1)/10 + 1),
		})
	}
	return out
}

// FailNext makes the next request with the given method answer status
// instead of being served. Calls queue up.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = append(s.failures[method], status)
}

// SetLatency delays every subsequent response.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Posts returns a copy of the stored posts.
func (s *Server) Posts() []records.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]records.Record(nil), s.posts...)
}

// Requests reports how many requests arrived for method.
func (s *Server) Requests(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method]
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests[r.Method]++
	latency := s.latency
	var failure int
	if queued := s.failures[r.Method]; len(queued) > 0 {
		failure = queued[0]
		s.failures[r.Method] = queued[1:]
	}
	s.mu.Unlock()

	s.logger.Debug("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", r.Header.Get("X-Request-ID")))

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-r.Context().Done():
			return
		}
	}
	if failure != 0 {
		http.Error(w, http.StatusText(failure), failure)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Posts())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	idx := s.indexOf(id)
	var post records.Record
	if idx >= 0 {
		post = s.posts[idx]
	}
	s.mu.Unlock()
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var draft records.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.nextID++
	created := draft.WithID(s.nextID)
	if s.persist {
		s.posts = append(s.posts, created)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var full records.Record
	if err := json.NewDecoder(r.Body).Decode(&full); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	full.ID = id

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx >= 0 && s.persist {
		s.posts[idx] = full
	}
	s.mu.Unlock()
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, full)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx >= 0 && s.persist {
		s.posts = append(s.posts[:idx], s.posts[idx+1:]...)
	}
	s.mu.Unlock()
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// indexOf must be called with s.mu held.
func (s *Server) indexOf(id int64) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
