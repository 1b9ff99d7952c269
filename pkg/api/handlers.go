package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strideio/stridefile/pkg/bsfile"
)

// handleHealth reports liveness and that the index file is readable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.file.Len(); err != nil {
		sendError(w, "index not readable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	sendSuccess(w, map[string]string{"status": "ok"})
}

// handleStats returns the index summary.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stat, err := s.file.Stat()
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, StatsResponse{
		Path:    stat.Path,
		Records: stat.Records,
		Size:    stat.TotalSize,
		Stride:  stat.Stride,
		Widths:  stat.Widths,
	})
}

// handleGetAll returns every record matching the key.
func (s *Server) handleGetAll(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	records, err := s.file.GetAll(key)
	if err != nil {
		s.sendLookupError(w, "getall", err)
		return
	}
	s.metrics.RecordLookup("getall", true)
	sendSuccess(w, RecordsResponse{Key: key, Count: len(records), Records: records})
}

func (s *Server) handleGetFirst(w http.ResponseWriter, r *http.Request) {
	s.handleGet(w, r, true)
}

func (s *Server) handleGetLast(w http.ResponseWriter, r *http.Request) {
	s.handleGet(w, r, false)
}

// handleGet returns the first or last record matching the key.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, first bool) {
	key := chi.URLParam(r, "key")
	record, err := s.file.Get(key, first)
	if err != nil {
		s.sendLookupError(w, "get", err)
		return
	}
	s.metrics.RecordLookup("get", true)
	sendSuccess(w, RecordsResponse{Key: key, Count: 1, Records: [][]any{record}})
}

func (s *Server) sendLookupError(w http.ResponseWriter, op string, err error) {
	s.metrics.RecordLookup(op, false)
	if errors.Is(err, bsfile.ErrKeyNotFound) {
		sendError(w, err.Error(), http.StatusNotFound)
		return
	}
	sendError(w, err.Error(), http.StatusInternalServerError)
}
