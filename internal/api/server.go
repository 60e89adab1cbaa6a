// Package api exposes the engine over JSON HTTP for the calendar UI and
// the notification scheduler.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"bazical/internal/cycle"
	"bazical/internal/domain"
	"bazical/internal/forecast"
	"bazical/internal/notes"
	"bazical/internal/store"
)

// Server handles HTTP requests against a single shared store.
type Server struct {
	store  *store.Store
	notes  *notes.Store
	addr   string
	logger *zap.Logger
}

// New creates a new API server.
func New(s *store.Store, n *notes.Store, addr string, logger *zap.Logger) *Server {
	return &Server{store: s, notes: n, addr: addr, logger: logger}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	s.logger.Info("starting server", zap.String("addr", s.addr))
	return http.ListenAndServe(s.addr, s.Handler())
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Daily forecast
	mux.HandleFunc("GET /day", s.getDay)

	// Signature entries
	mux.HandleFunc("GET /signatures/{signature}/entries", s.listEntries)
	mux.HandleFunc("POST /signatures/{signature}/entries", s.addEntry)
	mux.HandleFunc("DELETE /signatures/{signature}/entries/{id}", s.deleteEntry)

	// Tag vocabulary
	mux.HandleFunc("GET /tags", s.listTags)
	mux.HandleFunc("POST /tags", s.addTag)
	mux.HandleFunc("DELETE /tags/{name}", s.deleteTag)

	// Profile
	mux.HandleFunc("GET /profile", s.getProfile)
	mux.HandleFunc("PUT /profile", s.putProfile)

	// Calendar notes
	mux.HandleFunc("GET /notes", s.listNotes)
	mux.HandleFunc("POST /notes", s.addNote)
	mux.HandleFunc("DELETE /notes/{id}", s.deleteNote)

	// Snapshot backup/restore
	mux.HandleFunc("GET /snapshot", s.exportSnapshot)
	mux.HandleFunc("POST /snapshot", s.importSnapshot)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(s.withLogging(mux))
}

// withCORS adds CORS headers for frontend development.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getDay(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	writeJSON(w, http.StatusOK, forecast.ForDate(date, s.store))
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	signature := r.PathValue("signature")
	if !cycle.ValidSignature(signature) {
		writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	entries := s.store.EntriesFor(signature)
	if entries == nil {
		entries = []domain.SignatureEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"signature": signature,
		"entries":   entries,
		"analysis":  store.Analyze(entries),
	})
}

// AddEntryRequest is the request body for logging behavior.
type AddEntryRequest struct {
	Tag  string `json:"tag"`
	Text string `json:"text,omitempty"`
	Date string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	signature := r.PathValue("signature")

	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Tag) == "" {
		writeError(w, http.StatusBadRequest, "tag is required")
		return
	}

	entry, err := s.store.AddEntry(signature, req.Tag, req.Text, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	signature := r.PathValue("signature")
	id := r.PathValue("id")

	if err := s.store.DeleteEntry(signature, id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": s.store.Tags()})
}

// AddTagRequest is the request body for extending the vocabulary.
type AddTagRequest struct {
	Name string `json:"name"`
}

func (s *Server) addTag(w http.ResponseWriter, r *http.Request) {
	var req AddTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok, err := s.store.AddTag(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "tag is empty or already exists")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"tags": s.store.Tags()})
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTag(r.PathValue("name")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": s.store.Profile()})
}

func (s *Server) putProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.SaveProfile(p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	var list []notes.Note
	if date := r.URL.Query().Get("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		list = s.notes.ForDate(date)
	} else {
		list = s.notes.All()
	}
	if list == nil {
		list = []notes.Note{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notes": list})
}

// AddNoteRequest is the request body for attaching a note to a date.
type AddNoteRequest struct {
	Date     string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Time     string `json:"time,omitempty"`
	Text     string `json:"text"`
	Reminder bool   `json:"reminder,omitempty"`
}

func (s *Server) addNote(w http.ResponseWriter, r *http.Request) {
	var req AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Date != "" {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}

	note, err := s.notes.Add(req.Date, req.Time, req.Text, req.Reminder)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.Delete(r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) importSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 10*1024*1024))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	if !s.store.Import(data) {
		writeError(w, http.StatusBadRequest, "snapshot is invalid; store unchanged")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
