package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/claude/fittrack/internal/exercise"
	"github.com/claude/fittrack/internal/workout"
)

const maxBodyBytes = 1 << 20

var errNoStore = errors.New("no catalog store configured")

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.tracker.List(workout.ListOptions{
		SortKey:  q.Get("sort"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	rec, err := s.tracker.Get(name)
	if err != nil {
		s.writeLookupError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	rec, err := exercise.ParseRecord(fields)
	if err != nil {
		s.writeError(w, err)
		return
	}
	added, err := s.tracker.Add(rec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleEditExercise(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	fields, err := decodeFields(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	u, err := exercise.ParseUpdate(fields)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if u.IsEmpty() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no known fields to update"})
		return
	}
	rec, err := s.tracker.Edit(name, u)
	if err != nil {
		s.writeLookupError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	rec, err := s.tracker.Delete(name)
	if err != nil {
		s.writeLookupError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Routine())
}

func (s *Server) handleAddToRoutine(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	rec, err := s.tracker.Enqueue(body.Name)
	if err != nil {
		s.writeLookupError(w, body.Name, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": rec, "routine": s.tracker.Routine()})
}

func (s *Server) handleNextInRoutine(w http.ResponseWriter, r *http.Request) {
	rec, err := s.tracker.Next()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCompleteNext(w http.ResponseWriter, r *http.Request) {
	rec, err := s.tracker.CompleteNext()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.CounterCompleted.Inc()
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleClearRoutine(w http.ResponseWriter, r *http.Request) {
	s.tracker.ClearRoutine()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSaveCatalog(w http.ResponseWriter, r *http.Request) {
	n, err := s.SaveCatalog(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"saved": n})
}

func (s *Server) handleLoadCatalog(w http.ResponseWriter, r *http.Request) {
	res, err := s.LoadCatalog(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	reasons := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		reasons = append(reasons, e.Error())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"received": res.Received,
		"loaded":   res.Loaded,
		"skipped":  res.Skipped,
		"errors":   reasons,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Stats())
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, exercise.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, workout.ErrNotFound), errors.Is(err, workout.ErrRoutineEmpty):
		return http.StatusNotFound
	case errors.Is(err, workout.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, errNoStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeLookupError adds close catalog names to a not-found response.
func (s *Server) writeLookupError(w http.ResponseWriter, name string, err error) {
	if !errors.Is(err, workout.ErrNotFound) {
		s.writeError(w, err)
		return
	}
	suggestions := s.tracker.Suggest(name, 3)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":       err.Error(),
		"suggestions": suggestions,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// nameParam returns the unescaped {name} path segment.
func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return raw
	}
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// decodeFields reads a JSON object body, keeping numbers as json.Number.
func decodeFields(r *http.Request) (exercise.Fields, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	var f exercise.Fields
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return f, nil
}
