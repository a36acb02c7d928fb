package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/taskboard/internal/derive"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type statsBody struct {
	Stats     types.DashboardStats `json:"stats"`
	Breakdown types.Breakdown      `json:"breakdown"`
}

type themeBody struct {
	Theme types.Theme `json:"theme"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decode(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.sess.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decode(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.sess.Register(r.Context(), c.Name, c.Email, c.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Logout(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Identity.Snapshot())
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	f, err := filtersFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sess.Tasks.Filtered(f))
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	var in types.TaskInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.Status == "" {
		in.Status = types.StatusPending
	}
	task, err := s.sess.Tasks.AddTask(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.sess.Tasks.Get(id); !ok {
		writeError(w, r, fmt.Errorf("task %s: %w", id, types.ErrNotFound))
		return
	}
	var task types.Task
	if err := decode(r, &task); err != nil {
		writeError(w, r, err)
		return
	}
	task.ID = id
	if err := s.sess.Tasks.UpdateTask(r.Context(), task); err != nil {
		writeError(w, r, err)
		return
	}
	updated, _ := s.sess.Tasks.Get(id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Tasks.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.sess.Tasks.Get(id); !ok {
		writeError(w, r, fmt.Errorf("task %s: %w", id, types.ErrNotFound))
		return
	}
	if err := s.sess.Tasks.ToggleTaskStatus(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	task, _ := s.sess.Tasks.Get(id)
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsBody{
		Stats:     s.sess.Tasks.Stats(),
		Breakdown: s.sess.Tasks.Breakdown(),
	})
}

func (s *Server) upcoming(w http.ResponseWriter, r *http.Request) {
	limit := derive.DefaultUpcomingLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: limit %q", errBadRequest, v))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.sess.Tasks.Upcoming(limit))
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	t, err := s.sess.Theme.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: t})
}

func (s *Server) putTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.sess.Theme.Set(r.Context(), body.Theme); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) toggleTheme(w http.ResponseWriter, r *http.Request) {
	t, err := s.sess.Theme.Toggle(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: t})
}

// filtersFromQuery reads status, priority, q, from and to. Dates are RFC 3339.
func filtersFromQuery(r *http.Request) (types.TaskFilters, error) {
	q := r.URL.Query()
	f := types.TaskFilters{
		Status:      types.Status(q.Get("status")),
		Priority:    types.Priority(q.Get("priority")),
		SearchQuery: q.Get("q"),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, types.ErrInvalidStatus
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return f, types.ErrInvalidPriority
	}

	var from, to time.Time
	for name, dst := range map[string]*time.Time{"from": &from, "to": &to} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("%w: %s %q", errBadRequest, name, v)
		}
		*dst = t
	}
	f.DateRange = derive.Range(from, to)
	return f, nil
}
