package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"CourseBrowser/pkg/kit"
)

const (
	maxBodyBytes = 1 << 16

	// gradeInvalid is outside every enumeration, so it filters to nothing.
	gradeInvalid = -1
)

type Server struct {
	Catalog *Controller
	Views   *Views
	Store   KVStore
	Log     *zap.Logger

	// ViewLimiter, when set, throttles view creation per client IP.
	ViewLimiter *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Get("/subjects", s.subjects)
	r.Get("/courses", s.list)
	r.Get("/courses/{id}", s.get)

	r.Route("/views", func(vr chi.Router) {
		if s.ViewLimiter != nil {
			vr.With(s.ViewLimiter.Middleware).Post("/", s.createView)
		} else {
			vr.Post("/", s.createView)
		}
		vr.Get("/{id}", s.getView)
		vr.Patch("/{id}", s.patchView)
		vr.Delete("/{id}", s.deleteView)
		vr.Post("/{id}/reset", s.resetView)
	})

	return r
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.Catalog.Status() != StatusReady {
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not loaded", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if s.Store != nil {
		if err := s.Store.Ping(ctx); err != nil {
			s.logger().Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) subjects(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, Subjects)
}

type listResp struct {
	Items   []Course    `json:"items"`
	Total   int         `json:"total"`
	Filters filtersResp `json:"filters"`
}

type filtersResp struct {
	Query    string         `json:"query"`
	Grade    any            `json:"grade"`
	Subject  Subject        `json:"subject"`
	Progress ProgressBucket `json:"progress"`
}

func toFiltersResp(f Filters) filtersResp {
	var grade any = f.Grade
	if f.Grade == GradeAll {
		grade = "all"
	}
	return filtersResp{Query: f.Query, Grade: grade, Subject: f.Subject, Progress: f.Progress}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromQuery(r.URL.Query())
	items := Apply(s.Catalog.All(), f, s.Catalog.Search())

	kit.WriteJSON(w, http.StatusOK, listResp{
		Items:   items,
		Total:   len(items),
		Filters: toFiltersResp(f),
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	for _, c := range s.Catalog.All() {
		if c.ID == id {
			kit.WriteJSON(w, http.StatusOK, c)
			return
		}
	}
	kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
}

// FiltersFromQuery reads filters from URL parameters. Missing values mean "all".
func FiltersFromQuery(q url.Values) Filters {
	f := DefaultFilters()
	f.Query = q.Get("query")
	f.Grade = ParseGrade(q.Get("grade"))
	if v := strings.TrimSpace(q.Get("subject")); v != "" {
		f.Subject = Subject(v)
	}
	if v := strings.TrimSpace(q.Get("progress")); v != "" {
		f.Progress = ProgressBucket(v)
	}
	return f
}

// ParseGrade maps "" and "all" to GradeAll and anything non-numeric to a
// grade that matches no course.
func ParseGrade(v string) int {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") {
		return GradeAll
	}
	g, err := strconv.Atoi(v)
	if err != nil || g == GradeAll {
		return gradeInvalid
	}
	return g
}

type viewResp struct {
	ID      string      `json:"id"`
	Status  Status      `json:"status"`
	Filters filtersResp `json:"filters"`
	Items   []Course    `json:"items"`
	Total   int         `json:"total"`
}

func newViewResp(id string, st State) viewResp {
	return viewResp{
		ID:      id,
		Status:  st.Status,
		Filters: toFiltersResp(st.Filters),
		Items:   st.Filtered,
		Total:   len(st.Filtered),
	}
}

func (s *Server) createView(w http.ResponseWriter, r *http.Request) {
	id, c, err := s.Views.Create(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, ErrTooManyViews):
			kit.WriteError(w, r, http.StatusServiceUnavailable, "too many views", nil)
			return
		case errors.Is(err, ErrCatalogNotLoaded):
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not loaded", nil)
			return
		}
		s.logger().Error("create view failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, newViewResp(id, c.State()))
}

func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.Views.Get(id)
	if err != nil {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, newViewResp(id, c.State()))
}

type patchViewReq struct {
	Query    *string         `json:"query"`
	Grade    json.RawMessage `json:"grade"`
	Subject  *string         `json:"subject"`
	Progress *string         `json:"progress"`
}

func (s *Server) patchView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.Views.Get(id)
	if err != nil {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	req, err := decodePatchRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	if req.Query != nil {
		c.SetQuery(*req.Query)
	}
	if len(req.Grade) > 0 {
		c.SetGrade(gradeFromJSON(req.Grade))
	}
	if req.Subject != nil {
		c.SetSubject(Subject(*req.Subject))
	}
	if req.Progress != nil {
		c.SetProgressFilter(ProgressBucket(*req.Progress))
	}

	kit.WriteJSON(w, http.StatusOK, newViewResp(id, c.State()))
}

func (s *Server) deleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.Views.Delete(id) {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resetView clears the view's filters by reloading it from the session catalog.
func (s *Server) resetView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.Views.Get(id)
	if err != nil {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	if err := c.Reset(); err != nil {
		kit.WriteError(w, r, http.StatusConflict, "view busy", nil)
		return
	}
	if err := c.Init(r.Context()); err != nil {
		s.logger().Error("reset view failed", zap.Error(err), zap.String("view", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, newViewResp(id, c.State()))
}

func decodePatchRequest(w http.ResponseWriter, r *http.Request) (patchViewReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req patchViewReq
	if err := dec.Decode(&req); err != nil {
		return patchViewReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return patchViewReq{}, errors.New("extra data after json object")
	}
	return req, nil
}

// gradeFromJSON accepts a number or a string such as "all" or "7".
func gradeFromJSON(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return GradeAll
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == GradeAll {
			return gradeInvalid
		}
		return n
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return ParseGrade(str)
	}
	return gradeInvalid
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
