// Handler — HTTP-слой модуля фильмов.
package movies

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"movies-api/internal/logger"
	appMiddleware "movies-api/internal/middleware"
)

// maxBodyBytes ограничивает размер тела POST/PATCH.
const maxBodyBytes = 1 << 20

// Handler — HTTP-слой модуля фильмов.
//
// Здесь лежит всё, что относится к HTTP:
// роуты, разбор JSON, CORS, коды ответов. Состояние живёт в Service.
type Handler struct {
	svc     *Service
	gate    *appMiddleware.OriginGate
	timeout time.Duration
}

// NewHandler создаёт Handler поверх сервиса.
func NewHandler(svc *Service, gate *appMiddleware.OriginGate, timeout time.Duration) *Handler {
	return &Handler{svc: svc, gate: gate, timeout: timeout}
}

// Router собирает HTTP-роутер для /movies.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/movies", func(r chi.Router) {
		r.Use(h.gate.Middleware)
		r.Use(appMiddleware.JSONHeaderMiddleware)
		r.Use(appMiddleware.RequestTimeoutMiddleware(h.timeout))

		r.Get("/", h.listMovies)
		r.Post("/", h.createMovie)
		r.Options("/", h.gate.Preflight)

		r.Get("/{id}", h.getMovie)
		r.Patch("/{id}", h.updateMovie)
		r.Delete("/{id}", h.deleteMovie)
		r.Options("/{id}", h.gate.Preflight)
	})
	return r
}

// errorResponse — тело ответа с ошибкой.
type errorResponse struct {
	Message string           `json:"message"`
	Errors  []FieldViolation `json:"errors,omitempty"`
}

// listMovies обрабатывает GET /movies[?genre=...]
//
// Фильтр включается самим наличием параметра, даже пустого.
func (h *Handler) listMovies(w http.ResponseWriter, r *http.Request) {
	var (
		movies []Movie
		err    error
	)
	if q := r.URL.Query(); q.Has("genre") {
		movies, err = h.svc.ListByGenre(r.Context(), q.Get("genre"))
	} else {
		movies, err = h.svc.List(r.Context())
	}
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// getMovie обрабатывает GET /movies/{id}
func (h *Handler) getMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// createMovie обрабатывает POST /movies
//
// Проверяет тело целиком, выдаёт id, возвращает 201 с созданным фильмом.
func (h *Handler) createMovie(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	result := ValidateMovie(body)
	if !result.OK() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid movie payload", Errors: result.Errors})
		return
	}

	created, err := h.svc.Create(r.Context(), result.Data)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"movie_id":   created.ID,
		"request_id": chiMiddleware.GetReqID(r.Context()),
	}).Info("movie created")

	writeJSON(w, http.StatusCreated, created)
}

// updateMovie обрабатывает PATCH /movies/{id}
//
// Тело проверяется до поиска по id: кривой payload — всегда 400.
func (h *Handler) updateMovie(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	result := ValidatePartialMovie(body)
	if !result.OK() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid movie payload", Errors: result.Errors})
		return
	}

	updated, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), result.Data)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteMovie обрабатывает DELETE /movies/{id}
func (h *Handler) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"movie_id":   id,
		"request_id": chiMiddleware.GetReqID(r.Context()),
	}).Info("movie deleted")

	w.Header().Del("Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

// readBody читает тело запроса с ограничением по размеру.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Message: "request body too large"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return nil, false
	}
	return body, true
}

// handleError переводит ошибку сервиса в HTTP-ответ.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Movie not found"})
	case errors.Is(err, context.Canceled):
		// Клиент ушёл или сервер гасится: отвечать уже некому.
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusRequestTimeout, errorResponse{Message: "request timeout"})
	default:
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": chiMiddleware.GetReqID(r.Context()),
		}).Error("unexpected error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
