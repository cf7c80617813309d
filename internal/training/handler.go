package training

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/2beens/gymroutine/internal/resttimer"
	"github.com/2beens/gymroutine/internal/routines"
	"github.com/2beens/gymroutine/internal/telemetry/tracing"
	"github.com/2beens/gymroutine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager: manager,
	}
}

// SetupRoutes registers the session routes on router. timerMiddleware wraps the routes
// acting on a single countdown.
func (h *Handler) SetupRoutes(router *mux.Router, timerMiddleware ...mux.MiddlewareFunc) {
	router.HandleFunc("", h.HandleOpen).Methods("POST", "OPTIONS").Name("open-session")
	router.HandleFunc("/{id}", h.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	router.HandleFunc("/{id}", h.HandleClose).Methods("DELETE", "OPTIONS").Name("close-session")
	router.HandleFunc("/{id}/exercises/{ex}/sets/{set}", h.HandleRemoveSet).Methods("DELETE", "OPTIONS").Name("remove-set")
	router.HandleFunc("/{id}/exercises/{ex}", h.HandleRemoveExercise).Methods("DELETE", "OPTIONS").Name("remove-exercise")

	timersRouter := router.PathPrefix("/{id}/timers/{ex}/{set}").Subrouter()
	timersRouter.HandleFunc("", h.HandleQueryTimer).Methods("GET", "OPTIONS").Name("query-timer")
	timersRouter.HandleFunc("/start", h.HandleStartTimer).Methods("POST", "OPTIONS").Name("start-timer")
	timersRouter.HandleFunc("/pause", h.HandlePauseTimer).Methods("POST", "OPTIONS").Name("pause-timer")
	timersRouter.HandleFunc("/reset", h.HandleResetTimer).Methods("POST", "OPTIONS").Name("reset-timer")
	timersRouter.HandleFunc("/rest", h.HandleUpdateRest).Methods("PUT", "OPTIONS").Name("update-rest")
	for _, mw := range timerMiddleware {
		timersRouter.Use(mw)
	}
}

type openSessionRequest struct {
	UserID string `json:"userId"`
	Day    string `json:"day"`
}

type secondsRequest struct {
	Seconds *int `json:"seconds"`
}

type UpdateRestResponse struct {
	Timer     TimerView `json:"timer"`
	Persisted bool      `json:"persisted"`
}

func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.open")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("open training session, unmarshal json params: %s", err)
		http.Error(w, "invalid open session request", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user id not set", http.StatusBadRequest)
		return
	}
	day, err := routines.ParseDay(req.Day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.manager.Open(ctx, req.UserID, day)
	if err != nil {
		log.Errorf("open training session [%s/%s]: %s", req.UserID, day, err)
		http.Error(w, "failed to open training session", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, session.View(), http.StatusCreated)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.get")
	defer span.End()

	session, err := h.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		writeManagerError(w, err)
		return
	}

	pkg.WriteJSON(w, session.View(), http.StatusOK)
}

func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.close")
	defer span.End()

	if err := h.manager.Close(mux.Vars(r)["id"]); err != nil {
		writeManagerError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleStartTimer(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.timer.start")
	defer span.End()

	key, ok := timerKey(w, r)
	if !ok {
		return
	}
	req, ok := decodeSeconds(w, r)
	if !ok {
		return
	}

	snap, err := h.manager.StartTimer(mux.Vars(r)["id"], key, req.Seconds)
	if err != nil {
		writeManagerError(w, err)
		return
	}
	span.SetAttributes(attribute.String("status", snap.Status.String()))

	pkg.WriteJSON(w, NewTimerView(snap), http.StatusOK)
}

func (h *Handler) HandlePauseTimer(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.timer.pause")
	defer span.End()

	key, ok := timerKey(w, r)
	if !ok {
		return
	}

	snap, err := h.manager.PauseTimer(mux.Vars(r)["id"], key)
	if err != nil {
		writeManagerError(w, err)
		return
	}

	pkg.WriteJSON(w, NewTimerView(snap), http.StatusOK)
}

func (h *Handler) HandleResetTimer(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.timer.reset")
	defer span.End()

	key, ok := timerKey(w, r)
	if !ok {
		return
	}
	req, ok := decodeSeconds(w, r)
	if !ok {
		return
	}
	if req.Seconds == nil {
		http.Error(w, "seconds not set", http.StatusBadRequest)
		return
	}

	snap, err := h.manager.ResetTimer(mux.Vars(r)["id"], key, *req.Seconds)
	if err != nil {
		writeManagerError(w, err)
		return
	}

	pkg.WriteJSON(w, NewTimerView(snap), http.StatusOK)
}

func (h *Handler) HandleQueryTimer(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.timer.query")
	defer span.End()

	key, ok := timerKey(w, r)
	if !ok {
		return
	}

	snap, err := h.manager.QueryTimer(mux.Vars(r)["id"], key)
	if err != nil {
		writeManagerError(w, err)
		return
	}

	pkg.WriteJSON(w, NewTimerView(snap), http.StatusOK)
}

func (h *Handler) HandleUpdateRest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.timer.updaterest")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	key, ok := timerKey(w, r)
	if !ok {
		return
	}
	req, ok := decodeSeconds(w, r)
	if !ok {
		return
	}
	if req.Seconds == nil || *req.Seconds < 0 {
		http.Error(w, "invalid seconds", http.StatusBadRequest)
		return
	}

	snap, persisted, err := h.manager.UpdateRest(ctx, mux.Vars(r)["id"], key, *req.Seconds)
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSetRemoved), errors.Is(err, ErrInvalidIndex):
		writeManagerError(w, err)
		return
	case err != nil:
		// the countdown was reset, only storing the rest failed
		log.Errorf("update rest [%s %s]: %s", mux.Vars(r)["id"], key, err)
		pkg.WriteJSONError(w, "failed to store rest seconds", http.StatusBadGateway)
		return
	}

	pkg.WriteJSON(w, UpdateRestResponse{
		Timer:     NewTimerView(snap),
		Persisted: persisted,
	}, http.StatusOK)
}

func (h *Handler) HandleRemoveSet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.removeset")
	defer span.End()

	key, ok := timerKey(w, r)
	if !ok {
		return
	}

	if err := h.manager.RemoveSet(mux.Vars(r)["id"], key); err != nil {
		writeManagerError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.removeexercise")
	defer span.End()

	exIdx, err := strconv.Atoi(mux.Vars(r)["ex"])
	if err != nil || exIdx < 0 {
		http.Error(w, "invalid exercise index", http.StatusBadRequest)
		return
	}

	if err := h.manager.RemoveExercise(mux.Vars(r)["id"], exIdx); err != nil {
		writeManagerError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func timerKey(w http.ResponseWriter, r *http.Request) (resttimer.Key, bool) {
	vars := mux.Vars(r)
	exIdx, err := strconv.Atoi(vars["ex"])
	if err != nil || exIdx < 0 {
		http.Error(w, "invalid exercise index", http.StatusBadRequest)
		return resttimer.Key{}, false
	}
	setIdx, err := strconv.Atoi(vars["set"])
	if err != nil || setIdx < 0 {
		http.Error(w, "invalid set index", http.StatusBadRequest)
		return resttimer.Key{}, false
	}
	return resttimer.NewKey(exIdx, setIdx), true
}

// decodeSeconds reads an optional {"seconds": n} body. An empty body is no seconds.
func decodeSeconds(w http.ResponseWriter, r *http.Request) (secondsRequest, bool) {
	var req secondsRequest
	if r.Body == nil {
		return req, true
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Errorf("timer request, unmarshal json params: %s", err)
		http.Error(w, "invalid timer request", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeManagerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSetRemoved):
		pkg.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidIndex):
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("training session: %s", err)
		pkg.WriteJSONError(w, "internal error", http.StatusInternalServerError)
	}
}
