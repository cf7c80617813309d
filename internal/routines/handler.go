package routines

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/gymroutine/internal/telemetry/tracing"
	"github.com/2beens/gymroutine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=routines_test

type routineStore interface {
	Get(ctx context.Context, userID string, day Day) (*Routine, error)
	Save(ctx context.Context, routine *Routine) (*Routine, error)
	LogSet(ctx context.Context, userID string, day Day, exIdx, setIdx int, setLog SetLog) error
}

type Handler struct {
	store routineStore
}

func NewHandler(store routineStore) *Handler {
	return &Handler{
		store: store,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/{userId}/{day}", h.HandleGet).Methods("GET", "OPTIONS").Name("get-routine")
	router.HandleFunc("/{userId}/{day}", h.HandleSave).Methods("PUT", "OPTIONS").Name("save-routine")
	router.HandleFunc("/{userId}/{day}/exercises/{ex}/sets/{set}", h.HandleLogSet).Methods("PUT", "OPTIONS").Name("log-set")
}

func userAndDay(r *http.Request) (string, Day, error) {
	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		return "", "", errors.New("user id not set")
	}
	day, err := ParseDay(vars["day"])
	if err != nil {
		return "", "", err
	}
	return userID, day, nil
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.get")
	defer span.End()

	userID, day, err := userAndDay(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	routine, err := h.store.Get(ctx, userID, day)
	if errors.Is(err, ErrRoutineNotFound) {
		// a user without a routine for the day gets an empty one
		routine = NewEmptyRoutine(userID, day)
	} else if err != nil {
		log.Errorf("get routine [%s/%s]: %s", userID, day, err)
		http.Error(w, "failed to get routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, routine, http.StatusOK)
}

type saveRoutineRequest struct {
	Exercises []Exercise `json:"exercises"`
}

func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.save")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID, day, err := userAndDay(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req saveRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("save routine, unmarshal json params: %s", err)
		http.Error(w, "invalid routine", http.StatusBadRequest)
		return
	}
	for _, ex := range req.Exercises {
		for _, set := range ex.Sets {
			if set.RestSeconds < 0 || set.Reps < 0 || set.Weight < 0 {
				http.Error(w, "negative set values", http.StatusBadRequest)
				return
			}
		}
	}

	saved, err := h.store.Save(ctx, &Routine{
		UserID:    userID,
		Day:       day,
		Exercises: req.Exercises,
	})
	if err != nil {
		log.Errorf("save routine [%s/%s]: %s", userID, day, err)
		http.Error(w, "failed to save routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, saved, http.StatusOK)
}

func (h *Handler) HandleLogSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.logset")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID, day, err := userAndDay(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	exIdx, err := strconv.Atoi(vars["ex"])
	if err != nil || exIdx < 0 {
		http.Error(w, "invalid exercise index", http.StatusBadRequest)
		return
	}
	setIdx, err := strconv.Atoi(vars["set"])
	if err != nil || setIdx < 0 {
		http.Error(w, "invalid set index", http.StatusBadRequest)
		return
	}

	var setLog SetLog
	if err := json.NewDecoder(r.Body).Decode(&setLog); err != nil {
		log.Errorf("log set, unmarshal json params: %s", err)
		http.Error(w, "invalid set log", http.StatusBadRequest)
		return
	}
	if setLog.Weight < 0 || setLog.Reps < 0 {
		http.Error(w, "negative set values", http.StatusBadRequest)
		return
	}

	err = h.store.LogSet(ctx, userID, day, exIdx, setIdx, setLog)
	switch {
	case errors.Is(err, ErrRoutineNotFound), errors.Is(err, ErrIndexOutOfRange):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		log.Errorf("log set [%s/%s/%d-%d]: %s", userID, day, exIdx, setIdx, err)
		http.Error(w, "failed to log set", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
