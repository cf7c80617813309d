package events

import (
	"context"
	"net/http"
	"strconv"

	"github.com/2beens/gymroutine/internal/telemetry/tracing"
	"github.com/2beens/gymroutine/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=events_test

type service interface {
	List(ctx context.Context, params ListParams) ([]*Event, error)
	Count(ctx context.Context, params EventParams) (int, error)
}

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

type ListResponse struct {
	Events []*Event `json:"events"`
	Total  int      `json:"total"`
	Page   int      `json:"page"`
	Size   int      `json:"size"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleList serves GET /events?type=&userId=&page=&size=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.events.list")
	defer span.End()

	query := r.URL.Query()
	params := ListParams{
		EventParams: EventParams{
			UserID: query.Get("userId"),
		},
		Page: 0,
		Size: defaultPageSize,
	}

	if typeParam := query.Get("type"); typeParam != "" {
		eventType := EventType(typeParam)
		if !eventType.IsValid() {
			http.Error(w, "invalid event type", http.StatusBadRequest)
			return
		}
		params.Type = &eventType
	}
	if pageParam := query.Get("page"); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil || page < 0 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		params.Page = page
	}
	if sizeParam := query.Get("size"); sizeParam != "" {
		size, err := strconv.Atoi(sizeParam)
		if err != nil || size <= 0 || size > maxPageSize {
			http.Error(w, "invalid size", http.StatusBadRequest)
			return
		}
		params.Size = size
	}

	events, err := h.service.List(ctx, params)
	if err != nil {
		log.Errorf("list events: %s", err)
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}
	total, err := h.service.Count(ctx, params.EventParams)
	if err != nil {
		log.Errorf("count events: %s", err)
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Events: events,
		Total:  total,
		Page:   params.Page,
		Size:   params.Size,
	}, http.StatusOK)
}
