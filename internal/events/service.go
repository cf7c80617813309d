package events

import (
	"context"
	"fmt"

	"github.com/2beens/gymroutine/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=events_test

type eventsRepo interface {
	Add(ctx context.Context, event Event) (*Event, error)
	List(ctx context.Context, params ListParams) ([]*Event, error)
	Count(ctx context.Context, params EventParams) (int, error)
}

type Service struct {
	repo eventsRepo
}

func NewService(repo eventsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) add(ctx context.Context, spanName string, event Event) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, spanName)
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	added, err := s.repo.Add(ctx, event)
	if err != nil {
		return 0, fmt.Errorf("add %s event: %w", event.Type, err)
	}
	return added.ID, nil
}

func (s *Service) AddTrainingStart(ctx context.Context, ts TrainingStart) (int, error) {
	return s.add(ctx, "service.events.add.trainingstart", NewTrainingStartEvent(ts))
}

func (s *Service) AddTrainingFinish(ctx context.Context, tf TrainingFinish) (int, error) {
	return s.add(ctx, "service.events.add.trainingfinish", NewTrainingFinishEvent(tf))
}

func (s *Service) AddRestStarted(ctx context.Context, rs RestStarted) (int, error) {
	return s.add(ctx, "service.events.add.reststarted", NewRestStartedEvent(rs))
}

func (s *Service) AddRestFinished(ctx context.Context, rf RestFinished) (int, error) {
	return s.add(ctx, "service.events.add.restfinished", NewRestFinishedEvent(rf))
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []*Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	events, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *Service) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.count")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	count, err := s.repo.Count(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
