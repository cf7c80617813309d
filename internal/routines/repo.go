package routines

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/gymroutine/internal/telemetry/tracing"
	"github.com/2beens/gymroutine/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db:  db,
		now: time.Now,
	}
}

func (r *Repo) Get(ctx context.Context, userID string, day Day) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user-id", userID), attribute.String("day", string(day)))

	return getRoutine(ctx, r.db, userID, day, false)
}

// Save inserts the routine or replaces the exercises of the existing routine for the same user and day.
func (r *Repo) Save(ctx context.Context, routine *Routine) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	exercises := routine.Exercises
	if exercises == nil {
		exercises = []Exercise{}
	}
	saved := *routine
	saved.Exercises = exercises
	saved.UpdatedAt = r.now().UTC()

	err = r.db.QueryRow(ctx, `
		INSERT INTO routine (user_id, day, exercises, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, day) DO UPDATE
			SET exercises = EXCLUDED.exercises, updated_at = EXCLUDED.updated_at
		RETURNING id
	`,
		saved.UserID,
		saved.Day,
		saved.Exercises,
		saved.UpdatedAt,
	).Scan(&saved.ID)
	if err != nil {
		return nil, fmt.Errorf("save routine: %w", err)
	}

	return &saved, nil
}

func (r *Repo) UpdateSetRest(ctx context.Context, userID string, day Day, exIdx, setIdx, restSeconds int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.updatesetrest")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("rest-seconds", restSeconds))

	return r.updateSet(ctx, userID, day, exIdx, setIdx, func(s *Set) {
		s.RestSeconds = restSeconds
	})
}

func (r *Repo) LogSet(ctx context.Context, userID string, day Day, exIdx, setIdx int, setLog SetLog) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.logset")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return r.updateSet(ctx, userID, day, exIdx, setIdx, func(s *Set) {
		s.Weight = setLog.Weight
		s.Reps = setLog.Reps
		s.Completed = setLog.Completed
	})
}

func (r *Repo) updateSet(ctx context.Context, userID string, day Day, exIdx, setIdx int, update func(s *Set)) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	routine, err := getRoutine(ctx, tx, userID, day, true)
	if err != nil {
		return err
	}

	set, err := routine.Set(exIdx, setIdx)
	if err != nil {
		return err
	}
	update(set)

	_, err = tx.Exec(ctx, `
		UPDATE routine SET exercises = $1, updated_at = $2
		WHERE id = $3
	`, routine.Exercises, r.now().UTC(), routine.ID)
	if err != nil {
		return fmt.Errorf("update routine: %w", err)
	}

	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getRoutine(ctx context.Context, q querier, userID string, day Day, forUpdate bool) (*Routine, error) {
	query := `
		SELECT id, user_id, day, exercises, updated_at
		FROM routine
		WHERE user_id = $1 AND day = $2
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	routine := &Routine{}
	err := q.QueryRow(ctx, query, userID, day).
		Scan(&routine.ID, &routine.UserID, &routine.Day, &routine.Exercises, &routine.UpdatedAt)
	if pkg.IsNoRowsError(err) {
		return nil, ErrRoutineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get routine: %w", err)
	}
	if routine.Exercises == nil {
		routine.Exercises = []Exercise{}
	}
	return routine, nil
}
