package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

//go:embed schema.sql
var Schema string

// ApplySchema creates the routine and event tables if they are missing.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	res, err := pool.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Debugf("db schema applied: %s", res.String())
	return nil
}
