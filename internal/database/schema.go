package database

import (
	"context"
	"fmt"

	"ronins-bknd/internal/models"

	"github.com/uptrace/bun"
)

// CreateSchema creates any missing tables. It replaces the old ad-hoc
// setup script: safe to run on every start.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	tables := []any{
		(*models.Trek)(nil),
		(*models.Booking)(nil),
		(*models.Feedback)(nil),
		(*models.BusinessQuery)(nil),
		(*models.TeamMember)(nil),
		(*models.LiveTrek)(nil),
		(*models.TrekLocation)(nil),
		(*models.LiveTrekSettings)(nil),
		(*models.GpsConfig)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	return nil
}
