package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"ronins-bknd/internal/database"
	"ronins-bknd/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// newTestDB opens a per-test in-memory SQLite database with the full
// schema applied.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := database.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustCreateTrek(t *testing.T, db *bun.DB, name string) *models.Trek {
	t.Helper()

	trek := &models.Trek{
		Name:        name,
		Description: "A quiet two day monsoon trail through the ghats",
		Duration:    "2 days",
		TrekLength:  14,
		Difficulty:  "Moderate",
		MaxAltitude: 4200,
		BaseVillage: "Bhandardara",
		Transport:   "Shared tempo from Kasara station",
		Meals:       "Veg meals included",
		Sightseeing: "Ridge viewpoint and the old fort",
		Image:       "https://example.com/trek.jpg",
		Price:       1999,
	}
	if _, err := db.NewInsert().Model(trek).Exec(context.Background()); err != nil {
		t.Fatalf("insert trek: %v", err)
	}
	return trek
}
