package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ronins-bknd/internal/metrics"
	"ronins-bknd/internal/models"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/uptrace/bun"
)

// ErrDriverPasswordNotSet means gps_config has no driver_password row.
var ErrDriverPasswordNotSet = errors.New("driver password not configured")

// DefaultStopMessage is recorded when the driver stops without a note.
const DefaultStopMessage = "GPS tracking stopped"

const (
	driverPasswordCacheKey = "gps:driver_password"
	activeTreksCacheKey    = "gps:active_treks"
	activeTreksCacheTTL    = 5 * time.Second
)

// GPSService owns the live-tracking state machine: one current session
// per trek, activated by the driver, fed by location pings and stopped
// with a final status message.
type GPSService struct {
	db    *bun.DB
	cache *gocache.Cache
	reg   *metrics.Registry
}

func NewGPSService(db *bun.DB, reg *metrics.Registry) *GPSService {
	return &GPSService{
		db:    db,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
		reg:   reg,
	}
}

// DriverTrekItem is one row of the driver panel list: every trek, live or
// not, with its current session metadata.
type DriverTrekItem struct {
	ID               int64      `bun:"id" json:"id"`
	Name             string     `bun:"name" json:"name"`
	IsActive         bool       `bun:"is_active" json:"is_active"`
	LastLocationTime *time.Time `bun:"last_location_time" json:"last_location_time"`
	DriverName       *string    `bun:"driver_name" json:"driver_name"`
	StopMessage      *string    `bun:"stop_message" json:"stop_message"`
	LiveTrekCreated  *time.Time `bun:"live_trek_created" json:"live_trek_created"`
}

// ActiveTrekItem is one row of the viewer list: only live treks, with the
// latest location snapshot.
type ActiveTrekItem struct {
	ID               int64      `bun:"id" json:"id"`
	Name             string     `bun:"name" json:"name"`
	IsActive         bool       `bun:"is_active" json:"is_active"`
	LastLocationTime *time.Time `bun:"last_location_time" json:"last_location_time"`
	DriverName       *string    `bun:"driver_name" json:"driver_name"`
	Latitude         *float64   `bun:"latitude" json:"latitude"`
	Longitude        *float64   `bun:"longitude" json:"longitude"`
	Accuracy         *float64   `bun:"accuracy" json:"accuracy"`
}

// TrekDetails is the per-trek viewer payload including the maps link.
type TrekDetails struct {
	ID                 int64      `bun:"id" json:"id"`
	Name               string     `bun:"name" json:"name"`
	GoogleMapsLink     *string    `bun:"google_maps_link" json:"google_maps_link"`
	IsActive           bool       `bun:"is_active" json:"is_active"`
	LastLocationUpdate *time.Time `bun:"last_location_update" json:"last_location_update"`
	DriverName         *string    `bun:"driver_name" json:"driver_name"`
	StatusMessage      *string    `bun:"status_message" json:"status_message"`
}

// SubmitLocationRequest is one GPS ping from the driver panel.
type SubmitLocationRequest struct {
	TrekID    int64    `json:"trek_id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
	Altitude  *float64 `json:"altitude"`
	Speed     *float64 `json:"speed"`
	Heading   *float64 `json:"heading"`
}

// ActivateTrekRequest starts (or restarts) live tracking for a trek.
type ActivateTrekRequest struct {
	TrekID         int64  `json:"trek_id"`
	GoogleMapsLink string `json:"google_maps_link"`
	TrekPassword   string `json:"trek_password"`
	DriverName     string `json:"driver_name"`
}

// DriverTreks lists all treks for the driver panel, live ones first.
func (s *GPSService) DriverTreks(ctx context.Context) ([]DriverTrekItem, error) {
	items := make([]DriverTrekItem, 0)
	err := s.db.NewSelect().
		TableExpr("treks AS t").
		ColumnExpr("t.id, t.name").
		ColumnExpr("COALESCE(lt.is_active, ?) AS is_active", false).
		ColumnExpr("lt.last_location_update AS last_location_time").
		ColumnExpr("lt.driver_name").
		ColumnExpr("lt.status_message AS stop_message").
		ColumnExpr("lt.created_at AS live_trek_created").
		Join("LEFT JOIN live_treks AS lt ON lt.trek_id = t.id").
		OrderExpr("is_active DESC").
		OrderExpr("t.name ASC").
		Scan(ctx, &items)
	return items, err
}

// ActiveTreks lists only treks whose current session is live. Results are
// cached briefly: viewers poll this endpoint.
func (s *GPSService) ActiveTreks(ctx context.Context) ([]ActiveTrekItem, error) {
	if cached, found := s.cache.Get(activeTreksCacheKey); found {
		return cached.([]ActiveTrekItem), nil
	}

	items := make([]ActiveTrekItem, 0)
	err := s.db.NewSelect().
		TableExpr("treks AS t").
		ColumnExpr("t.id, t.name, lt.is_active").
		ColumnExpr("lt.last_location_update AS last_location_time").
		ColumnExpr("lt.driver_name").
		ColumnExpr("lt.last_latitude AS latitude").
		ColumnExpr("lt.last_longitude AS longitude").
		ColumnExpr("lt.last_accuracy AS accuracy").
		Join("INNER JOIN live_treks AS lt ON lt.trek_id = t.id").
		Where("lt.is_active = ?", true).
		OrderExpr("lt.last_location_update DESC").
		Scan(ctx, &items)
	if err != nil {
		return nil, err
	}

	s.cache.Set(activeTreksCacheKey, items, activeTreksCacheTTL)
	return items, nil
}

// SubmitLocation appends one ping and refreshes the session snapshot. A
// trek with no live session is implicitly activated: drivers that start
// sharing without pressing activate still show up for viewers.
func (s *GPSService) SubmitLocation(ctx context.Context, req SubmitLocationRequest) (string, error) {
	now := time.Now()
	var liveTrekID string

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		live := new(models.LiveTrek)
		err := tx.NewSelect().
			Model(live).
			Where("trek_id = ?", req.TrekID).
			Scan(ctx)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			live = &models.LiveTrek{
				ID:          uuid.NewString(),
				TrekID:      req.TrekID,
				IsActive:    true,
				ActiveSince: &now,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if _, err := tx.NewInsert().Model(live).Exec(ctx); err != nil {
				return err
			}
		case err != nil:
			return err
		}
		liveTrekID = live.ID

		location := &models.TrekLocation{
			TrekID:    req.TrekID,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Accuracy:  req.Accuracy,
			Altitude:  req.Altitude,
			Speed:     req.Speed,
			Heading:   req.Heading,
			Timestamp: now,
		}
		if _, err := tx.NewInsert().Model(location).Exec(ctx); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*models.LiveTrek)(nil)).
			Set("is_active = ?", true).
			Set("last_location_update = ?", now).
			Set("last_latitude = ?", req.Latitude).
			Set("last_longitude = ?", req.Longitude).
			Set("last_accuracy = ?", req.Accuracy).
			Set("updated_at = ?", now).
			Where("id = ?", live.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return "", err
	}

	s.cache.Delete(activeTreksCacheKey)
	if s.reg != nil {
		s.reg.LocationPingsTotal.Inc()
	}
	s.refreshActiveGauge(ctx)
	return liveTrekID, nil
}

// StopTracking ends the live session, recording the final status message.
// Location history is preserved.
func (s *GPSService) StopTracking(ctx context.Context, trekID int64, stopMessage string) error {
	if stopMessage == "" {
		stopMessage = DefaultStopMessage
	}

	_, err := s.db.NewUpdate().
		Model((*models.LiveTrek)(nil)).
		Set("is_active = ?", false).
		Set("status_message = ?", stopMessage).
		Set("updated_at = ?", time.Now()).
		Where("trek_id = ?", trekID).
		Exec(ctx)
	if err != nil {
		return err
	}

	s.cache.Delete(activeTreksCacheKey)
	s.refreshActiveGauge(ctx)
	return nil
}

// LocationHistory returns the 100 most recent pings for a trek, newest
// first.
func (s *GPSService) LocationHistory(ctx context.Context, trekID int64) ([]models.TrekLocation, error) {
	locations := make([]models.TrekLocation, 0)
	err := s.db.NewSelect().
		Model(&locations).
		Where("trek_id = ?", trekID).
		Order("timestamp DESC").
		Limit(100).
		Scan(ctx)
	return locations, err
}

// GetTrekDetails returns the trek joined with its current session, or
// ErrNotFound for an unknown trek.
func (s *GPSService) GetTrekDetails(ctx context.Context, trekID int64) (*TrekDetails, error) {
	details := new(TrekDetails)
	err := s.db.NewSelect().
		TableExpr("treks AS t").
		ColumnExpr("t.id, t.name").
		ColumnExpr("lt.google_maps_link").
		ColumnExpr("COALESCE(lt.is_active, ?) AS is_active", false).
		ColumnExpr("lt.last_location_update").
		ColumnExpr("lt.driver_name").
		ColumnExpr("lt.status_message").
		Join("LEFT JOIN live_treks AS lt ON lt.trek_id = t.id").
		Where("t.id = ?", trekID).
		Scan(ctx, details)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return details, nil
}

// ActivateTrek upserts the current session and the per-trek settings.
// Re-activating an already-live trek just overwrites link, driver and
// password.
func (s *GPSService) ActivateTrek(ctx context.Context, req ActivateTrekRequest) error {
	now := time.Now()

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		live := &models.LiveTrek{
			ID:                 uuid.NewString(),
			TrekID:             req.TrekID,
			IsActive:           true,
			GoogleMapsLink:     &req.GoogleMapsLink,
			DriverName:         &req.DriverName,
			ActiveSince:        &now,
			LastLocationUpdate: &now,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if _, err := tx.NewInsert().
			Model(live).
			On("CONFLICT (trek_id) DO UPDATE").
			Set("is_active = EXCLUDED.is_active").
			Set("google_maps_link = EXCLUDED.google_maps_link").
			Set("driver_name = EXCLUDED.driver_name").
			Set("active_since = EXCLUDED.active_since").
			Set("last_location_update = EXCLUDED.last_location_update").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return err
		}

		settings := &models.LiveTrekSettings{
			TrekID:           req.TrekID,
			TrackingPassword: req.TrekPassword,
			ChatEnabled:      true,
			ChatLocked:       false,
			UpdatedAt:        now,
		}
		_, err := tx.NewInsert().
			Model(settings).
			On("CONFLICT (trek_id) DO UPDATE").
			Set("tracking_password = EXCLUDED.tracking_password").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	s.cache.Delete(activeTreksCacheKey)
	s.refreshActiveGauge(ctx)
	return nil
}

// VerifyDriverPassword gates entry to the driver panel. Comparison is
// plain string equality against the stored config value.
func (s *GPSService) VerifyDriverPassword(ctx context.Context, password string) (bool, error) {
	stored, err := s.driverPassword(ctx)
	if err != nil {
		return false, err
	}
	return password == stored, nil
}

func (s *GPSService) driverPassword(ctx context.Context) (string, error) {
	if cached, found := s.cache.Get(driverPasswordCacheKey); found {
		return cached.(string), nil
	}

	cfg := new(models.GpsConfig)
	err := s.db.NewSelect().
		Model(cfg).
		Where("config_key = ?", "driver_password").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrDriverPasswordNotSet
	}
	if err != nil {
		return "", err
	}

	s.cache.Set(driverPasswordCacheKey, cfg.ConfigValue, gocache.DefaultExpiration)
	return cfg.ConfigValue, nil
}

// VerifyTrekPassword gates a viewer's access to one trek's live feed.
// Returns active=false when the trek has no live session.
func (s *GPSService) VerifyTrekPassword(ctx context.Context, trekID int64, password string) (valid, active bool, err error) {
	settings := new(models.LiveTrekSettings)
	err = s.db.NewSelect().
		Model(settings).
		Join("INNER JOIN live_treks AS lt ON lt.trek_id = lts.trek_id").
		Where("lts.trek_id = ?", trekID).
		Where("lt.is_active = ?", true).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return password == settings.TrackingPassword, true, nil
}

// Config returns all gps_config rows as a flat key-value object.
func (s *GPSService) Config(ctx context.Context) (map[string]string, error) {
	var rows []models.GpsConfig
	if err := s.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, err
	}

	config := make(map[string]string, len(rows))
	for _, row := range rows {
		config[row.ConfigKey] = row.ConfigValue
	}
	return config, nil
}

// UpdateDriverPassword upserts the driver panel password.
func (s *GPSService) UpdateDriverPassword(ctx context.Context, password string) error {
	description := "Driver panel access password"
	cfg := &models.GpsConfig{
		ConfigKey:   "driver_password",
		ConfigValue: password,
		Description: &description,
		UpdatedAt:   time.Now(),
	}
	_, err := s.db.NewInsert().
		Model(cfg).
		On("CONFLICT (config_key) DO UPDATE").
		Set("config_value = EXCLUDED.config_value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return err
	}

	s.cache.Delete(driverPasswordCacheKey)
	return nil
}

func (s *GPSService) refreshActiveGauge(ctx context.Context) {
	if s.reg == nil {
		return
	}
	count, err := s.db.NewSelect().
		Model((*models.LiveTrek)(nil)).
		Where("is_active = ?", true).
		Count(ctx)
	if err != nil {
		return
	}
	s.reg.ActiveLiveTreks.Set(float64(count))
}
