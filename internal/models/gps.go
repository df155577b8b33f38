package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LiveTrek is the current tracking session for a trek. The unique trek_id
// constraint makes this a current-state projection: there is never more
// than one row per trek, so "is this trek live" never depends on
// ordering historical rows by timestamp.
type LiveTrek struct {
	bun.BaseModel `bun:"table:live_treks,alias:lt"`

	ID             string     `bun:"id,pk" json:"id"`
	TrekID         int64      `bun:"trek_id,notnull,unique" json:"trek_id"`
	IsActive       bool       `bun:"is_active,notnull,default:false" json:"is_active"`
	GoogleMapsLink *string    `bun:"google_maps_link" json:"google_maps_link"`
	DriverName     *string    `bun:"driver_name" json:"driver_name"`
	StatusMessage  *string    `bun:"status_message" json:"status_message"`
	ActiveSince    *time.Time `bun:"active_since" json:"active_since"`

	// Latest-location snapshot, refreshed on every ping so viewer reads
	// never scan trek_locations.
	LastLocationUpdate *time.Time `bun:"last_location_update" json:"last_location_update"`
	LastLatitude       *float64   `bun:"last_latitude" json:"last_latitude"`
	LastLongitude      *float64   `bun:"last_longitude" json:"last_longitude"`
	LastAccuracy       *float64   `bun:"last_accuracy" json:"last_accuracy"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// TrekLocation is one GPS ping. Append-only: rows are never mutated and
// survive the session being stopped.
type TrekLocation struct {
	bun.BaseModel `bun:"table:trek_locations,alias:tl"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	TrekID    int64     `bun:"trek_id,notnull" json:"trek_id"`
	Latitude  float64   `bun:"latitude,notnull" json:"latitude"`
	Longitude float64   `bun:"longitude,notnull" json:"longitude"`
	Accuracy  *float64  `bun:"accuracy" json:"accuracy"`
	Altitude  *float64  `bun:"altitude" json:"altitude"`
	Speed     *float64  `bun:"speed" json:"speed"`
	Heading   *float64  `bun:"heading" json:"heading"`
	Timestamp time.Time `bun:"timestamp,notnull,default:current_timestamp" json:"timestamp"`
}

// LiveTrekSettings holds per-trek viewer gating, upserted on activation.
type LiveTrekSettings struct {
	bun.BaseModel `bun:"table:live_trek_settings,alias:lts"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	TrekID           int64     `bun:"trek_id,notnull,unique" json:"trek_id"`
	TrackingPassword string    `bun:"tracking_password,notnull" json:"-"`
	ChatEnabled      bool      `bun:"chat_enabled,notnull,default:true" json:"chat_enabled"`
	ChatLocked       bool      `bun:"chat_locked,notnull,default:false" json:"chat_locked"`
	UpdatedAt        time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// GpsConfig is a key-value row of process-wide GPS configuration, e.g.
// the driver panel password.
type GpsConfig struct {
	bun.BaseModel `bun:"table:gps_config,alias:gc"`

	ConfigKey   string    `bun:"config_key,pk" json:"config_key"`
	ConfigValue string    `bun:"config_value,notnull" json:"config_value"`
	Description *string   `bun:"description" json:"description"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
