package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Difficulty levels accepted for a trek.
var ValidDifficulties = []string{"Easy", "Moderate", "Challenging"}

// Trek is the core sellable entity: a guided hiking tour product.
type Trek struct {
	bun.BaseModel `bun:"table:treks,alias:t"`

	ID          int64   `bun:"id,pk,autoincrement" json:"id"`
	Name        string  `bun:"name,notnull,unique" json:"name"`
	Description string  `bun:"description,notnull" json:"description"`
	Duration    string  `bun:"duration,notnull" json:"duration"`
	TrekLength  float64 `bun:"trek_length,notnull" json:"trek_length"`
	Difficulty  string  `bun:"difficulty,notnull" json:"difficulty"`
	MaxAltitude float64 `bun:"max_altitude,notnull" json:"max_altitude"`
	BaseVillage string  `bun:"base_village,notnull" json:"base_village"`
	Transport   string  `bun:"transport,notnull" json:"transport"`
	Meals       string  `bun:"meals,notnull" json:"meals"`
	Sightseeing string  `bun:"sightseeing,notnull" json:"sightseeing"`
	Image       string  `bun:"image,notnull" json:"image"`
	Price       float64 `bun:"price,notnull,default:1999" json:"price"`
}

// Booking is a public booking-form submission. Never mutated after
// creation; deleted by admins or when its trek is deleted.
type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	TrekID    int64     `bun:"trek_id,notnull" json:"trek_id"`
	TrekName  string    `bun:"trek_name,notnull" json:"trekName"`
	FullName  string    `bun:"full_name,notnull" json:"fullName"`
	Contact   string    `bun:"contact,notnull" json:"contact"`
	Email     string    `bun:"email,notnull" json:"email"`
	GroupSize int       `bun:"group_size,notnull,default:1" json:"groupSize"`
	Notes     *string   `bun:"notes" json:"notes"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
