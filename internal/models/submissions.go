package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Feedback is an append-only visitor submission, capped at 100 words.
type Feedback struct {
	bun.BaseModel `bun:"table:feedback,alias:fbk"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Feedback  string    `bun:"feedback,notnull" json:"feedback"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// BusinessQuery is a contact-form submission from prospective
// corporate/group clients, distinct from a booking.
type BusinessQuery struct {
	bun.BaseModel `bun:"table:business_queries,alias:bq"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull" json:"email"`
	Phone     string    `bun:"phone,notnull" json:"phone"`
	Message   string    `bun:"message,notnull" json:"message"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// TeamMember is one entry of the "week heroes" strip on the landing page.
type TeamMember struct {
	bun.BaseModel `bun:"table:team_members,alias:tm"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	Name         string `bun:"name,notnull" json:"name"`
	Role         string `bun:"role,notnull" json:"role"`
	ImageURL     string `bun:"image_url,notnull" json:"image_url"`
	InstagramURL string `bun:"instagram_url,notnull" json:"instagram_url"`
	DisplayOrder int    `bun:"display_order,notnull,default:0" json:"display_order"`
}
