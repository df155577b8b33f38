package services

import (
	"context"
	"strings"
	"time"

	"ronins-bknd/internal/models"
	"ronins-bknd/internal/utils"

	"github.com/uptrace/bun"
)

// BookingService handles booking creation and the admin list/delete.
type BookingService struct {
	db *bun.DB
}

func NewBookingService(db *bun.DB) *BookingService {
	return &BookingService{db: db}
}

// CreateBookingRequest is the public booking-form payload.
type CreateBookingRequest struct {
	TrekID    int64  `json:"trek_id"`
	TrekName  string `json:"trekName"`
	FullName  string `json:"fullName"`
	Contact   string `json:"contact"`
	Email     string `json:"email"`
	GroupSize int    `json:"groupSize"`
	Notes     string `json:"notes"`
}

// CreateBooking verifies the trek exists and inserts the booking with
// sanitized free-text fields. Returns ErrNotFound for an unknown trek.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	exists, err := s.db.NewSelect().
		Model((*models.Trek)(nil)).
		Where("id = ?", req.TrekID).
		Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	groupSize := req.GroupSize
	if groupSize <= 0 {
		groupSize = 1
	}

	var notes *string
	if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
		sanitized := utils.SanitizeHTML(trimmed)
		notes = &sanitized
	}

	booking := &models.Booking{
		TrekID:    req.TrekID,
		TrekName:  utils.SanitizeHTML(strings.TrimSpace(req.TrekName)),
		FullName:  utils.SanitizeHTML(strings.TrimSpace(req.FullName)),
		Contact:   req.Contact,
		Email:     req.Email,
		GroupSize: groupSize,
		Notes:     notes,
		CreatedAt: time.Now(),
	}

	if _, err := s.db.NewInsert().Model(booking).Exec(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

// ListBookings returns all bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.NewSelect().
		Model(&bookings).
		Order("id DESC").
		Scan(ctx)
	return bookings, err
}

// DeleteBooking removes one booking by id.
func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*models.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res)
}
