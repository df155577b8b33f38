package services

import (
	"context"
	"time"

	"ronins-bknd/internal/models"
	"ronins-bknd/internal/utils"

	"github.com/uptrace/bun"
)

// MaxFeedbackWords caps a feedback submission. The client truncates too,
// but the server check is authoritative.
const MaxFeedbackWords = 100

// FeedbackService handles visitor feedback.
type FeedbackService struct {
	db *bun.DB
}

func NewFeedbackService(db *bun.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// CreateFeedback sanitizes and stores one feedback entry. The word limit
// is checked after sanitization, matching what gets stored.
func (s *FeedbackService) CreateFeedback(ctx context.Context, text string) error {
	sanitized := utils.SanitizeHTML(text)
	if utils.CountWords(sanitized) > MaxFeedbackWords {
		return &ValidationError{Details: []string{"Feedback must be 100 words or less"}}
	}

	entry := &models.Feedback{
		Feedback:  sanitized,
		CreatedAt: time.Now(),
	}
	_, err := s.db.NewInsert().Model(entry).Exec(ctx)
	return err
}

// ListFeedback returns all feedback entries, latest first.
func (s *FeedbackService) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	var entries []models.Feedback
	err := s.db.NewSelect().
		Model(&entries).
		Order("created_at DESC").
		Order("id DESC").
		Scan(ctx)
	return entries, err
}
