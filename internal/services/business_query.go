package services

import (
	"context"
	"strings"
	"time"

	"ronins-bknd/internal/models"
	"ronins-bknd/internal/utils"

	"github.com/uptrace/bun"
)

// BusinessQueryService stores contact-form submissions.
type BusinessQueryService struct {
	db *bun.DB
}

func NewBusinessQueryService(db *bun.DB) *BusinessQueryService {
	return &BusinessQueryService{db: db}
}

// CreateQuery inserts one business query. Name and message are sanitized;
// email and phone were already format-checked at the boundary.
func (s *BusinessQueryService) CreateQuery(ctx context.Context, name, email, phone, message string) (*models.BusinessQuery, error) {
	query := &models.BusinessQuery{
		Name:      utils.SanitizeHTML(strings.TrimSpace(name)),
		Email:     email,
		Phone:     phone,
		Message:   utils.SanitizeHTML(strings.TrimSpace(message)),
		CreatedAt: time.Now(),
	}
	if _, err := s.db.NewInsert().Model(query).Exec(ctx); err != nil {
		return nil, err
	}
	return query, nil
}

// ListQueries returns all business queries, newest first.
func (s *BusinessQueryService) ListQueries(ctx context.Context) ([]models.BusinessQuery, error) {
	var queries []models.BusinessQuery
	err := s.db.NewSelect().
		Model(&queries).
		Order("id DESC").
		Scan(ctx)
	return queries, err
}
