package services

import (
	"context"
	"net/url"
	"strings"

	"ronins-bknd/internal/models"
	"ronins-bknd/internal/utils"

	"github.com/uptrace/bun"
)

// TeamService manages the "week heroes" strip on the landing page.
type TeamService struct {
	db *bun.DB
}

func NewTeamService(db *bun.DB) *TeamService {
	return &TeamService{db: db}
}

// UpdateTeamMemberRequest is the admin payload for one member slot.
type UpdateTeamMemberRequest struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	ImageURL     string `json:"image_url"`
	InstagramURL string `json:"instagram_url"`
}

// Validate checks presence and URL shape of every field.
func (r *UpdateTeamMemberRequest) Validate() *ValidationError {
	var errs []string
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Role) == "" ||
		strings.TrimSpace(r.ImageURL) == "" || strings.TrimSpace(r.InstagramURL) == "" {
		errs = append(errs, "All fields are required: name, role, image_url, instagram_url")
	}
	for _, raw := range []string{r.ImageURL, r.InstagramURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, "Invalid URL format")
			break
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Details: errs}
	}
	return nil
}

// ListMembers returns all team members in display order.
func (s *TeamService) ListMembers(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := s.db.NewSelect().
		Model(&members).
		Order("display_order ASC").
		Order("id ASC").
		Scan(ctx)
	return members, err
}

// UpdateMember replaces one member's fields; name and role are sanitized.
func (s *TeamService) UpdateMember(ctx context.Context, id int64, req UpdateTeamMemberRequest) error {
	if verr := req.Validate(); verr != nil {
		return verr
	}

	res, err := s.db.NewUpdate().
		Model((*models.TeamMember)(nil)).
		Set("name = ?", utils.SanitizeHTML(strings.TrimSpace(req.Name))).
		Set("role = ?", utils.SanitizeHTML(strings.TrimSpace(req.Role))).
		Set("image_url = ?", req.ImageURL).
		Set("instagram_url = ?", req.InstagramURL).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res)
}
