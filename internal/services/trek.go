package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"ronins-bknd/internal/models"

	"github.com/uptrace/bun"
)

// TrekService handles trek CRUD and the transactional delete.
type TrekService struct {
	db *bun.DB
}

func NewTrekService(db *bun.DB) *TrekService {
	return &TrekService{db: db}
}

// CreateTrekRequest is the admin trek creation payload.
type CreateTrekRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	TrekLength  float64  `json:"trek_length"`
	Difficulty  string   `json:"difficulty"`
	MaxAltitude float64  `json:"max_altitude"`
	BaseVillage string   `json:"base_village"`
	Transport   string   `json:"transport"`
	Meals       string   `json:"meals"`
	Sightseeing string   `json:"sightseeing"`
	Image       string   `json:"image"`
	Price       *float64 `json:"price"`
}

// stripDangerous removes characters that could smuggle markup into the
// rendered trek cards.
func stripDangerous(s string) string {
	return strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "&", "").Replace(s)
}

func validateTextField(errs *[]string, out *string, value, label string, min, max int) {
	v := strings.TrimSpace(value)
	if len(v) < min || len(v) > max {
		*errs = append(*errs, fmt.Sprintf("%s must be between %d and %d characters", label, min, max))
		return
	}
	*out = stripDangerous(v)
}

// Validate checks every field independently and returns the itemized
// error list together with the sanitized trek.
func (r *CreateTrekRequest) Validate() (*models.Trek, *ValidationError) {
	var errs []string
	trek := &models.Trek{}

	validateTextField(&errs, &trek.Name, r.Name, "Trek name", 3, 100)
	validateTextField(&errs, &trek.Description, r.Description, "Description", 10, 2000)
	validateTextField(&errs, &trek.Duration, r.Duration, "Duration", 1, 50)
	validateTextField(&errs, &trek.BaseVillage, r.BaseVillage, "Base village", 2, 100)
	validateTextField(&errs, &trek.Transport, r.Transport, "Transport", 2, 200)
	validateTextField(&errs, &trek.Meals, r.Meals, "Meals information", 2, 200)
	validateTextField(&errs, &trek.Sightseeing, r.Sightseeing, "Sightseeing information", 2, 200)

	if r.TrekLength <= 0 || r.TrekLength > 1000 {
		errs = append(errs, "Trek length must be between 0.1 and 1000 km")
	} else {
		trek.TrekLength = r.TrekLength
	}

	difficulty := strings.TrimSpace(r.Difficulty)
	valid := false
	for _, d := range models.ValidDifficulties {
		if difficulty == d {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, "Difficulty must be Easy, Moderate, or Challenging")
	} else {
		trek.Difficulty = difficulty
	}

	if r.MaxAltitude <= 0 || r.MaxAltitude > 30000 {
		errs = append(errs, "Max altitude must be between 1 and 30000 ft")
	} else {
		trek.MaxAltitude = r.MaxAltitude
	}

	image := strings.TrimSpace(r.Image)
	if u, err := url.Parse(image); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, "Image URL must use HTTP or HTTPS protocol")
	} else {
		trek.Image = image
	}

	if r.Price == nil {
		trek.Price = 1999 // default price
	} else if *r.Price < 0 || *r.Price > 100000 {
		errs = append(errs, "Price must be between 0 and 100000")
	} else {
		trek.Price = *r.Price
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Details: errs}
	}
	return trek, nil
}

// ListTreks returns all treks ordered by id.
func (s *TrekService) ListTreks(ctx context.Context) ([]models.Trek, error) {
	var treks []models.Trek
	err := s.db.NewSelect().
		Model(&treks).
		Order("id ASC").
		Scan(ctx)
	return treks, err
}

// GetTrek fetches one trek by id.
func (s *TrekService) GetTrek(ctx context.Context, id int64) (*models.Trek, error) {
	trek := new(models.Trek)
	err := s.db.NewSelect().
		Model(trek).
		Where("t.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return trek, nil
}

// CreateTrek validates, sanitizes and inserts a new trek. Duplicate names
// are reported as ErrDuplicateTrekName.
func (s *TrekService) CreateTrek(ctx context.Context, req CreateTrekRequest) (*models.Trek, error) {
	trek, verr := req.Validate()
	if verr != nil {
		return nil, verr
	}

	exists, err := s.db.NewSelect().
		Model((*models.Trek)(nil)).
		Where("name = ?", trek.Name).
		Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateTrekName
	}

	if _, err := s.db.NewInsert().Model(trek).Exec(ctx); err != nil {
		return nil, err
	}
	return trek, nil
}

// UpdatePrice sets a trek's price.
func (s *TrekService) UpdatePrice(ctx context.Context, id int64, price float64) error {
	res, err := s.db.NewUpdate().
		Model((*models.Trek)(nil)).
		Set("price = ?", price).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// UpdateImage sets a trek's image URL.
func (s *TrekService) UpdateImage(ctx context.Context, id int64, image string) error {
	res, err := s.db.NewUpdate().
		Model((*models.Trek)(nil)).
		Set("image = ?", image).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// DeleteTrek removes the trek and all bookings referencing it in a single
// transaction, so a failure between the two deletes leaves both intact.
func (s *TrekService) DeleteTrek(ctx context.Context, id int64) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Booking)(nil)).
			Where("trek_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*models.Trek)(nil)).
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
