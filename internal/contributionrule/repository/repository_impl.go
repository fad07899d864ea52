package repository

import (
	"context"
	"errors"

	"github.com/openjustice/contribution-engine/internal/contributionrule/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// FindByKey treats nil outcome columns as literal keys, not wildcards: a
// request without a crown court outcome only matches a row where the
// cc_outcome column is null.
func (r *repository) FindByKey(ctx context.Context, caseType string, magsOutcome, ccOutcome *string) (*domain.Rule, error) {
	stmt := r.db.WithContext(ctx).Where("case_type = ?", caseType)

	if magsOutcome != nil {
		stmt = stmt.Where("mags_outcome = ?", *magsOutcome)
	} else {
		stmt = stmt.Where("mags_outcome IS NULL")
	}
	if ccOutcome != nil {
		stmt = stmt.Where("cc_outcome = ?", *ccOutcome)
	} else {
		stmt = stmt.Where("cc_outcome IS NULL")
	}

	var rule domain.Rule
	if err := stmt.First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}
