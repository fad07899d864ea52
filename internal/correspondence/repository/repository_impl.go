package repository

import (
	"context"

	"github.com/openjustice/contribution-engine/internal/correspondence/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// Match narrows candidates on the means-result column, then evaluates the
// wildcard semantics in one place rather than in dialect-specific SQL. The
// table's uniqueness constraint guarantees at most one row survives.
func (r *repository) Match(ctx context.Context, q domain.Query) (*domain.Rule, error) {
	var candidates []domain.Rule
	err := r.db.WithContext(ctx).
		Where("means_result IN (?, ?)", q.MeansResult, domain.TokenAny).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		if domain.RuleMatches(candidates[i], q) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}
