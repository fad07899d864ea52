package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	contributiondomain "github.com/openjustice/contribution-engine/internal/contribution/domain"
	"github.com/openjustice/contribution-engine/pkg/repository"
	"gorm.io/gorm"
)

type store struct {
	db       *gorm.DB
	contribs repository.Repository[contributiondomain.Contribution]
}

func NewRepository(db *gorm.DB) contributiondomain.Repository {
	return &store{
		db:       db,
		contribs: repository.ProvideStore[contributiondomain.Contribution](db),
	}
}

func (s *store) FindActive(ctx context.Context, repID int64) (*contributiondomain.Contribution, error) {
	var c contributiondomain.Contribution
	err := s.db.WithContext(ctx).
		Where("rep_id = ? AND active = ? AND replaced_date IS NULL", repID, "Y").
		Order("id DESC").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *store) FindLatestSent(ctx context.Context, repID int64) (*contributiondomain.Contribution, error) {
	var c contributiondomain.Contribution
	err := s.db.WithContext(ctx).
		Where("rep_id = ? AND transfer_status = ?", repID, contributiondomain.TransferStatusSent).
		Order("id DESC").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *store) List(ctx context.Context, repID int64, latestOnly bool) ([]*contributiondomain.Contribution, error) {
	query := &contributiondomain.Contribution{RepID: repID}
	opts := []repository.QueryOption{repository.WithOrder("id DESC")}
	if latestOnly {
		query.Latest = true
		opts = append(opts, repository.WithLimit(1))
	}
	return s.contribs.Find(ctx, query, opts...)
}

func (s *store) HasSent(ctx context.Context, repID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&contributiondomain.Contribution{}).
		Where("rep_id = ? AND transfer_status = ?", repID, contributiondomain.TransferStatusSent).
		Count(&count).Error
	return count > 0, err
}

func (s *store) Create(ctx context.Context, c *contributiondomain.Contribution) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&contributiondomain.Contribution{}).
			Where("rep_id = ?", c.RepID).
			Update("latest", false).Error; err != nil {
			return err
		}
		c.Latest = true
		return tx.Create(c).Error
	})
}

// Replace inactivates the old record and inserts its successor in one
// transaction. Amounts on the old row are left untouched.
func (s *store) Replace(ctx context.Context, old *contributiondomain.Contribution, replacement *contributiondomain.Contribution) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		updates := map[string]any{
			"active":        "N",
			"replaced_date": now,
			"latest":        false,
			"updated_at":    now,
		}
		if old.TransferStatus == contributiondomain.TransferStatusRequested && old.ContributionFileID != nil {
			updates["transfer_status"] = contributiondomain.TransferStatusSent
		}
		if err := tx.Model(&contributiondomain.Contribution{}).
			Where("id = ?", old.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(&contributiondomain.Contribution{}).
			Where("rep_id = ?", replacement.RepID).
			Update("latest", false).Error; err != nil {
			return err
		}
		replacement.Latest = true
		return tx.Create(replacement).Error
	})
}

func (s *store) SetTransferStatus(ctx context.Context, id snowflake.ID, status contributiondomain.TransferStatus, userModified string) error {
	updates := map[string]any{
		"transfer_status": status,
		"updated_at":      time.Now().UTC(),
	}
	if userModified != "" {
		updates["user_modified"] = userModified
	}
	return s.db.WithContext(ctx).
		Model(&contributiondomain.Contribution{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// FindParameters picks the parameter row in force at the effective date.
func (s *store) FindParameters(ctx context.Context, effectiveDate time.Time) (*contributiondomain.CalcParameters, error) {
	var params contributiondomain.CalcParameters
	err := s.db.WithContext(ctx).
		Where("from_date <= ? AND (to_date IS NULL OR to_date >= ?)", effectiveDate, effectiveDate).
		Order("from_date DESC").
		First(&params).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &params, nil
}
