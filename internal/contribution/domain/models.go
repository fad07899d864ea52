// Package domain contains the contribution record, its transfer lifecycle,
// the calculation request/result types and the collaborator contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a contribution on its way to
// billing. NONE -> REQUESTED -> SENT in the normal flow; MANUAL is a
// terminal override outside it.
type TransferStatus string

const (
	TransferStatusNone      TransferStatus = "NONE"
	TransferStatusRequested TransferStatus = "REQUESTED"
	TransferStatusSent      TransferStatus = "SENT"
	TransferStatusManual    TransferStatus = "MANUAL"
)

// Contribution is the persisted contribution order. Superseding never
// updates amounts in place: the old row is marked inactive with a replaced
// date and a fresh row is inserted. Only transfer-status transitions touch
// an existing row.
type Contribution struct {
	ID                   snowflake.ID `gorm:"primaryKey"`
	RepID                int64        `gorm:"not null;index"`
	ApplicantID          int64        `gorm:"not null"`
	ContributionFileID   *int64
	EffectiveDate        time.Time       `gorm:"not null"`
	CalcDate             time.Time       `gorm:"not null"`
	ContributionCap      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	MonthlyContributions decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	UpfrontContributions decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	UpliftApplied        string          `gorm:"type:char(1);not null;default:N"`
	BasedOn              *string         `gorm:"type:text"`
	TransferStatus       TransferStatus  `gorm:"type:text;not null;default:NONE"`
	DateUpliftApplied    *time.Time
	DateUpliftRemoved    *time.Time
	Active               string `gorm:"type:char(1);not null;default:Y"`
	ReplacedDate         *time.Time
	Latest               bool `gorm:"not null;default:true"`
	CCOutcomeCount       int  `gorm:"column:cc_outcome_count;not null;default:0"`
	CorrespondenceID     *int64
	UserCreated          string `gorm:"type:text;not null"`
	UserModified         *string
	CreatedAt            time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Contribution) TableName() string { return "contributions" }

// IsActive reports whether this row is the live, unreplaced record.
func (c Contribution) IsActive() bool {
	return c.Active == "Y" && c.ReplacedDate == nil
}

// CalcParameters are the effective-dated rate constants the amount
// calculation runs on.
type CalcParameters struct {
	ID                       snowflake.ID    `gorm:"primaryKey"`
	FromDate                 time.Time       `gorm:"not null;index"`
	ToDate                   *time.Time      `gorm:"index"`
	DisposableIncomePercent  decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	UpliftedIncomePercent    decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	MinimumMonthlyAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	MinUpliftedMonthlyAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	UpfrontTotalMonths       int             `gorm:"not null"`
	TotalMonths              int             `gorm:"not null"`
	CreatedAt                time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (CalcParameters) TableName() string { return "contribution_calc_parameters" }

// Result is a freshly computed contribution. Immutable once produced; the
// recalculation decision only compares it against the stored record.
type Result struct {
	TotalAnnualDisposableIncome decimal.Decimal
	MonthlyContributions        decimal.Decimal
	UpfrontContributions        decimal.Decimal
	ContributionCap             *decimal.Decimal
	TotalMonths                 int
	Uplift                      bool
	BasedOn                     string
	EffectiveDate               *time.Time
}
