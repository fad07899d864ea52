package migration

import (
	contributiondomain "github.com/openjustice/contribution-engine/internal/contribution/domain"
	contributionruledomain "github.com/openjustice/contribution-engine/internal/contributionrule/domain"
	correspondencedomain "github.com/openjustice/contribution-engine/internal/correspondence/domain"
	"gorm.io/gorm"
)

// autoMigrate covers the non-postgres dialects used for local development
// and tests, where the embedded SQL migrations do not apply.
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&contributiondomain.Contribution{},
		&contributiondomain.CalcParameters{},
		&contributionruledomain.Rule{},
		&correspondencedomain.Rule{},
	)
}
