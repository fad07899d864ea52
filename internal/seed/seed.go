// Package seed loads the static rule tables on startup when they are empty.
package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/openjustice/contribution-engine/internal/config"
	contributiondomain "github.com/openjustice/contribution-engine/internal/contribution/domain"
	contributionruledomain "github.com/openjustice/contribution-engine/internal/contributionrule/domain"
	correspondencedomain "github.com/openjustice/contribution-engine/internal/correspondence/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureStaticTables seeds the variation table, the correspondence rules
// and a default parameter window. Existing rows are left alone.
func EnsureStaticTables(db *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := ensureContributionRules(tx, node); err != nil {
			return err
		}
		if err := ensureCorrespondenceRules(tx, node); err != nil {
			return err
		}
		if err := ensureCalcParameters(tx, node); err != nil {
			return err
		}
		log.Info("static rule tables ready")
		return nil
	})
}

func ensureContributionRules(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&contributionruledomain.Rule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rules := contributionruledomain.Defaults()
	for i := range rules {
		rules[i].ID = node.Generate()
	}
	return tx.Create(&rules).Error
}

type correspondenceRow struct {
	means, ioj, mags, cc, init string
	calcContribs               string
	template                   int64
	upliftTemplate             int64
	reassessmentTemplate       int64
}

// The correspondence matrix. ANY and NONE follow the wildcard semantics of
// the matcher; template ids refer to the notice catalogue owned by the
// correspondence service.
var correspondenceRows = []correspondenceRow{
	{means: "PASSPORT", ioj: "ANY", mags: "ANY", cc: "NONE", init: "ANY", calcContribs: "N", template: 101},
	{means: "PASSPORT", ioj: "ANY", mags: "ANY", cc: "CONVICTED", init: "ANY", calcContribs: "Y", template: 102, upliftTemplate: 112},
	{means: "FAILPORT", ioj: "ANY", mags: "ANY", cc: "ANY", init: "ANY", calcContribs: "Y", template: 103, upliftTemplate: 113, reassessmentTemplate: 123},
	{means: "PASS", ioj: "ANY", mags: "ANY", cc: "NONE", init: "ANY", calcContribs: "Y", template: 104, reassessmentTemplate: 124},
	{means: "PASS", ioj: "ANY", mags: "ANY", cc: "CONVICTED", init: "ANY", calcContribs: "Y", template: 105, upliftTemplate: 115},
	{means: "PASS", ioj: "ANY", mags: "ANY", cc: "PART_CONVICTED", init: "ANY", calcContribs: "Y", template: 105, upliftTemplate: 115},
	{means: "PASS", ioj: "ANY", mags: "ANY", cc: "ACQUITTED", init: "ANY", calcContribs: "N", template: 106},
	{means: "FAIL", ioj: "ANY", mags: "ANY", cc: "ANY", init: "ANY", calcContribs: "Y", template: 107, upliftTemplate: 117, reassessmentTemplate: 127},
	{means: "INEL", ioj: "ANY", mags: "ANY", cc: "ANY", init: "ANY", calcContribs: "Y", upliftTemplate: 118},
	{means: "INIT_PASS", ioj: "PASS", mags: "COMMITTED_FOR_TRIAL", cc: "NONE", init: "PASS", calcContribs: "Y", template: 108},
	{means: "INIT_PASS", ioj: "PASS", mags: "SENT_FOR_TRIAL", cc: "NONE", init: "PASS", calcContribs: "Y", template: 108},
	{means: "INIT_PASS", ioj: "ANY", mags: "APPEAL_TO_CC", cc: "ANY", init: "PASS", calcContribs: "Y", template: 109},
	{means: "INIT_FAIL", ioj: "ANY", mags: "ANY", cc: "ANY", init: "FAIL", calcContribs: "N", template: 110},
	{means: "NONE", ioj: "ANY", mags: "ANY", cc: "NONE", init: "NONE", calcContribs: "N"},
}

func ensureCorrespondenceRules(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&correspondencedomain.Rule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rules := make([]correspondencedomain.Rule, 0, len(correspondenceRows))
	for _, row := range correspondenceRows {
		rule := correspondencedomain.Rule{
			ID:           node.Generate(),
			MeansResult:  row.means,
			IOJResult:    row.ioj,
			MagsOutcome:  row.mags,
			CCOutcome:    row.cc,
			InitResult:   row.init,
			CalcContribs: row.calcContribs,
		}
		if row.template != 0 {
			v := row.template
			rule.TemplateID = &v
		}
		if row.upliftTemplate != 0 {
			v := row.upliftTemplate
			rule.UpliftTemplateID = &v
		}
		if row.reassessmentTemplate != 0 {
			v := row.reassessmentTemplate
			rule.ReassessmentTemplateID = &v
		}
		rules = append(rules, rule)
	}
	return tx.Create(&rules).Error
}

func ensureCalcParameters(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&contributiondomain.CalcParameters{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return tx.Create(&contributiondomain.CalcParameters{
		ID:                       node.Generate(),
		FromDate:                 time.Date(2015, 4, 1, 0, 0, 0, 0, time.UTC),
		DisposableIncomePercent:  decimal.NewFromInt(10),
		UpliftedIncomePercent:    decimal.NewFromInt(25),
		MinimumMonthlyAmount:     decimal.NewFromInt(80),
		MinUpliftedMonthlyAmount: decimal.NewFromInt(100),
		UpfrontTotalMonths:       6,
		TotalMonths:              60,
	}).Error
}

func runOnStartup(cfg config.Config, db *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	if !cfg.SeedStaticTables {
		return nil
	}
	return EnsureStaticTables(db, node, log.Named("seed"))
}

// Module seeds static data after migrations.
var Module = fx.Module("seed",
	fx.Invoke(runOnStartup),
)
