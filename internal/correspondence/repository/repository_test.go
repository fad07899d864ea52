package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/openjustice/contribution-engine/internal/correspondence/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strp(s string) *string { return &s }

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Rule{}))
	return db
}

func TestMatch_WildcardSemantics(t *testing.T) {
	db := setupDB(t)
	templateID := int64(204)
	require.NoError(t, db.Create(&domain.Rule{
		ID:           1,
		MeansResult:  "PASS",
		IOJResult:    domain.TokenAny,
		MagsOutcome:  domain.TokenAny,
		CCOutcome:    domain.TokenNone,
		InitResult:   domain.TokenAny,
		CalcContribs: "Y",
		TemplateID:   &templateID,
	}).Error)

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("NONE matches an absent value", func(t *testing.T) {
		rule, err := repo.Match(ctx, domain.Query{
			MeansResult: "PASS",
			IOJResult:   strp("PASS"),
			MagsOutcome: strp("COMMITTED_FOR_TRIAL"),
			InitResult:  strp("FULL"),
		})
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.True(t, rule.CalculatesContributions())
		assert.Equal(t, templateID, *rule.TemplateID)
	})

	t.Run("NONE rejects a present value", func(t *testing.T) {
		rule, err := repo.Match(ctx, domain.Query{
			MeansResult: "PASS",
			MagsOutcome: strp("COMMITTED_FOR_TRIAL"),
			CCOutcome:   strp("CONVICTED"),
		})
		require.NoError(t, err)
		assert.Nil(t, rule)
	})

	t.Run("means result is matched exactly", func(t *testing.T) {
		rule, err := repo.Match(ctx, domain.Query{MeansResult: "FAIL"})
		require.NoError(t, err)
		assert.Nil(t, rule)
	})
}

func TestMatch_ExactBeatsNothing(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&domain.Rule{
		ID:           2,
		MeansResult:  "INIT_FAIL",
		IOJResult:    domain.TokenAny,
		MagsOutcome:  "COMMITTED_FOR_TRIAL",
		CCOutcome:    domain.TokenAny,
		InitResult:   "FAIL",
		CalcContribs: "N",
	}).Error)

	repo := NewRepository(db)
	ctx := context.Background()

	rule, err := repo.Match(ctx, domain.Query{
		MeansResult: "INIT_FAIL",
		MagsOutcome: strp("COMMITTED_FOR_TRIAL"),
		CCOutcome:   strp("CONVICTED"),
		InitResult:  strp("FAIL"),
	})
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.False(t, rule.CalculatesContributions())

	rule, err = repo.Match(ctx, domain.Query{
		MeansResult: "INIT_FAIL",
		MagsOutcome: strp("RESOLVED_IN_MAGS"),
		InitResult:  strp("FAIL"),
	})
	require.NoError(t, err)
	assert.Nil(t, rule, "exact column must not match a different value")
}

func TestDecodeMatch(t *testing.T) {
	assert.True(t, domain.DecodeMatch(domain.TokenAny).Matches(nil))
	assert.True(t, domain.DecodeMatch(domain.TokenAny).Matches(strp("CONVICTED")))
	assert.True(t, domain.DecodeMatch(domain.TokenNone).Matches(nil))
	assert.True(t, domain.DecodeMatch(domain.TokenNone).Matches(strp("")))
	assert.False(t, domain.DecodeMatch(domain.TokenNone).Matches(strp("CONVICTED")))
	assert.True(t, domain.DecodeMatch("CONVICTED").Matches(strp("CONVICTED")))
	assert.False(t, domain.DecodeMatch("CONVICTED").Matches(strp("ACQUITTED")))
	assert.False(t, domain.DecodeMatch("CONVICTED").Matches(nil))
}
