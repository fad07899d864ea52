package domain

// The static variation table, expressed as data rather than control flow.
// Outcome columns left nil are literal "no outcome recorded yet" keys.
// Only appeal outcomes carry a variation: the solicitor-costs amount from
// the hardship review is added to disposable income.

type ruleRow struct {
	caseType    string
	magsOutcome string // "" means null
	ccOutcome   string // "" means null
	variation   string // "" means none
	operator    string
}

var defaultRows = []ruleRow{
	// Trials reaching the crown court: contributions apply, no variation.
	{caseType: CaseTypeIndictable},
	{caseType: CaseTypeIndictable, magsOutcome: MagsOutcomeCommittedForTrial},
	{caseType: CaseTypeIndictable, magsOutcome: MagsOutcomeCommittedForTrial, ccOutcome: CCOutcomeConvicted},
	{caseType: CaseTypeIndictable, magsOutcome: MagsOutcomeCommittedForTrial, ccOutcome: CCOutcomePartConvicted},
	{caseType: CaseTypeIndictable, magsOutcome: MagsOutcomeCommittedForTrial, ccOutcome: CCOutcomeAcquitted},
	{caseType: CaseTypeIndictable, magsOutcome: MagsOutcomeSentForTrial},
	{caseType: CaseTypeIndictable, magsOutcome: MagsOutcomeSentForTrial, ccOutcome: CCOutcomeConvicted},
	{caseType: CaseTypeIndictable, magsOutcome: MagsOutcomeSentForTrial, ccOutcome: CCOutcomePartConvicted},
	{caseType: CaseTypeIndictable, magsOutcome: MagsOutcomeSentForTrial, ccOutcome: CCOutcomeAcquitted},

	{caseType: CaseTypeEitherWay},
	{caseType: CaseTypeEitherWay, magsOutcome: MagsOutcomeCommittedForTrial},
	{caseType: CaseTypeEitherWay, magsOutcome: MagsOutcomeCommittedForTrial, ccOutcome: CCOutcomeConvicted},
	{caseType: CaseTypeEitherWay, magsOutcome: MagsOutcomeCommittedForTrial, ccOutcome: CCOutcomePartConvicted},
	{caseType: CaseTypeEitherWay, magsOutcome: MagsOutcomeCommittedForTrial, ccOutcome: CCOutcomeAcquitted},
	{caseType: CaseTypeEitherWay, magsOutcome: MagsOutcomeSentForTrial},
	{caseType: CaseTypeEitherWay, magsOutcome: MagsOutcomeSentForTrial, ccOutcome: CCOutcomeConvicted},
	{caseType: CaseTypeEitherWay, magsOutcome: MagsOutcomeSentForTrial, ccOutcome: CCOutcomePartConvicted},
	{caseType: CaseTypeEitherWay, magsOutcome: MagsOutcomeSentForTrial, ccOutcome: CCOutcomeAcquitted},
	{caseType: CaseTypeEitherWay, magsOutcome: MagsOutcomeResolvedInMags},

	{caseType: CaseTypeCCAlready},
	{caseType: CaseTypeCCAlready, ccOutcome: CCOutcomeConvicted},
	{caseType: CaseTypeCCAlready, ccOutcome: CCOutcomePartConvicted},
	{caseType: CaseTypeCCAlready, ccOutcome: CCOutcomeAcquitted},
	{caseType: CaseTypeCCAlready, ccOutcome: CCOutcomeDismissed},

	{caseType: CaseTypeCommittal, magsOutcome: MagsOutcomeCommitted},
	{caseType: CaseTypeCommittal, magsOutcome: MagsOutcomeCommitted, ccOutcome: CCOutcomeConvicted},
	{caseType: CaseTypeCommittal, magsOutcome: MagsOutcomeCommitted, ccOutcome: CCOutcomePartConvicted},
	{caseType: CaseTypeCommittal, magsOutcome: MagsOutcomeCommitted, ccOutcome: CCOutcomeAcquitted},

	// Appeals: solicitor costs from the hardship review are added to income.
	{caseType: CaseTypeAppealCC, magsOutcome: MagsOutcomeAppealToCC},
	{caseType: CaseTypeAppealCC, magsOutcome: MagsOutcomeAppealToCC, ccOutcome: CCOutcomeSuccessful,
		variation: VariationSolicitorCosts, operator: "+"},
	{caseType: CaseTypeAppealCC, magsOutcome: MagsOutcomeAppealToCC, ccOutcome: CCOutcomeUnsuccessful,
		variation: VariationSolicitorCosts, operator: "+"},
	{caseType: CaseTypeAppealCC, magsOutcome: MagsOutcomeAppealToCC, ccOutcome: CCOutcomePartSuccess,
		variation: VariationSolicitorCosts, operator: "+"},
	{caseType: CaseTypeAppealCC, magsOutcome: MagsOutcomeAppealToCC, ccOutcome: CCOutcomeAbandoned},
}

// Defaults materializes the static table for seeding. IDs are assigned by
// the seeder.
func Defaults() []Rule {
	rules := make([]Rule, 0, len(defaultRows))
	for _, row := range defaultRows {
		rule := Rule{CaseType: row.caseType}
		if row.magsOutcome != "" {
			v := row.magsOutcome
			rule.MagsOutcome = &v
		}
		if row.ccOutcome != "" {
			v := row.ccOutcome
			rule.CCOutcome = &v
		}
		if row.variation != "" {
			code, op := row.variation, row.operator
			rule.VariationCode = &code
			rule.VariationOperator = &op
		}
		rules = append(rules, rule)
	}
	return rules
}
