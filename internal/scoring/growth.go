package scoring

// SurveyGrowth identifies the five-pillar growth readiness assessment
// (20 points each, 100 total) with letter grades and risk/strength flags.
const SurveyGrowth = "growth-readiness"

// Flag tags emitted by the growth survey.
const (
	TagNegativeCashFlow        = "negative_cash_flow"
	TagCustomerChurnRisk       = "customer_churn_risk"
	TagNoDataProtection        = "no_data_protection"
	TagNoFinancialPlanning     = "no_financial_planning"
	TagSinglePointDependency   = "single_point_dependency"
	TagStrongFinancialPosition = "strong_financial_position"
	TagLoyalCustomerBase       = "loyal_customer_base"
	TagDigitalBrandLeverage    = "digital_brand_leverage"
	TagScalableTeam            = "scalable_team"
)

// GrowthReadiness is the flag-bearing assessment variant: a tighter question
// set regrouped into five pillars, normalized to 20 points each.
func GrowthReadiness() *Survey {
	return &Survey{
		ID:          SurveyGrowth,
		Name:        "Growth Readiness Assessment",
		TargetScale: 20,
		Categories: []Category{
			{
				ID:   "financial_health",
				Name: "Financial Health",
				Questions: []Question{
					{ID: "revenue_trend", Weight: 1.5, Points: PointsMap{
						"Declining": 1, "Flat": 2, "Growing slowly (<10%)": 3, "Growing moderately (10-25%)": 4, "Growing rapidly (>25%)": 5,
					}},
					{ID: "profit_margin", Weight: 1.0, Points: PointsMap{
						"N/A": 0, "Breaking even/Loss": 1, "1-10%": 2, "10-20%": 3, "20-30%": 4, "30%+": 5,
					}},
					{ID: "cash_flow", Weight: 1.2, Points: PointsMap{
						"Negative (spending savings)": 1, "Break-even": 2, "Positive but tight": 3, "Healthy buffer": 4, "Strong reserves": 5,
					}},
					{ID: "financial_planning", Weight: 1.3, Points: PointsMap{
						"No formal planning": 1, "Basic budgeting": 2, "Monthly financial reviews": 4, "Detailed forecasting": 5,
					}},
				},
			},
			{
				ID:   "growth_marketing",
				Name: "Growth & Marketing",
				Questions: []Question{
					{ID: "customer_acquisition", Weight: 1.0, Points: PointsMap{
						"Word of mouth only": 1, "Some marketing efforts": 2, "Consistent marketing": 4, "Multi-channel strategy": 5,
					}},
					{ID: "customer_retention", Weight: 1.3, Points: PointsMap{
						"Don't track": 0, "High turnover": 1, "Average retention": 3, "Strong retention": 4, "Excellent loyalty": 5,
					}},
					{ID: "repeat_business", Weight: 1.2, Points: PointsMap{
						"Rarely": 1, "Occasionally": 2, "Frequently": 4, "Majority of revenue": 5,
					}},
					{ID: "online_presence", Weight: 1.1, Points: PointsMap{
						"No website/social": 1, "Basic website": 2, "Active online presence": 4, "Strong digital brand": 5,
					}},
				},
			},
			{
				ID:   "operations",
				Name: "Operational Efficiency",
				Questions: []Question{
					{ID: "record_keeping", Weight: 1.3, Points: PointsMap{
						"Paper/scattered files": 1, "Basic digital files": 2, "Accounting software": 4, "Integrated business software": 5,
					}},
					{ID: "scheduling_systems", Weight: 1.0, Points: PointsMap{
						"Paper calendar": 1, "Basic digital calendar": 2, "Scheduling software": 4, "Integrated workflow": 5,
					}},
					{ID: "quality_control", Weight: 1.2, Points: PointsMap{
						"No formal process": 1, "Basic checks": 2, "Standard procedures": 4, "Systematic quality management": 5,
					}},
					{ID: "inventory_management", Weight: 1.0, Points: PointsMap{
						"N/A": 3, "Manual tracking": 1, "Basic systems": 3, "Automated systems": 5,
					}},
				},
			},
			{
				ID:   "team",
				Name: "Team & Leadership",
				Questions: []Question{
					{ID: "team_size", Weight: 1.0, Points: PointsMap{
						"Solo operation": 2, "2-5 people": 3, "6-15 people": 4, "16-50 people": 5, "50+ people": 6,
					}},
					{ID: "delegation", Weight: 1.4, Points: PointsMap{
						"Do everything myself": 1, "Delegate basic tasks": 2, "Delegate important work": 4, "Team runs independently": 5,
					}},
					{ID: "employee_training", Weight: 1.1, Points: PointsMap{
						"N/A": 0, "On-the-job learning": 2, "Basic training": 3, "Formal programs": 5,
					}},
					{ID: "performance_tracking", Weight: 1.0, Points: PointsMap{
						"No tracking": 1, "Informal feedback": 2, "Regular check-ins": 4, "Formal performance reviews": 5,
					}},
				},
				Solo: &SoloRule{
					TriggerQuestion: "team_size",
					Sentinel:        "Solo operation",
					ProxyQuestion:   "delegation",
					ProxyCeiling:    5,
					BaseCredit:      3.0,
				},
			},
			{
				ID:   "digital_strategic",
				Name: "Digital & Strategic Position",
				Questions: []Question{
					{ID: "data_backup", Weight: 1.2, Points: PointsMap{
						"No system": 1, "Manual backups": 2, "Cloud storage": 4, "Automated backup systems": 5,
					}},
					{ID: "website_functionality", Weight: 1.3, Points: PointsMap{
						"No website": 1, "Basic info site": 2, "Interactive features": 4, "E-commerce/booking enabled": 5,
					}},
					{ID: "market_knowledge", Weight: 1.1, Points: PointsMap{
						"Limited knowledge": 1, "Basic awareness": 2, "Good understanding": 4, "Deep market insights": 5,
					}},
					{ID: "growth_planning", Weight: 1.4, Points: PointsMap{
						"No plans": 1, "Vague goals": 2, "Basic plan": 4, "Detailed strategy": 5,
					}},
				},
			},
		},
		Bands: []Band{
			{Min: 85, Label: "Scale-Ready"},
			{Min: 70, Label: "Growth-Ready"},
			{Min: 50, Label: "Developing"},
			{Min: 0, Label: "Foundational"},
		},
		Grades: []GradeBand{
			{MinPercent: 85, Grade: "A"},
			{MinPercent: 70, Grade: "B"},
			{MinPercent: 55, Grade: "C"},
			{MinPercent: 40, Grade: "D"},
			{MinPercent: 0, Grade: "F"},
		},
		Flags: []FlagRule{
			{Tag: TagNegativeCashFlow, Kind: FlagCritical, Question: "cash_flow", AnyOf: []string{"Negative (spending savings)"}},
			{Tag: TagCustomerChurnRisk, Kind: FlagCritical, Question: "customer_retention", AnyOf: []string{"Don't track", "High turnover"}},
			{Tag: TagNoDataProtection, Kind: FlagCritical, Question: "data_backup", AnyOf: []string{"No system"}},
			{Tag: TagNoFinancialPlanning, Kind: FlagCritical, Question: "financial_planning", AnyOf: []string{"No formal planning"}},
			{Tag: TagSinglePointDependency, Kind: FlagCritical, Question: "delegation", AnyOf: []string{"Do everything myself"}},
			{Tag: TagStrongFinancialPosition, Kind: FlagOpportunity, Category: "financial_health", MinScore: 16},
			{Tag: TagLoyalCustomerBase, Kind: FlagOpportunity, Question: "repeat_business", AnyOf: []string{"Majority of revenue"}},
			{Tag: TagDigitalBrandLeverage, Kind: FlagOpportunity, Question: "online_presence", AnyOf: []string{"Strong digital brand"}},
			{Tag: TagScalableTeam, Kind: FlagOpportunity, Question: "delegation", AnyOf: []string{"Team runs independently"}},
		},
		Context: []string{
			"business_type", "business_age", "primary_challenge", "main_goal", "location_importance",
		},
	}
}
