package scoring

// SurveyUniversal identifies the six-pillar assessment (25 points each,
// 150 total).
const SurveyUniversal = "universal"

// Universal is the six-pillar business assessment configuration. Points maps
// and weights are the production scoring tables; changing them changes every
// historical score comparison, so treat edits as breaking.
func Universal() *Survey {
	return &Survey{
		ID:          SurveyUniversal,
		Name:        "Universal Business Assessment",
		TargetScale: 25,
		Categories: []Category{
			{
				ID:   "financial",
				Name: "Financial Health",
				Questions: []Question{
					{ID: "revenue", Weight: 1.0, Points: PointsMap{
						"Under $10K": 1, "$10K–$50K": 2, "$50K–$250K": 3, "$250K–$1M": 4, "$1M–$5M": 5, "Over $5M": 6,
					}},
					{ID: "revenue_trend", Weight: 1.5, Points: PointsMap{
						"Declining": 1, "Flat": 2, "Growing slowly (<10%)": 3, "Growing moderately (10-25%)": 4, "Growing rapidly (>25%)": 5,
					}},
					{ID: "profit_margin_known", Weight: 1.0, Points: PointsMap{
						"No idea": 0, "Roughly know it": 1, "Yes, I track it closely": 2,
					}},
					{ID: "profit_margin", Weight: 1.0, Points: PointsMap{
						"N/A": 0, "Breaking even/Loss": 1, "1-10%": 2, "10-20%": 3, "20-30%": 4, "30%+": 5,
					}},
					{ID: "cash_flow", Weight: 1.0, Points: PointsMap{
						"Negative (spending savings)": 1, "Break-even": 2, "Positive but tight": 3, "Healthy buffer": 4, "Strong reserves": 5,
					}},
					{ID: "financial_planning", Weight: 1.2, Points: PointsMap{
						"No formal planning": 1, "Basic budgeting": 2, "Monthly financial reviews": 4, "Detailed forecasting": 5,
					}},
				},
			},
			{
				ID:   "growth",
				Name: "Growth & Marketing",
				Questions: []Question{
					{ID: "customer_acquisition", Weight: 1.0, Points: PointsMap{
						"Word of mouth only": 1, "Some marketing efforts": 2, "Consistent marketing": 4, "Multi-channel strategy": 5,
					}},
					{ID: "customer_cost_awareness", Weight: 1.0, Points: PointsMap{
						"No idea": 0, "Rough estimate": 2, "Track precisely": 4,
					}},
					{ID: "customer_retention", Weight: 1.3, Points: PointsMap{
						"Don't track": 0, "High turnover": 1, "Average retention": 3, "Strong retention": 4, "Excellent loyalty": 5,
					}},
					{ID: "repeat_business", Weight: 1.2, Points: PointsMap{
						"Rarely": 1, "Occasionally": 2, "Frequently": 4, "Majority of revenue": 5,
					}},
					{ID: "marketing_budget", Weight: 1.0, Points: PointsMap{
						"No budget": 1, "Under 5% of revenue": 2, "5-10% of revenue": 4, "Over 10% of revenue": 5,
					}},
					{ID: "online_presence", Weight: 1.1, Points: PointsMap{
						"No website/social": 1, "Basic website": 2, "Active online presence": 4, "Strong digital brand": 5,
					}},
					{ID: "customer_feedback", Weight: 1.0, Points: PointsMap{
						"Don't collect": 1, "Informal feedback": 2, "Surveys/reviews": 4, "Systematic feedback loops": 5,
					}},
				},
			},
			{
				ID:   "operations",
				Name: "Operations & Systems",
				Questions: []Question{
					{ID: "record_keeping", Weight: 1.3, Points: PointsMap{
						"Paper/scattered files": 1, "Basic digital files": 2, "Accounting software": 4, "Integrated business software": 5,
					}},
					{ID: "inventory_management", Weight: 1.0, Points: PointsMap{
						"N/A": 3, "Manual tracking": 1, "Basic systems": 3, "Automated systems": 5,
					}},
					{ID: "scheduling_systems", Weight: 1.0, Points: PointsMap{
						"Paper calendar": 1, "Basic digital calendar": 2, "Scheduling software": 4, "Integrated workflow": 5,
					}},
					{ID: "quality_control", Weight: 1.2, Points: PointsMap{
						"No formal process": 1, "Basic checks": 2, "Standard procedures": 4, "Systematic quality management": 5,
					}},
					{ID: "supplier_relationships", Weight: 1.0, Points: PointsMap{
						"N/A": 3, "Transactional only": 2, "Good relationships": 4, "Strategic partnerships": 5,
					}},
				},
			},
			{
				ID:   "team",
				Name: "Team & Management",
				Questions: []Question{
					{ID: "team_size", Weight: 1.0, Points: PointsMap{
						"Solo operation": 2, "2-5 people": 3, "6-15 people": 4, "16-50 people": 5, "50+ people": 6,
					}},
					{ID: "hiring_process", Weight: 1.0, Points: PointsMap{
						"N/A": 0, "Informal hiring": 2, "Basic process": 3, "Structured interviews": 4, "Comprehensive system": 5,
					}},
					{ID: "employee_training", Weight: 1.1, Points: PointsMap{
						"N/A": 0, "On-the-job learning": 2, "Basic training": 3, "Formal programs": 5,
					}},
					{ID: "delegation", Weight: 1.4, Points: PointsMap{
						"Do everything myself": 1, "Delegate basic tasks": 2, "Delegate important work": 4, "Team runs independently": 5,
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
				ID:   "digital",
				Name: "Digital Adoption",
				Questions: []Question{
					{ID: "payment_systems", Weight: 1.0, Points: PointsMap{
						"Cash/check only": 1, "Basic card processing": 2, "Multiple payment options": 4, "Advanced payment tech": 5,
					}},
					{ID: "data_backup", Weight: 1.2, Points: PointsMap{
						"No system": 1, "Manual backups": 2, "Cloud storage": 4, "Automated backup systems": 5,
					}},
					{ID: "communication_tools", Weight: 1.0, Points: PointsMap{
						"Phone/email only": 1, "Basic messaging": 2, "Team communication apps": 4, "Integrated communication": 5,
					}},
					{ID: "website_functionality", Weight: 1.3, Points: PointsMap{
						"No website": 1, "Basic info site": 2, "Interactive features": 4, "E-commerce/booking enabled": 5,
					}},
					{ID: "social_media_use", Weight: 1.0, Points: PointsMap{
						"No presence": 1, "Occasional posts": 2, "Regular updates": 4, "Strategic content marketing": 5,
					}},
				},
			},
			{
				ID:   "strategic",
				Name: "Strategic Position",
				Questions: []Question{
					{ID: "market_knowledge", Weight: 1.3, Points: PointsMap{
						"Limited knowledge": 1, "Basic awareness": 2, "Good understanding": 4, "Deep market insights": 5,
					}},
					{ID: "competitive_advantage", Weight: 1.2, Points: PointsMap{
						"Not sure": 1, "Price/cost": 2, "Quality/service": 4, "Unique offering": 5, "Market position": 5,
					}},
					{ID: "customer_segments", Weight: 1.1, Points: PointsMap{
						"Serve everyone": 1, "1-2 main types": 3, "Well-defined segments": 4, "Specialized niches": 5,
					}},
					{ID: "pricing_strategy", Weight: 1.0, Points: PointsMap{
						"Match competitors": 2, "Cost-plus margin": 3, "Value-based pricing": 4, "Dynamic/strategic pricing": 5,
					}},
					{ID: "growth_planning", Weight: 1.4, Points: PointsMap{
						"No plans": 1, "Vague goals": 2, "Basic plan": 4, "Detailed strategy": 5,
					}},
				},
			},
		},
		Bands: []Band{
			{Min: 128, Label: "Scale-Ready"},
			{Min: 105, Label: "Growth-Ready"},
			{Min: 75, Label: "Developing"},
			{Min: 0, Label: "Foundational"},
		},
		Context: []string{
			"business_type", "business_age", "primary_challenge", "main_goal", "location_importance",
		},
	}
}
