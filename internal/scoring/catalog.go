package scoring

// optionCatalog is the closed set of permissible answers for every survey
// question, scored and unscored alike. Validation and the frontend export
// both read from here; the scoring tables must cover every listed option
// for the questions they score.
var optionCatalog = map[string][]string{
	// Financial health
	"revenue":             {"Under $10K", "$10K–$50K", "$50K–$250K", "$250K–$1M", "$1M–$5M", "Over $5M"},
	"revenue_trend":       {"Declining", "Flat", "Growing slowly (<10%)", "Growing moderately (10-25%)", "Growing rapidly (>25%)"},
	"profit_margin_known": {"Yes, I track it closely", "Roughly know it", "No idea"},
	"profit_margin":       {"N/A", "Breaking even/Loss", "1-10%", "10-20%", "20-30%", "30%+"},
	"cash_flow":           {"Negative (spending savings)", "Break-even", "Positive but tight", "Healthy buffer", "Strong reserves"},
	"financial_planning":  {"No formal planning", "Basic budgeting", "Monthly financial reviews", "Detailed forecasting"},

	// Growth & marketing
	"customer_acquisition":    {"Word of mouth only", "Some marketing efforts", "Consistent marketing", "Multi-channel strategy"},
	"customer_cost_awareness": {"No idea", "Rough estimate", "Track precisely"},
	"customer_retention":      {"Don't track", "High turnover", "Average retention", "Strong retention", "Excellent loyalty"},
	"repeat_business":         {"Rarely", "Occasionally", "Frequently", "Majority of revenue"},
	"marketing_budget":        {"No budget", "Under 5% of revenue", "5-10% of revenue", "Over 10% of revenue"},
	"online_presence":         {"No website/social", "Basic website", "Active online presence", "Strong digital brand"},
	"customer_feedback":       {"Don't collect", "Informal feedback", "Surveys/reviews", "Systematic feedback loops"},

	// Operations & systems
	"record_keeping":         {"Paper/scattered files", "Basic digital files", "Accounting software", "Integrated business software"},
	"inventory_management":   {"N/A", "Manual tracking", "Basic systems", "Automated systems"},
	"scheduling_systems":     {"Paper calendar", "Basic digital calendar", "Scheduling software", "Integrated workflow"},
	"quality_control":        {"No formal process", "Basic checks", "Standard procedures", "Systematic quality management"},
	"supplier_relationships": {"N/A", "Transactional only", "Good relationships", "Strategic partnerships"},

	// Team & management
	"team_size":            {"Solo operation", "2-5 people", "6-15 people", "16-50 people", "50+ people"},
	"hiring_process":       {"N/A", "Informal hiring", "Basic process", "Structured interviews", "Comprehensive system"},
	"employee_training":    {"N/A", "On-the-job learning", "Basic training", "Formal programs"},
	"delegation":           {"Do everything myself", "Delegate basic tasks", "Delegate important work", "Team runs independently"},
	"performance_tracking": {"No tracking", "Informal feedback", "Regular check-ins", "Formal performance reviews"},

	// Digital adoption
	"payment_systems":       {"Cash/check only", "Basic card processing", "Multiple payment options", "Advanced payment tech"},
	"data_backup":           {"No system", "Manual backups", "Cloud storage", "Automated backup systems"},
	"communication_tools":   {"Phone/email only", "Basic messaging", "Team communication apps", "Integrated communication"},
	"website_functionality": {"No website", "Basic info site", "Interactive features", "E-commerce/booking enabled"},
	"social_media_use":      {"No presence", "Occasional posts", "Regular updates", "Strategic content marketing"},

	// Strategic position
	"market_knowledge":      {"Limited knowledge", "Basic awareness", "Good understanding", "Deep market insights"},
	"competitive_advantage": {"Not sure", "Price/cost", "Quality/service", "Unique offering", "Market position"},
	"customer_segments":     {"Serve everyone", "1-2 main types", "Well-defined segments", "Specialized niches"},
	"pricing_strategy":      {"Match competitors", "Cost-plus margin", "Value-based pricing", "Dynamic/strategic pricing"},
	"growth_planning":       {"No plans", "Vague goals", "Basic plan", "Detailed strategy"},

	// Business context (validated, never scored)
	"business_type": {
		"Retail/E-commerce", "Service Business", "Restaurant/Food", "Healthcare/Medical",
		"Construction/Trades", "Professional Services", "Manufacturing",
		"Technology/Software", "Consulting", "Other",
	},
	"business_age": {"Less than 1 year", "1-3 years", "3-10 years", "10+ years"},
	"primary_challenge": {
		"Not enough customers", "Too busy to grow systematically", "Inconsistent revenue",
		"Managing costs/expenses", "Finding good employees",
		"Competition/pricing pressure", "Keeping up with technology", "Time management/work-life balance",
	},
	"main_goal": {
		"Increase revenue/sales", "Improve profitability", "Scale the business",
		"Reduce time commitment", "Build systems/processes", "Expand to new markets",
		"Improve quality/service", "Prepare for succession/sale",
	},
	"location_importance": {"Fully location-dependent", "Mostly local", "Regional reach", "National/global"},
}

// Options returns the permitted answers for a question, or nil when the
// question is unknown. The returned slice must not be mutated.
func Options(questionID string) []string {
	return optionCatalog[questionID]
}

// KnownQuestion reports whether the catalog defines a question.
func KnownQuestion(questionID string) bool {
	_, ok := optionCatalog[questionID]
	return ok
}
