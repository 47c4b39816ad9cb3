package moderation

// CategorySummary is the auditable shape of one catalog category: what it
// detects and how heavily it weighs, without exposing the raw patterns.
type CategorySummary struct {
	Name        CategoryName `json:"name"`
	Severity    Severity     `json:"severity"`
	Weight      float64      `json:"weight"`
	Description string       `json:"description"`
	RuleCount   int          `json:"rule_count"`
}

// Summary returns the catalog in auditable form, in catalog order.
func (c *Catalog) Summary() []CategorySummary {
	out := make([]CategorySummary, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, CategorySummary{
			Name:        cat.Name,
			Severity:    cat.Severity,
			Weight:      cat.Severity.Weight(),
			Description: cat.Description,
			RuleCount:   len(cat.Patterns),
		})
	}
	return out
}

// GuidelinesDocument is the human-readable policy text shown to users. The
// numeric thresholds live in Policy and are served alongside it.
const GuidelinesDocument = `Community Guidelines

Content you post is automatically checked against our moderation rules.

What we act on:
  - Harassment and harmful language directed at other people.
  - Misinformation presented as fact.
  - Fraud, scams and get-rich-quick schemes.
  - Hacking, phishing and other cybercrime content.
  - Adult or sexually explicit content.
  - Threats of violence.

How enforcement works:
  - Content that seriously violates these rules adds a weighted strike to
    your account. Repeated milder violations escalate the same way.
  - Accumulated strikes lead to a formal warning, then a temporary posting
    restriction, then a temporary account suspension.
  - Restrictions and suspensions lift automatically after their time window
    has passed. Strikes themselves do not expire.

If you believe an action on your account was a mistake, contact the support
team. Appeals are reviewed manually and are not handled by the automated
system.`
