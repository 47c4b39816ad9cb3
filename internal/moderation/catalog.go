package moderation

import (
	"regexp"
	"strings"
)

// CategoryName identifies a violation category.
type CategoryName string

const (
	CategoryHarmful        CategoryName = "harmful"
	CategoryMisinformation CategoryName = "misinformation"
	CategoryFraud          CategoryName = "fraud"
	CategoryCybercrime     CategoryName = "cybercrime"
	CategoryAdultContent   CategoryName = "adult_content"
	CategoryViolence       CategoryName = "violence"
	CategoryWarningWord    CategoryName = "warning_word"

	// CategoryRecidivism tags the synthetic violation appended when a user
	// already has three or more warning-history entries. It has no patterns
	// of its own and always weighs as a standard violation.
	CategoryRecidivism CategoryName = "recidivism"
)

// Severity classifies how heavily a category's violations count toward a strike.
type Severity string

const (
	SeveritySevere   Severity = "severe"
	SeveritySerious  Severity = "serious"
	SeverityStandard Severity = "standard"
)

// Weight returns the per-violation strike weight for the severity class.
func (s Severity) Weight() float64 {
	switch s {
	case SeveritySevere:
		return 2.0
	case SeveritySerious:
		return 1.5
	default:
		return 1.0
	}
}

// Category is one detection rule set: an ordered list of compiled patterns
// sharing a severity class, a warning level, and a violation description.
type Category struct {
	Name        CategoryName
	Severity    Severity
	Level       Level // warning level a match escalates the scan to
	Description string
	Patterns    []*regexp.Regexp
}

// Catalog is the immutable rule table the scanner runs against. It is built
// once at startup and injected; adding a category never touches scan logic.
type Catalog struct {
	categories []Category
	byName     map[CategoryName]*Category
}

func NewCatalog(categories []Category) *Catalog {
	c := &Catalog{
		categories: categories,
		byName:     make(map[CategoryName]*Category, len(categories)),
	}
	for i := range c.categories {
		c.byName[c.categories[i].Name] = &c.categories[i]
	}
	return c
}

// Categories returns the category list in catalog order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Category looks up a category by name.
func (c *Catalog) Category(name CategoryName) (*Category, bool) {
	cat, ok := c.byName[name]
	return cat, ok
}

// warningWords is the fixed lexicon of mild pejoratives. One match is one
// violation; three distinct matches escalate the scan to medium.
var warningWords = []string{
	"stupid", "dumb", "idiot", "loser", "pathetic",
	"annoying", "lame", "trash", "garbage", "shut up",
}

// DefaultCatalog compiles the built-in rule table. Patterns are
// case-insensitive; lexicon words match on word boundaries.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Category{
		{
			Name:        CategoryHarmful,
			Severity:    SeveritySevere,
			Level:       LevelHigh,
			Description: "Harmful content detected",
			Patterns: compile(
				`\b(stupid|idiot|moron|loser|pathetic)\b`,
				`\bi\s+hate\s+you\b`,
				`\bkill\s+yourself\b`,
				`\bnobody\s+(likes|wants)\s+you\b`,
				`\byou\s+deserve\s+to\s+(die|suffer)\b`,
			),
		},
		{
			Name:        CategoryMisinformation,
			Severity:    SeveritySerious,
			Level:       LevelMedium,
			Description: "Potential misinformation detected",
			Patterns: compile(
				`moon\s+landing\s*(was\s+)?(a\s+)?(hoax|fake|staged)`,
				`\b(the\s+)?earth\s+is\s+flat\b`,
				`\bvaccines?\s+cause\s+autism\b`,
				`\b5g\s+(causes|spreads|towers?\s+spread)\b`,
				`\bchemtrails?\b`,
			),
		},
		{
			Name:        CategoryFraud,
			Severity:    SeveritySerious,
			Level:       LevelHigh,
			Description: "Potential fraud or scam detected",
			Patterns: compile(
				`\bfree\s+money\b`,
				`\bget\s+rich\s+quick\b`,
				`\bdouble\s+your\s+(money|investment|crypto)\b`,
				`\bsend\s+me\s+(money|cash|gift\s+cards?)\b`,
				`\bcrypto\s+giveaway\b`,
			),
		},
		{
			Name:        CategoryCybercrime,
			Severity:    SeveritySevere,
			Level:       LevelHigh,
			Description: "Cybercrime-related content detected",
			Patterns: compile(
				`\bddos\b`,
				`\bhack(ed|ing)?\s+(into\s+)?(accounts?|passwords?|emails?)\b`,
				`\bsteal(ing)?\s+(passwords?|credentials|identit(y|ies))\b`,
				`\bsell(ing)?\s+(stolen|hacked|leaked)\b`,
				`\bphishing\s+(kit|link|page)s?\b`,
			),
		},
		{
			Name:        CategoryAdultContent,
			Severity:    SeveritySevere,
			Level:       LevelHigh,
			Description: "Adult content detected",
			Patterns: compile(
				`\bporn(ography)?\b`,
				`\bnudes?\b`,
				`\bexplicit\s+(photos?|videos?|pics?)\b`,
				`\bsexting\b`,
			),
		},
		{
			Name:        CategoryViolence,
			Severity:    SeveritySerious,
			Level:       LevelHigh,
			Description: "Violent threat detected",
			Patterns: compile(
				`\b(i('| a)?ll|gonna|going\s+to)\s+kill\s+you\b`,
				`\bkill\s+you\b`,
				`\bbeat\s+you\s+up\b`,
				`\b(hurt|stab|shoot)\s+you\b`,
				`\bbomb\s+threat\b`,
			),
		},
		{
			Name:        CategoryWarningWord,
			Severity:    SeverityStandard,
			Level:       LevelLow,
			Description: "Inappropriate language detected",
			Patterns:    compileWords(warningWords),
		},
	})
}

func compile(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(`(?i)`+p))
	}
	return res
}

// compileWords builds one word-boundary pattern per lexicon entry so each
// matched word contributes its own violation.
func compileWords(words []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		res = append(res, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return res
}
