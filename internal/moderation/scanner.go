package moderation

import (
	"encoding/json"
	"fmt"
)

// Level is the per-scan warning severity, ordered none < low < medium < high.
// It only ever escalates within a single scan.
type Level int

const (
	LevelNone Level = iota
	LevelLow
	LevelMedium
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return "none"
	}
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "none":
		*l = LevelNone
	case "low":
		*l = LevelLow
	case "medium":
		*l = LevelMedium
	case "high":
		*l = LevelHigh
	default:
		return fmt.Errorf("unknown warning level %q", s)
	}
	return nil
}

// Violation is a single rule match, tagged with its category so the strike
// calculator can look up the severity weight.
type Violation struct {
	Category    CategoryName `json:"category"`
	Description string       `json:"description"`
}

// ScanOutcome is the raw result of running the catalog against one content
// string (plus the recidivism check).
type ScanOutcome struct {
	Violations []Violation
	Level      Level
}

// Scanner runs a rule catalog against submitted content. It holds no mutable
// state and is safe for concurrent use.
type Scanner struct {
	catalog *Catalog
}

func NewScanner(catalog *Catalog) *Scanner {
	return &Scanner{catalog: catalog}
}

// recidivismThreshold is the number of prior warning-history entries at which
// a scan is forced to high regardless of the content itself.
const recidivismThreshold = 3

// warningWordMediumCount is the number of matched warning words that lifts a
// scan to medium; anything from one up lifts it to at least low.
const warningWordMediumCount = 3

// Scan tests every catalog pattern against content and returns the matched
// violations together with the escalated warning level. priorWarnings is the
// number of entries already in the user's warning history; at three or more
// the level is forced to high and a synthetic violation is appended.
//
// A rule matching in several categories produces one violation per category,
// never per raw occurrence. The level is the maximum reached by any category
// that fired and is never downgraded within the scan.
func (s *Scanner) Scan(content string, priorWarnings int) ScanOutcome {
	var out ScanOutcome

	warningWordCount := 0
	for _, cat := range s.catalog.Categories() {
		for _, re := range cat.Patterns {
			if !re.MatchString(content) {
				continue
			}
			out.Violations = append(out.Violations, Violation{
				Category:    cat.Name,
				Description: cat.Description,
			})
			if cat.Name == CategoryWarningWord {
				warningWordCount++
				continue // level contribution depends on the count, below
			}
			out.Level = escalate(out.Level, cat.Level)
		}
	}

	switch {
	case warningWordCount >= warningWordMediumCount:
		out.Level = escalate(out.Level, LevelMedium)
	case warningWordCount >= 1:
		out.Level = escalate(out.Level, LevelLow)
	}

	if priorWarnings >= recidivismThreshold {
		out.Level = LevelHigh
		out.Violations = append(out.Violations, Violation{
			Category:    CategoryRecidivism,
			Description: "User has multiple previous warnings",
		})
	}

	return out
}

func escalate(cur, next Level) Level {
	if next > cur {
		return next
	}
	return cur
}

// Descriptions flattens violations to their human-readable form, the shape
// stored in history rows.
func Descriptions(violations []Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.Description
	}
	return out
}
