// Package extract scrapes structure out of model output: named task sections
// from a coordinator plan, and path-annotated code fences from generated code.
package extract

import (
	"strings"
	"unicode"
)

// Extractor runs an ordered chain of strategies; the first hit wins.
type Extractor struct {
	Strategies []Strategy
}

// NewExtractor returns an Extractor using the given strategies, or the default
// chain when none are given.
func NewExtractor(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Extractor{Strategies: strategies}
}

var defaultExtractor = NewExtractor()

// Extract locates the section called name in plan. It returns the trimmed
// content, the name of the strategy that matched, and whether the section was
// found.
//
// The first strategy that matches ends the chain. A structured match on a key
// with an empty value is found and returns ("", strategy, true). An empty
// heading or label section returns ("", strategy, false): weaker strategies
// would otherwise read the following section.
func (e *Extractor) Extract(plan, name string) (string, string, bool) {
	if strings.TrimSpace(plan) == "" || strings.TrimSpace(name) == "" {
		return "", "", false
	}
	plan = strings.ReplaceAll(plan, "\r\n", "\n")

	for _, s := range e.Strategies {
		content, matched := s.Find(plan, name)
		if !matched {
			continue
		}
		content = strings.TrimSpace(content)
		if content == "" && !s.KeepEmpty {
			return "", s.Name, false
		}
		return content, s.Name, true
	}
	return "", "", false
}

// ExtractSection locates a named section using the default strategy chain.
func ExtractSection(plan, name string) (string, bool) {
	content, _, ok := defaultExtractor.Extract(plan, name)
	return content, ok
}

// ExtractSectionWithStrategy is ExtractSection that also reports which strategy matched.
func ExtractSectionWithStrategy(plan, name string) (string, string, bool) {
	return defaultExtractor.Extract(plan, name)
}

// Tasks looks up name and, when that yields nothing usable, alt.
// An empty result counts as a miss so the alternate spelling gets a chance.
func (e *Extractor) Tasks(plan, name, alt string) (string, bool) {
	if content, _, ok := e.Extract(plan, name); ok && content != "" {
		return content, true
	}
	if alt == "" || alt == name {
		return "", false
	}
	content, _, ok := e.Extract(plan, alt)
	if !ok || content == "" {
		return "", false
	}
	return content, true
}

// ExtractTasks is Tasks on the default chain.
func ExtractTasks(plan, name, alt string) (string, bool) {
	return defaultExtractor.Tasks(plan, name, alt)
}

// SnakeCase turns a section name such as "Frontend Tasks" into "frontend_tasks".
func SnakeCase(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSep = true
	}
	return b.String()
}
