package extract

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// Strategy is one way of locating a named section in a plan.
// Find reports matched=false when the strategy does not apply. A match whose
// content is empty after trimming ends the chain as not found unless
// KeepEmpty is set.
type Strategy struct {
	Name string
	Find func(plan, name string) (content string, matched bool)

	// KeepEmpty reports an empty match as found
	KeepEmpty bool
}

// Built-in strategy names, as reported by ExtractSectionWithStrategy.
const (
	StrategyStructured       = "structured"
	StrategyFencedStructured = "fenced-structured"
	StrategyHeading          = "heading"
	StrategyLabel            = "label"
	StrategyLineScan         = "line-scan"
)

var (
	// Structured matches a top-level key of a plan that is a JSON object in its entirety.
	Structured = Strategy{Name: StrategyStructured, Find: findStructured, KeepEmpty: true}

	// FencedStructured applies Structured to the first ```json fence in the plan.
	// It is not part of the default chain.
	FencedStructured = Strategy{Name: StrategyFencedStructured, Find: findFencedStructured, KeepEmpty: true}

	// Heading matches a markdown heading whose text is exactly the section name.
	Heading = Strategy{Name: StrategyHeading, Find: findHeading}

	// Label matches "Name: content" up to the next label line. A label line
	// right after the colon ends the section.
	Label = Strategy{Name: StrategyLabel, Find: findLabel}

	// LineScan takes the lines after the first line mentioning the name, up to a blank line.
	LineScan = Strategy{Name: StrategyLineScan, Find: findLineScan}
)

// DefaultStrategies returns the standard chain in precedence order.
func DefaultStrategies() []Strategy {
	return []Strategy{Structured, Heading, Label, LineScan}
}

var (
	nextHeadingRe = regexp.MustCompile(`(?m)^#`)

	// A newline, then up to three words and a colon: the start of the next label.
	nextLabelRe = regexp.MustCompile(`\n\s*\w+(?:[ \t]+\w+){0,2}[ \t]*:`)

	jsonFenceRe = regexp.MustCompile("(?s)```(?:json)?[ \\t]*\\n(.*?)```")
)

func findStructured(plan, name string) (string, bool) {
	doc := strings.TrimSpace(plan)
	if !strings.HasPrefix(doc, "{") || !json.Valid([]byte(doc)) {
		return "", false
	}

	dec := json.NewDecoder(strings.NewReader(doc))
	if _, err := dec.Token(); err != nil {
		return "", false
	}

	// Members are walked in document order so the first matching key wins.
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return "", false
		}
		if key, _ := tok.(string); strings.EqualFold(key, name) {
			return renderValue(raw), true
		}
	}
	return "", false
}

// renderValue returns strings verbatim and anything else as 2-space indented JSON.
func renderValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}

func findFencedStructured(plan, name string) (string, bool) {
	m := jsonFenceRe.FindStringSubmatch(plan)
	if m == nil {
		return "", false
	}
	return findStructured(m[1], name)
}

func findHeading(plan, name string) (string, bool) {
	re, err := regexp.Compile(`(?im)^#+[ \t]*` + regexp.QuoteMeta(name) + `[ \t]*$`)
	if err != nil {
		return "", false
	}
	loc := re.FindStringIndex(plan)
	if loc == nil {
		return "", false
	}

	body := plan[loc[1]:]
	if next := nextHeadingRe.FindStringIndex(body); next != nil {
		body = body[:next[0]]
	}
	return body, true
}

func findLabel(plan, name string) (string, bool) {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(name) + `[ \t]*:[ \t]*`)
	if err != nil {
		return "", false
	}
	loc := re.FindStringIndex(plan)
	if loc == nil {
		return "", false
	}

	body := plan[loc[1]:]
	if next := nextLabelRe.FindStringIndex(body); next != nil {
		body = body[:next[0]]
	}
	return body, true
}

func findLineScan(plan, name string) (string, bool) {
	needle := strings.ToLower(name)
	lines := strings.Split(plan, "\n")

	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		var collected []string
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) == "" {
				break
			}
			collected = append(collected, next)
		}
		return strings.Join(collected, "\n"), true
	}
	return "", false
}
