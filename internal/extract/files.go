package extract

import (
	"regexp"
	"strings"
)

// FileRecord is one file reconstructed from generated text.
type FileRecord struct {
	// Path is relative and unsanitized; confinement is the writer's job.
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

// fileBlockRe matches **`path`**: followed by a fenced block with an optional
// language tag. Group 2 marks the opening fence so its indentation can be found.
var fileBlockRe = regexp.MustCompile("(?s)`([^`\\n]+)`\\*\\*:\\s*(```)([\\w+#.-]*)[ \\t]*\\n(.*?)```")

// ExtractFiles returns every path-annotated code block in text, in source order.
//
// When the opening fence is indented (as in a markdown list item), that
// indentation is removed from each body line before trimming.
func ExtractFiles(text string) []FileRecord {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var records []FileRecord
	for _, m := range fileBlockRe.FindAllStringSubmatchIndex(text, -1) {
		path := strings.TrimSpace(text[m[2]:m[3]])
		if path == "" {
			continue
		}
		body := text[m[8]:m[9]]
		if indent := lineIndent(text, m[4]); indent > 0 {
			body = dedent(body, indent)
		}
		records = append(records, FileRecord{
			Path:     path,
			Content:  strings.TrimSpace(body),
			Language: strings.ToLower(text[m[6]:m[7]]),
		})
	}
	return records
}

// lineIndent returns the width of the whitespace run between the start of the
// line containing pos and pos, or 0 when anything else precedes pos on that line.
func lineIndent(text string, pos int) int {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	prefix := text[start:pos]
	if strings.TrimLeft(prefix, " \t") != "" {
		return 0
	}
	return len(prefix)
}

func dedent(body string, width int) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		n := 0
		for n < width && n < len(line) && (line[n] == ' ' || line[n] == '\t') {
			n++
		}
		lines[i] = line[n:]
	}
	return strings.Join(lines, "\n")
}
