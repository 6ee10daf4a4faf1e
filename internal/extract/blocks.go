package extract

import (
	"path"
	"regexp"
	"strings"
)

// CodeBlock is a fenced block with a language tag.
type CodeBlock struct {
	Language string
	Code     string
}

// Layout says where classified blocks are placed, relative to the output base.
type Layout struct {
	FrontendDir string
	BackendDir  string
}

// DefaultLayout mirrors a React app next to a Python backend.
func DefaultLayout() Layout {
	return Layout{
		FrontendDir: "frontend_app/src/components",
		BackendDir:  "backend_app",
	}
}

var (
	codeBlockRe  = regexp.MustCompile("(?s)```(\\w+)\\n(.*?)```")
	componentRe  = regexp.MustCompile(`function (\w+)\(`)
	pyFunctionRe = regexp.MustCompile(`def (\w+)\(`)
)

// ExtractCodeBlocks returns every ```lang fenced block in text. Untagged
// fences are ignored.
func ExtractCodeBlocks(text string) []CodeBlock {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []CodeBlock
	for _, m := range codeBlockRe.FindAllStringSubmatch(text, -1) {
		blocks = append(blocks, CodeBlock{
			Language: m[1],
			Code:     strings.TrimSpace(m[2]),
		})
	}
	return blocks
}

// ClassifyBlocks turns code blocks into file records. JSX and React blocks
// become <Component>.jsx under the frontend dir, named after the first
// function declaration (App when there is none). Python blocks become
// <function>.py under the backend dir (backend.py when there is none).
// Everything else is returned as skipped.
func ClassifyBlocks(blocks []CodeBlock, layout Layout) (files []FileRecord, skipped []CodeBlock) {
	for _, b := range blocks {
		switch strings.ToLower(b.Language) {
		case "jsx", "react":
			name := firstMatch(componentRe, b.Code, "App")
			files = append(files, FileRecord{
				Path:     path.Join(layout.FrontendDir, name+".jsx"),
				Content:  b.Code,
				Language: "jsx",
			})
		case "python", "py":
			name := firstMatch(pyFunctionRe, b.Code, "backend")
			files = append(files, FileRecord{
				Path:     path.Join(layout.BackendDir, name+".py"),
				Content:  b.Code,
				Language: "python",
			})
		default:
			skipped = append(skipped, b)
		}
	}
	return files, skipped
}

func firstMatch(re *regexp.Regexp, s, fallback string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return fallback
}
