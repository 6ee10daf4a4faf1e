package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSection(t *testing.T) {
	tests := []struct {
		name         string
		plan         string
		section      string
		want         string
		wantOK       bool
		wantStrategy string
	}{
		{
			name:         "structured string value",
			plan:         `{"Frontend Tasks": "build a form", "Backend Tasks": "build an API"}`,
			section:      "Frontend Tasks",
			want:         "build a form",
			wantOK:       true,
			wantStrategy: StrategyStructured,
		},
		{
			name:         "structured key casing ignored",
			plan:         `{"FRONTEND tasks": "build a form"}`,
			section:      "Frontend Tasks",
			want:         "build a form",
			wantOK:       true,
			wantStrategy: StrategyStructured,
		},
		{
			name:         "structured list rendered as indented json",
			plan:         `{"Backend Tasks": ["model", "routes"]}`,
			section:      "backend tasks",
			want:         "[\n  \"model\",\n  \"routes\"\n]",
			wantOK:       true,
			wantStrategy: StrategyStructured,
		},
		{
			name:         "structured object keeps member order",
			plan:         `{"Backend Tasks": {"z": 1, "a": {"b": true}}}`,
			section:      "Backend Tasks",
			want:         "{\n  \"z\": 1,\n  \"a\": {\n    \"b\": true\n  }\n}",
			wantOK:       true,
			wantStrategy: StrategyStructured,
		},
		{
			name:         "structured wins over headings elsewhere",
			plan:         `{"Frontend Tasks": "from json", "notes": "# Frontend Tasks\nfrom heading"}`,
			section:      "Frontend Tasks",
			want:         "from json",
			wantOK:       true,
			wantStrategy: StrategyStructured,
		},
		{
			name:         "structured empty value short-circuits",
			plan:         `{"Frontend Tasks": "", "other": "Frontend Tasks: label text"}`,
			section:      "Frontend Tasks",
			want:         "",
			wantOK:       true,
			wantStrategy: StrategyStructured,
		},
		{
			name:         "json followed by prose is not structured",
			plan:         "{\"Backend Tasks\": \"json\"}\nBackend Tasks: from label",
			section:      "Backend Tasks",
			want:         "from label",
			wantOK:       true,
			wantStrategy: StrategyLabel,
		},
		{
			name:         "heading section",
			plan:         "## Backend Tasks\n- create model\n- add routes\n\n\n## Frontend Tasks\n- build form\n",
			section:      "Backend Tasks",
			want:         "- create model\n- add routes",
			wantOK:       true,
			wantStrategy: StrategyHeading,
		},
		{
			name:         "heading last section runs to end",
			plan:         "# Plan\n## Backend Tasks\n- api\n## frontend tasks  \n- form\n- list\n",
			section:      "Frontend Tasks",
			want:         "- form\n- list",
			wantOK:       true,
			wantStrategy: StrategyHeading,
		},
		{
			name:         "heading with crlf line endings",
			plan:         "## Backend Tasks\r\n- api\r\n## Frontend Tasks\r\n- form\r\n",
			section:      "Backend Tasks",
			want:         "- api",
			wantOK:       true,
			wantStrategy: StrategyHeading,
		},
		{
			name:         "label does not bleed into next label",
			plan:         "Frontend Tasks: do X, do Y\nBackend Tasks: do Z",
			section:      "Frontend Tasks",
			want:         "do X, do Y",
			wantOK:       true,
			wantStrategy: StrategyLabel,
		},
		{
			name:         "label last entry runs to end",
			plan:         "Frontend Tasks: do X, do Y\nBackend Tasks: do Z",
			section:      "Backend Tasks",
			want:         "do Z",
			wantOK:       true,
			wantStrategy: StrategyLabel,
		},
		{
			name:         "label spanning lines",
			plan:         "Backend Tasks:\n- model\n- routes\nNotes: none",
			section:      "backend tasks",
			want:         "- model\n- routes",
			wantOK:       true,
			wantStrategy: StrategyLabel,
		},
		{
			name:         "line scan fallback",
			plan:         "Here are the **Backend Tasks** you asked for\n1. model\n2. routes\n\nThanks",
			section:      "Backend Tasks",
			want:         "1. model\n2. routes",
			wantOK:       true,
			wantStrategy: StrategyLineScan,
		},
		{
			name:         "line scan with nothing after is a miss",
			plan:         "We have no Backend Tasks\n\nbye",
			section:      "Backend Tasks",
			wantOK:       false,
			wantStrategy: StrategyLineScan,
		},
		{
			name:    "no mention at all",
			plan:    "## Frontend Tasks\n- form\n",
			section: "Backend Tasks",
			wantOK:  false,
		},
		{
			name:    "empty plan",
			plan:    "   ",
			section: "Backend Tasks",
			wantOK:  false,
		},
		{
			name:         "empty heading section is not found",
			plan:         "## Backend Tasks\n## Frontend Tasks\n- form",
			section:      "Backend Tasks",
			wantOK:       false,
			wantStrategy: StrategyHeading,
		},
		{
			name:         "empty heading section does not fall through to a label",
			plan:         "## Backend Tasks\n\n## Notes\nBackend Tasks: from label",
			section:      "Backend Tasks",
			wantOK:       false,
			wantStrategy: StrategyHeading,
		},
		{
			name:         "empty label section stops at the next label",
			plan:         "Backend Tasks:\nFrontend Tasks: build a form",
			section:      "Backend Tasks",
			wantOK:       false,
			wantStrategy: StrategyLabel,
		},
		{
			name:         "empty label at end of input",
			plan:         "Frontend Tasks: build a form\nBackend Tasks:   ",
			section:      "Backend Tasks",
			wantOK:       false,
			wantStrategy: StrategyLabel,
		},
		{
			name:    "structured document without the key falls through",
			plan:    `{"Frontend Tasks": "form"}`,
			section: "Backend Tasks",
			wantOK:  false,
		},
		{
			name:         "regex metacharacters in the name",
			plan:         "## Tasks (v2)\n- thing",
			section:      "Tasks (v2)",
			want:         "- thing",
			wantOK:       true,
			wantStrategy: StrategyHeading,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy, ok := ExtractSectionWithStrategy(tt.plan, tt.section)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantStrategy, strategy)

			plain, plainOK := ExtractSection(tt.plan, tt.section)
			assert.Equal(t, got, plain)
			assert.Equal(t, ok, plainOK)
		})
	}
}

func TestExtractTasks(t *testing.T) {
	tests := []struct {
		name   string
		plan   string
		want   string
		wantOK bool
	}{
		{
			name:   "primary name",
			plan:   `{"Frontend Tasks": "build a form"}`,
			want:   "build a form",
			wantOK: true,
		},
		{
			name:   "snake case fallback",
			plan:   `{"frontend_tasks": ["form", "list"]}`,
			want:   "[\n  \"form\",\n  \"list\"\n]",
			wantOK: true,
		},
		{
			name:   "empty primary value tries fallback",
			plan:   `{"Frontend Tasks": "", "frontend_tasks": "from fallback"}`,
			want:   "from fallback",
			wantOK: true,
		},
		{
			name:   "both empty",
			plan:   `{"Frontend Tasks": ""}`,
			wantOK: false,
		},
		{
			name:   "empty heading does not borrow the next section",
			plan:   "## Frontend Tasks\n## Backend Tasks\n- build an API",
			wantOK: false,
		},
		{
			name:   "neither present",
			plan:   "nothing to see",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTasks(tt.plan, "Frontend Tasks", "frontend_tasks")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScenarioStubbedCoordinator(t *testing.T) {
	plan := `{"Frontend Tasks": "build a form", "Backend Tasks": "build an API"}`

	frontend, ok := ExtractTasks(plan, "Frontend Tasks", SnakeCase("Frontend Tasks"))
	require.True(t, ok)
	backend, ok := ExtractTasks(plan, "Backend Tasks", SnakeCase("Backend Tasks"))
	require.True(t, ok)

	assert.Equal(t, "build a form", frontend)
	assert.Equal(t, "build an API", backend)
}

func TestCustomExtractor(t *testing.T) {
	plan := "Sure! Here is the plan:\n```json\n{\"Backend Tasks\": \"build an API\"}\n```\n"

	got, strategy, _ := ExtractSectionWithStrategy(plan, "Backend Tasks")
	assert.Equal(t, StrategyLineScan, strategy, "default chain should not look inside fences")
	assert.Equal(t, "```", got)

	e := NewExtractor(Structured, FencedStructured, Heading, Label, LineScan)
	got, strategy, ok := e.Extract(plan, "Backend Tasks")
	require.True(t, ok)
	assert.Equal(t, "build an API", got)
	assert.Equal(t, StrategyFencedStructured, strategy)
}

func TestNewExtractorDefaults(t *testing.T) {
	e := NewExtractor()

	names := make([]string, 0, len(e.Strategies))
	for _, s := range e.Strategies {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{StrategyStructured, StrategyHeading, StrategyLabel, StrategyLineScan}, names)
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Frontend Tasks":    "frontend_tasks",
		"  Backend  Tasks ": "backend_tasks",
		"API-Design Notes":  "api_design_notes",
		"already_snake":     "already_snake",
		"":                  "",
	}

	for in, want := range tests {
		assert.Equal(t, want, SnakeCase(in), "SnakeCase(%q)", in)
	}
}
