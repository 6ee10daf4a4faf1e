package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/crewgen/internal/agent"
	"github.com/felixgeelhaar/crewgen/internal/config"
	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
	"github.com/felixgeelhaar/crewgen/internal/extract"
	"github.com/felixgeelhaar/crewgen/internal/filetree"
	"github.com/felixgeelhaar/crewgen/internal/orchestrator"
	"github.com/felixgeelhaar/crewgen/internal/output"
	"github.com/felixgeelhaar/crewgen/internal/provider"
	"github.com/felixgeelhaar/crewgen/internal/tui"
)

// failedPlanFile receives the plan when no task section could be extracted
const failedPlanFile = "plan.txt"

// Swapped in tests
var (
	shouldPrompt   = tui.ShouldPrompt
	promptForBrief = tui.PromptForBrief
)

var runCmd = &cobra.Command{
	Use:   "run [brief]",
	Short: "Plan, generate and write a project from a brief",
	Long: `Run the full pipeline for a project brief.

The brief is taken from the arguments, from --brief-file, or from an
interactive prompt. An empty brief exits without doing anything.

Outputs are written to --out:
  output.json          the run record (brief, plan, tasks and code)
  frontend_output.js   the frontend agent's answer
  backend_output.py    the backend agent's answer
  backend_app/         files reconstructed from **` + "`path`" + `** annotations
  manifest.json        every file written, with its blake3 digest`,
	Example: `  crewgen run "store name and email, display them"
  crewgen run --brief-file brief.txt --parallel --out build
  crewgen run --provider scripted --script testdata/script.yaml "demo"`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.String("brief-file", "", "read the brief from a file (- for stdin)")
	f.StringP("out", "o", "", "output directory (default .)")
	f.Bool("parallel", false, "run the frontend and backend agents concurrently")
	f.Bool("no-files", false, "do not reconstruct the backend file tree")
	f.Bool("no-tui", false, "print plain progress lines instead of the live view")
	f.Bool("fenced-json", false, "also look for task sections inside a ```json fence")
	f.String("provider", "", "completion provider: openai, anthropic or scripted")
	f.String("script", "", "response script for the scripted provider")
	f.String("base-url", "", "override the provider API base URL")
	f.Duration("timeout", 0, "per-request timeout (default 2m)")
	for _, role := range agent.Roles() {
		f.String("model-"+role.String(), "", fmt.Sprintf("model for the %s agent", role))
	}

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cctx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	cfg, err := cctx.LoadConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}

	brief, err := readBrief(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(brief) == "" {
		fmt.Fprintln(cctx.Out, "Project brief is empty, nothing to do.")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := provider.New(cfg.Provider)
	if err != nil {
		return err
	}
	crew, err := agent.New(client, append(cfg.AgentOptions(), agent.WithLogger(cctx.Logger))...)
	if err != nil {
		return err
	}

	noTUI, _ := cmd.Flags().GetBool("no-tui")
	narrator, stop := newNarrator(cctx.Out, brief, noTUI)

	opts := orchestrator.Options{
		Parallel: cfg.Parallel,
		Narrator: narrator,
		Logger:   cctx.Logger,
	}
	if cfg.FencedJSON {
		opts.Extractor = fencedExtractor()
	}

	cctx.Logger.Info("starting run", "provider", client.Name(), "parallel", cfg.Parallel)
	result, runErr := orchestrator.New(crew, opts).Run(cmd.Context(), brief)
	stop()

	if runErr != nil {
		if result != nil && crewerrors.HasCode(runErr, crewerrors.ErrCodeSectionsMissing) {
			savePlan(cctx, cfg, result.Plan)
		}
		return runErr
	}

	store := cfg.Store()
	store.Logger = cctx.Logger
	manifest, err := store.Save(result)
	if err != nil {
		return err
	}

	printManifest(cctx.Out, manifest, result.FinishedAt.Sub(result.StartedAt))
	return nil
}

// applyRunFlags overlays flags the user actually set onto cfg.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()

	strs := map[string]*string{
		"out":      &cfg.Output.Dir,
		"provider": &cfg.Provider.Name,
		"script":   &cfg.Provider.ScriptPath,
		"base-url": &cfg.Provider.BaseURL,
	}
	for name, dst := range strs {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	// A provider switched by flag needs that provider's key
	if f.Changed("provider") {
		cfg.Provider.APIKey = ""
		if envVar := config.APIKeyEnv(cfg.Provider.Name); envVar != "" {
			cfg.Provider.APIKey = os.Getenv(envVar)
		}
	}

	if f.Changed("parallel") {
		cfg.Parallel, _ = f.GetBool("parallel")
	}
	if f.Changed("no-files") {
		noFiles, _ := f.GetBool("no-files")
		cfg.Output.Tree = !noFiles
	}
	if f.Changed("fenced-json") {
		cfg.FencedJSON, _ = f.GetBool("fenced-json")
	}
	if f.Changed("timeout") {
		cfg.Provider.Timeout, _ = f.GetDuration("timeout")
	}

	for _, role := range agent.Roles() {
		name := "model-" + role.String()
		if !f.Changed(name) {
			continue
		}
		model, err := f.GetString(name)
		if err != nil {
			return err
		}
		cfg.SetModel(role, model)
	}
	return nil
}

// readBrief takes the brief from args, --brief-file or an interactive prompt,
// in that order. No source yields "".
func readBrief(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if path, _ := cmd.Flags().GetString("brief-file"); path != "" {
		return readInput(path, cmd.InOrStdin())
	}

	if shouldPrompt() {
		return promptForBrief()
	}
	return "", nil
}

// newNarrator picks the live view on a terminal and plain lines otherwise.
// The returned func must be called before anything else is printed.
func newNarrator(out io.Writer, brief string, plain bool) (orchestrator.Narrator, func()) {
	if plain || tui.InCI() || !tui.IsTerminal(out) {
		return tui.NewLineNarrator(out), func() {}
	}
	a := tui.NewAdapter(brief, out)
	a.Start()
	return a, a.Stop
}

// fencedExtractor adds the fenced-JSON strategy right after plain JSON.
func fencedExtractor() *extract.Extractor {
	strategies := []extract.Strategy{extract.Structured, extract.FencedStructured}
	for _, s := range extract.DefaultStrategies() {
		if s.Name != extract.Structured.Name {
			strategies = append(strategies, s)
		}
	}
	return extract.NewExtractor(strategies...)
}

// savePlan keeps the coordinator's answer for `crewgen extract`. Failure to
// save is logged, not returned, so the extraction error stays the one reported.
func savePlan(cctx *CommandContext, cfg *config.Config, plan string) {
	if plan == "" {
		return
	}
	ev, err := filetree.NewWriter(cfg.Output.Dir).Write(extract.FileRecord{Path: failedPlanFile, Content: plan})
	if err != nil {
		cctx.Logger.WithError(err).Warn("could not save plan")
		return
	}
	fmt.Fprintf(cctx.ErrOut, "Plan saved to %s\n", filepath.Join(cfg.Output.Dir, ev.Path))
}

func printManifest(w io.Writer, m *output.Manifest, took time.Duration) {
	styles := tui.DefaultStyles()

	fmt.Fprintf(w, "\n%s %s\n", styles.Success.Render("Run complete"), styles.Muted.Render(m.RunID))
	for _, ev := range m.Files {
		fmt.Fprintf(w, "  %-9s %s\n", ev.Status, ev.Target)
	}
	fmt.Fprintf(w, "%s\n", styles.Muted.Render(fmt.Sprintf("%d files in %s", len(m.Files), took.Round(time.Millisecond))))
}
