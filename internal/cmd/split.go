package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/crewgen/internal/extract"
	"github.com/felixgeelhaar/crewgen/internal/filetree"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split fenced code blocks into frontend and backend files",
	Long: `Classify every language-tagged code block in a document by language.
jsx and react blocks become <Component>.jsx under --frontend-dir, python
blocks become <function>.py under --backend-dir. Other blocks are skipped.`,
	Example: `  crewgen split --in output.md
  crewgen split --in output.md --base build --dry-run`,
	RunE: runSplit,
}

func init() {
	layout := extract.DefaultLayout()

	f := splitCmd.Flags()
	f.String("in", "", "document to read (- for stdin)")
	f.String("base", ".", "directory the layout is rooted at")
	f.String("frontend-dir", layout.FrontendDir, "directory for frontend components, relative to --base")
	f.String("backend-dir", layout.BackendDir, "directory for backend modules, relative to --base")
	f.Bool("dry-run", false, "report what would be written without writing")
	_ = splitCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	cctx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	in, _ := f.GetString("in")
	base, _ := f.GetString("base")
	dryRun, _ := f.GetBool("dry-run")
	layout := extract.Layout{}
	layout.FrontendDir, _ = f.GetString("frontend-dir")
	layout.BackendDir, _ = f.GetString("backend-dir")

	text, err := readInput(in, cmd.InOrStdin())
	if err != nil {
		return err
	}

	records, skipped := extract.ClassifyBlocks(extract.ExtractCodeBlocks(text), layout)
	for _, b := range skipped {
		cctx.Logger.Info("skipping code block", "language", b.Language)
	}
	if len(records) == 0 {
		fmt.Fprintln(cctx.Out, "No jsx or python blocks found.")
		return nil
	}

	w := &filetree.Writer{
		Base:     base,
		DryRun:   dryRun,
		Reporter: eventPrinter(cctx.Out, dryRun),
		Logger:   cctx.Logger,
	}
	if _, err := w.WriteAll(records); err != nil {
		return err
	}
	if len(skipped) > 0 {
		fmt.Fprintf(cctx.Out, "%d blocks skipped\n", len(skipped))
	}
	return nil
}
