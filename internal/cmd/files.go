package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/crewgen/internal/extract"
	"github.com/felixgeelhaar/crewgen/internal/filetree"
	"github.com/felixgeelhaar/crewgen/internal/output"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Rebuild a file tree from path-annotated generated code",
	Long: "Scan generated text for **`path`**: markers followed by a fenced block and\n" +
		"write each block to that path beneath --base. Paths that would leave --base\n" +
		"are rejected. Files whose content is unchanged are not rewritten.",
	Example: `  crewgen files --in backend_output.py --base backend_app
  crewgen files --in backend_output.py --dry-run`,
	RunE: runFiles,
}

func init() {
	f := filesCmd.Flags()
	f.String("in", "", "generated text to read (- for stdin)")
	f.String("base", output.DefaultBackendDir, "directory the files are written under")
	f.Bool("dry-run", false, "report what would be written without writing")
	_ = filesCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	cctx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	in, _ := cmd.Flags().GetString("in")
	base, _ := cmd.Flags().GetString("base")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	text, err := readInput(in, cmd.InOrStdin())
	if err != nil {
		return err
	}

	records := extract.ExtractFiles(text)
	if len(records) == 0 {
		fmt.Fprintln(cctx.Out, "No file blocks found.")
		return nil
	}

	w := &filetree.Writer{
		Base:     base,
		DryRun:   dryRun,
		Reporter: eventPrinter(cctx.Out, dryRun),
		Logger:   cctx.Logger,
	}
	_, err = w.WriteAll(records)
	return err
}

// eventPrinter prints one line per materialized file.
func eventPrinter(out io.Writer, dryRun bool) filetree.Reporter {
	prefix := ""
	if dryRun {
		prefix = "(dry run) "
	}
	return func(ev filetree.Event) {
		fmt.Fprintf(out, "%s%-9s %s (%d bytes)\n", prefix, ev.Status, ev.Path, ev.Bytes)
	}
}
