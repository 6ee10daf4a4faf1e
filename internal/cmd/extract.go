package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
	"github.com/felixgeelhaar/crewgen/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Pull a named section out of a saved plan",
	Long: `Run the section extractor over a plan without calling any model.

The section content is printed on stdout and the strategy that found it
(structured, heading, label or line-scan) on stderr.`,
	Example: `  crewgen extract --in plan.txt --section "Backend Tasks"
  cat plan.txt | crewgen extract --in - --section "Frontend Tasks" --alt`,
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.String("in", "", "plan file to read (- for stdin)")
	f.String("section", "", "section name, e.g. \"Frontend Tasks\"")
	f.Bool("alt", false, "fall back to the snake_case key when the section is missing or empty")
	f.Bool("fenced-json", false, "also look inside a ```json fence")
	_ = extractCmd.MarkFlagRequired("in")
	_ = extractCmd.MarkFlagRequired("section")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cctx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	in, _ := cmd.Flags().GetString("in")
	section, _ := cmd.Flags().GetString("section")
	alt, _ := cmd.Flags().GetBool("alt")
	fenced, _ := cmd.Flags().GetBool("fenced-json")

	plan, err := readInput(in, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ex := extract.NewExtractor()
	if fenced {
		ex = fencedExtractor()
	}

	content, strategy, ok := ex.Extract(plan, section)
	if alt && (!ok || content == "") {
		key := extract.SnakeCase(section)
		content, strategy, ok = ex.Extract(plan, key)
		cctx.Logger.Debug("trying alternate key", "key", key, "found", ok)
	}
	if !ok {
		return crewerrors.NewSectionsMissingError(section)
	}

	fmt.Fprintf(cctx.ErrOut, "strategy: %s\n", strategy)
	fmt.Fprintln(cctx.Out, content)
	return nil
}
