package main

import (
	"fmt"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/datextract/internal/extract"
	"github.com/sells-group/datextract/internal/model"
	"github.com/sells-group/datextract/internal/report"
)

var explainCmd = &cobra.Command{
	Use:   "explain [file|url|-]",
	Short: "Show every candidate and why it was accepted or rejected",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, _ := cmd.Flags().GetString("text")
		if (text == "") == (len(args) == 0) {
			return eris.New("explain: pass exactly one of a document or --text")
		}

		params, err := resolveParams(cmd)
		if err != nil {
			return err
		}
		ext, err := buildExtractor()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			b := &batch{loader: newLoader(), stdin: cmd.InOrStdin()}
			doc, err := b.load(ctx, args[0])
			if err != nil {
				return err
			}
			text = doc.Text
		}

		outs := slices.Collect(ext.Outcomes(text, params))
		return writeExplanation(cmd, ext, text, params, outs)
	},
}

func writeExplanation(cmd *cobra.Command, ext *extract.Extractor, text string, params extract.Params, outs []model.CandidateOutcome) error {
	w := cmd.OutOrStdout()
	if err := report.WriteOutcomes(w, outs); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w)
	if err := report.WriteStats(w, extract.RejectionStats(slices.Values(outs))); err != nil {
		return err
	}

	anns := extract.CollectAnnotations(ext.Annotate(text, slices.Values(outs), params.Threshold))
	_, _ = fmt.Fprintf(w, "\n%d date(s) at or above threshold %.2f\n", len(anns), params.Threshold)
	return nil
}

func init() {
	explainCmd.Flags().String("text", "", "explain this text instead of loading a document")
	addParamFlags(explainCmd)
	rootCmd.AddCommand(explainCmd)
}
