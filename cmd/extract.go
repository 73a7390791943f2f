package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/datextract/internal/extract"
	"github.com/sells-group/datextract/internal/model"
	"github.com/sells-group/datextract/internal/report"
	"github.com/sells-group/datextract/internal/source"
	"github.com/sells-group/datextract/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file|url|->...",
	Short: "Extract dates from documents",
	Long:  "Loads each document (a file path, an http(s) URL, or - for stdin), extracts the dates it mentions and prints the annotations.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cmd.Flags().Changed("concurrency") {
			cfg.Extract.Concurrency, _ = cmd.Flags().GetInt("concurrency")
		}
		if err := cfg.Validate("extract"); err != nil {
			return err
		}

		formatName, _ := cmd.Flags().GetString("format")
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		if format.Binary() && output == "" {
			return eris.Errorf("--format %s requires --output", format)
		}

		params, err := resolveParams(cmd)
		if err != nil {
			return err
		}
		ext, err := buildExtractor()
		if err != nil {
			return err
		}

		var st store.Store
		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := cfg.Validate("runs"); err != nil {
				return err
			}
			if st, err = initStore(ctx); err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		b := &batch{
			ext:         ext,
			loader:      newLoader(),
			store:       st,
			params:      params,
			concurrency: cfg.Extract.Concurrency,
			stdin:       cmd.InOrStdin(),
		}
		results, err := b.run(ctx, args)
		if err != nil {
			return err
		}

		var rows []report.Row
		failed := 0
		for _, r := range results {
			if r.err != nil {
				failed++
				continue
			}
			rows = append(rows, report.Rows(r.doc.Source, r.anns)...)
		}

		out := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return eris.Wrapf(err, "create %s", output)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}
		if err := report.Write(out, format, rows); err != nil {
			return err
		}

		if failed > 0 {
			return eris.Errorf("%d of %d document(s) failed", failed, len(results))
		}
		return nil
	},
}

// batch extracts dates from several documents concurrently.
type batch struct {
	ext         *extract.Extractor
	loader      *source.Loader
	store       store.Store // nil disables run persistence
	params      extract.Params
	concurrency int
	stdin       io.Reader
}

// docResult is the outcome for one document reference. A failed load or save
// sets err; the other documents are unaffected.
type docResult struct {
	ref   string
	doc   model.Document
	runID string
	anns  []model.DateAnnotation
	err   error
}

// run processes refs and returns one result per ref, in input order. The
// returned error is set only when the context is cancelled.
func (b *batch) run(ctx context.Context, refs []string) ([]docResult, error) {
	results := make([]docResult, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, b.concurrency))
	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.process(gctx, ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "extract")
	}
	return results, nil
}

func (b *batch) process(ctx context.Context, ref string) docResult {
	res := docResult{ref: ref}
	log := zap.L().With(zap.String("source", ref))

	var runID string
	if b.store != nil {
		run, err := b.store.CreateRun(ctx, ref, b.params.Record())
		if err != nil {
			res.err = err
			log.Error("create run failed", zap.Error(err))
			return res
		}
		runID = run.ID
		res.runID = runID
	}

	doc, err := b.load(ctx, ref)
	if err != nil {
		res.err = err
		log.Error("load failed", zap.Error(err))
		b.fail(ctx, runID, err)
		return res
	}
	res.doc = doc

	res.anns = extract.CollectAnnotations(b.ext.Annotations(doc.Text, b.params))
	log.Info("document processed",
		zap.Int("chars", len(doc.Text)),
		zap.Int("dates", len(res.anns)),
	)

	if b.store != nil {
		if err := b.store.SaveAnnotations(ctx, runID, res.anns); err != nil {
			res.err = err
			log.Error("save annotations failed", zap.Error(err))
			b.fail(ctx, runID, err)
			return res
		}
		if err := b.store.CompleteRun(ctx, runID); err != nil {
			res.err = err
			log.Error("complete run failed", zap.Error(err))
		}
	}
	return res
}

func (b *batch) load(ctx context.Context, ref string) (model.Document, error) {
	if ref == "-" {
		return b.loader.ReadFrom("stdin", b.stdin, "")
	}
	return b.loader.Load(ctx, ref)
}

func (b *batch) fail(ctx context.Context, runID string, cause error) {
	if b.store == nil || runID == "" {
		return
	}
	if err := b.store.FailRun(ctx, runID, cause); err != nil {
		zap.L().Warn("mark run failed", zap.String("run_id", runID), zap.Error(err))
	}
}

func init() {
	extractCmd.Flags().String("format", "table", "output format: table, csv, json or xlsx")
	extractCmd.Flags().StringP("output", "o", "", "write output to a file instead of stdout")
	extractCmd.Flags().Bool("save", false, "persist each document as a run in the configured store")
	extractCmd.Flags().Int("concurrency", 0, "documents processed in parallel (default from config)")
	addParamFlags(extractCmd)
	rootCmd.AddCommand(extractCmd)
}
