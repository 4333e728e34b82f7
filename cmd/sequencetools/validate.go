package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/enasequence/sequencetools-sub002/internal/cds"
	"github.com/enasequence/sequencetools-sub002/internal/duckdb"
	"github.com/enasequence/sequencetools-sub002/internal/entry"
	"github.com/enasequence/sequencetools-sub002/internal/output"
	"github.com/enasequence/sequencetools-sub002/internal/validate"
)

type validateFlags struct {
	outputFile string
	showAll    bool
	writeFixed string
}

var validateFlagKeys = map[string]string{
	"output.format":    "output-format",
	"output.color":     "color",
	"validate.workers": "workers",
	"results.duckdb":   "duckdb",
}

func newValidateCmd() *cobra.Command {
	var vf validateFlags

	cmd := &cobra.Command{
		Use:   "validate [options] <feature-table> [sequences.fasta]",
		Short: "Translate and check every CDS feature of a feature table",
		Long: `Translate every CDS feature of a YAML feature table and report the
translation messages. Sequences are read from the feature table or from an
optional FASTA file matched by accession. Both inputs may be gzipped.`,
		Example: `  sequencetools validate entries.yaml
  sequencetools validate entries.yaml sequences.fa.gz
  sequencetools validate -f summary --all entries.yaml
  sequencetools validate --fix --write-fixed fixed.yaml entries.yaml
  sequencetools validate --duckdb results.duckdb entries.yaml`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, translationFlagKeys); err != nil {
				return err
			}
			return bindFlags(cmd, validateFlagKeys)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runValidate(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), args, vf)
		},
	}

	fs := cmd.Flags()
	fs.Int("table", 1, "Translation table for features without /transl_table")
	fs.Bool("fix", false, "Repair features where possible")
	fs.Bool("fix-degenerate-start", true, "Accept a degenerate start codon in fix mode")
	fs.Bool("fix-right-partial-codon", true, "Accept a trailing partial codon in fix mode")
	fs.StringP("output-format", "f", "tab", "Output format: tab, summary")
	fs.Bool("color", true, "Colour severities in summary output")
	fs.Int("workers", 0, "Translation workers (0 = all CPUs)")
	fs.String("duckdb", "", "Store results in this DuckDB database")
	fs.StringVarP(&vf.outputFile, "output", "o", "", "Output file (default: stdout)")
	fs.BoolVar(&vf.showAll, "all", false, "List features without messages in summary output")
	fs.StringVar(&vf.writeFixed, "write-fixed", "", "Write the feature table after fixes to this file")

	return cmd
}

func runValidate(ctx context.Context, stdout, stderr io.Writer, args []string, vf validateFlags) error {
	tablePath := args[0]
	set, err := entry.LoadFeatureTable(tablePath)
	if err != nil {
		return err
	}
	logger.Info("loaded feature table",
		zap.String("path", tablePath),
		zap.Int("entries", set.Len()),
		zap.Int("coding_features", set.CodingFeatureCount()))

	if len(args) > 1 {
		n, err := entry.LoadFASTA(args[1], set)
		if err != nil {
			return err
		}
		logger.Info("loaded sequences", zap.String("path", args[1]), zap.Int("sequences", n))
	}

	out := stdout
	if vf.outputFile != "" {
		f, err := os.Create(vf.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var (
		writers []validate.ResultWriter
		summary *output.SummaryWriter
	)
	switch format := viper.GetString("output.format"); format {
	case "tab":
		tw := output.NewTabWriter(out)
		if err := tw.WriteHeader(); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		writers = append(writers, tw)
	case "summary":
		summary = output.NewSummaryWriter(out, vf.showAll, viper.GetBool("output.color"))
		if err := summary.WriteHeader(); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		writers = append(writers, summary)
	default:
		return &usageError{fmt.Errorf("unknown output format %q", format)}
	}

	opts := translatorOptions()

	var (
		store *duckdb.Store
		runID int64
	)
	if path := viper.GetString("results.duckdb"); path != "" {
		store, runID, err = startStoredRun(path, tablePath, opts.Mode)
		if err != nil {
			return err
		}
		defer store.Close()
		writers = append(writers, duckdb.NewResultWriter(store, runID))
	}

	v := validate.NewValidator(cds.New(opts))
	v.SetWorkers(viper.GetInt("validate.workers"))
	v.SetLogger(logger)

	result, err := v.Validate(ctx, set, writers...)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.FinishRun(runID, result.Features, result.Failed, result.Fixed); err != nil {
			return err
		}
	}
	if summary != nil {
		summary.WriteSummary(stderr)
	}

	if vf.writeFixed != "" {
		if err := writeFixed(vf.writeFixed, set, len(args) == 1); err != nil {
			return err
		}
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d coding features failed translation", result.Failed, result.Features)
	}
	return nil
}

// startStoredRun opens the results database and records a run over the
// feature table.
func startStoredRun(dbPath, tablePath string, mode cds.Mode) (*duckdb.Store, int64, error) {
	fp, err := duckdb.StatFile(tablePath)
	if err != nil {
		return nil, 0, fmt.Errorf("stat feature table: %w", err)
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return nil, 0, err
	}

	last, err := store.LastRun(tablePath)
	if err != nil {
		store.Close()
		return nil, 0, err
	}
	if last != nil && last.Matches(fp) && last.Mode == mode.String() {
		logger.Info("feature table unchanged since previous run",
			zap.Int64("run", last.ID),
			zap.Int("failed", last.Failed))
	}

	id, err := store.StartRun(fp, mode.String())
	if err != nil {
		store.Close()
		return nil, 0, err
	}
	return store, id, nil
}

func writeFixed(path string, set *entry.Set, withSequence bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fixed feature table: %w", err)
	}
	if err := entry.WriteFeatureTable(f, set, withSequence); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
