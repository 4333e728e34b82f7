// Package main provides the sequencetools command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/enasequence/sequencetools-sub002/internal/cds"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is replaced by the root command before any subcommand runs.
var logger = zap.NewNop()

// usageError marks errors caused by bad command-line arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "Run 'sequencetools --help' for usage.\n")
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "sequencetools",
		Short: "Translate and validate coding features of nucleotide entries",
		Long: `sequencetools translates CDS features with the NCBI genetic codes, checks
them against submission rules and optionally repairs the common mistakes.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			logger = l
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.sequencetools.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress and per-feature details to stderr")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	cmd.AddCommand(newTranslateCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newTablesCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

func setDefaults() {
	viper.SetDefault("translation.default_table", 1)
	viper.SetDefault("translation.fix", false)
	viper.SetDefault("translation.fix_degenerate_start_codon", true)
	viper.SetDefault("translation.fix_right_partial_codon", true)
	viper.SetDefault("validate.workers", 0)
	viper.SetDefault("output.format", "tab")
	viper.SetDefault("output.color", true)
	viper.SetDefault("results.duckdb", "")
}

// initConfig reads the config file and SEQUENCETOOLS_* environment
// variables. A missing config file is not an error; config set creates it.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".sequencetools")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SEQUENCETOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	return cfg.Build()
}

// translationFlagKeys maps config keys to the flags shared by translate
// and validate.
var translationFlagKeys = map[string]string{
	"translation.default_table":              "table",
	"translation.fix":                        "fix",
	"translation.fix_degenerate_start_codon": "fix-degenerate-start",
	"translation.fix_right_partial_codon":    "fix-right-partial-codon",
}

// bindFlags binds the command's flags to config keys. Binding happens when
// the command runs since several commands share keys.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// translatorOptions builds translator options from the translation.* keys.
func translatorOptions() cds.Options {
	opts := cds.DefaultOptions()
	opts.DefaultTable = viper.GetInt("translation.default_table")
	if viper.GetBool("translation.fix") {
		opts.Mode = cds.ModeFix
	}
	opts.FixDegenerateStartCodon = viper.GetBool("translation.fix_degenerate_start_codon")
	opts.FixRightPartialCodon = viper.GetBool("translation.fix_right_partial_codon")
	return opts
}
