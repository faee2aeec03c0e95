package main

import (
	"fmt"
	"os"

	"github.com/jshufro/abibind/bindgen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newRootCmd() *cobra.Command {
	cfg := &config{}
	cmd := &cobra.Command{
		Use:   "abibind --abi <file> --type <Name>",
		Short: "Generate typed Go bindings from a contract ABI",
		Long: `abibind reads a contract ABI and writes a Go file with one set of
generic encode, decode and call functions per constructor, function and event.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			log, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return generate(cfg, log, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.ABI, "abi", "", "path of the contract ABI (JSON)")
	flags.StringVar(&cfg.TypeName, "type", "", "exported name prefixing the generated declarations")
	flags.StringVar(&cfg.Package, "pkg", "", "package of the generated file (default: lower-cased type name)")
	flags.StringVarP(&cfg.Out, "out", "o", "", "output file, stdout if empty")
	flags.StringVar(&cfg.Lib, "lib", "", "import path of the runtime library (default "+bindgen.DefaultLib+")")
	flags.IntVar(&cfg.Parallelism, "parallel", 0, "members generated concurrently, 0 for one at a time")
	flags.StringVar(&cfg.LogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	_ = cmd.MarkFlagRequired("abi")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// newLogger logs human-readable lines to stderr, keeping stdout for the
// generated source.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "abibind: %v\n", err)
		os.Exit(1)
	}
}
