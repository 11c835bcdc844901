package demo

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// options collects every flag the demo command accepts.
type options struct {
	g0Size  uint
	g1Size  uint
	objects uint
	json    bool
	level   logLevel
}

// Execute builds and runs the gcdemo command tree.
func Execute() error {
	opts := &options{level: logLevel{zapcore.InfoLevel}}

	root := &cobra.Command{
		Use:   "gcdemo",
		Short: "Drive the two-generation copying collector with a synthetic mutator",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.level.Level)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			return runDemo(cmd.OutOrStdout(), logger, opts)
		},
	}

	flags := root.Flags()
	flags.UintVar(&opts.g0Size, "g0-size", 4096, "nursery (G0) size in bytes")
	flags.UintVar(&opts.g1Size, "g1-size", 8192, "mature generation (G1) size in bytes")
	flags.UintVar(&opts.objects, "objects", 64, "number of cons cells the demo mutator allocates")
	flags.BoolVar(&opts.json, "json", false, "print the final collector state as JSON instead of text")
	flags.VarP(&opts.level, "log-level", "l", "zap log level (debug, info, warn, error)")

	return root.Execute()
}

var _ pflag.Value = (*logLevel)(nil)

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
