package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/walloflove/wol-server/internal/logger"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "wolctl",
		Short:         "Operate a Wall of Love widget server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSeedCmd(opts),
		newParseCmd(),
		newRenderCmd(opts),
	)
	return cmd
}

// logger writes to stderr so command output stays pipeable.
func (o *rootOptions) logger(w io.Writer) *logger.Logger {
	return logger.New(logger.Config{
		Writer: w,
		Level:  logger.ParseLevel(o.logLevel),
	})
}
