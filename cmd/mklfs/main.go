package main

/**
 * SPDX-License-Identifier: Apache-2.0
 */

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kaist-cp/rv6lfs/pkg/elog"
	"github.com/kaist-cp/rv6lfs/pkg/lfsbuild"
	"github.com/kaist-cp/rv6lfs/pkg/lfsconfig"
)

var log = &elog.CLI{}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the single mklfs command: an image path followed
// by one or more input file paths, exactly the argument shape spec.md §6
// defines.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mklfs <image> <file>...",
		Short:         "build a log-structured filesystem image",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := lfsconfig.Load(cmd.Flags())
			if err != nil {
				return err
			}

			log.IsVerbose = cfg.Verbose
			log.IsDebug = cfg.Debug
			switch {
			case cfg.Debug:
				logrus.SetLevel(logrus.TraceLevel)
			case cfg.Verbose:
				logrus.SetLevel(logrus.DebugLevel)
			}
			logrus.SetFormatter(log)

			if err := lfsbuild.Build(args[0], args[1:], log); err != nil {
				log.Errorf("%v", err)
				return err
			}

			return nil
		},
	}

	lfsconfig.BindFlags(cmd.Flags(), lfsconfig.Default())

	return cmd
}
