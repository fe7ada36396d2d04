// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/i18nmigrate/cmd/i18nmigrate/commands"
	"github.com/walteh/i18nmigrate/cmd/i18nmigrate/opts"
	"github.com/walteh/i18nmigrate/pkg/completion"
	"github.com/walteh/i18nmigrate/pkg/config"
	"github.com/walteh/i18nmigrate/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags are the flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool
}

// newRootCmd wires the command tree
func newRootCmd() *cobra.Command {
	return newRootCmdWithOpts(&opts.RootOpts{})
}

// newRootCmdWithOpts wires the command tree around preset options; fields
// left nil get their defaults once flags are parsed
func newRootCmdWithOpts(rootOpts *opts.RootOpts) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "i18nmigrate",
		Short: "Migrate hard-coded UI strings to translation keys",
		Long: `i18nmigrate sends source files to a language model, writes back the
rewritten files using translation keys and records what it did, so an
interrupted migration can be resumed with the same command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), cmd.ErrOrStderr(), flags.debug)
			cmd.SetContext(ctx)
			return newRootOpts(ctx, flags, cmd.OutOrStdout(), rootOpts)
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewMigrateCmd(rootOpts),
		commands.NewStatusCmd(rootOpts),
		commands.NewKeysCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (default: .i18nmigrate.{yaml,yml,hcl,json} in the working directory)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags and returns a context carrying it
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}

// newRootOpts fills o with the resolved config and user logger
func newRootOpts(ctx context.Context, flags *rootFlags, out io.Writer, o *opts.RootOpts) error {
	cfg, err := config.Resolve(ctx, flags.configFile, ".")
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration resolved")

	o.Config = cfg
	o.Out = out
	o.UserLogger = log.NewUserLogger(ctx, out)
	if o.NewCompleter == nil {
		o.NewCompleter = completion.NewCompleter
	}
	return nil
}
