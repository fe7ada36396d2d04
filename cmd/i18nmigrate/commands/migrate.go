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
package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/i18nmigrate/cmd/i18nmigrate/opts"
	"github.com/walteh/i18nmigrate/pkg/catalog"
	"github.com/walteh/i18nmigrate/pkg/finder"
	"github.com/walteh/i18nmigrate/pkg/git"
	"github.com/walteh/i18nmigrate/pkg/log"
	"github.com/walteh/i18nmigrate/pkg/migration"
	"github.com/walteh/i18nmigrate/pkg/preset"
	"github.com/walteh/i18nmigrate/pkg/processor"
	"github.com/walteh/i18nmigrate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// migrateFlags override the config file for one run
type migrateFlags struct {
	pattern      string
	appendixPath string
	preset       string
	dryRun       bool
}

// NewMigrateCmd creates the migrate command
func NewMigrateCmd(o *opts.RootOpts) *cobra.Command {
	flags := &migrateFlags{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate files to translation keys",
		Long: `Migrate rewrites every file matching the pattern to use translation keys.
It will:
1. Refuse to run on a dirty git working tree
2. Skip files already recorded as migrated
3. Send each remaining file to the completion service, one at a time
4. Write the rewritten file, then record its status and keys

Failures are reported per file and retried on the next run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "migrate").Logger().WithContext(cmd.Context())
			ctx = log.NewContext(ctx, o.UserLogger)

			if err := runMigrate(ctx, o, flags); err != nil {
				o.UserLogger.Error(fmt.Sprintf("migration failed: %v", err), err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.pattern, "pattern", "p", "", "glob of files to migrate (default: the preset's pattern)")
	cmd.Flags().StringVarP(&flags.appendixPath, "appendixPath", "a", "", "file appended to the system prompt")
	cmd.Flags().StringVar(&flags.preset, "preset", "", fmt.Sprintf("rewrite convention, one of %v", preset.Names()))
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show the rewrites without writing anything")

	return cmd
}

func runMigrate(ctx context.Context, o *opts.RootOpts, flags *migrateFlags) error {
	cfg := o.Config

	presetName := cfg.Preset
	if flags.preset != "" {
		presetName = flags.preset
	}
	p, err := preset.Get(presetName)
	if err != nil {
		return err
	}

	pattern := firstNonEmpty(flags.pattern, cfg.Pattern, p.DefaultPattern)
	appendixPath := firstNonEmpty(flags.appendixPath, cfg.AppendixPath)

	completionOpts, err := cfg.CompletionOptions()
	if err != nil {
		return errors.Errorf("configuring completion provider: %w", err)
	}
	completer, err := o.NewCompleter(ctx, completionOpts)
	if err != nil {
		return errors.Errorf("creating completion client: %w", err)
	}

	var gitChecker migration.GitChecker = git.New("")
	if o.GitChecker != nil {
		gitChecker = o.GitChecker
	}

	proc := processor.New(p, completer)
	statuses := status.New(cfg.StatusFile)

	orchestrator := migration.New(
		gitChecker,
		finder.New(cfg.Ignore...),
		proc,
		statuses,
		catalog.New(cfg.CatalogFile),
	)

	header := fmt.Sprintf("migrating %s with the %s preset", pattern, proc.Preset().Name)
	if flags.dryRun {
		header += " (dry run)"
	}
	o.UserLogger.Header(header)

	summary, err := orchestrator.Run(ctx, migration.Request{
		Pattern:      pattern,
		Preset:       proc.Preset().Name,
		AppendixPath: appendixPath,
		DryRun:       flags.dryRun,
	})
	if err != nil {
		return err
	}

	reportSummary(o.UserLogger, summary, flags.dryRun)
	if !summary.Aborted && !flags.dryRun && summary.Found > 0 {
		counts := statuses.Summary(ctx)
		o.UserLogger.Infof("%d of %d recorded files migrated overall (%s)", counts.Migrated, counts.Total, statuses.Path())
	}
	return nil
}

func reportSummary(ui *log.UserLogger, s *migration.Summary, dryRun bool) {
	switch {
	case s.Aborted, s.Found == 0:
		return
	case dryRun:
		ui.Infof("%d files previewed, %d without keys, %d failed, nothing written", s.Previewed, s.NoKeys, s.Failed)
	case s.Failed > 0:
		ui.Warningf("%d migrated, %d skipped, %d without keys, %d failed; run again to retry", s.Migrated, s.Skipped, s.NoKeys, s.Failed)
	default:
		ui.Successf("%d migrated, %d skipped, %d without keys (%d keys extracted)", s.Migrated, s.Skipped, s.NoKeys, s.Keys)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
