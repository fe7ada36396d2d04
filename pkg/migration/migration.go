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

// Package migration drives a resumable, file-by-file translation key migration.
package migration

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/i18nmigrate/pkg/log"
	"github.com/walteh/i18nmigrate/pkg/model"
	"github.com/walteh/i18nmigrate/pkg/status"
	"github.com/walteh/i18nmigrate/pkg/store"
	"github.com/walteh/i18nmigrate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// previewContext is the number of unchanged lines shown around dry-run changes
const previewContext = 3

// GitChecker gates a run on a clean working tree
type GitChecker interface {
	IsWorkingTreeClean(ctx context.Context) bool
}

// Finder resolves a glob pattern to files in a stable order
type Finder interface {
	Find(ctx context.Context, pattern string) ([]string, error)
}

// FileProcessor produces the rewrite and keys for one file without touching disk
type FileProcessor interface {
	ProcessFile(ctx context.Context, path, appendixPath string) (*model.TransformResult, error)
}

// StatusStore is the per-file migration record
type StatusStore interface {
	IsMigrated(ctx context.Context, filePath string) bool
	Update(ctx context.Context, filePath string, keyNames []string, migrated bool)
}

// CatalogStore is the cross-file key registry
type CatalogStore interface {
	Save(ctx context.Context, filePath string, keys []model.Key)
}

// WriteFunc persists rewritten file content
type WriteFunc func(ctx context.Context, path string, content []byte) error

// Request describes one migration run
type Request struct {
	Pattern      string
	Preset       string
	AppendixPath string
	DryRun       bool
}

// 📊 Summary counts what a run did
type Summary struct {
	RunID     string
	Aborted   bool
	Found     int
	Skipped   int
	Migrated  int
	NoKeys    int
	Failed    int
	Previewed int
	Keys      int
}

// 🚀 Orchestrator runs migrations. It is the only writer of the status and
// catalog stores and processes files strictly one at a time.
type Orchestrator struct {
	git       GitChecker
	finder    Finder
	processor FileProcessor
	status    StatusStore
	catalog   CatalogStore
	write     WriteFunc
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithWriteFunc replaces the atomic file writer used for rewrites
func WithWriteFunc(fn WriteFunc) Option {
	return func(o *Orchestrator) {
		o.write = fn
	}
}

// 🏭 New creates an orchestrator over its collaborators
func New(git GitChecker, finder Finder, processor FileProcessor, statuses StatusStore, catalog CatalogStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		git:       git,
		finder:    finder,
		processor: processor,
		status:    statuses,
		catalog:   catalog,
		write:     store.WriteFileAtomic,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// 🎯 Run migrates every file matching req.Pattern that is not yet migrated.
//
// Per-file failures are recorded and logged, never returned. The returned
// error is reserved for run-level problems: discovery failures and context
// cancellation between files.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}

	logger := zerolog.Ctx(ctx).With().
		Str("run_id", summary.RunID).
		Str("pattern", req.Pattern).
		Str("preset", req.Preset).
		Bool("dry_run", req.DryRun).
		Logger()
	ctx = logger.WithContext(ctx)
	ui := log.FromContext(ctx)

	if !o.git.IsWorkingTreeClean(ctx) {
		summary.Aborted = true
		logger.Warn().
			Err(model.NewError(model.KindWorkingTreeDirty, "", nil)).
			Stringer("kind", model.KindWorkingTreeDirty).
			Msg("aborting migration")
		ui.Warning("working tree is not clean, commit or stash your changes before migrating")
		return summary, nil
	}

	files, err := o.finder.Find(ctx, req.Pattern)
	if err != nil {
		return summary, errors.Errorf("finding files for %q: %w", req.Pattern, err)
	}
	summary.Found = len(files)

	if len(files) == 0 {
		logger.Info().Stringer("kind", model.KindNoFilesFound).Msg("nothing to migrate")
		ui.Infof("no files match %s", req.Pattern)
		return summary, nil
	}

	ui.Infof("found %d files matching %s", len(files), req.Pattern)

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, errors.Errorf("migration stopped after %d of %d files: %w", i, len(files), err)
		}

		o.migrateFile(ctx, req, file, summary)
		logger.Debug().Str("file", file).Msg(status.FormatProgress(i+1, len(files)))
	}

	logger.Info().
		Int("found", summary.Found).
		Int("migrated", summary.Migrated).
		Int("skipped", summary.Skipped).
		Int("no_keys", summary.NoKeys).
		Int("failed", summary.Failed).
		Int("keys", summary.Keys).
		Msg("migration run complete")

	return summary, nil
}

func (o *Orchestrator) migrateFile(ctx context.Context, req Request, file string, summary *Summary) {
	ui := log.FromContext(ctx)

	if o.status.IsMigrated(ctx, file) {
		summary.Skipped++
		ui.LogFileChange(log.FileChange{Outcome: log.OutcomeSkipped, Path: file})
		return
	}

	result, err := o.processor.ProcessFile(ctx, file, req.AppendixPath)
	if err != nil {
		o.recordFailure(ctx, req, file, err, summary)
		return
	}

	if len(result.Keys) == 0 {
		summary.NoKeys++
		if !req.DryRun {
			o.status.Update(ctx, file, []string{}, false)
		}
		ui.LogFileChange(log.FileChange{Outcome: log.OutcomeNoKeys, Path: file})
		return
	}

	if req.DryRun {
		o.preview(ctx, file, result)
		summary.Previewed++
		summary.Keys += len(result.Keys)
		return
	}

	if err := o.write(ctx, file, []byte(result.RewrittenContent)); err != nil {
		o.recordFailure(ctx, req, file, model.NewError(model.KindFileProcessing, file, err), summary)
		return
	}

	o.status.Update(ctx, file, result.KeyNames(), true)
	o.catalog.Save(ctx, file, result.Keys)

	summary.Migrated++
	summary.Keys += len(result.Keys)
	ui.LogFileChange(log.FileChange{Outcome: log.OutcomeMigrated, Path: file, Keys: len(result.Keys)})
}

func (o *Orchestrator) recordFailure(ctx context.Context, req Request, file string, err error, summary *Summary) {
	kind := model.KindOf(err)

	zerolog.Ctx(ctx).Debug().
		Err(err).
		Str("file", file).
		Stringer("kind", kind).
		Msg("file migration failed")

	if !req.DryRun {
		o.status.Update(ctx, file, []string{}, false)
	}

	summary.Failed++
	log.FromContext(ctx).LogFileChange(log.FileChange{
		Outcome: log.OutcomeFailed,
		Path:    file,
		Kind:    kind.String(),
		Err:     err,
	})
}

func (o *Orchestrator) preview(ctx context.Context, file string, result *model.TransformResult) {
	ui := log.FromContext(ctx)

	original, err := os.ReadFile(file)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", file).Msg("reading file for preview")
	} else {
		change := text.Compare(file, string(original), result.RewrittenContent)
		zerolog.Ctx(ctx).Debug().Str("file", file).Str("diff", change.Stat()).Msg("previewing rewrite")
		if change.Modified() {
			ui.Raw(change.Unified(previewContext))
		} else {
			ui.Infof("%s: keys found but the rewrite leaves the file unchanged", file)
		}
	}

	ui.LogFileChange(log.FileChange{Outcome: log.OutcomePreview, Path: file, Keys: len(result.Keys)})
}
