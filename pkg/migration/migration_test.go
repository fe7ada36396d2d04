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

package migration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/i18nmigrate/pkg/catalog"
	"github.com/walteh/i18nmigrate/pkg/log"
	"github.com/walteh/i18nmigrate/pkg/model"
	"github.com/walteh/i18nmigrate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// MockGitChecker is a mock implementation of GitChecker
type MockGitChecker struct {
	mock.Mock
}

func (m *MockGitChecker) IsWorkingTreeClean(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// MockFinder is a mock implementation of Finder
type MockFinder struct {
	mock.Mock
}

func (m *MockFinder) Find(ctx context.Context, pattern string) ([]string, error) {
	args := m.Called(ctx, pattern)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

// fakeProcessor answers from fixed per-file results and records calls
type fakeProcessor struct {
	results map[string]*model.TransformResult
	errs    map[string]error
	onCall  func(path string)
	calls   []string
}

func (p *fakeProcessor) ProcessFile(ctx context.Context, path, appendixPath string) (*model.TransformResult, error) {
	p.calls = append(p.calls, path)
	if p.onCall != nil {
		p.onCall(path)
	}
	if err, ok := p.errs[path]; ok {
		return nil, err
	}
	if r, ok := p.results[path]; ok {
		return r, nil
	}
	return &model.TransformResult{Keys: []model.Key{}}, nil
}

type testEnv struct {
	ctx     context.Context
	dir     string
	status  *status.Store
	catalog *catalog.Store
	console *bytes.Buffer
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})

	ctx := zerolog.New(zerolog.TestWriter{T: t}).Level(zerolog.DebugLevel).WithContext(context.Background())
	console := &bytes.Buffer{}
	ctx = log.NewContext(ctx, log.NewUserLogger(ctx, console))

	dir := t.TempDir()
	return &testEnv{
		ctx:     ctx,
		dir:     dir,
		status:  status.New(filepath.Join(dir, ".i18nmigrate", status.DefaultFileName)),
		catalog: catalog.New(filepath.Join(dir, ".i18nmigrate", catalog.DefaultFileName)),
		console: console,
	}
}

func (e *testEnv) writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, "src", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func cleanGit() *MockGitChecker {
	g := &MockGitChecker{}
	g.On("IsWorkingTreeClean", mock.Anything).Return(true)
	return g
}

func finderFor(files ...string) *MockFinder {
	f := &MockFinder{}
	f.On("Find", mock.Anything, "src/**/*.tsx").Return(files, nil)
	return f
}

var welcomeKey = model.Key{Name: "welcome-message", Description: "Greeting", Default: "Welcome!"}

func TestRunMixedBatch(t *testing.T) {
	env := setupTestEnv(t)

	good := env.writeSource(t, "Good.tsx", "<div>Welcome!</div>\n")
	empty := env.writeSource(t, "Empty.tsx", "<div />\n")
	bad := env.writeSource(t, "Bad.tsx", "<div>Broken</div>\n")

	proc := &fakeProcessor{
		results: map[string]*model.TransformResult{
			good: {RewrittenContent: "<div><T keyName=\"welcome-message\" /></div>\n", Keys: []model.Key{welcomeKey}},
		},
		errs: map[string]error{
			bad: model.NewError(model.KindResponseParse, "", errors.New("unexpected end of JSON input")),
		},
	}

	git := cleanGit()
	finder := finderFor(bad, empty, good)
	o := New(git, finder, proc, env.status, env.catalog)

	summary, err := o.Run(env.ctx, Request{Pattern: "src/**/*.tsx", Preset: "react"})
	require.NoError(t, err)

	assert.Equal(t, []string{bad, empty, good}, proc.calls, "files are processed in discovery order")
	assert.Equal(t, 3, summary.Found)
	assert.Equal(t, 1, summary.Migrated)
	assert.Equal(t, 1, summary.NoKeys)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Keys)
	assert.NotEmpty(t, summary.RunID)

	assert.Equal(t, "<div><T keyName=\"welcome-message\" /></div>\n", readFile(t, good))
	assert.Equal(t, "<div />\n", readFile(t, empty), "files without keys are left untouched")
	assert.Equal(t, "<div>Broken</div>\n", readFile(t, bad), "failed files are left untouched")

	assert.Equal(t, model.StatusMap{
		good:  {Migrated: true, Keys: []string{"welcome-message"}},
		empty: {Migrated: false, Keys: []string{}},
		bad:   {Migrated: false, Keys: []string{}},
	}, env.status.Load(env.ctx))

	assert.Equal(t, model.CatalogMap{good: {welcomeKey}}, env.catalog.Load(env.ctx))

	out := env.console.String()
	assert.Contains(t, out, "response_parse")
	assert.Contains(t, out, "1 keys")

	git.AssertExpectations(t)
	finder.AssertExpectations(t)
}

func TestRunIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)

	done := env.writeSource(t, "Done.tsx", "<p>Hi</p>\n")
	retry := env.writeSource(t, "Retry.tsx", "<p>Later</p>\n")

	proc := &fakeProcessor{
		results: map[string]*model.TransformResult{
			done: {RewrittenContent: "<p><T keyName=\"hi\" /></p>\n", Keys: []model.Key{{Name: "hi", Default: "Hi"}}},
		},
		errs: map[string]error{
			retry: model.NewError(model.KindNoResponse, "", nil),
		},
	}

	o := New(cleanGit(), finderFor(done, retry), proc, env.status, env.catalog)

	_, err := o.Run(env.ctx, Request{Pattern: "src/**/*.tsx"})
	require.NoError(t, err)
	firstStatus := env.status.Load(env.ctx)
	firstCatalog := env.catalog.Load(env.ctx)

	proc.calls = nil
	summary, err := o.Run(env.ctx, Request{Pattern: "src/**/*.tsx"})
	require.NoError(t, err)

	assert.Equal(t, []string{retry}, proc.calls, "migrated files are not sent again")
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, firstStatus, env.status.Load(env.ctx))
	assert.Equal(t, firstCatalog, env.catalog.Load(env.ctx))
	assert.Equal(t, "<p><T keyName=\"hi\" /></p>\n", readFile(t, done))
}

func TestRunRetriesPreviouslyFailedFile(t *testing.T) {
	env := setupTestEnv(t)

	file := env.writeSource(t, "App.tsx", "<p>Hi</p>\n")
	env.status.Update(env.ctx, file, []string{}, false)

	proc := &fakeProcessor{
		results: map[string]*model.TransformResult{
			file: {RewrittenContent: "<p><T keyName=\"hi\" /></p>\n", Keys: []model.Key{{Name: "hi"}}},
		},
	}

	summary, err := New(cleanGit(), finderFor(file), proc, env.status, env.catalog).
		Run(env.ctx, Request{Pattern: "src/**/*.tsx"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Migrated)
	assert.True(t, env.status.IsMigrated(env.ctx, file))
}

func TestRunAbortsOnDirtyTree(t *testing.T) {
	env := setupTestEnv(t)

	git := &MockGitChecker{}
	git.On("IsWorkingTreeClean", mock.Anything).Return(false)
	finder := &MockFinder{}
	proc := &fakeProcessor{}

	summary, err := New(git, finder, proc, env.status, env.catalog).
		Run(env.ctx, Request{Pattern: "src/**/*.tsx"})
	require.NoError(t, err)

	assert.True(t, summary.Aborted)
	assert.Empty(t, proc.calls)
	finder.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)

	_, statErr := os.Stat(env.status.Path())
	assert.True(t, os.IsNotExist(statErr), "status file must not be created")
	_, statErr = os.Stat(env.catalog.Path())
	assert.True(t, os.IsNotExist(statErr), "catalog file must not be created")

	assert.Contains(t, env.console.String(), "working tree is not clean")
}

func TestRunNoFiles(t *testing.T) {
	env := setupTestEnv(t)

	proc := &fakeProcessor{}
	summary, err := New(cleanGit(), finderFor(), proc, env.status, env.catalog).
		Run(env.ctx, Request{Pattern: "src/**/*.tsx"})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Found)
	assert.Empty(t, proc.calls)
	assert.Empty(t, env.status.Load(env.ctx))
	assert.Contains(t, env.console.String(), "no files match")
}

func TestRunFinderError(t *testing.T) {
	env := setupTestEnv(t)

	finder := &MockFinder{}
	finder.On("Find", mock.Anything, "[").Return(nil, errors.New("invalid file pattern"))

	_, err := New(cleanGit(), finder, &fakeProcessor{}, env.status, env.catalog).
		Run(env.ctx, Request{Pattern: "["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file pattern")
}

func TestRunDryRunWritesNothing(t *testing.T) {
	env := setupTestEnv(t)

	file := env.writeSource(t, "App.tsx", "<p>Hi</p>\n")
	empty := env.writeSource(t, "Empty.tsx", "<p />\n")
	proc := &fakeProcessor{
		results: map[string]*model.TransformResult{
			file: {RewrittenContent: "<p><T keyName=\"hi\" /></p>\n", Keys: []model.Key{{Name: "hi"}}},
		},
	}

	summary, err := New(cleanGit(), finderFor(empty, file), proc, env.status, env.catalog).
		Run(env.ctx, Request{Pattern: "src/**/*.tsx", DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Previewed)
	assert.Equal(t, 1, summary.NoKeys)
	assert.Equal(t, 0, summary.Migrated)
	assert.Equal(t, "<p>Hi</p>\n", readFile(t, file))

	_, statErr := os.Stat(filepath.Dir(env.status.Path()))
	assert.True(t, os.IsNotExist(statErr), "no state directory in dry-run")

	out := env.console.String()
	assert.Contains(t, out, "-<p>Hi</p>")
	assert.Contains(t, out, "+<p><T keyName=\"hi\" /></p>")
}

func TestRunWriteFailure(t *testing.T) {
	env := setupTestEnv(t)

	file := env.writeSource(t, "App.tsx", "<p>Hi</p>\n")
	next := env.writeSource(t, "Next.tsx", "<p>Next</p>\n")
	proc := &fakeProcessor{
		results: map[string]*model.TransformResult{
			file: {RewrittenContent: "rewritten", Keys: []model.Key{{Name: "hi"}}},
			next: {RewrittenContent: "next rewritten", Keys: []model.Key{{Name: "next"}}},
		},
	}

	failing := func(ctx context.Context, path string, content []byte) error {
		if path == file {
			return errors.New("disk full")
		}
		return os.WriteFile(path, content, 0644)
	}

	summary, err := New(cleanGit(), finderFor(file, next), proc, env.status, env.catalog, WithWriteFunc(failing)).
		Run(env.ctx, Request{Pattern: "src/**/*.tsx"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Migrated)
	assert.Equal(t, model.StatusEntry{Migrated: false, Keys: []string{}}, env.status.Load(env.ctx)[file])
	assert.NotContains(t, env.catalog.Load(env.ctx), file, "catalog is untouched when the write fails")
	assert.Equal(t, "next rewritten", readFile(t, next))
	assert.Contains(t, env.console.String(), "file_processing")
}

func TestRunStopsWhenCanceled(t *testing.T) {
	env := setupTestEnv(t)

	first := env.writeSource(t, "A.tsx", "a\n")
	second := env.writeSource(t, "B.tsx", "b\n")

	ctx, cancel := context.WithCancel(env.ctx)
	defer cancel()

	proc := &fakeProcessor{
		results: map[string]*model.TransformResult{
			first: {RewrittenContent: "A\n", Keys: []model.Key{{Name: "a"}}},
		},
		onCall: func(string) { cancel() },
	}

	summary, err := New(cleanGit(), finderFor(first, second), proc, env.status, env.catalog).
		Run(ctx, Request{Pattern: "src/**/*.tsx"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []string{first}, proc.calls)
	assert.Equal(t, 1, summary.Migrated)
	assert.True(t, env.status.IsMigrated(env.ctx, first), "finished files stay durable")
	assert.Equal(t, "b\n", readFile(t, second))
}

// recordingStatus reports fixed migrated paths and records every query
type recordingStatus struct {
	migrated map[string]bool
	queried  []string
	updated  []string
}

func (s *recordingStatus) IsMigrated(ctx context.Context, filePath string) bool {
	s.queried = append(s.queried, filePath)
	return s.migrated[filePath]
}

func (s *recordingStatus) Update(ctx context.Context, filePath string, keyNames []string, migrated bool) {
	s.updated = append(s.updated, filePath)
}

func TestRunSkipsFilesReportedMigrated(t *testing.T) {
	env := setupTestEnv(t)

	done := env.writeSource(t, "Done.tsx", "<p>Done</p>\n")
	todo := env.writeSource(t, "Todo.tsx", "<p>Todo</p>\n")

	statuses := &recordingStatus{migrated: map[string]bool{done: true}}
	proc := &fakeProcessor{}

	summary, err := New(cleanGit(), finderFor(done, todo), proc, statuses, env.catalog).
		Run(env.ctx, Request{Pattern: "src/**/*.tsx"})
	require.NoError(t, err)

	assert.Equal(t, []string{done, todo}, statuses.queried)
	assert.Equal(t, []string{todo}, proc.calls)
	assert.Equal(t, []string{todo}, statuses.updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.NoKeys)
}

func TestRunDryRunUnchangedRewrite(t *testing.T) {
	env := setupTestEnv(t)

	file := env.writeSource(t, "Same.tsx", "<T keyName=\"hi\" />\n")
	proc := &fakeProcessor{
		results: map[string]*model.TransformResult{
			file: {RewrittenContent: "<T keyName=\"hi\" />\n", Keys: []model.Key{{Name: "hi"}}},
		},
	}

	summary, err := New(cleanGit(), finderFor(file), proc, env.status, env.catalog).
		Run(env.ctx, Request{Pattern: "src/**/*.tsx", DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Previewed)
	out := env.console.String()
	assert.Contains(t, out, "rewrite leaves the file unchanged")
	assert.NotContains(t, out, "--- a/")
}
