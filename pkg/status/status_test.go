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

package status

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/i18nmigrate/pkg/model"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, path string)
		want  model.StatusMap
	}{
		{
			name: "missing_file_is_empty",
			want: model.StatusMap{},
		},
		{
			name: "malformed_file_is_empty",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0644))
			},
			want: model.StatusMap{},
		},
		{
			name: "empty_file_is_empty",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, nil, 0644))
			},
			want: model.StatusMap{},
		},
		{
			name: "existing_entries",
			setup: func(t *testing.T, path string) {
				data := `{"src/App.tsx": {"migrated": true, "keys": ["welcome-message"]}}`
				require.NoError(t, os.WriteFile(path, []byte(data), 0644))
			},
			want: model.StatusMap{
				"src/App.tsx": {Migrated: true, Keys: []string{"welcome-message"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestLogger(t)
			path := filepath.Join(t.TempDir(), DefaultFileName)
			if tt.setup != nil {
				tt.setup(t, path)
			}

			got := New(path).Load(ctx)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdate(t *testing.T) {
	t.Run("writes_pretty_json", func(t *testing.T) {
		ctx := setupTestLogger(t)
		path := filepath.Join(t.TempDir(), "state", DefaultFileName)
		st := New(path)

		st.Update(ctx, "src/App.tsx", nil, false)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"src/App.tsx\": {\n    \"migrated\": false,\n    \"keys\": []\n  }\n}\n", string(data))
	})

	t.Run("overwrites_entry_and_keeps_others", func(t *testing.T) {
		ctx := setupTestLogger(t)
		st := New(filepath.Join(t.TempDir(), DefaultFileName))

		st.Update(ctx, "a.tsx", nil, false)
		st.Update(ctx, "b.tsx", []string{"b-title"}, true)
		st.Update(ctx, "a.tsx", []string{"a-title", "a-body"}, true)

		assert.Equal(t, model.StatusMap{
			"a.tsx": {Migrated: true, Keys: []string{"a-title", "a-body"}},
			"b.tsx": {Migrated: true, Keys: []string{"b-title"}},
		}, st.Load(ctx))
	})

	t.Run("idempotent", func(t *testing.T) {
		ctx := setupTestLogger(t)
		path := filepath.Join(t.TempDir(), DefaultFileName)
		st := New(path)

		st.Update(ctx, "a.tsx", []string{"x"}, true)
		first, err := os.ReadFile(path)
		require.NoError(t, err)

		st.Update(ctx, "a.tsx", []string{"x"}, true)
		second, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Equal(t, string(first), string(second))
	})

	t.Run("recovers_from_malformed_file", func(t *testing.T) {
		ctx := setupTestLogger(t)
		path := filepath.Join(t.TempDir(), DefaultFileName)
		require.NoError(t, os.WriteFile(path, []byte("]]"), 0644))
		st := New(path)

		st.Update(ctx, "a.tsx", []string{"x"}, true)

		assert.Equal(t, model.StatusMap{"a.tsx": {Migrated: true, Keys: []string{"x"}}}, st.Load(ctx))
	})

	t.Run("unwritable_location_does_not_panic", func(t *testing.T) {
		ctx := setupTestLogger(t)
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))

		st := New(filepath.Join(blocker, DefaultFileName))
		assert.NotPanics(t, func() { st.Update(ctx, "a.tsx", nil, false) })
		assert.Empty(t, st.Load(ctx))
	})

	t.Run("caller_slice_is_not_retained", func(t *testing.T) {
		ctx := setupTestLogger(t)
		st := New(filepath.Join(t.TempDir(), DefaultFileName))
		names := []string{"x"}

		st.Update(ctx, "a.tsx", names, true)
		names[0] = "mutated"

		entry, ok := st.Get(ctx, "a.tsx")
		require.True(t, ok)
		assert.Equal(t, []string{"x"}, entry.Keys)
	})
}

func TestIsMigrated(t *testing.T) {
	ctx := setupTestLogger(t)
	st := New(filepath.Join(t.TempDir(), DefaultFileName))

	st.Update(ctx, "done.tsx", []string{"k"}, true)
	st.Update(ctx, "failed.tsx", nil, false)

	assert.True(t, st.IsMigrated(ctx, "done.tsx"))
	assert.False(t, st.IsMigrated(ctx, "failed.tsx"))
	assert.False(t, st.IsMigrated(ctx, "unknown.tsx"))
}

func TestSummarize(t *testing.T) {
	counts := Summarize(model.StatusMap{
		"a": {Migrated: true, Keys: []string{"x", "y"}},
		"b": {Migrated: false, Keys: []string{}},
		"c": {Migrated: true, Keys: []string{"z"}},
	})

	assert.Equal(t, Counts{Total: 3, Migrated: 2, Pending: 1, Keys: 3}, counts)
	assert.Equal(t, []string{"a", "b", "c"}, SortedPaths(model.StatusMap{"c": {}, "a": {}, "b": {}}))
}

func TestStoreSummary(t *testing.T) {
	ctx := setupTestLogger(t)
	st := New(filepath.Join(t.TempDir(), DefaultFileName))

	assert.Equal(t, Counts{}, st.Summary(ctx))

	st.Update(ctx, "done.tsx", []string{"k1", "k2"}, true)
	st.Update(ctx, "empty.tsx", []string{}, false)

	assert.Equal(t, Counts{Total: 2, Migrated: 1, Pending: 1, Keys: 2}, st.Summary(ctx))
}
