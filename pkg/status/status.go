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
	"path/filepath"
	"slices"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/i18nmigrate/pkg/model"
	"github.com/walteh/i18nmigrate/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// DefaultFileName is the status artifact name inside the state directory
const DefaultFileName = "migration-status.json"

// 📊 Store persists the per-file migration status map.
//
// Every mutation is a read-modify-write of the whole file. The store holds no
// cache, so a single writer must drive it.
type Store struct {
	path string
}

// 🏭 New creates a status store backed by the file at path
func New(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// 📖 Load reads the status map. A missing or unreadable file yields an empty map.
func (s *Store) Load(ctx context.Context) model.StatusMap {
	statuses := model.StatusMap{}
	if err := store.ReadJSON(ctx, s.path, &statuses); err != nil {
		if !errors.Is(err, store.ErrNotExist) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", s.path).Msg("migration status is malformed, starting from an empty map")
		}
		return model.StatusMap{}
	}
	return statuses
}

// 🔍 Get returns the entry for filePath, if any
func (s *Store) Get(ctx context.Context, filePath string) (model.StatusEntry, bool) {
	entry, ok := s.Load(ctx)[filePath]
	return entry, ok
}

// IsMigrated reports whether filePath has been successfully migrated
func (s *Store) IsMigrated(ctx context.Context, filePath string) bool {
	entry, ok := s.Get(ctx, filePath)
	return ok && entry.Migrated
}

// 📝 Update overwrites the entry for filePath and persists the full map.
// Failures are logged here and never returned.
func (s *Store) Update(ctx context.Context, filePath string, keyNames []string, migrated bool) {
	if err := s.update(ctx, filePath, keyNames, migrated); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("file", filePath).Msg("updating migration status")
	}
}

func (s *Store) update(ctx context.Context, filePath string, keyNames []string, migrated bool) error {
	statuses := s.Load(ctx)

	keys := slices.Clone(keyNames)
	if keys == nil {
		keys = []string{}
	}
	statuses[filePath] = model.StatusEntry{Migrated: migrated, Keys: keys}

	if err := store.WriteJSONAtomic(ctx, s.path, statuses); err != nil {
		return errors.Errorf("writing migration status: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", filePath).
		Bool("migrated", migrated).
		Int("keys", len(keys)).
		Msg("migration status updated")
	return nil
}

// 📈 Counts summarises a status map
type Counts struct {
	Total    int
	Migrated int
	Pending  int
	Keys     int
}

// Summary loads the status map and counts it
func (s *Store) Summary(ctx context.Context) Counts {
	return Summarize(s.Load(ctx))
}

// Summarize counts migrated and pending entries
func Summarize(statuses model.StatusMap) Counts {
	var c Counts
	for _, entry := range statuses {
		c.Total++
		if entry.Migrated {
			c.Migrated++
		} else {
			c.Pending++
		}
		c.Keys += len(entry.Keys)
	}
	return c
}

// SortedPaths returns the paths of a status map in lexical order
func SortedPaths(statuses model.StatusMap) []string {
	paths := make([]string, 0, len(statuses))
	for p := range statuses {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
