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

// Package catalog keeps the append-only registry of keys discovered per file.
// It is a derived artifact: resume decisions come from the status store.
package catalog

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
	"github.com/walteh/i18nmigrate/pkg/model"
	"github.com/walteh/i18nmigrate/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// DefaultFileName is the catalog artifact name inside the state directory
const DefaultFileName = "all-keys.json"

// 📚 Store persists the key catalog map
type Store struct {
	path string
}

// 🏭 New creates a catalog store backed by the file at path
func New(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// 📖 Load reads the catalog. A missing or malformed file yields an empty map.
func (s *Store) Load(ctx context.Context) model.CatalogMap {
	keys := model.CatalogMap{}
	if err := store.ReadJSON(ctx, s.path, &keys); err != nil {
		if !errors.Is(err, store.ErrNotExist) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", s.path).Msg("key catalog is empty or malformed, starting from an empty map")
		}
		return model.CatalogMap{}
	}
	return keys
}

// 💾 Save merges newKeys into the entry for filePath and persists the catalog.
// Existing keys are never removed, reordered or replaced. Failures are logged
// here and never returned.
func (s *Store) Save(ctx context.Context, filePath string, newKeys []model.Key) {
	if err := s.save(ctx, filePath, newKeys); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("file", filePath).Msg("saving keys")
	}
}

func (s *Store) save(ctx context.Context, filePath string, newKeys []model.Key) error {
	keys := s.Load(ctx)

	merged, added := Merge(keys[filePath], newKeys)
	keys[filePath] = merged

	if err := store.WriteJSONAtomic(ctx, s.path, keys); err != nil {
		return errors.Errorf("writing key catalog: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", filePath).
		Int("added", added).
		Int("total", len(merged)).
		Msg("key catalog updated")
	return nil
}

// 🔀 Merge appends the keys from incoming whose names are not yet in existing,
// preserving order. It returns the merged slice and how many keys were added.
func Merge(existing, incoming []model.Key) ([]model.Key, int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, k := range existing {
		seen[k.Name] = struct{}{}
	}

	merged := slices.Clone(existing)
	if merged == nil {
		merged = []model.Key{}
	}

	added := 0
	for _, k := range incoming {
		if _, ok := seen[k.Name]; ok {
			continue
		}
		seen[k.Name] = struct{}{}
		merged = append(merged, k)
		added++
	}

	return merged, added
}

// Count returns the number of keys across all files
func Count(keys model.CatalogMap) int {
	total := 0
	for _, ks := range keys {
		total += len(ks)
	}
	return total
}
