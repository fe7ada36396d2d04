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

// Package finder discovers candidate source files from a glob pattern.
package finder

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/src-d/enry/v2"
	"gitlab.com/tozd/go/errors"
)

// sniffSize is how much of a file is read to detect binary content
const sniffSize = 8000

// DefaultIgnore is always applied on top of configured ignores
var DefaultIgnore = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/dist/**",
	"**/build/**",
}

// 🔍 Finder globs for files, dropping ignored, vendored and binary ones
type Finder struct {
	ignore []string
}

// 🏭 New creates a finder with extra ignore globs
func New(ignore ...string) *Finder {
	all := append([]string{}, DefaultIgnore...)
	all = append(all, ignore...)
	return &Finder{ignore: all}
}

// 🎯 Find returns the regular files matching pattern in lexical order
func (f *Finder) Find(ctx context.Context, pattern string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, errors.Errorf("invalid file pattern %q", pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.Errorf("globbing %q: %w", pattern, err)
	}

	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		if f.shouldIgnore(match) {
			logger.Trace().Str("file", match).Msg("ignored by pattern")
			continue
		}
		if enry.IsVendor(relativeTo(base, match)) {
			logger.Trace().Str("file", match).Msg("ignored vendored file")
			continue
		}

		info, err := os.Lstat(match)
		if err != nil {
			return nil, errors.Errorf("checking %s: %w", match, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		binary, err := isBinary(match)
		if err != nil {
			return nil, err
		}
		if binary {
			logger.Trace().Str("file", match).Msg("ignored binary file")
			continue
		}

		files = append(files, match)
	}

	sort.Strings(files)
	logger.Debug().Str("pattern", pattern).Int("matches", len(matches)).Int("files", len(files)).Msg("discovered files")
	return files, nil
}

// shouldIgnore checks if a file should be ignored based on patterns
func (f *Finder) shouldIgnore(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range f.ignore {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return true
		}
	}
	return false
}

// relativeTo returns path relative to the glob base, in slash form
func relativeTo(base, path string) string {
	rel, err := filepath.Rel(filepath.FromSlash(base), path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func isBinary(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, errors.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, errors.Errorf("reading %s: %w", path, err)
	}
	return enry.IsBinary(buf[:n]), nil
}
