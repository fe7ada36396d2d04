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

// Package store holds the crash-safe file primitives the persisted artifacts
// and source rewrites go through.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const defaultMode os.FileMode = 0644

// ErrNotExist is returned by ReadJSON when the backing file is absent
var ErrNotExist = errors.Base("file does not exist")

// 💾 WriteFileAtomic writes content to a temp file next to path and renames it
// into place. An existing file keeps its permissions.
func WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	mode := defaultMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking file existence: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(content); err != nil {
		cleanup()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("bytes", len(content)).Msg("wrote file atomically")
	return nil
}

// 📖 ReadJSON decodes the JSON file at path into v
func ReadJSON(ctx context.Context, path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WithStack(ErrNotExist)
		}
		return errors.Errorf("reading %s: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return errors.Errorf("parsing %s: empty file", path)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.Errorf("parsing %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Trace().Str("path", path).Msg("read json file")
	return nil
}

// 📝 WriteJSONAtomic pretty-prints v with two-space indentation and writes it atomically
func WriteJSONAtomic(ctx context.Context, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Errorf("marshaling %s: %w", path, err)
	}
	data = append(data, '\n')

	return WriteFileAtomic(ctx, path, data)
}
