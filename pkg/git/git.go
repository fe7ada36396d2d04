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

// Package git answers whether the working tree is safe to rewrite in place.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🌳 Checker runs git in a directory
type Checker struct {
	dir    string
	binary string
}

// 🏭 New creates a checker for dir ("" means the current directory)
func New(dir string) *Checker {
	return &Checker{dir: dir, binary: "git"}
}

// Status returns the porcelain status lines of the working tree
func (c *Checker) Status(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, c.binary, "status", "--porcelain")
	cmd.Dir = c.dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Errorf("git status failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// 🧹 IsWorkingTreeClean reports whether there are no pending changes. Any
// failure to ask git counts as not clean.
func (c *Checker) IsWorkingTreeClean(ctx context.Context) bool {
	logger := zerolog.Ctx(ctx)

	lines, err := c.Status(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("checking git working tree")
		return false
	}

	if len(lines) > 0 {
		logger.Warn().Int("changes", len(lines)).Strs("status", lines).Msg("git working tree is not clean, commit or stash your changes first")
		return false
	}

	return true
}
