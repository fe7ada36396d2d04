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

// Package text renders line diffs of rewritten files.
package text

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

// Line is one line of a diff
type Line struct {
	Op   Op
	Text string
}

// 📝 Change is the line diff between two versions of a file
type Change struct {
	Path    string
	Lines   []Line
	Added   int
	Removed int
}

// 🔍 Compare computes the line diff between before and after
func Compare(path, before, after string) *Change {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	change := &Change{Path: path}
	for _, d := range diffs {
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		default:
			op = OpEqual
		}

		for _, l := range splitLines(d.Text) {
			change.Lines = append(change.Lines, Line{Op: op, Text: l})
			switch op {
			case OpInsert:
				change.Added++
			case OpDelete:
				change.Removed++
			}
		}
	}
	return change
}

// Modified reports whether anything changed
func (c *Change) Modified() bool {
	return c.Added > 0 || c.Removed > 0
}

// Stat returns a short "+N -M" summary
func (c *Change) Stat() string {
	return fmt.Sprintf("+%d -%d", c.Added, c.Removed)
}

// 🎨 Unified renders the diff with context lines of unchanged text around each
// change. Skipped runs are marked with "@@".
func (c *Change) Unified(context int) string {
	var sb strings.Builder
	sb.WriteString(color.New(color.Bold).Sprintf("--- a/%s\n", c.Path))
	sb.WriteString(color.New(color.Bold).Sprintf("+++ b/%s\n", c.Path))

	keep := make([]bool, len(c.Lines))
	for i, l := range c.Lines {
		if l.Op == OpEqual {
			continue
		}
		for j := max(0, i-context); j <= min(len(c.Lines)-1, i+context); j++ {
			keep[j] = true
		}
	}

	skipping := false
	for i, l := range c.Lines {
		if !keep[i] {
			if !skipping {
				sb.WriteString(color.CyanString("@@") + "\n")
				skipping = true
			}
			continue
		}
		skipping = false

		switch l.Op {
		case OpInsert:
			sb.WriteString(color.GreenString("+"+l.Text) + "\n")
		case OpDelete:
			sb.WriteString(color.RedString("-"+l.Text) + "\n")
		default:
			sb.WriteString(" " + l.Text + "\n")
		}
	}

	return sb.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		lines = append(lines, strings.TrimSuffix(p, "\n"))
	}
	return lines
}
