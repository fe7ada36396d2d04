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

// Package log prints user-facing migration progress next to the structured
// zerolog stream.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 45 // base width for file path
	outcomeWidth = 10 // width for outcome text
)

// 🎯 Outcome is what happened to one file during a run
type Outcome int

const (
	OutcomeMigrated Outcome = iota
	OutcomeSkipped
	OutcomeNoKeys
	OutcomeFailed
	OutcomePreview
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMigrated:
		return "migrated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNoKeys:
		return "no keys"
	case OutcomeFailed:
		return "failed"
	case OutcomePreview:
		return "preview"
	default:
		return "unknown"
	}
}

// 🖼️ FileChange describes the result for one file
type FileChange struct {
	Outcome Outcome
	Path    string
	Keys    int
	Kind    string // error kind for failures
	Err     error
}

// 📢 UserLogger writes human-readable lines to a console and mirrors every
// line into the zerolog logger it was created with.
type UserLogger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 NewUserLogger creates a user logger bound to the logger carried by ctx
func NewUserLogger(ctx context.Context, console io.Writer) *UserLogger {
	return &UserLogger{
		zlog:    *zerolog.Ctx(ctx),
		console: console,
	}
}

type contextKey struct{}

// 🎯 FromContext returns the user logger stored in ctx, or one that discards
// console output
func FromContext(ctx context.Context) *UserLogger {
	if l, ok := ctx.Value(contextKey{}).(*UserLogger); ok {
		return l
	}
	return NewUserLogger(ctx, io.Discard)
}

// NewContext stores l in ctx
func NewContext(ctx context.Context, l *UserLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (u *UserLogger) formatFileChange(change FileChange) string {
	var symbol string
	var c color.Attribute
	switch change.Outcome {
	case OutcomeMigrated:
		symbol, c = "✓", color.FgGreen
	case OutcomeSkipped:
		symbol, c = "•", color.FgCyan
	case OutcomeNoKeys:
		symbol, c = "-", color.FgYellow
	case OutcomeFailed:
		symbol, c = "✗", color.FgRed
	default:
		symbol, c = "⟳", color.FgBlue
	}

	line := fmt.Sprintf("%*s%s %-*s %s",
		fileIndent, "",
		color.New(c).Sprint(symbol),
		nameWidth, change.Path,
		color.New(c).Sprintf("%-*s", outcomeWidth, change.Outcome.String()),
	)

	switch change.Outcome {
	case OutcomeMigrated, OutcomePreview:
		line += fmt.Sprintf(" %d keys", change.Keys)
	case OutcomeFailed:
		if change.Kind != "" {
			line += " " + color.New(color.Faint).Sprint(change.Kind)
		}
	}
	return line
}

// 📝 LogFileChange prints one file result
func (u *UserLogger) LogFileChange(change FileChange) {
	u.mu.Lock()
	defer u.mu.Unlock()

	fmt.Fprintln(u.console, u.formatFileChange(change))

	ev := u.zlog.Info()
	if change.Err != nil {
		ev = u.zlog.Error().Err(change.Err).Str("kind", change.Kind)
	}
	ev.Str("file", change.Path).
		Str("outcome", change.Outcome.String()).
		Int("keys", change.Keys).
		Msg("file processed")
}

// 📝 Header prints a section header
func (u *UserLogger) Header(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("i18nmigrate")
	fmt.Fprintf(u.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	u.zlog.Info().Msg(msg)
}

// Raw prints text verbatim, used for diff previews
func (u *UserLogger) Raw(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprint(u.console, text)
}

func (u *UserLogger) print(p pterm.PrefixPrinter, prefix, msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	p.WithPrefix(pterm.Prefix{Text: prefix, Style: p.Prefix.Style}).WithWriter(u.console).Println(msg)
}

// 📝 Info prints an informational line
func (u *UserLogger) Info(msg string) {
	u.print(pterm.Info, "ℹ️", msg)
	u.zlog.Info().Msg(msg)
}

// 📝 Success prints a success line
func (u *UserLogger) Success(msg string) {
	u.print(pterm.Success, "✅", msg)
	u.zlog.Info().Msg(msg)
}

// 📝 Warning prints a warning line
func (u *UserLogger) Warning(msg string) {
	u.print(pterm.Warning, "⚠️", msg)
	u.zlog.Warn().Msg(msg)
}

// 📝 Error prints an error line
func (u *UserLogger) Error(msg string, err error) {
	u.print(pterm.Error, "❌", msg)
	u.zlog.Error().Err(err).Msg(msg)
}

// Infof prints a formatted informational line
func (u *UserLogger) Infof(format string, args ...any) {
	u.Info(fmt.Sprintf(format, args...))
}

// Successf prints a formatted success line
func (u *UserLogger) Successf(format string, args ...any) {
	u.Success(fmt.Sprintf(format, args...))
}

// Warningf prints a formatted warning line
func (u *UserLogger) Warningf(format string, args ...any) {
	u.Warning(fmt.Sprintf(format, args...))
}
