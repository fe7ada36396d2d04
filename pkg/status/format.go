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
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/i18nmigrate/pkg/model"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 45 // base width for file path
	stateWidth = 10 // width for state text
)

// State labels as shown to users
const (
	StateMigrated = "migrated"
	StatePending  = "pending"
)

// StateOf returns the label for an entry
func StateOf(entry model.StatusEntry) string {
	if entry.Migrated {
		return StateMigrated
	}
	return StatePending
}

// 🎯 FormatEntry formats one status entry for display
func FormatEntry(path string, entry model.StatusEntry) string {
	var prefix string
	if entry.Migrated {
		prefix = color.GreenString("✓")
	} else {
		prefix = color.YellowString("•")
	}

	state := fmt.Sprintf("%-*s", stateWidth, StateOf(entry))
	if entry.Migrated {
		state = color.GreenString(state)
	} else {
		state = color.YellowString(state)
	}

	return fmt.Sprintf("%s%s %-*s %s %d keys",
		strings.Repeat(" ", fileIndent),
		prefix,
		nameWidth, path,
		state,
		len(entry.Keys),
	)
}

// FormatProgress formats a progress message with percentage
func FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}
