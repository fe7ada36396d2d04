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
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/walteh/i18nmigrate/cmd/i18nmigrate/opts"
	"github.com/walteh/i18nmigrate/pkg/catalog"
	"github.com/walteh/i18nmigrate/pkg/model"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// NewKeysCmd creates the keys command
func NewKeysCmd(o *opts.RootOpts) *cobra.Command {
	var (
		format string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the translation keys found so far",
		Long: `Keys prints the key catalog: every key extracted during migration, grouped
by the file it was found in. Use --format json or yaml to feed the keys to a
translation platform.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := catalog.New(o.Config.CatalogFile).Load(cmd.Context())
			if file != "" {
				keys = model.CatalogMap{file: keys[file]}
				if keys[file] == nil {
					keys = model.CatalogMap{}
				}
			}
			return renderKeys(cmd.OutOrStdout(), keys, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	cmd.Flags().StringVar(&file, "file", "", "only show keys found in this file")

	return cmd
}

func renderKeys(w io.Writer, keys model.CatalogMap, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(keys); err != nil {
			return errors.Errorf("encoding keys as JSON: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(keys); err != nil {
			return errors.Errorf("encoding keys as YAML: %w", err)
		}
		return enc.Close()
	case "table":
		if len(keys) == 0 {
			fmt.Fprintln(w, "no keys recorded")
			return nil
		}

		files := make([]string, 0, len(keys))
		for f := range keys {
			files = append(files, f)
		}
		sort.Strings(files)

		tbl := table.NewWriter()
		tbl.SetOutputMirror(w)
		tbl.SetStyle(table.StyleLight)
		tbl.AppendHeader(table.Row{"File", "Key", "Default", "Description"})
		for _, f := range files {
			for _, k := range keys[f] {
				tbl.AppendRow(table.Row{f, k.Name, k.Default, k.Description})
			}
		}
		tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d keys", catalog.Count(keys)), "", "", ""})
		tbl.Render()
		return nil
	default:
		return errors.Errorf("unknown format %q, want table, json or yaml", format)
	}
}
