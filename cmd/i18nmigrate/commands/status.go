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
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/walteh/i18nmigrate/cmd/i18nmigrate/opts"
	"github.com/walteh/i18nmigrate/pkg/catalog"
	"github.com/walteh/i18nmigrate/pkg/model"
	"github.com/walteh/i18nmigrate/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// statusReport is everything the status command shows
type statusReport struct {
	statuses    model.StatusMap
	catalog     model.CatalogMap
	statusSize  int64
	catalogSize int64
}

// NewStatusCmd creates the status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	var (
		pendingOnly bool
		format      string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which files have been migrated",
		Long: `Status reads the migration status and key catalog and reports, per file,
whether it has been migrated and how many keys were recorded. It never
modifies anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			statuses := status.New(o.Config.StatusFile)
			keys := catalog.New(o.Config.CatalogFile)

			report := &statusReport{}
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				report.statuses = statuses.Load(gctx)
				size, err := fileSize(statuses.Path())
				report.statusSize = size
				return err
			})
			g.Go(func() error {
				report.catalog = keys.Load(gctx)
				size, err := fileSize(keys.Path())
				report.catalogSize = size
				return err
			})
			if err := g.Wait(); err != nil {
				return errors.Errorf("reading migration state: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(report.statuses) == 0 {
				fmt.Fprintf(out, "no migration status recorded in %s\n", statuses.Path())
				return nil
			}

			switch format {
			case "table":
				renderStatusTable(out, report, pendingOnly)
			case "list":
				renderStatusList(out, report, pendingOnly)
			default:
				return errors.Errorf("unknown format %q, want table or list", format)
			}

			counts := status.Summarize(report.statuses)
			fmt.Fprintf(out, "%d files: %d migrated, %d pending, %d keys in catalog (status %s, catalog %s)\n",
				counts.Total, counts.Migrated, counts.Pending, catalog.Count(report.catalog),
				humanize.Bytes(uint64(report.statusSize)), humanize.Bytes(uint64(report.catalogSize)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "only show files that still need migrating")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or list")

	return cmd
}

func renderStatusTable(w io.Writer, report *statusReport, pendingOnly bool) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "State", "Keys", "Catalog"})

	shown, keys, cataloged := 0, 0, 0
	for _, path := range status.SortedPaths(report.statuses) {
		entry := report.statuses[path]
		if pendingOnly && entry.Migrated {
			continue
		}
		shown++
		keys += len(entry.Keys)
		cataloged += len(report.catalog[path])
		tbl.AppendRow(table.Row{path, status.StateOf(entry), len(entry.Keys), len(report.catalog[path])})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d files", shown), "", keys, cataloged})
	tbl.Render()
}

func renderStatusList(w io.Writer, report *statusReport, pendingOnly bool) {
	for _, path := range status.SortedPaths(report.statuses) {
		entry := report.statuses[path]
		if pendingOnly && entry.Migrated {
			continue
		}
		fmt.Fprintln(w, status.FormatEntry(path, entry))
	}
}

// fileSize returns the size of path, 0 when it does not exist
func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Errorf("stat %s: %w", path, err)
	}
	return info.Size(), nil
}
