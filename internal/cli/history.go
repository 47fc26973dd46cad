package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/history"
)

// historyOpts holds the flags of the history command.
type historyOpts struct {
	backend string
	envFile string
	date    string
	limit   int
}

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	opts := historyOpts{backend: history.BackendFile, limit: 20}

	cmd := &cobra.Command{
		Use:   "history [projects.yaml]",
		Short: "List history snapshots or show the ranking of one run",
		Example: `  # List all runs
  bestof history

  # Show the top projects of one run
  bestof history --date 2024-06-15 --limit 10`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := documentPath(args)
			settings, err := loadSettings(resolve(path, opts.envFile))
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			doc, err := config.Load(path)
			if err != nil {
				return err
			}
			store, err := openHistory(cmd.Context(), opts.backend, resolve(path, doc.Configuration.ProjectsHistoryFolder), settings.MongoURI)
			if err != nil {
				return err
			}
			if store == nil {
				printInfo("History is disabled: %s sets no projects_history_folder", path)
				return nil
			}
			defer store.Close()

			if opts.date == "" {
				list, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 {
					printInfo("No snapshots stored")
					return nil
				}
				return writeSummaries(os.Stdout, list)
			}

			date, err := time.Parse(history.DateLayout, opts.date)
			if err != nil {
				return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", opts.date)
			}
			snap, err := store.Load(cmd.Context(), date)
			if err != nil {
				return err
			}
			return writeRecords(os.Stdout, snap, opts.limit)
		},
	}

	cmd.Flags().StringVar(&opts.backend, "history", opts.backend, "history store: "+strings.Join(history.Backends(), ", "))
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "file with settings loaded into the environment")
	cmd.Flags().StringVar(&opts.date, "date", "", "show the records of the run on this day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.limit, "limit", opts.limit, "maximum number of records shown, 0 for all")

	return cmd
}

// writeSummaries renders one row per snapshot.
func writeSummaries(w io.Writer, list []history.Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Run", "Projects"})

	var data [][]string
	for _, s := range list {
		data = append(data, []string{s.Date.Format(history.DateLayout), s.RunID, strconv.Itoa(s.Projects)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeRecords renders the records of a snapshot ordered by projectrank.
func writeRecords(w io.Writer, snap *history.Snapshot, limit int) error {
	records := append([]history.Record(nil), snap.Records...)
	sort.SliceStable(records, func(i, j int) bool { return records[i].ProjectRank > records[j].ProjectRank })
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Project", "Category", "Score", "Stars", "Shown"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range records {
		shown := "yes"
		if !r.Show {
			shown = "no"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Name,
			r.Category,
			strconv.Itoa(r.ProjectRank),
			strconv.Itoa(r.StarCount),
			shown,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Run %s on %s: %d records\n", snap.RunID, snap.Key(), len(snap.Records))
	return err
}
