package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Coobeliues/vector-search/internal/history"
	"github.com/Coobeliues/vector-search/pkg/config"
	"github.com/Coobeliues/vector-search/pkg/utils"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "List recorded archiving runs",
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("error loading configuration: %w", err)
		}
		path := cfg.History.Path
		if path == "" {
			path, err = history.DefaultPath()
			if err != nil {
				return fmt.Errorf("error resolving history path: %w", err)
			}
		}

		store, err := history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List(ctx, historyLimit)
		if err != nil {
			return err
		}

		switch historyFormat {
		case "json":
			if runs == nil {
				runs = []history.Run{}
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(runs)
		case "", "table":
			outputRunsTable(runs)
			return nil
		default:
			return fmt.Errorf("invalid format: %s (valid: table, json)", historyFormat)
		}
	},
}

func outputRunsTable(runs []history.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Status", "Project", "Size", "Members", "Duration", "Created", "Error"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetAutoWrapText(false)

	for _, r := range runs {
		table.Append([]string{
			r.ID,
			r.Status,
			r.Project,
			humanize.IBytes(uint64(r.SizeBytes)),
			fmt.Sprintf("%d", r.Members),
			fmt.Sprintf("%dms", r.DurationMS),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			utils.TruncateError(r.Error, 40),
		})
	}
	table.Render()
}

func init() {
	RootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list (0 lists all)")
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "Output format: table, json")
}
