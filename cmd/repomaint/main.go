package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dsablic/repomaint/internal/metrics"
	"github.com/dsablic/repomaint/internal/scoring"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// exitError carries a process exit code other than 1.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	_ = godotenv.Load()

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "repomaint",
		Short:         "Score repository maintainability",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (default .repomaint.yaml in the working or home directory)")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newMetricsCmd())
	root.AddCommand(newAuthCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the metrics and their weights",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"Metric", "Weight", "Description"})
			var rows [][]string
			for _, name := range scoring.Order {
				rows = append(rows, []string{
					string(name),
					fmt.Sprintf("%.0f%%", scoring.Weights[name]*100),
					metrics.Describe(name),
				})
			}
			if err := table.Bulk(rows); err != nil {
				return err
			}
			return table.Render()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "repomaint %s (analysis rules %s)\n", version, scoring.AnalysisVersion)
		},
	}
}
