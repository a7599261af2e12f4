package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/geostat-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded classification runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		scheme, _ := cmd.Flags().GetString("scheme")
		field, _ := cmd.Flags().GetString("field")
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(ctx, store.RunFilter{Scheme: scheme, Field: field, Limit: limit})
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}

		fmt.Printf("%-36s %-16s %-12s %3s %12s %8s  %s\n",
			"ID", "scheme", "field", "k", "fit", "GVF", "created")
		fmt.Println(strings.Repeat("-", 100))
		for _, r := range runs {
			fmt.Printf("%-36s %-16s %-12s %3d %12s %8.4f  %s\n",
				r.ID, r.Scheme, r.Field, r.K,
				printer.Sprintf("%.4g", r.FitMeasure), r.GVF,
				r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one classification run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, _ := cmd.Flags().GetString("format")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		switch format {
		case "json":
			data, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return eris.Wrap(err, "marshal run")
			}
			fmt.Println(string(data))
		case "yaml":
			data, err := yaml.Marshal(run)
			if err != nil {
				return eris.Wrap(err, "marshal run")
			}
			fmt.Print(string(data))
		default:
			return eris.Errorf("unknown format %q (want json or yaml)", format)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().String("scheme", "", "filter by scheme")
	runsCmd.Flags().String("field", "", "filter by field")
	runsCmd.Flags().Int("limit", 20, "maximum runs to list")
	runsShowCmd.Flags().String("format", "yaml", "output format: json or yaml")

	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
