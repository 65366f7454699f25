package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sarchlab/drrip/datarecording"
	"github.com/sarchlab/drrip/simulation"
)

var statsCmd = &cobra.Command{
	Use:   "stats <db-file>",
	Short: "Summarize a recorded replay database",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	reader := datarecording.NewReader(args[0])
	defer reader.Close()

	reader.MapTable(simulation.AccessLogTable, simulation.AccessRecord{})

	results, total, err := reader.Query(
		context.Background(),
		simulation.AccessLogTable,
		datarecording.QueryParams{OrderBy: "Seq"},
	)
	if err != nil {
		return fmt.Errorf("failed to read access log: %w", err)
	}

	if total == 0 {
		fmt.Println("The access log is empty.")

		return nil
	}

	hits := 0
	agingPasses := 0
	policyCounts := map[string]int{}

	var last *simulation.AccessRecord

	for _, r := range results {
		record := r.(*simulation.AccessRecord)

		if record.Hit {
			hits++
		} else {
			policyCounts[record.Policy]++
		}
		agingPasses += record.AgingPasses

		last = record
	}

	fmt.Printf("Accesses:      %s\n", humanize.Comma(int64(total)))
	fmt.Printf("Hits:          %s\n", humanize.Comma(int64(hits)))
	fmt.Printf("Misses:        %s\n", humanize.Comma(int64(total-hits)))
	for policy, count := range policyCounts {
		fmt.Printf("  %-12s %s\n",
			policy+":", humanize.Comma(int64(count)))
	}
	fmt.Printf("Aging passes:  %s\n", humanize.Comma(int64(agingPasses)))
	fmt.Printf("Final PSEL:    %d\n", last.PSEL)

	return nil
}
