package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/drrip"
	"github.com/sarchlab/drrip/datarecording"
	"github.com/sarchlab/drrip/dueling"
	"github.com/sarchlab/drrip/simulation"
	"github.com/sarchlab/drrip/trace"
)

const engineName = "DRRIPEngine"

var runCmd = &cobra.Command{
	Use:   "run <trace-file>",
	Short: "Replay an access trace through a DRRIP engine",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("num-sets", 64, "number of cache sets")
	runCmd.Flags().Int("num-ways", 4, "cache associativity")
	runCmd.Flags().Int("rrpv-bits", 2, "width of each re-reference value")
	runCmd.Flags().Int("psel-bits", 10,
		"width of the policy-selection counter")
	runCmd.Flags().String("selector", "fixed",
		"leader-set assignment, fixed or hashed")
	runCmd.Flags().Int("leaders-per-policy", 2,
		"leader sets per policy for the hashed selector")
	runCmd.Flags().String("db", "",
		"output database name, defaults to $DRRIP_DB or a unique name")
	runCmd.Flags().Bool("monitor", false, "start the monitoring server")
	runCmd.Flags().Int("monitor-port", 0, "port of the monitoring server")
	runCmd.Flags().Bool("open", false,
		"open the monitor dashboard in a browser")
}

func runReplay(cmd *cobra.Command, args []string) error {
	accesses, err := trace.ReadFile(args[0])
	if err != nil {
		return err
	}

	engine, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	dbName, _ := cmd.Flags().GetString("db")
	if dbName == "" {
		dbName = os.Getenv("DRRIP_DB")
	}

	sim := simulation.NewSimulationWithRecorder(
		datarecording.NewRecorder(dbName))
	sim.RegisterEngine(engine)

	monitorOn, _ := cmd.Flags().GetBool("monitor")
	if monitorOn {
		startMonitor(cmd, sim)
	}

	summary := sim.Replay(engineName, accesses)
	printSummary(summary)

	if monitorOn {
		waitForInterrupt()
	}

	return nil
}

func buildEngine(cmd *cobra.Command) (drrip.Engine, error) {
	numSets, _ := cmd.Flags().GetInt("num-sets")
	numWays, _ := cmd.Flags().GetInt("num-ways")
	rrpvBits, _ := cmd.Flags().GetInt("rrpv-bits")
	pselBits, _ := cmd.Flags().GetInt("psel-bits")

	builder := drrip.MakeBuilder().
		WithNumSets(numSets).
		WithNumWays(numWays).
		WithRRPVBits(rrpvBits).
		WithPSELBits(pselBits)

	selectorName, _ := cmd.Flags().GetString("selector")
	switch selectorName {
	case "fixed":
		builder = builder.WithLeaderSelector(
			dueling.NewFixedLeaderSelector())
	case "hashed":
		leadersPerPolicy, _ := cmd.Flags().GetInt("leaders-per-policy")
		builder = builder.WithLeaderSelector(
			dueling.NewHashedLeaderSelector(numSets, leadersPerPolicy))
	default:
		return nil, fmt.Errorf(
			"unknown selector %q, expected fixed or hashed", selectorName)
	}

	return builder.Build(engineName), nil
}

func startMonitor(cmd *cobra.Command, sim *simulation.Simulation) {
	port, _ := cmd.Flags().GetInt("monitor-port")

	url := sim.GetMonitor().WithPortNumber(port).StartServer()

	open, _ := cmd.Flags().GetBool("open")
	if open {
		err := browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr,
				"Failed to open browser: %s\n", err)
		}
	}
}

func printSummary(summary simulation.ReplaySummary) {
	fmt.Printf("Accesses:     %s\n",
		humanize.Comma(int64(summary.Accesses)))
	fmt.Printf("Hits:         %s\n", humanize.Comma(int64(summary.Hits)))
	fmt.Printf("Misses:       %s\n", humanize.Comma(int64(summary.Misses)))
	fmt.Printf("Aging passes: %s\n",
		humanize.Comma(int64(summary.AgingPasses)))
	fmt.Printf("Final PSEL:   %d\n", summary.FinalPSEL)
}

func waitForInterrupt() {
	fmt.Fprintln(os.Stderr,
		"Replay finished. Monitoring server is still up, "+
			"press Ctrl-C to exit.")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	<-sigs

	atexit.Exit(0)
}
