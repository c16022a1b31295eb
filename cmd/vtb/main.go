// Command vtb runs one coverage-driven verification run against the
// built-in loopback device and prints the run report. The exit code is
// non-zero iff the verdict is failed.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/vtb/coverage"
	"github.com/sarchlab/vtb/monitoring"
	"github.com/sarchlab/vtb/recording"
	"github.com/sarchlab/vtb/report"
	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/verify"
)

var (
	flagSeed               int64
	flagPolicy             string
	flagPayloads           string
	flagPayloadMax         uint64
	flagCoveragePlan       string
	flagThreshold          float64
	flagMaxIterations      int
	flagExpectedQueueBound int
	flagMonitorBufferBound int
	flagPredictLatency     int64
	flagDUTLatency         int64
	flagRecord             string
	flagServe              bool
	flagPort               int
	flagNoConvergence      bool
)

var rootCmd = &cobra.Command{
	Use:           "vtb",
	Short:         "Run a coverage-driven verification run",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()

	f.Int64Var(&flagSeed, "seed", 1,
		"seed of the stimulus generator")
	f.StringVar(&flagPolicy, "policy", "random",
		"generation policy: directed, random, or coverage-directed")
	f.StringVar(&flagPayloads, "payloads", "",
		"comma-separated payload list for the directed policy")
	f.Uint64Var(&flagPayloadMax, "payload-max", 0xFF,
		"inclusive upper bound of the randomized payload domain")
	f.StringVar(&flagCoveragePlan, "coverage-plan", "",
		"path of the YAML coverage plan")
	f.Float64Var(&flagThreshold, "threshold", 100.0,
		"coverage percentage at which the run converges")
	f.IntVar(&flagMaxIterations, "max-iterations", 1000,
		"iteration budget")
	f.IntVar(&flagExpectedQueueBound, "expected-queue-bound", 16,
		"bound of the expected queue")
	f.IntVar(&flagMonitorBufferBound, "monitor-buffer-bound", 16,
		"bound of each monitor subscriber inbox")
	f.Int64Var(&flagPredictLatency, "predict-latency", 1,
		"reference model latency in ticks")
	f.Int64Var(&flagDUTLatency, "dut-latency", 1,
		"loopback device latency in ticks")
	f.StringVar(&flagRecord, "record", "",
		"record the run into a SQLite database at the given path")
	f.BoolVar(&flagServe, "serve", false,
		"serve run progress over HTTP while running")
	f.IntVar(&flagPort, "port", 0,
		"port of the progress server, random if 0")
	f.BoolVar(&flagNoConvergence, "no-require-convergence", false,
		"pass even when the run did not converge, as long as no "+
			"failure was recorded")
}

func run(cmd *cobra.Command, _ []string) error {
	// A .env file can pre-set VTB_* variables; explicit flags still win.
	_ = godotenv.Load()
	if err := applyEnvDefaults(cmd); err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	bins, err := loadBins()
	if err != nil {
		return err
	}

	builder := verify.MakeBuilder().
		WithConfig(cfg).
		WithBins(bins)

	if flagRecord != "" {
		rec := recording.New(flagRecord)
		builder = builder.WithListener(recording.NewTransactionLog(rec))
	}

	env := builder.Build("Env")

	if flagServe {
		monitoring.NewServer(env).WithPortNumber(flagPort).StartServer()
	}

	res, runErr := env.Run()

	fmt.Print(report.Format(res))

	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}

	if !res.Passed {
		return fmt.Errorf("verification failed")
	}

	return nil
}

var envFlags = map[string]string{
	"VTB_SEED":          "seed",
	"VTB_POLICY":        "policy",
	"VTB_PAYLOADS":      "payloads",
	"VTB_COVERAGE_PLAN": "coverage-plan",
	"VTB_RECORD":        "record",
}

func applyEnvDefaults(cmd *cobra.Command) error {
	for envName, flagName := range envFlags {
		value := os.Getenv(envName)
		if value == "" || cmd.Flags().Changed(flagName) {
			continue
		}

		if err := cmd.Flags().Set(flagName, value); err != nil {
			return fmt.Errorf("applying %s: %w", envName, err)
		}
	}

	return nil
}

func buildConfig() (verify.Config, error) {
	cfg := verify.DefaultConfig()

	cfg.Seed = flagSeed
	cfg.Policy = verify.Policy(flagPolicy)
	cfg.PayloadMax = flagPayloadMax
	cfg.CoverageThreshold = flagThreshold
	cfg.MaxIterations = flagMaxIterations
	cfg.ExpectedQueueBound = flagExpectedQueueBound
	cfg.MonitorBufferBound = flagMonitorBufferBound
	cfg.PredictLatency = sim.VTick(flagPredictLatency)
	cfg.DUTLatency = sim.VTick(flagDUTLatency)
	cfg.RequireConvergence = !flagNoConvergence

	if flagPayloads != "" {
		payloads, err := parsePayloads(flagPayloads)
		if err != nil {
			return verify.Config{}, err
		}
		cfg.DirectedPayloads = payloads
	}

	if err := cfg.Validate(); err != nil {
		return verify.Config{}, err
	}

	return cfg, nil
}

func parsePayloads(s string) ([]uint64, error) {
	parts := strings.Split(s, ",")
	payloads := make([]uint64, 0, len(parts))

	for _, part := range parts {
		p, err := strconv.ParseUint(strings.TrimSpace(part), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing payload %q: %w", part, err)
		}

		payloads = append(payloads, p)
	}

	return payloads, nil
}

func loadBins() ([]*coverage.Bin, error) {
	if flagCoveragePlan == "" {
		return nil, nil
	}

	return coverage.LoadPlanFile(flagCoveragePlan)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
