package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/screa/hash-challenge-solver/internal/config"
	logpkg "github.com/screa/hash-challenge-solver/internal/logger"
	"github.com/screa/hash-challenge-solver/internal/report"
	"github.com/screa/hash-challenge-solver/pkg/planner"
	solverpkg "github.com/screa/hash-challenge-solver/pkg/solver"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "challenge-solver",
		Short: "Parallel bidirectional hash challenge solver",
		Long: `Finds the number N in [0, max-number) such that SHA-256(salt || N)
equals the challenge digest. The space is split in half; one set of workers
scans the lower half upwards while another scans the upper half downwards.`,
		SilenceUsage: true,
		RunE:         runSolver,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&cfg.WorkersPerDirection, "workers", "w", config.DefaultWorkersPerDirection, "Number of worker goroutines per direction")
	flags.StringVarP(&cfg.ChallengeFile, "challenge-file", "f", "", "YAML or JSON file holding the challenge")
	flags.StringVarP(&cfg.Salt, "salt", "s", "", "Salt prefixed to each candidate")
	flags.StringVarP(&cfg.Target, "target", "t", "", "Target digest (lowercase hex)")
	flags.Uint64VarP(&cfg.MaxNumber, "max-number", "m", cfg.MaxNumber, "Exclusive upper bound of the search space")
	flags.StringVarP(&cfg.Algorithm, "algorithm", "a", cfg.Algorithm, "Challenge algorithm label (informational)")
	flags.StringVarP(&cfg.Oracle, "oracle", "o", cfg.Oracle, "Hash run by the search (SHA-256, SHA3-256, KECCAK-256)")
	flags.StringVar(&cfg.Signature, "signature", "", "Challenge signature (informational)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	flags.StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	flags.IntVarP(&cfg.LogInterval, "log-interval", "i", config.DefaultLogInterval, "Logging interval in seconds")
	flags.IntVar(&cfg.ProgressEvery, "progress-every", config.DefaultProgressEvery, "Per-worker progress line every N candidates (verbose only)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "verify <number>",
		Short: "Check a candidate number against the challenge",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "plan",
		Short: "Print how the search space is split between workers",
		Args:  cobra.NoArgs,
		RunE:  runPlan,
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSolver(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	challenge, err := cfg.GetChallenge()
	if err != nil {
		return err
	}

	setupLogging()
	defer logger.Close()

	oracle, err := cfg.GetOracle()
	if err != nil {
		return err
	}

	reporter := report.New(logger, oracle, useColor())
	reporter.Start(challenge, cfg.GetChallengeDescription(), cfg.WorkersPerDirection)

	// Stop workers on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	solver := solverpkg.NewSolver(cfg, logger, solverpkg.WithOracle(oracle))
	result, err := solver.Solve(ctx, challenge)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Printf("Received interrupt signal. Stopped after %d attempts.", solver.Attempts())
		return nil
	case err != nil:
		return err
	}

	verdict := reporter.Result(challenge, result)
	if verdict != nil && !verdict.Verified {
		return errors.New("found number failed verification")
	}
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	n, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", args[0], err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	challenge, err := cfg.GetChallenge()
	if err != nil {
		return err
	}

	setupLogging()
	defer logger.Close()

	oracle, err := cfg.GetOracle()
	if err != nil {
		return err
	}

	verdict := report.New(logger, oracle, useColor()).Check(challenge, n)
	if !verdict.Verified {
		return fmt.Errorf("%d does not solve the challenge", n)
	}
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	challenge, err := cfg.GetChallenge()
	if err != nil {
		return err
	}

	ranges, err := planner.Plan(challenge.MaxNumber, cfg.WorkersPerDirection)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "midpoint %d, %d candidates in %d ranges\n", challenge.Midpoint(), planner.Covered(ranges), len(ranges))
	for _, r := range ranges {
		fmt.Fprintf(out, "%-8s worker %2d  [%d, %d)  %d candidates\n", r.Direction, r.Index, r.Start, r.End, r.Len())
	}
	return nil
}

func setupLogging() {
	if cfg.LogFile != "" {
		// Log to a rotated file
		logger = logpkg.NewFile(cfg.LogFile)
	} else {
		// Log to stdout
		logger = logpkg.New()
		logger.SetFlags(log.LstdFlags)
	}
	logger.SetVerbose(cfg.Verbose)
}

func useColor() bool {
	return cfg.LogFile == "" && isatty.IsTerminal(os.Stdout.Fd())
}
