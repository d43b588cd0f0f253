package cli

import (
	"fmt"
	"runtime"

	service "github.com/okian/redpacket/internal/app"
	"github.com/okian/redpacket/internal/simulation"
	"github.com/spf13/cobra"
)

func newSimulateCommand(env *runtimeEnv) *cobra.Command {
	var (
		amount  string
		people  string
		rounds  int
		workers int
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run many draws and summarise the shares",
		Long: `Partitions the same amount many times and reports how the shares are
distributed, including how often a participant gets nothing or a negative
share.

Example:
  redpacket simulate --amount 0.01 --people 100 --rounds 10000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			total, count, err := service.ParseInput(amount, people)
			if err != nil {
				return err
			}
			minShare, err := env.cfg.MinShareAmount()
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = env.cfg.Seed
			}

			runner := simulation.NewRunner(
				simulation.WithWorkers(workers),
				simulation.WithSeed(seed),
				simulation.WithMinShare(minShare),
				simulation.WithLogger(env.log),
				simulation.WithMetrics(env.metrics),
				simulation.WithMaxParticipants(env.cfg.MaxParticipants),
			)
			stats, err := runner.Run(cmd.Context(), total, count, rounds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total: %s, Participants: %d, Rounds: %d\n", stats.Total.Fixed(), stats.Participants, stats.Rounds)
			fmt.Fprintf(out, "Shares: %d\n", stats.Shares)
			fmt.Fprintf(out, "Min share: %s\n", stats.MinShare.Fixed())
			fmt.Fprintf(out, "Max share: %s\n", stats.MaxShare.Fixed())
			fmt.Fprintf(out, "Mean share: %s\n", stats.MeanShare.Round().Fixed())
			fmt.Fprintf(out, "Zero shares: %d\n", stats.ZeroShares)
			fmt.Fprintf(out, "Negative shares: %d\n", stats.NegativeShares)
			fmt.Fprintf(out, "Max deviation: %s\n", stats.MaxDeviation.Fixed())
			fmt.Fprintf(out, "Duration: %s (%.0f draws/s)\n", stats.Duration, stats.DrawsPerSecond())
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "total amount to split")
	cmd.Flags().StringVar(&people, "people", "", "number of participants")
	cmd.Flags().IntVar(&rounds, "rounds", 1000, "number of draws")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "concurrent workers")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base random seed (0 uses the configured seed or the clock)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("people")
	return cmd
}
