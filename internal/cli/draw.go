package cli

import (
	"fmt"

	"github.com/okian/redpacket/internal/domain/history"
	"github.com/spf13/cobra"
)

func newDrawCommand(env *runtimeEnv) *cobra.Command {
	var (
		amount string
		people string
		rounds int
		save   bool
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Split an amount among participants",
		Long: `Runs one or more draws in a fresh session, prints each result and
then the full history report.

Example:
  redpacket draw --amount 100 --people 3 --rounds 2 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rounds <= 0 {
				return fmt.Errorf("--rounds must be greater than zero, got %d", rounds)
			}
			store, err := env.store("", "")
			if err != nil {
				return err
			}
			svc, err := env.newService(seed, store)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			for i := 0; i < rounds; i++ {
				res, err := svc.Draw(ctx, amount, people)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Draw %d:\n", res.Index)
				printLines(out, history.RenderShares(res.Shares()))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "History:")
			printLines(out, svc.Render())

			if save && !env.cfg.Autosave {
				if err := svc.Save(ctx); err != nil {
					return err
				}
			}
			if save || env.cfg.Autosave {
				fmt.Fprintf(out, "History saved to %s\n", store.Path())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "total amount to split")
	cmd.Flags().StringVar(&people, "people", "", "number of participants")
	cmd.Flags().IntVar(&rounds, "rounds", 1, "number of draws")
	cmd.Flags().BoolVar(&save, "save", false, "save the history to the configured file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the configured seed or the clock)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("people")
	return cmd
}
