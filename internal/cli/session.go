package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	service "github.com/okian/redpacket/internal/app"
	"github.com/okian/redpacket/internal/domain/history"
	"github.com/okian/redpacket/pkg/logger"
	"github.com/spf13/cobra"
)

const sessionHelp = `Commands:
  AMOUNT PEOPLE   split AMOUNT among PEOPLE participants
  history         print every draw of this session
  save            write the history to the configured file
  help            show this message
  quit            end the session`

func newSessionCommand(env *runtimeEnv) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Interactive session reading draws from stdin",
		Long: "Reads one command per line from stdin.\n\n" + sessionHelp + `

Invalid input is reported and the session continues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := env.store("", "")
			if err != nil {
				return err
			}
			svc, err := env.newService(seed, store)
			if err != nil {
				return err
			}
			return runSession(cmd, env, svc, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the configured seed or the clock)")
	return cmd
}

func runSession(cmd *cobra.Command, env *runtimeEnv, svc *service.Service, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	env.log.Info(ctx, "session started", logger.String("session", svc.History().ID()))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			env.log.Info(ctx, "session ended", logger.Int("records", svc.History().Len()))
			return nil
		case "help":
			fmt.Fprintln(out, sessionHelp)
		case "history":
			if svc.History().Len() == 0 {
				fmt.Fprintln(out, "No records yet.")
				continue
			}
			printLines(out, svc.Render())
		case "save":
			if err := svc.Save(ctx); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "History saved to %s\n", env.cfg.HistoryFile)
		default:
			if len(fields) != 2 {
				fmt.Fprintln(out, "Error: expected AMOUNT PEOPLE, type help for commands")
				continue
			}
			res, err := svc.Draw(ctx, fields[0], fields[1])
			if res.Index > 0 {
				printLines(out, history.RenderShares(res.Shares()))
			}
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read session input: %w", err)
	}
	env.log.Info(ctx, "session ended", logger.Int("records", svc.History().Len()))
	return nil
}
