package cli

import (
	"fmt"

	"github.com/okian/redpacket/internal/domain/history"
	"github.com/okian/redpacket/pkg/logger"
	"github.com/spf13/cobra"
)

func newHistoryCommand(env *runtimeEnv) *cobra.Command {
	var (
		path   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print a saved history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := env.store(path, format)
			if err != nil {
				return err
			}
			doc, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}

			h := history.FromDocument(doc)
			env.log.Debug(cmd.Context(), "history loaded",
				logger.String("path", store.Path()),
				logger.Int("records", h.Len()),
			)
			if h.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No records.")
				return nil
			}
			printLines(cmd.OutOrStdout(), h.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "history file (defaults to the configured history_file)")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (defaults to the file extension)")
	return cmd
}
