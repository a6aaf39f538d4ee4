package cmd

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zyanho/lunac/internal/command"
	"github.com/zyanho/lunac/internal/logging"
	"github.com/zyanho/lunac/internal/watch"
)

func newUpdateCmd(a *app) *cobra.Command {
	var (
		watchDir bool
		debounce time.Duration
	)

	c := &cobra.Command{
		Use:   "update",
		Short: "Update plugin linker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watchDir {
				return a.dispatcher.Dispatch(cmd.Context(), command.Update{})
			}

			// Watch mode reports each update, so it logs at info unless told otherwise.
			level, err := a.level(logging.LevelInfo)
			if err != nil {
				return err
			}
			logger := logging.New(level)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w, err := watch.New(
				filepath.Join(a.root, a.cfg.PluginsDir),
				func(ctx context.Context) error {
					return a.dispatcher.Dispatch(ctx, command.Update{})
				},
				watch.WithDebounce(debounce),
				watch.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			return w.Run(ctx)
		},
	}

	c.Flags().BoolVarP(&watchDir, "watch", "w", false, "keep running and update again whenever the plugins directory changes")
	c.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a watched change triggers an update")
	return workspaceCmd(c)
}
