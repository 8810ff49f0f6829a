package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tablero-app/tablero/internal/daemon"
	"github.com/tablero-app/tablero/internal/logging"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the change-notification daemon",
	Long: `Runs the unix-socket daemon that fans board-changed events out to
every connected tablero process, so boards open in multiple terminals
stay in sync. One daemon per user is enough.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}

		home := os.Getenv("HOME")
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home directory: %w", err)
			}
		}

		dir := filepath.Join(home, ".tablero")
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		socketPath := filepath.Join(dir, "daemon.sock")

		server, err := daemon.NewServer(socketPath)
		if err != nil {
			return fmt.Errorf("create daemon: %w", err)
		}

		slog.Info("tablero daemon starting", "socket_path", socketPath, "pid", os.Getpid())
		if err := server.Start(cmd.Context()); err != nil {
			return fmt.Errorf("daemon: %w", err)
		}
		slog.Info("tablero daemon shut down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
