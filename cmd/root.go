// Package cmd wires the CLI surface: the root command launches the board
// UI, subcommands cover the daemon and scripting-friendly CRUD.
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tablero-app/tablero/internal/config"
	"github.com/tablero-app/tablero/internal/database"
	"github.com/tablero-app/tablero/internal/events"
	"github.com/tablero-app/tablero/internal/logging"
	"github.com/tablero-app/tablero/internal/services/board"
	"github.com/tablero-app/tablero/internal/services/column"
	"github.com/tablero-app/tablero/internal/services/task"
	"github.com/tablero-app/tablero/internal/tui"
	"github.com/tablero-app/tablero/internal/user"
)

var rootCmd = &cobra.Command{
	Use:   "tablero",
	Short: "Tablero - a terminal kanban board",
	Long: `Tablero is a terminal kanban board. Tasks keep a dense position in
their column, moves are optimistic in the UI and atomic in storage, and
workflow columns stamp started/completed times automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// appEnv bundles everything a command needs once the stack is wired.
type appEnv struct {
	cfg       *config.Config
	db        *sql.DB
	ownerID   string
	boardSvc  board.Service
	columnSvc column.Service
	taskSvc   task.Service
	events    *events.Client
}

// setup initializes logging, storage, identity, the event client and the
// services. The event client is optional: without a daemon everything
// still works, just without cross-process notifications.
func setup(ctx context.Context) (*appEnv, error) {
	if err := logging.Init(); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath, err = database.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	db, err := database.InitDB(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	ownerID, err := user.Identity()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	socketPath := cfg.SocketPath
	if socketPath == "" {
		socketPath, _ = events.DefaultSocketPath()
	}
	var eventClient *events.Client
	if socketPath != "" {
		eventClient = events.NewClient(socketPath)
		if err := eventClient.Connect(ctx); err != nil {
			slog.Debug("event daemon not reachable, running standalone", "error", err)
			eventClient = nil
		}
	}

	repo := database.NewRepository(db)
	var publisher events.EventPublisher
	if eventClient != nil {
		publisher = eventClient
	}

	return &appEnv{
		cfg:       cfg,
		db:        db,
		ownerID:   ownerID,
		boardSvc:  board.NewService(repo, publisher),
		columnSvc: column.NewService(repo, publisher),
		taskSvc:   task.NewService(repo, publisher),
		events:    eventClient,
	}, nil
}

func (e *appEnv) close() {
	if e.events != nil {
		_ = e.events.Close()
	}
	_ = e.db.Close()
}

func runTUI(ctx context.Context) error {
	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	var eventCh chan events.Event
	if env.events != nil {
		if ch, err := env.events.Listen(ctx); err == nil {
			eventCh = make(chan events.Event, 16)
			go func() {
				defer close(eventCh)
				for ev := range ch {
					eventCh <- ev
				}
			}()
		}
	}

	model := tui.NewModel(env.cfg, env.ownerID, env.boardSvc, env.columnSvc, env.taskSvc, eventCh)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
