package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tablero-app/tablero/internal/models"
	"github.com/tablero-app/tablero/internal/services/task"
)

var (
	taskColumnID    int
	taskBoardID     int
	taskDescription string
	taskPriority    string
	taskMoveColumn  int
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks from the command line",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Append a task to a column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		t, err := env.taskSvc.CreateTask(cmd.Context(), task.CreateTaskRequest{
			OwnerID:     env.ownerID,
			ColumnID:    taskColumnID,
			Title:       args[0],
			Description: taskDescription,
			Priority:    models.ParsePriority(taskPriority),
		})
		if err != nil {
			return err
		}
		fmt.Printf("created task %d at position %d\n", t.ID, t.Position)
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <id> <index>",
	Short: "Move a task to an index, optionally into another column",
	Long: `Moves a task to the given index. With --to-column the task changes
column; workflow columns stamp or clear the task's timestamps as part of
the same atomic move.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[1])
		}
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		destColumn := taskMoveColumn
		if destColumn == 0 {
			current, err := env.taskSvc.GetTask(cmd.Context(), env.ownerID, id)
			if err != nil {
				return err
			}
			destColumn = current.ColumnID
		}

		t, err := env.taskSvc.MoveTask(cmd.Context(), task.MoveTaskRequest{
			OwnerID:     env.ownerID,
			TaskID:      id,
			ColumnID:    destColumn,
			TargetIndex: index,
		})
		if err != nil {
			return err
		}
		fmt.Printf("task %d now in column %d at position %d\n", t.ID, t.ColumnID, t.Position)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a board's tasks grouped by column",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		tasks, err := env.taskSvc.GetTasksByBoard(cmd.Context(), env.ownerID, taskBoardID)
		if err != nil {
			return err
		}
		for colID, list := range tasks {
			for _, t := range list {
				fmt.Printf("%d\t%d\t%d\t%s\n", colID, t.Position, t.ID, t.Title)
			}
		}
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.taskSvc.DeleteTask(cmd.Context(), env.ownerID, id); err != nil {
			return err
		}
		fmt.Printf("deleted task %d\n", id)
		return nil
	},
}

func init() {
	taskAddCmd.Flags().IntVarP(&taskColumnID, "column", "c", 0, "column ID")
	taskAddCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "task description")
	taskAddCmd.Flags().StringVarP(&taskPriority, "priority", "p", "none", "priority: none, low, medium, high, critical")
	taskMoveCmd.Flags().IntVar(&taskMoveColumn, "to-column", 0, "destination column ID (default: stay in current column)")
	taskListCmd.Flags().IntVarP(&taskBoardID, "board", "b", 0, "board ID")

	taskCmd.AddCommand(taskAddCmd, taskMoveCmd, taskListCmd, taskDeleteCmd)
	rootCmd.AddCommand(taskCmd)
}
