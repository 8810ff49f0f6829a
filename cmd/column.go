package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tablero-app/tablero/internal/services/column"
)

var (
	columnBoardID        int
	columnMarksStarted   bool
	columnMarksCompleted bool
)

var columnCmd = &cobra.Command{
	Use:   "column",
	Short: "Manage columns from the command line",
}

var columnListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a board's columns in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		cols, err := env.columnSvc.GetColumnsByBoard(cmd.Context(), env.ownerID, columnBoardID)
		if err != nil {
			return err
		}
		for _, c := range cols {
			flags := ""
			if c.MarksStarted {
				flags += " [starts]"
			}
			if c.MarksCompleted {
				flags += " [completes]"
			}
			fmt.Printf("%d\t%d\t%s%s\n", c.Position, c.ID, c.Title, flags)
		}
		return nil
	},
}

var columnCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Append a column to a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		c, err := env.columnSvc.CreateColumn(cmd.Context(), column.CreateColumnRequest{
			OwnerID:        env.ownerID,
			BoardID:        columnBoardID,
			Title:          args[0],
			MarksStarted:   columnMarksStarted,
			MarksCompleted: columnMarksCompleted,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created column %d at position %d\n", c.ID, c.Position)
		return nil
	},
}

var columnMoveCmd = &cobra.Command{
	Use:   "move <id> <index>",
	Short: "Move a column to an index on its board",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid column id %q", args[0])
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

		c, err := env.columnSvc.MoveColumn(cmd.Context(), column.MoveColumnRequest{
			OwnerID:     env.ownerID,
			ColumnID:    id,
			TargetIndex: index,
			BoardID:     columnBoardID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("column %d now at position %d\n", c.ID, c.Position)
		return nil
	},
}

var columnDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a column and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid column id %q", args[0])
		}
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.columnSvc.DeleteColumn(cmd.Context(), env.ownerID, id, columnBoardID); err != nil {
			return err
		}
		fmt.Printf("deleted column %d\n", id)
		return nil
	},
}

func init() {
	columnCmd.PersistentFlags().IntVarP(&columnBoardID, "board", "b", 0, "board ID")
	columnCreateCmd.Flags().BoolVar(&columnMarksStarted, "starts", false, "entering this column stamps a task's start time")
	columnCreateCmd.Flags().BoolVar(&columnMarksCompleted, "completes", false, "entering this column stamps a task's completion time")

	columnCmd.AddCommand(columnListCmd, columnCreateCmd, columnMoveCmd, columnDeleteCmd)
	rootCmd.AddCommand(columnCmd)
}
