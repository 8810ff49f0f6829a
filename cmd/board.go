package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Manage boards from the command line",
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your boards",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		boards, err := env.boardSvc.GetBoards(cmd.Context(), env.ownerID)
		if err != nil {
			return err
		}
		for _, b := range boards {
			fmt.Printf("%d\t%s\n", b.ID, b.Name)
		}
		return nil
	},
}

var boardCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		b, err := env.boardSvc.CreateBoard(cmd.Context(), env.ownerID, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("created board %d: %s\n", b.ID, b.Name)
		return nil
	},
}

var boardDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a board and everything on it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid board id %q", args[0])
		}
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.boardSvc.DeleteBoard(cmd.Context(), env.ownerID, id); err != nil {
			return err
		}
		fmt.Printf("deleted board %d\n", id)
		return nil
	},
}

func init() {
	boardCmd.AddCommand(boardListCmd, boardCreateCmd, boardDeleteCmd)
	rootCmd.AddCommand(boardCmd)
}
