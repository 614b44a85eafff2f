package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/almonsour13/mango-lens/internal/model"
)

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Inspect and act on the server-side trash",
}

var trashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trashed trees and images",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if _, err := env.currentUser(ctx); err != nil {
			return err
		}

		entries, err := env.client.ListTrash(ctx)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("Trash is empty.")
			return nil
		}

		for _, entry := range entries {
			kind := "image"
			if entry.Type == model.TrashTypeTree {
				kind = "tree"
			}
			fmt.Printf("%s  %-5s  tree=%s  deleted=%s\n",
				entry.TrashID, kind, entry.TreeCode, entry.DeletedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var trashRestoreCmd = &cobra.Command{
	Use:   "restore <trash-id>...",
	Short: "Restore trashed items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrashAction(cmd, model.TrashActionRestore, args)
	},
}

var trashDeleteCmd = &cobra.Command{
	Use:   "delete <trash-id>...",
	Short: "Permanently delete trashed items",
	Long: `Permanently delete one or more trash entries. This removes the
underlying tree or image for good; there is no further undo.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrashAction(cmd, model.TrashActionDeletePermanent, args)
	},
}

func runTrashAction(cmd *cobra.Command, action int, trashIDs []string) error {
	ctx := cmd.Context()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.currentUser(ctx); err != nil {
		return err
	}

	results, err := env.client.TrashAction(ctx, action, trashIDs)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if result.Status == "failed" {
			failed++
			fmt.Printf("FAIL %s: %s\n", result.TrashID, result.Reason)
			continue
		}
		fmt.Printf("ok   %s: %s\n", result.TrashID, result.Status)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d entr(ies) failed", failed, len(results))
	}
	return nil
}

func init() {
	trashCmd.AddCommand(trashListCmd, trashRestoreCmd, trashDeleteCmd)
}
