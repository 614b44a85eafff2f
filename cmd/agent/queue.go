package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/almonsour13/mango-lens/internal/util"
)

var enqueueTreeCode string

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <image-file>",
	Short: "Queue a captured scan for later upload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		user, err := env.currentUser(ctx)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		// Validate it really is an image before queueing; a bad capture
		// would otherwise sit in the queue and fail on every flush.
		data, mimeType, err := util.DecodeDataURL(base64.StdEncoding.EncodeToString(raw))
		if err != nil {
			return err
		}

		item, err := env.pending.Enqueue(ctx, user.UserID, enqueueTreeCode, util.EncodeDataURL(data, mimeType))
		if err != nil {
			return err
		}

		fmt.Printf("Queued scan %s for tree %s (%d bytes)\n", item.PendingID, item.TreeCode, len(data))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show queued scans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		user, err := env.currentUser(ctx)
		if err != nil {
			return err
		}

		items, err := env.pending.List(ctx, user.UserID)
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("Queue is empty.")
			return nil
		}

		for _, item := range items {
			fmt.Printf("%s  tree=%s  queued=%s\n",
				item.PendingID, item.TreeCode, item.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Printf("%d queued scan(s)\n", len(items))
		return nil
	},
}

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Upload queued scans to the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		user, err := env.currentUser(ctx)
		if err != nil {
			return err
		}

		outcomes, err := env.pending.Flush(ctx, user.UserID)
		if err != nil {
			return err
		}

		if len(outcomes) == 0 {
			fmt.Println("Queue is empty, nothing to upload.")
			return nil
		}

		failed := 0
		for _, outcome := range outcomes {
			switch {
			case outcome.Err != nil:
				failed++
				fmt.Printf("FAIL %s: %v\n", outcome.PendingID, outcome.Err)
			case outcome.Duplicate:
				fmt.Printf("ok   %s: already on server (image %s)\n", outcome.PendingID, outcome.ImageID)
			default:
				fmt.Printf("ok   %s: %s (image %s)\n", outcome.PendingID, outcome.Message, outcome.ImageID)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d scan(s) failed and remain queued", failed, len(outcomes))
		}
		fmt.Printf("Uploaded %d scan(s).\n", len(outcomes))
		return nil
	},
}

var discardCmd = &cobra.Command{
	Use:   "discard <pending-id>",
	Short: "Drop a queued scan without uploading it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.pending.Discard(ctx, args[0]); err != nil {
			return err
		}

		fmt.Printf("Discarded %s\n", args[0])
		return nil
	},
}

func init() {
	enqueueCmd.Flags().StringVarP(&enqueueTreeCode, "tree", "t", "", "tree code the scan belongs to")
	_ = enqueueCmd.MarkFlagRequired("tree")
}
