/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stridetrack/apiserver/config"
	"github.com/stridetrack/apiserver/internal/mq"
	"github.com/stridetrack/apiserver/types"
)

// eventsCmd represents the events command.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the activity event feed",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print activity events as they arrive (Ctrl-C to stop)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		feed, err := mq.OpenFeed(ctx, cfg.Events)
		if err != nil {
			return err
		}
		if feed == nil {
			return errors.New("no events backend configured")
		}
		defer func() {
			_ = feed.Close()
		}()

		print := func(ctx context.Context, msg mq.Message) error {
			fmt.Printf("%s\n", msg.Data)
			return nil
		}

		// Each event kind is its own channel; tail both.
		errCh := make(chan error, 2)
		for _, channel := range []string{types.EventGoalCreated, types.EventProgressLogged} {
			go func(channel string) {
				errCh <- feed.Subscribe(ctx, channel, print)
			}(channel)
		}

		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
