/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/stridetrack/apiserver/config"
	"github.com/stridetrack/apiserver/internal/db"
	"github.com/stridetrack/apiserver/internal/storage"
	"github.com/stridetrack/apiserver/internal/store"
)

const snapshotPrefix = "snapshots/"

// backupCmd represents the backup command.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage database snapshots in object storage",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Dump users, goals and progress to a snapshot object",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		backupStore, err := storage.OpenBackupStore(ctx, cfg.Backup)
		if err != nil {
			return err
		}

		dbConn, err := db.Open(ctx, cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() {
			_ = dbConn.Close()
		}()

		snapshot, err := store.NewSnapshotRepository(dbConn).Dump(ctx)
		if err != nil {
			return fmt.Errorf("dump snapshot: %w", err)
		}

		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if err := json.NewEncoder(gz).Encode(snapshot); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}

		if err := backupStore.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure bucket: %w", err)
		}

		key := snapshotPrefix + snapshot.TakenAt.UTC().Format("20060102T150405Z") + ".json.gz"
		if err := backupStore.Put(ctx, key, &buf, int64(buf.Len()), "application/gzip"); err != nil {
			return fmt.Errorf("upload snapshot: %w", err)
		}

		fmt.Printf("wrote %s to bucket %s\n", key, backupStore.Bucket())
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List snapshot objects",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		backupStore, err := storage.OpenBackupStore(ctx, cfg.Backup)
		if err != nil {
			return err
		}

		keys, err := backupStore.List(ctx, snapshotPrefix)
		if err != nil {
			return fmt.Errorf("list snapshots: %w", err)
		}
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	},
}

var backupFetchCmd = &cobra.Command{
	Use:   "fetch <key>",
	Short: "Stream a snapshot object to stdout, decompressed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		backupStore, err := storage.OpenBackupStore(ctx, cfg.Backup)
		if err != nil {
			return err
		}

		object, err := backupStore.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetch snapshot: %w", err)
		}
		defer func() {
			_ = object.Close()
		}()

		gz, err := gzip.NewReader(object)
		if err != nil {
			return fmt.Errorf("decompress snapshot: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()

		if _, err := io.Copy(os.Stdout, gz); err != nil {
			return fmt.Errorf("stream snapshot: %w", err)
		}
		return nil
	},
}

var backupRemoveCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Delete a snapshot object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		backupStore, err := storage.OpenBackupStore(ctx, cfg.Backup)
		if err != nil {
			return err
		}

		if err := backupStore.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupFetchCmd)
	backupCmd.AddCommand(backupRemoveCmd)
}
