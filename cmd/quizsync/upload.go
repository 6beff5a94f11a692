package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/quizsync"
	"github.com/aretw0/quizsync/pkg/adapters/fs"
)

var (
	uploadPattern     string
	uploadDest        string
	uploadStamp       bool
	uploadConcurrency int
	uploadWatch       bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <dir>",
	Short: "Upload local asset files",
	Long: `Upload every file below <dir> matching --pattern (doublestar syntax) into
the asset directory of the repository. Subdirectories are kept.
With --watch, files created or changed later are uploaded as they appear.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := args[0]
		dest := uploadDest
		if dest == "" {
			dest = cfg.AssetDir
		}

		ctx := cmd.Context()
		var extra []quizsync.Option
		if uploadConcurrency > 0 {
			extra = append(extra, quizsync.WithConcurrency(uploadConcurrency))
		}
		svc := newService(ctx, extra...)

		opts := func() fs.ItemOptions {
			return fs.ItemOptions{Directory: dest, Stamp: uploadStamp, Now: time.Now()}
		}

		items, err := fs.Collect(root, uploadPattern, opts())
		if err != nil {
			fatal("Failed to collect assets", err)
		}
		failed := uploadBatch(ctx, svc, items)

		if !uploadWatch {
			if failed > 0 {
				fatal("Upload incomplete", fmt.Errorf("%d of %d item(s) failed", failed, len(items)))
			}
			return
		}

		w := fs.NewWatcher(fs.WatchConfig{Root: root, Pattern: uploadPattern, Logger: slog.Default()})
		batches, err := w.Start(ctx)
		if err != nil {
			fatal("Failed to watch assets", err)
		}
		slog.Info("watching for asset changes", "dir", root, "pattern", uploadPattern)

		for rels := range batches {
			items, err := fs.Items(root, rels, opts())
			if err != nil {
				slog.Error("failed to read changed assets", "error", err)
				continue
			}
			uploadBatch(ctx, svc, items)
		}
	},
}

// uploadBatch uploads items, prints one line per item and returns the number of failures.
func uploadBatch(ctx context.Context, svc *quizsync.Service, items []quizsync.AssetUploadItem) int {
	if len(items) == 0 {
		fmt.Println("No assets to upload.")
		return 0
	}

	results, err := svc.UploadAll(ctx, items)
	if err != nil {
		slog.Error("upload interrupted", "error", err)
	}
	return printResults(items, results)
}

func printResults(items []quizsync.AssetUploadItem, results map[string]bool) int {
	paths := make(map[string]string, len(items))
	for _, it := range items {
		paths[it.ID] = it.Path()
	}
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	failed := 0
	for _, id := range ids {
		status := "ok"
		if !results[id] {
			status = "FAILED"
			failed++
		}
		fmt.Printf("%-6s %s -> %s\n", status, id, paths[id])
	}
	return failed
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVarP(&uploadPattern, "pattern", "p", fs.DefaultPattern, "Glob of files to upload")
	uploadCmd.Flags().StringVarP(&uploadDest, "dest", "d", "", "Remote directory (default: asset_dir)")
	uploadCmd.Flags().BoolVar(&uploadStamp, "stamp", false, "Append a millisecond timestamp to file names")
	uploadCmd.Flags().IntVarP(&uploadConcurrency, "concurrency", "j", 0, "Parallel uploads (default: concurrency from config)")
	uploadCmd.Flags().BoolVarP(&uploadWatch, "watch", "w", false, "Keep watching and upload changes")
}
