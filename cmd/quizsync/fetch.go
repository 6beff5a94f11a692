package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/quizsync/pkg/adapters/fs"
)

var fetchOut string

var fetchCmd = &cobra.Command{
	Use:   "fetch [path]",
	Short: "Print a repository file",
	Long: `Fetch a file through the contents API and print it, or save it with --out.
The path defaults to file_path from the configuration.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := targetPath(args)
		svc := newService(cmd.Context())

		file, err := svc.FetchFile(cmd.Context(), path)
		if err != nil {
			fatal("Failed to fetch file", err)
		}

		if fetchOut == "" {
			fmt.Print(file.Content)
			return
		}
		if err := fs.WriteFileAtomic(fetchOut, []byte(file.Content), 0o644); err != nil {
			fatal("Failed to save file", err)
		}
		slog.Info("file saved", "path", path, "out", fetchOut, "sha", file.VersionTag)
	},
}

// targetPath returns the path argument or the configured file path.
func targetPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.FilePath
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "Write content to this local file")
}
