package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/quizsync"
	"github.com/aretw0/quizsync/pkg/core"
)

var (
	writeFile    string
	writeContent string
	writeSHA     string
	changeReason string
	writeType    string
	writeScope   string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write [path]",
	Short: "Write a repository file",
	Long: `Create or update a repository file from --file or --content.
Without --sha the current version is fetched first and its SHA is sent along.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := targetPath(args)

		content := writeContent
		if writeFile != "" {
			data, err := os.ReadFile(writeFile)
			if err != nil {
				fatal("Failed to read local file", err)
			}
			content = string(data)
		}

		ctx := cmd.Context()
		svc := newService(ctx)

		sha := writeSHA
		if sha == "" {
			current, err := svc.FetchFile(ctx, path)
			switch {
			case err == nil:
				sha = current.VersionTag
			case errors.Is(err, core.ErrRemoteNotFound):
				// New file.
			default:
				fatal("Failed to fetch current version", err)
			}
		}

		ctx = changeContext(ctx, fmt.Sprintf("update %s", path))
		file, err := svc.WriteFile(ctx, core.RemoteFile{Path: path, Content: content, VersionTag: sha})
		if err != nil {
			fatal("Failed to write file", err)
		}

		fmt.Printf("File '%s' written (sha %s).\n", file.Path, file.VersionTag)
	},
}

// changeContext attaches the commit message built from the shared -m/-t/-s flags.
// Without any of them the configured default message is used.
func changeContext(ctx context.Context, subject string) context.Context {
	switch {
	case writeType != "":
		if changeReason != "" {
			subject = changeReason
		}
		return quizsync.WithChangeReason(ctx, quizsync.FormatChangeReason(writeType, writeScope, subject, ""))
	case changeReason != "":
		return quizsync.WithChangeReason(ctx, quizsync.AppendFooter(changeReason))
	case writeScope != "":
		return quizsync.WithChangeReason(ctx, quizsync.FormatChangeReason(quizsync.CommitTypeChore, writeScope, subject, ""))
	}
	return ctx
}

func addChangeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&changeReason, "message", "m", "", "Commit message")
	cmd.Flags().StringVarP(&writeType, "type", "t", "", "Change type (feat, fix, etc)")
	cmd.Flags().StringVarP(&writeScope, "scope", "s", "", "Commit scope")
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVarP(&writeFile, "file", "f", "", "Local file holding the new content")
	writeCmd.Flags().StringVar(&writeContent, "content", "", "New content")
	writeCmd.Flags().StringVar(&writeSHA, "sha", "", "Version tag of the content being replaced")
	writeCmd.MarkFlagsMutuallyExclusive("file", "content")
	writeCmd.MarkFlagsOneRequired("file", "content")
	addChangeFlags(writeCmd)
}
