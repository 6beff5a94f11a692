package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/quizsync/pkg/quiz"
)

var (
	assembleUpload bool
	assembleDest   string
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <quiz.yaml>",
	Short: "Build a quiz block from a YAML definition",
	Long: `Read a quiz definition and print the quiz block for the level file.
Images get unique names under the asset directory; --upload pushes them.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session, err := quiz.LoadFile(args[0])
		if err != nil {
			fatal("Failed to load quiz", err)
		}

		dest := assembleDest
		if dest == "" {
			dest = cfg.AssetDir
		}

		build, err := session.Build(dest, time.Now())
		if err != nil {
			fatal("Invalid quiz", err)
		}
		fmt.Println(build.Text)

		if !assembleUpload || len(build.Uploads) == 0 {
			return
		}

		ctx := cmd.Context()
		svc := newService(ctx)
		if failed := uploadBatch(ctx, svc, build.Uploads); failed > 0 {
			fatal("Upload incomplete", fmt.Errorf("%d of %d image(s) failed", failed, len(build.Uploads)))
		}
	},
}

func init() {
	rootCmd.AddCommand(assembleCmd)
	assembleCmd.Flags().BoolVarP(&assembleUpload, "upload", "u", false, "Upload the referenced images")
	assembleCmd.Flags().StringVarP(&assembleDest, "dest", "d", "", "Remote image directory (default: asset_dir)")
}
