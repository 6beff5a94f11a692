package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	replaceSearch      string
	replaceReplacement string
	replaceDryRun      bool
)

var replaceCmd = &cobra.Command{
	Use:   "replace [path]",
	Short: "Search and replace inside a repository file",
	Long: `Fetch a file, replace every match of the regular expression --search
with --replace ($1 expands groups) and write the result back.
With --dry-run the edited content is printed instead.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := targetPath(args)
		ctx := cmd.Context()
		svc := newService(ctx)

		file, err := svc.FetchFile(ctx, path)
		if err != nil {
			fatal("Failed to fetch file", err)
		}

		edited, err := svc.Replace(file, replaceSearch, replaceReplacement)
		if err != nil {
			fatal("Failed to replace", err)
		}

		if replaceDryRun {
			fmt.Print(edited.Content)
			return
		}
		if edited.Content == file.Content {
			fmt.Println("Nothing to write.")
			return
		}

		ctx = changeContext(ctx, fmt.Sprintf("edit %s", path))
		written, err := svc.WriteFile(ctx, edited)
		if err != nil {
			fatal("Failed to write file", err)
		}
		fmt.Printf("File '%s' written (sha %s).\n", written.Path, written.VersionTag)
	},
}

func init() {
	rootCmd.AddCommand(replaceCmd)
	replaceCmd.Flags().StringVar(&replaceSearch, "search", "", "Pattern to search for")
	replaceCmd.Flags().StringVar(&replaceReplacement, "replace", "", "Replacement text")
	replaceCmd.Flags().BoolVarP(&replaceDryRun, "dry-run", "n", false, "Print the result without writing")
	replaceCmd.MarkFlagRequired("search")
	addChangeFlags(replaceCmd)
}
