package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/quizsync"
	"github.com/aretw0/quizsync/internal/config"
)

var (
	verbose    bool
	configFile string
	envFile    string
	workDir    string
	adapter    string
	owner      string
	repo       string
	branch     string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quizsync",
	Short: "Edit quiz level files and assets stored in a GitHub repository",
	Long: `quizsync reads and writes files of a GitHub repository through the contents API.
Writes carry the blob SHA of the last read, so concurrent edits surface as conflicts.
It also assembles quiz questions and uploads the images they reference.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		loaded, err := config.Load(config.Source{Dir: workDir, ConfigFile: configFile, EnvFile: envFile})
		if err != nil {
			fatal("Failed to load configuration", err)
		}
		if adapter != "" {
			loaded.Adapter = adapter
		}
		if owner != "" {
			loaded.Owner = owner
		}
		if repo != "" {
			loaded.Repo = repo
		}
		if branch != "" {
			loaded.Branch = branch
		}
		if err := loaded.Validate(); err != nil {
			fatal("Invalid configuration", err)
		}
		cfg = loaded
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newService builds the service from the loaded configuration.
func newService(ctx context.Context, extra ...quizsync.Option) *quizsync.Service {
	opts := append(cfg.Options(), quizsync.WithLogger(slog.Default()))
	opts = append(opts, extra...)

	svc, err := quizsync.New(ctx, opts...)
	if err != nil {
		fatal("Failed to initialize quizsync", err)
	}
	if !svc.HasCredential() {
		slog.Warn("no token configured; set QUIZSYNC_TOKEN or GITHUB_TOKEN")
	}
	return svc
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: quizsync.yaml in the project root)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Dotenv file (default: .env in the project root)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "Project directory")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Remote adapter (github, memory)")
	rootCmd.PersistentFlags().StringVar(&owner, "owner", "", "Repository owner (default: from git origin)")
	rootCmd.PersistentFlags().StringVar(&repo, "repo", "", "Repository name (default: from git origin)")
	rootCmd.PersistentFlags().StringVarP(&branch, "branch", "b", "", "Branch to read from and write to")
}
