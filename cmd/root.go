package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Coobeliues/vector-search/internal"
	"github.com/Coobeliues/vector-search/pkg/config"
	"github.com/Coobeliues/vector-search/pkg/logger"
)

var (
	addr  string
	serve bool

	paths        []string
	outputName   string
	excludes     []string
	listingLimit int
	manifestPath string
	workers      int
	noHistory    bool
)

var RootCmd = &cobra.Command{
	Use:   "vsarchive",
	Short: "Vector Search project archiver",
	Long: `Vector Search project archiver

Packs a project directory into a gzip-compressed tarball written next to the
directory, skipping virtualenvs, bytecode caches, benchmark results, VCS
metadata and log files.
If the --serve flag is provided, the tool will start a HTTP server.
Otherwise the tool archives the directories given with --path (the current
directory when omitted) and prints a report with the archive contents.
Environment configuration is loaded from the environment variables.`,
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {

		// Create a root context
		ctx := context.Background()

		startTime := time.Now()

		cfg, err := config.Load()
		if err != nil {
			logger.Fatal("Error loading configuration:\n%v", err)
		}

		// Initialize the logger
		logger.Initialize(cfg.LogLevel)
		// Only log the execution time once the logger is initialized
		defer func() {
			logger.Debug("Execution time: %vs", time.Since(startTime).Seconds())
		}()

		// Flags beat environment configuration when set
		if workers > 0 {
			cfg.Workers = workers
		}
		if noHistory {
			cfg.History.Enabled = false
		}

		svc, err := internal.NewService(cfg, os.Stdout)
		if err != nil {
			logger.Fatal("Error creating service: %v", err)
		}
		defer svc.Close()

		// Handle serve mode
		if serve {
			logger.Info("Starting HTTP server on %s", addr)
			if err := internal.Serve(svc, addr); err != nil {
				logger.Fatal("Error starting HTTP server: %v", err)
			}
			return nil
		}

		return svc.Run(ctx, internal.RunArgs{
			Paths:        paths,
			OutputName:   outputName,
			Excludes:     excludes,
			ListingLimit: listingLimit,
			ManifestPath: manifestPath,
		})
	},
}

// Execute runs the root command. Failed runs exit with status 1.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(config.Init)

	RootCmd.Flags().BoolVar(&serve, "serve", false, "Start HTTP server")
	RootCmd.Flags().StringVar(&addr, "addr", ":8090", "HTTP listen address (with --serve)")

	RootCmd.Flags().StringSliceVarP(&paths, "path", "p", nil, "Project directory to archive. Can provide multiple. Defaults to the current directory.")
	RootCmd.Flags().StringVarP(&outputName, "output", "o", "", "Archive filename written to the project's parent directory")
	RootCmd.Flags().StringArrayVar(&excludes, "exclude", nil, "Exclusion pattern. Can provide multiple. Replaces the default set.")
	RootCmd.Flags().IntVar(&listingLimit, "listing-limit", 0, "Archive members printed in the success report")
	RootCmd.Flags().StringVar(&manifestPath, "manifest", "", "Write a JSON manifest of the built archive to this path")
	RootCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent packing workers")
	RootCmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording the run in history")
}
