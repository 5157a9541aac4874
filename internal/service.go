// Package internal wires the packing pipeline to configuration, run
// history, and the HTTP surface.
package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Coobeliues/vector-search/internal/archiver"
	"github.com/Coobeliues/vector-search/internal/history"
	"github.com/Coobeliues/vector-search/pkg/config"
	"github.com/Coobeliues/vector-search/pkg/logger"
)

// Service ties the packing pipeline to configuration and run history.
type Service struct {
	cfg   *config.Config
	out   io.Writer
	mu    sync.Mutex
	store *history.Store
}

// RunArgs carries one invocation's packing parameters.
type RunArgs struct {
	Paths        []string
	OutputName   string
	Excludes     []string
	ListingLimit int
	ManifestPath string
}

// NewService builds a service from cfg, reporting to out. The history store
// is opened when enabled; otherwise runs are not recorded.
func NewService(cfg *config.Config, out io.Writer) (*Service, error) {
	if out == nil {
		out = os.Stdout
	}
	s := &Service{cfg: cfg, out: out}
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			var err error
			path, err = history.DefaultPath()
			if err != nil {
				return nil, fmt.Errorf("error resolving history path: %w", err)
			}
		}
		store, err := history.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error opening history store: %w", err)
		}
		s.store = store
	}
	return s, nil
}

func (s *Service) Close() {
	if err := s.store.Close(); err != nil {
		logger.Error("Error closing history store: %v", err)
	}
}

// Run packs every path in args concurrently. Each path gets its own report;
// a non-nil error means at least one run failed.
func (s *Service) Run(ctx context.Context, args RunArgs) error {
	if len(args.Paths) == 0 {
		args.Paths = []string{"."}
	}
	// Unset args fall back to the configured archive defaults, so the CLI
	// and the HTTP surface resolve them the same way.
	if args.OutputName == "" {
		args.OutputName = s.cfg.Archive.OutputName
	}
	if args.Excludes == nil {
		args.Excludes = s.cfg.Archive.Excludes
	}
	if args.ListingLimit <= 0 {
		args.ListingLimit = s.cfg.Archive.ListingLimit
	}
	if args.ManifestPath != "" && len(args.Paths) > 1 {
		return fmt.Errorf("manifest output requires a single project path")
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(args.Paths))

	// Number of concurrent operations
	maxWorkers := s.cfg.Workers
	if maxWorkers <= 0 {
		maxWorkers = 3
	}
	semaphore := make(chan struct{}, maxWorkers)

	for _, projectPath := range args.Paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			semaphore <- struct{}{}
			if err := s.runOne(ctx, path, args); err != nil {
				errChan <- err
			}
			<-semaphore
		}(projectPath)
	}

	wg.Wait()
	close(errChan)

	// Collect errors
	var hasErrors bool
	for err := range errChan {
		logger.Error("Error archiving a project: %v", err)
		hasErrors = true
	}

	if hasErrors {
		return fmt.Errorf("archiving completed with errors")
	}

	return nil
}

func (s *Service) runOne(ctx context.Context, path string, args RunArgs) error {
	start := time.Now()

	// Each run reports into its own buffer so concurrent runs do not
	// interleave output. The buffer is flushed in one piece.
	var report bytes.Buffer
	packer := archiver.NewPacker(&report)
	res, err := packer.Run(ctx, archiver.Options{
		Path:         path,
		OutputName:   args.OutputName,
		Excludes:     args.Excludes,
		ListingLimit: args.ListingLimit,
		ManifestPath: args.ManifestPath,
	})

	s.mu.Lock()
	_, _ = report.WriteTo(s.out)
	s.mu.Unlock()

	s.record(ctx, path, res, err, time.Since(start))
	return err
}

// record appends the run to history. Recording failures are logged, never
// propagated into the run result.
func (s *Service) record(ctx context.Context, path string, res *archiver.Result, runErr error, elapsed time.Duration) {
	if s.store == nil {
		return
	}
	run := history.Run{
		ID:         history.NewRunID(),
		Project:    path,
		Status:     history.StatusOK,
		DurationMS: elapsed.Milliseconds(),
	}
	if res != nil {
		run.Project = res.ProjectDir
		run.Output = res.OutputFile
		run.SizeBytes = res.SizeBytes
		run.Members = res.Members
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}
	if err := s.store.Record(ctx, run); err != nil {
		logger.Error("Error recording run history: %v", err)
	}
}

// History returns the most recent recorded runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]history.Run, error) {
	if s.store == nil {
		return nil, fmt.Errorf("run history is disabled")
	}
	return s.store.List(ctx, limit)
}
