// Package archiver implements the packing pipeline: resolve the project
// paths, build a tar.gz next to the project directory, and report the
// outcome to the operator.
package archiver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Coobeliues/vector-search/pkg/archive"
	"github.com/Coobeliues/vector-search/pkg/logger"
	"github.com/Coobeliues/vector-search/pkg/utils"
)

// DefaultOutputName is the archive filename written to the project's parent
// directory.
const DefaultOutputName = "vector_search_project.tar.gz"

// DefaultListingLimit is how many archive members the success report prints.
const DefaultListingLimit = 20

// Options configures a single packing run.
type Options struct {
	// Path is the project directory to pack. Relative paths are resolved
	// against the current working directory. Empty means ".".
	Path string
	// OutputName is the archive filename, placed in the project's parent
	// directory. Empty means DefaultOutputName.
	OutputName string
	// Excludes are the glob patterns omitted from the archive. Nil means
	// archive.DefaultExcludes().
	Excludes []string
	// ListingLimit caps the member listing in the success report. Zero or
	// negative means DefaultListingLimit.
	ListingLimit int
	// ManifestPath, when set, receives a JSON manifest after a successful
	// build.
	ManifestPath string
}

// Result describes a completed packing run.
type Result struct {
	Project    string
	ProjectDir string
	OutputFile string
	Members    int
	TotalBytes int64
	SizeBytes  int64
	Duration   time.Duration
}

// Packer runs the packing pipeline and writes the operator report to out.
type Packer struct {
	out io.Writer
}

// NewPacker creates a packer reporting to out. A nil out means os.Stdout.
func NewPacker(out io.Writer) *Packer {
	if out == nil {
		out = os.Stdout
	}
	return &Packer{out: out}
}

// Run executes one packing run. Any failure, whatever the cause, prints the
// failure notice and returns the build error; no member listing follows a
// failure. The archive at the output path is overwritten without
// confirmation, and a failed build leaves no cleanup behind.
func (p *Packer) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	///////////////////////////////////////////////////////////////////
	//                        Resolve paths                          //
	///////////////////////////////////////////////////////////////////

	path := opts.Path
	if path == "" {
		path = "."
	}
	projectDir, err := utils.ResolveDir(path)
	if err != nil {
		p.reportFailure()
		return nil, fmt.Errorf("error resolving project directory: %w", err)
	}
	parentDir := filepath.Dir(projectDir)
	projectName := filepath.Base(projectDir)
	outputName := opts.OutputName
	if outputName == "" {
		outputName = DefaultOutputName
	}
	outputFile := filepath.Join(parentDir, outputName)
	logger.Debug("Resolved project: {dir: %s, parent: %s, name: %s, output: %s}",
		projectDir, parentDir, projectName, outputFile)

	p.reportStart(projectName)

	///////////////////////////////////////////////////////////////////
	//                        Build archive                          //
	///////////////////////////////////////////////////////////////////

	patterns := opts.Excludes
	if patterns == nil {
		patterns = archive.DefaultExcludes()
	}
	logger.Info("Building archive: %s", outputFile)
	buildRes, err := archive.BuildTarGz(ctx, projectDir, outputFile, archive.NewExcludeSet(patterns...))
	if err != nil {
		p.reportFailure()
		return nil, fmt.Errorf("error building archive: %w", err)
	}

	///////////////////////////////////////////////////////////////////
	//                    Check outcome and report                   //
	///////////////////////////////////////////////////////////////////

	info, err := os.Stat(outputFile)
	if err != nil {
		p.reportFailure()
		return nil, fmt.Errorf("error stating archive %q: %w", outputFile, err)
	}

	members, err := archive.ListArchive(outputFile)
	if err != nil {
		p.reportFailure()
		return nil, fmt.Errorf("error listing archive %q: %w", outputFile, err)
	}

	res := &Result{
		Project:    projectName,
		ProjectDir: projectDir,
		OutputFile: outputFile,
		Members:    buildRes.Members,
		TotalBytes: buildRes.TotalBytes,
		SizeBytes:  info.Size(),
	}

	limit := opts.ListingLimit
	if limit <= 0 {
		limit = DefaultListingLimit
	}
	p.reportSuccess(res, info, members, limit)

	if opts.ManifestPath != "" {
		if err := writeManifest(opts.ManifestPath, newManifest(res, members)); err != nil {
			return nil, fmt.Errorf("error writing manifest %q: %w", opts.ManifestPath, err)
		}
		logger.Info("Wrote manifest: %s", opts.ManifestPath)
	}

	res.Duration = time.Since(start)
	logger.Debug("Packing time: %vs", res.Duration.Seconds())
	return res, nil
}
