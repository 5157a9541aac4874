package archiver

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Coobeliues/vector-search/pkg/archive"
	"github.com/Coobeliues/vector-search/pkg/version"
)

// Manifest describes a built archive: run-level totals plus one entry per
// member.
type Manifest struct {
	Generator  string           `json:"generator"`
	Project    string           `json:"project"`
	ProjectDir string           `json:"project_dir"`
	Output     string           `json:"output"`
	CreatedAt  time.Time        `json:"created_at"`
	Members    int              `json:"members"`
	TotalBytes int64            `json:"total_bytes"`
	SizeBytes  int64            `json:"size_bytes"`
	Entries    []archive.Member `json:"entries"`
}

func newManifest(res *Result, members []archive.Member) *Manifest {
	return &Manifest{
		Generator:  version.Identifier(),
		Project:    res.Project,
		ProjectDir: res.ProjectDir,
		Output:     res.OutputFile,
		CreatedAt:  time.Now(),
		Members:    res.Members,
		TotalBytes: res.TotalBytes,
		SizeBytes:  res.SizeBytes,
		Entries:    members,
	}
}

func writeManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
