package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Coobeliues/vector-search/pkg/archive"
	"github.com/Coobeliues/vector-search/pkg/utils"
)

var (
	extractDir       string
	extractOverwrite bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive>",
	Short: "Extract a tar, tar.gz, zip or 7z archive",
	Long: `Extract an archive into the destination directory. The format is detected
from the file signature, not the filename.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(c *cobra.Command, args []string) error {
		ctx := context.Background()
		src := args[0]

		dest, err := filepath.Abs(extractDir)
		if err != nil {
			return fmt.Errorf("error resolving destination %q: %w", extractDir, err)
		}

		if !extractOverwrite {
			if err := checkRootCollision(src, dest); err != nil {
				return err
			}
		}

		extracted, err := archive.ExtractArchive(ctx, src, dest)
		if err != nil {
			return err
		}
		if wd, err := os.Getwd(); err == nil {
			extracted = utils.RelPath(wd, extracted)
		}
		fmt.Fprintf(c.OutOrStdout(), "Extracted to %s\n", extracted)
		return nil
	},
}

// checkRootCollision refuses extraction when a top-level entry of the
// archive already exists under dest.
func checkRootCollision(src, dest string) error {
	members, err := archive.ListArchive(src)
	if err != nil {
		return err
	}
	seen := make(map[string]struct{})
	for _, m := range members {
		root := strings.SplitN(filepath.ToSlash(m.Name), "/", 2)[0]
		if root == "" {
			continue
		}
		if _, ok := seen[root]; ok {
			continue
		}
		seen[root] = struct{}{}
		if _, err := os.Stat(filepath.Join(dest, root)); err == nil {
			return fmt.Errorf("destination already contains %q (use --overwrite)", root)
		}
	}
	return nil
}

func init() {
	RootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractDir, "dir", "C", ".", "Destination directory")
	extractCmd.Flags().BoolVar(&extractOverwrite, "overwrite", false, "Extract over existing files")
}
