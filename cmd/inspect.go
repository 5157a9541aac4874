package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Coobeliues/vector-search/internal/archiver"
	"github.com/Coobeliues/vector-search/pkg/archive"
)

var inspectAll bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <archive>",
	Short: "List the contents of a tar, tar.gz, zip or 7z archive",
	Long: `Print the format, member count, total uncompressed size and member list of
an archive. The format is detected from the file signature.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, args []string) error {
		src := args[0]

		members, err := archive.ListArchive(src)
		if err != nil {
			return err
		}

		var total int64
		for _, m := range members {
			total += m.Size
		}
		fmt.Printf("%s: %s, %d members, %s uncompressed\n\n",
			src, formatName(src), len(members), humanize.IBytes(uint64(total)))

		limit := len(members)
		if !inspectAll && limit > archiver.DefaultListingLimit {
			limit = archiver.DefaultListingLimit
		}
		for _, m := range members[:limit] {
			fmt.Printf("%s  %8s  %s  %s\n",
				m.Mode.String(),
				humanize.IBytes(uint64(m.Size)),
				m.ModTime.Format("2006-01-02 15:04"),
				m.Name)
		}
		if limit < len(members) {
			fmt.Printf("... and %d more (use --all)\n", len(members)-limit)
		}
		return nil
	},
}

// formatName names the archive format by signature.
func formatName(path string) string {
	switch {
	case archive.Is7zFile(path):
		return "7z"
	case archive.IsZipFile(path):
		return "zip"
	case archive.IsGzipFile(path):
		return "tar.gz"
	case archive.IsTarFile(path):
		return "tar"
	default:
		return "unknown"
	}
}

func init() {
	RootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectAll, "all", false, "List every member")
}
