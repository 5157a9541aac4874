package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Coobeliues/vector-search/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display version, build time, and commit information for the Vector Search archiver.`,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("Version:    %s\n", version.Version())
		fmt.Printf("Commit:     %s\n", version.Commit())
		fmt.Printf("Built:      %s\n", version.BuildTime())
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
