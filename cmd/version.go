package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gopcb/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gopcb",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gopcb v%s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		fmt.Println("Prestressed Concrete Girder Capacity Tool")
		fmt.Println("Based on the AASHTO LRFD Bridge Design Specifications")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
