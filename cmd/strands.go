package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var strandsCmd = &cobra.Command{
	Use:   "strands",
	Short: "Strand transfer and development length",
	Long: `Calculate the transfer length and development length of the
pretensioned strands, and the resulting prestress and stress
development factors at points of interest.

Examples:
  gopcb strands -p girder.yaml
  gopcb strands -p girder.yaml --at 30`,
	RunE: runStrands,
}

func init() {
	rootCmd.AddCommand(strandsCmd)
	addAtFlag(strandsCmd)
}

func runStrands(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	printHeader("TRANSFER AND DEVELOPMENT LENGTH - AASHTO LRFD 5.9.4", s)

	r := s.reporter()
	for _, poi := range s.points(cmd) {
		r.TransferLength(os.Stdout, poi)
		r.DevelopmentLength(os.Stdout, poi)
	}
	return nil
}
