package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Full capacity report at points of interest",
	Long: `Write every capacity result (strands, moment, cracking, minimum
reinforcement, cracked section, shear and critical sections) for each
point of interest.

Examples:
  gopcb report -p girder.yaml --at 600
  gopcb report -p girder.yaml -i 3 > report.txt`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addAtFlag(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	printHeader("GIRDER CAPACITY REPORT", s)

	r := s.reporter()
	for _, poi := range s.points(cmd) {
		r.All(os.Stdout, poi)
	}
	return nil
}
