package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var shearCmd = &cobra.Command{
	Use:   "shear",
	Short: "Shear capacity and critical sections",
	Long: `Calculate the nominal shear capacity (Vn) at points of interest using
the shear method selected in the project, together with the critical
sections for shear near each support.

Points between a support and its critical section are checked with the
concrete contribution computed at the critical section.

Examples:
  gopcb shear -p girder.yaml
  gopcb shear -p girder.yaml --at 48 -l StrengthII`,
	RunE: runShear,
}

func init() {
	rootCmd.AddCommand(shearCmd)
	addAtFlag(shearCmd)
}

func runShear(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	printHeader("SHEAR CAPACITY - AASHTO LRFD 5.7", s)

	r := s.reporter()
	pois := s.points(cmd)
	if len(pois) > 0 {
		r.CriticalSections(os.Stdout, pois[0])
	}
	for _, poi := range pois {
		r.ShearCapacity(os.Stdout, poi)
	}
	return nil
}
