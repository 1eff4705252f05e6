package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gopcb/internal/diagram"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/section"
)

var (
	momentShowDiagram bool
	momentExportFile  string
	momentNegative    bool
)

var momentCmd = &cobra.Command{
	Use:   "moment",
	Short: "Moment capacity, cracking moment and minimum reinforcement",
	Long: `Calculate the nominal moment capacity (Mn) by strain compatibility,
the cracking moment (Mcr), the minimum reinforcement check and the
cracked section properties at points of interest.

Examples:
  gopcb moment -p girder.yaml
  gopcb moment -p girder.yaml --at 600 --diagram
  gopcb moment -p girder.yaml --at 600 -o section.png`,
	RunE: runMoment,
}

func init() {
	rootCmd.AddCommand(momentCmd)
	addAtFlag(momentCmd)

	// Diagram options
	momentCmd.Flags().BoolVar(&momentShowDiagram, "diagram", false, "Show ASCII section and strain diagram")
	momentCmd.Flags().StringVarP(&momentExportFile, "output", "o", "", "Export section diagram to file (png, svg, pdf)")
	momentCmd.Flags().BoolVar(&momentNegative, "negative", false, "Draw the negative moment solution")
}

func runMoment(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	printHeader("MOMENT CAPACITY - AASHTO LRFD 5.6", s)

	r := s.reporter()
	pois := s.points(cmd)
	for _, poi := range pois {
		r.MomentCapacity(os.Stdout, poi)
		r.CrackingMoment(os.Stdout, poi)
		r.MinMomentCapacity(os.Stdout, poi)
		r.CrackedSection(os.Stdout, poi)
	}

	if !momentShowDiagram && momentExportFile == "" {
		return nil
	}
	if len(pois) != 1 {
		return fmt.Errorf("diagrams need a single location (--at)")
	}
	poi := pois[0]
	sign := girder.Positive
	if momentNegative {
		sign = girder.Negative
	}
	d, err := s.engine.MomentCapacity(s.interval, sign, poi, nil)
	if err != nil {
		return err
	}

	p := s.project.Providers()
	var deck *section.Shape
	if ds, ok := p.Geometry.DeckShape(poi); ok && s.interval >= p.Timeline.CompositeDeckInterval() {
		deck = &ds
	}
	data := diagram.NewSectionDiagramData(p.Geometry.GirderShape(poi), deck, d)

	if momentShowDiagram {
		fmt.Println()
		fmt.Print(diagram.DrawASCIISectionDiagram(data))
		fmt.Print(diagram.DrawStrainDiagram(data))
		fmt.Print(diagram.DrawSummaryBox("CAPACITY", []string{
			fmt.Sprintf("c   = %.3f in", d.C),
			fmt.Sprintf("Mn  = %.1f k-ft", d.Mn/12),
			fmt.Sprintf("φMn = %.1f k-ft", d.PhiMn/12),
		}))
	}
	if momentExportFile != "" {
		if err := diagram.ExportSectionDiagram(data, momentExportFile); err != nil {
			return fmt.Errorf("exporting diagram: %w", err)
		}
		fmt.Printf("\n  Diagram exported to: %s\n", momentExportFile)
	}
	return nil
}
