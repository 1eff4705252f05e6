package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gopcb/internal/diagram"
	"github.com/alexiusacademia/gopcb/internal/export"
	"github.com/alexiusacademia/gopcb/internal/report"
)

var (
	envelopeWorkers int
	envelopeXLSX    string
	envelopePlot    string
)

var envelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Moment and shear capacity envelope along the girder",
	Long: `Evaluate moment and shear capacity against the factored demand at
every point of interest of the segment, concurrently.

The envelope can be written to an Excel workbook and plotted.

Examples:
  gopcb envelope -p girder.yaml
  gopcb envelope -p girder.yaml --xlsx envelope.xlsx --plot envelope.png
  gopcb envelope -p girder.yaml --workers 2`,
	RunE: runEnvelope,
}

func init() {
	rootCmd.AddCommand(envelopeCmd)

	envelopeCmd.Flags().IntVarP(&envelopeWorkers, "workers", "w", runtime.NumCPU(), "Number of concurrent POI evaluations")
	envelopeCmd.Flags().StringVar(&envelopeXLSX, "xlsx", "", "Write the envelope to an Excel workbook")
	envelopeCmd.Flags().StringVar(&envelopePlot, "plot", "", "Plot the envelope to an image file (png, svg, pdf)")
}

func runEnvelope(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	printHeader("CAPACITY ENVELOPE", s)

	env, err := s.engine.Envelope(cmd.Context(), s.project.Segment(), s.interval, s.ls, envelopeWorkers)
	if err != nil {
		return err
	}
	report.Envelope(os.Stdout, env)
	logger.Debug("envelope complete", "pois", len(env.Rows), "analyses", s.engine.MomentAnalyses())

	if envelopeXLSX != "" {
		if err := export.WriteEnvelope(envelopeXLSX, env); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		fmt.Printf("\n  Workbook written to: %s\n", envelopeXLSX)
	}
	if envelopePlot != "" {
		if err := diagram.ExportEnvelope(env, envelopePlot); err != nil {
			return fmt.Errorf("plotting envelope: %w", err)
		}
		fmt.Printf("\n  Plot exported to: %s\n", envelopePlot)
	}
	return nil
}
