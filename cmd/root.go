package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gopcb/internal/capacity"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/project"
	"github.com/alexiusacademia/gopcb/internal/report"
	"github.com/alexiusacademia/gopcb/internal/version"
)

var (
	projectFile    string
	verbose        bool
	intervalFlag   int
	limitStateFlag string
	atFlag         float64

	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "gopcb",
	Short: "Prestressed Concrete Girder Capacity Tool",
	Long: `gopcb - Go Prestressed Concrete Bridge girder capacity

A CLI tool for the capacity analysis of pretensioned and post-tensioned
concrete bridge girders based on the AASHTO LRFD Bridge Design
Specifications.

This tool helps bridge engineers evaluate:
  - Strand transfer and development length
  - Nominal moment capacity by strain compatibility
  - Cracking moment and minimum reinforcement
  - Shear capacity, critical sections and stirrup checks
  - Capacity envelopes along the girder

The girder is described in a JSON or YAML project file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gopcb v%-49s║\n", version.Version)
		fmt.Println("  ║   Go Prestressed Concrete Girder Capacity                 ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Transfer and development length of pretensioned strand")
		fmt.Println("    • Strain compatibility moment capacity")
		fmt.Println("    • Cracking moment and minimum flexural reinforcement")
		fmt.Println("    • Shear capacity by six methods with critical sections")
		fmt.Println("    • Capacity envelopes with spreadsheet and plot export")
		fmt.Println()
		fmt.Println("  Use 'gopcb --help' to see available commands.")
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&projectFile, "project", "p", "", "Path to girder project file (json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log analysis progress to stderr")
	rootCmd.PersistentFlags().IntVarP(&intervalFlag, "interval", "i", -1, "Interval index (default: last interval)")
	rootCmd.PersistentFlags().StringVarP(&limitStateFlag, "limit-state", "l", lrfd.StrengthI.ID, "Limit state for demands")
}

// session is a loaded project with its engine
type session struct {
	project  *project.Project
	engine   *capacity.Engine
	interval int
	ls       lrfd.LimitState
}

func openSession() (*session, error) {
	if projectFile == "" {
		return nil, fmt.Errorf("a project file is required (--project)")
	}
	p, err := project.LoadFromFile(projectFile)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	ls, err := lrfd.LookupLimitState(limitStateFlag)
	if err != nil {
		return nil, err
	}

	s := &session{
		project:  p,
		engine:   capacity.New(p.Providers(), capacity.WithLogger(logger)),
		interval: intervalFlag,
		ls:       ls,
	}
	if s.interval < 0 {
		s.interval = len(p.Intervals()) - 1
	}
	if err := girder.CheckInterval(p, s.interval); err != nil {
		return nil, err
	}
	logger.Info("project loaded", "name", p.Name(), "interval", s.interval, "limitState", ls.ID)
	return s, nil
}

// points returns the POI at --at when given, otherwise every POI
func (s *session) points(cmd *cobra.Command) []girder.POI {
	if cmd.Flags().Changed("at") {
		return []girder.POI{s.project.At(s.project.Segment(), atFlag)}
	}
	return s.project.POIs(s.project.Segment())
}

func (s *session) reporter() *report.Reporter {
	return &report.Reporter{Source: s.engine, Interval: s.interval, LimitState: s.ls}
}

func addAtFlag(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&atFlag, "at", 0, "Location along the segment (in); all POIs when omitted")
}

func printHeader(title string, s *session) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     %s\n", title)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("  Project: %s\n", s.project.Name())
	fmt.Printf("  Specification: AASHTO LRFD %s\n", s.project.Criteria().Edition)
	fmt.Printf("  Interval: %d (%s)\n", s.interval, s.project.Intervals()[s.interval].Description)
	fmt.Printf("  Limit state: %s\n", s.ls.Description)
}
