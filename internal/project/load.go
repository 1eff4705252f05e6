package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/gopcb/internal/lrfd"
)

// LoadFromFile reads a project from a .json, .yaml or .yml file
func LoadFromFile(filename string) (*Project, error) {
	f, err := ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return New(f)
}

// ReadFile parses a project file without validating it
func ReadFile(filename string) (File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return File{}, fmt.Errorf("failed to read file: %w", err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return File{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(filename), err)
	}
	return f, nil
}

// Validate checks the project for consistency
func (f *File) Validate() error {
	if f.Length <= 0 {
		return invalid("segment length must be positive")
	}
	if len(f.Supports) < 2 {
		return invalid("at least two supports are required")
	}
	for i, s := range f.Supports {
		if s.X < 0 || s.X > f.Length {
			return invalid("support %d at x=%.3f is outside the segment", i, s.X)
		}
		if i > 0 && s.X <= f.Supports[i-1].X {
			return invalid("supports must be listed in increasing x")
		}
	}
	if err := f.Girder.Shape.Validate(); err != nil {
		return fmt.Errorf("girder: %w", err)
	}
	if f.Girder.Concrete.Fc <= 0 {
		return invalid("girder f'c must be positive")
	}
	if f.Deck != nil {
		if err := f.Deck.Shape.Validate(); err != nil {
			return fmt.Errorf("deck: %w", err)
		}
		if f.Deck.Concrete.Fc <= 0 {
			return invalid("deck f'c must be positive")
		}
	}

	rows := [][]StrandRow{f.Strands.Straight, f.Strands.Harped, f.Strands.Temporary}
	for _, group := range rows {
		for i, r := range group {
			if r.Count <= 0 || r.Area <= 0 || r.Diameter <= 0 {
				return invalid("strand row %d needs a positive count, area and diameter", i)
			}
			if r.Grade != 0 && r.Grade != 250 && r.Grade != 270 {
				return invalid("strand row %d: unsupported grade %d", i, r.Grade)
			}
			if r.DebondStart < 0 || r.DebondEnd < 0 || r.DebondStart+r.DebondEnd >= f.Length {
				return invalid("strand row %d: debonded lengths leave no bonded strand", i)
			}
		}
	}
	if len(f.Strands.Harped) > 0 && (f.Strands.HarpPoint <= 0 || f.Strands.HarpPoint >= 0.5) {
		return invalid("harp point must be a fraction between 0 and 0.5")
	}

	if len(f.Stages.Stages) == 0 {
		return invalid("timeline has no stages")
	}
	for _, name := range []string{f.Stages.Release, f.Stages.CompositeDeck, f.Stages.LiveLoad} {
		if f.stageIndex(name) < 0 {
			return invalid("unknown stage %q", name)
		}
	}
	if f.Stages.TemporaryRemoval != "" && f.stageIndex(f.Stages.TemporaryRemoval) < 0 {
		return invalid("unknown stage %q", f.Stages.TemporaryRemoval)
	}
	for _, t := range f.Tendons {
		if f.stageIndex(t.Stage) < 0 {
			return invalid("tendon %s: unknown stage %q", t.Name, t.Stage)
		}
	}
	if len(f.Losses.Loss) != 0 && len(f.Losses.Loss) != len(f.Stages.Stages) {
		return invalid("prestress losses must list one value per stage")
	}
	if f.Stirrup.Spacing < 0 || f.Stirrup.Av < 0 {
		return invalid("stirrup area and spacing cannot be negative")
	}
	return nil
}

func (f *File) stageIndex(name string) int {
	for i, s := range f.Stages.Stages {
		if s == name {
			return i
		}
	}
	return -1
}

func (f *File) criteria() (lrfd.Criteria, error) {
	c := lrfd.DefaultCriteria()
	if f.Specification.Edition != 0 {
		ed, err := lrfd.ParseEdition(f.Specification.Edition)
		if err != nil {
			return c, err
		}
		c.Edition = ed
	}
	if f.Specification.ShearMethod != "" {
		m, err := lrfd.ParseShearMethod(f.Specification.ShearMethod)
		if err != nil {
			return c, err
		}
		c.ShearMethod = m
	}
	if f.Specification.ZeroTransfer {
		c.TransferComputation = lrfd.TransferZeroLength
	}
	switch strings.ToUpper(f.Specification.RebarGrade) {
	case "", "A615":
		c.RebarGrade = lrfd.A615
	case "A706":
		c.RebarGrade = lrfd.A706
	default:
		return c, invalid("unknown rebar grade %q", f.Specification.RebarGrade)
	}
	c.Segmental = f.Specification.Segmental
	c.IncludeRebar = !f.Specification.IgnoreRebar
	return c, nil
}
