// Package catalog provides platform specification presets: named grid
// layouts with their default pontoon model, matching the product
// catalog an operator configures from.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"pontoon-planner/internal/grid"
)

// Spec defines a platform preset.
type Spec struct {
	SpecName     string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Dims         grid.Dimensions  `json:"dimensions"`
	DefaultType  grid.PontoonType `json:"-"`
	DefaultColor grid.Color       `json:"-"`

	// String forms of the defaults, carried in JSON.
	DefaultTypeName  string `json:"default_type"`
	DefaultColorName string `json:"default_color"`
}

// Name returns the preset's display name.
func (s *Spec) Name() string {
	return s.SpecName
}

// Validate checks the preset for structural sanity.
func (s *Spec) Validate() error {
	if s.SpecName == "" {
		return fmt.Errorf("platform spec name is required")
	}
	if s.Dims.Width <= 0 || s.Dims.Height <= 0 || s.Dims.Levels <= 0 {
		return fmt.Errorf("platform dimensions must be positive")
	}
	if s.Dims.MinLevel > 0 {
		return fmt.Errorf("lowest level must not be above the surface")
	}
	return nil
}

// NewGrid creates an empty grid with the preset's dimensions.
func (s *Spec) NewGrid() (grid.Grid, error) {
	return grid.New(s.Dims)
}

// SaveToFile saves the spec to a JSON file.
func (s *Spec) SaveToFile(path string) error {
	s.DefaultTypeName = s.DefaultType.String()
	s.DefaultColorName = s.DefaultColor.String()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromFile loads a spec from a JSON file.
func LoadFromFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if spec.DefaultTypeName != "" {
		if spec.DefaultType, err = grid.ParsePontoonType(spec.DefaultTypeName); err != nil {
			return nil, err
		}
	}
	if spec.DefaultColorName != "" {
		if spec.DefaultColor, err = grid.ParseColor(spec.DefaultColorName); err != nil {
			return nil, err
		}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// SwimDockSpec returns the small swim dock preset: a single surface
// level, no foundation, no decks.
func SwimDockSpec() *Spec {
	return &Spec{
		SpecName:    "Swim Dock",
		Description: "Small single-level bathing platform",
		Dims:        grid.Dimensions{Width: 10, Height: 10, Levels: 1},
		DefaultType: grid.Single,
	}
}

// MarinaPierSpec returns the marina pier preset: surface plus one deck
// level for railed walkways.
func MarinaPierSpec() *Spec {
	return &Spec{
		SpecName:     "Marina Pier",
		Description:  "Walkway pier with one deck level",
		Dims:         grid.Dimensions{Width: 30, Height: 12, Levels: 2},
		DefaultType:  grid.Double,
		DefaultColor: grid.ColorGray,
	}
}

// WorkBargeSpec returns the work barge preset: an underwater
// foundation level below the surface for heavy loads.
func WorkBargeSpec() *Spec {
	return &Spec{
		SpecName:     "Work Barge",
		Description:  "Load platform with underwater foundation",
		Dims:         grid.Dimensions{Width: 16, Height: 16, Levels: 3, MinLevel: -1},
		DefaultType:  grid.Double,
		DefaultColor: grid.ColorSand,
	}
}

// EventStageSpec returns the event stage preset: three levels of
// stacked decks on a wide base.
func EventStageSpec() *Spec {
	return &Spec{
		SpecName:     "Event Stage",
		Description:  "Stacked stage decks on a wide base",
		Dims:         grid.Dimensions{Width: 24, Height: 20, Levels: 3},
		DefaultType:  grid.Single,
		DefaultColor: grid.ColorBlue,
	}
}

var registry = map[string]func() *Spec{}

// Register adds a spec constructor under its name.
func Register(name string, ctor func() *Spec) {
	registry[name] = ctor
}

// GetSpec returns a platform spec by name, falling back to the swim
// dock preset for unknown names.
func GetSpec(name string) *Spec {
	if ctor, ok := registry[name]; ok {
		return ctor()
	}
	return SwimDockSpec()
}

// ListSpecs returns the registered preset names, sorted.
func ListSpecs() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	for _, ctor := range []func() *Spec{SwimDockSpec, MarinaPierSpec, WorkBargeSpec, EventStageSpec} {
		Register(ctor().SpecName, ctor)
	}
}
