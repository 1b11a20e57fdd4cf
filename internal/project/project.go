// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"pontoon-planner/internal/grid"
)

// CurrentVersion is the project file format version this build writes.
const CurrentVersion = 1

// File represents a pontoon planner project file (.ponproj). The grid
// travels in its portable exchange form; this package only moves the
// bytes and never applies placement rules.
type File struct {
	Version      int       `json:"version"`
	Name         string    `json:"name"`
	Created      time.Time `json:"created"`
	Modified     time.Time `json:"modified"`
	PlatformType string    `json:"platform_type"`
	Description  string    `json:"description,omitempty"`

	Grid grid.Portable `json:"grid"`

	Settings Settings `json:"settings,omitempty"`
}

// Settings holds user preferences for the project.
type Settings struct {
	ActiveLevel  int    `json:"active_level"`
	MaxHistory   int    `json:"max_history,omitempty"`
	DefaultColor string `json:"default_color,omitempty"`
}

// New creates a new project file around a grid snapshot.
func New(name, platformType string, g grid.Grid) *File {
	now := time.Now()
	return &File{
		Version:      CurrentVersion,
		Name:         name,
		Created:      now,
		Modified:     now,
		PlatformType: platformType,
		Grid:         g.ToPortable(),
	}
}

// Load loads a project from a .ponproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}
	if proj.Version > CurrentVersion {
		return nil, fmt.Errorf("project version %d is newer than supported version %d",
			proj.Version, CurrentVersion)
	}
	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetGrid replaces the stored grid snapshot.
func (p *File) SetGrid(g grid.Grid) {
	p.Grid = g.ToPortable()
	p.Modified = time.Now()
}

// RestoreGrid rebuilds the stored grid value.
func (p *File) RestoreGrid() (grid.Grid, error) {
	return grid.FromPortable(p.Grid)
}
