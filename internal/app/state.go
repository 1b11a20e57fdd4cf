// Package app provides application lifecycle management, configuration,
// and events: the facade an external UI talks to.
package app

import (
	"fmt"
	"sync"

	"pontoon-planner/internal/catalog"
	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/project"
	"pontoon-planner/internal/tools"
)

// State holds the application state: the active platform spec, the
// editing pipeline, and project bookkeeping. All editing flows through
// the pipeline; State adds events, project persistence, and the
// request-to-result surface the UI calls.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	ProjectName string
	Modified    bool

	// Platform specification
	Platform *catalog.Spec

	pipeline *tools.Pipeline

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventGridChanged
	EventSelectionChanged
	EventLevelChanged
	EventToolChanged
	EventHistoryChanged
	EventModified
)

// EventListener is called when an event occurs. The payload for
// EventGridChanged is the pipeline Outcome of the mutation, which makes
// the event stream double as a structured operation log.
type EventListener func(data interface{})

// Result is the outcome of one facade request: a success flag, the
// resulting grid on success, and human-readable error strings on
// failure.
type Result struct {
	OK     bool
	Grid   grid.Grid
	Errors []string
}

// NewState creates a new application state on the default platform.
func NewState() *State {
	return NewStateWith(catalog.SwimDockSpec())
}

// NewStateWith creates a new application state on the given platform
// spec.
func NewStateWith(spec *catalog.Spec) *State {
	g, err := spec.NewGrid()
	if err != nil {
		// Registered presets are validated; only a hand-built spec can
		// land here.
		panic(fmt.Sprintf("invalid platform spec %q: %v", spec.Name(), err))
	}
	return &State{
		Platform:  spec,
		pipeline:  tools.NewPipeline(g, 0),
		listeners: make(map[EventType][]EventListener),
	}
}

// Pipeline exposes the operation pipeline for pointer wiring. The
// pipeline is single-flight; the UI must call it from one goroutine.
func (s *State) Pipeline() *tools.Pipeline {
	return s.pipeline
}

// Grid returns the current grid value.
func (s *State) Grid() grid.Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipeline.Grid()
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

func (s *State) finish(out tools.Outcome) Result {
	if out.OK && out.Changed {
		s.SetModified(true)
		s.Emit(EventGridChanged, out)
		s.Emit(EventHistoryChanged, nil)
	}
	return Result{OK: out.OK, Grid: out.Grid, Errors: out.Messages()}
}

// Place requests a new pontoon anchored at pos.
func (s *State) Place(pos grid.Position, typ grid.PontoonType, col grid.Color) Result {
	return s.finish(s.pipeline.Place(pos, typ, col))
}

// Remove requests removal of the pontoon with the given id.
func (s *State) Remove(id grid.ID) Result {
	return s.finish(s.pipeline.Remove(id))
}

// Move requests re-anchoring the pontoon at pos.
func (s *State) Move(id grid.ID, pos grid.Position) Result {
	return s.finish(s.pipeline.MoveTo(id, pos))
}

// Rotate requests a quarter turn of the pontoon.
func (s *State) Rotate(id grid.ID) Result {
	return s.finish(s.pipeline.Rotate(id))
}

// Recolor requests repainting the pontoon.
func (s *State) Recolor(id grid.ID, col grid.Color) Result {
	return s.finish(s.pipeline.Paint(id, col))
}

// BatchPlace requests placement at every valid anchor, skipping
// invalid ones.
func (s *State) BatchPlace(anchors []grid.Position, typ grid.PontoonType, col grid.Color) Result {
	return s.finish(s.pipeline.BatchPlace(anchors, typ, col))
}

// Undo steps the session back one history entry.
func (s *State) Undo() Result {
	return s.finish(s.pipeline.Undo())
}

// Redo steps the session forward one history entry.
func (s *State) Redo() Result {
	return s.finish(s.pipeline.Redo())
}

// Checkpoint drops a named rollback marker at the current state.
func (s *State) Checkpoint(id string) {
	if s.pipeline.Checkpoint(id) {
		s.Emit(EventHistoryChanged, nil)
	}
}

// Rollback rewinds the session to the named checkpoint.
func (s *State) Rollback(id string) Result {
	return s.finish(s.pipeline.Rollback(id))
}

// PontoonAt returns the pontoon covering the cell, if any.
func (s *State) PontoonAt(pos grid.Position) (grid.Pontoon, bool) {
	return s.pipeline.Grid().PontoonAt(pos)
}

// PontoonsAtLevel returns the pontoons anchored on the level.
func (s *State) PontoonsAtLevel(level int) []grid.Pontoon {
	return s.pipeline.Grid().AtLevel(level)
}

// CheckConnectivity verifies the platform forms one contiguous
// structure.
func (s *State) CheckConnectivity() Result {
	res := s.pipeline.Engine().ValidateConnectivity()
	return Result{OK: res.OK(), Grid: s.pipeline.Grid(), Errors: res.Messages()}
}

// NewProject resets the session to an empty grid on the named platform
// preset.
func (s *State) NewProject(platformType string) {
	spec := catalog.GetSpec(platformType)
	g, err := spec.NewGrid()
	if err != nil {
		panic(fmt.Sprintf("invalid platform spec %q: %v", spec.Name(), err))
	}

	s.mu.Lock()
	s.Platform = spec
	s.ProjectPath = ""
	s.ProjectName = ""
	s.Modified = false
	s.pipeline = tools.NewPipeline(g, 0)
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, "")
}

// LoadProject loads a project from the specified path.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}
	g, err := proj.RestoreGrid()
	if err != nil {
		return fmt.Errorf("restore grid: %w", err)
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.ProjectName = proj.Name
	s.Modified = false
	s.Platform = catalog.GetSpec(proj.PlatformType)
	s.pipeline = tools.NewPipeline(g, proj.Settings.MaxHistory)
	s.pipeline.SetActiveLevel(proj.Settings.ActiveLevel)
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, path)
	return nil
}

// SaveProject saves the project to the specified path.
func (s *State) SaveProject(path string) error {
	s.mu.RLock()
	name := s.ProjectName
	if name == "" {
		name = "Untitled Platform"
	}
	proj := project.New(name, s.Platform.Name(), s.pipeline.Grid())
	proj.Settings.ActiveLevel = s.pipeline.ActiveLevel()
	s.mu.RUnlock()

	if err := proj.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}
