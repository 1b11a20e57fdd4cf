// Package panels provides the side panel widgets of the main window.
package panels

import (
	"fmt"
	"sort"
	"strings"

	"pontoon-planner/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// SidePanel shows the platform summary: preset info, part counts, and
// the connectivity check.
type SidePanel struct {
	state *app.State

	platformLabel *widget.Label
	statsLabel    *widget.Label
	connLabel     *widget.Label
	historyLabel  *widget.Label

	container *fyne.Container
}

// NewSidePanel creates the side panel and subscribes it to state
// events.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{
		state:         state,
		platformLabel: widget.NewLabel(""),
		statsLabel:    widget.NewLabel(""),
		connLabel:     widget.NewLabel(""),
		historyLabel:  widget.NewLabel(""),
	}
	sp.statsLabel.Wrapping = fyne.TextWrapWord

	sp.container = container.NewVBox(
		widget.NewLabelWithStyle("Platform", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sp.platformLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Parts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sp.statsLabel,
		widget.NewSeparator(),
		sp.connLabel,
		sp.historyLabel,
	)

	state.On(app.EventGridChanged, func(interface{}) { sp.Update() })
	state.On(app.EventProjectLoaded, func(interface{}) { sp.Update() })
	state.On(app.EventHistoryChanged, func(interface{}) { sp.Update() })

	sp.Update()
	return sp
}

// Container returns the panel's root object.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return container.NewPadded(sp.container)
}

// Update refreshes all labels from the current state.
func (sp *SidePanel) Update() {
	spec := sp.state.Platform
	dims := spec.Dims
	sp.platformLabel.SetText(fmt.Sprintf("%s\n%dx%d cells, %d levels",
		spec.Name(), dims.Width, dims.Height, dims.Levels))

	stats := sp.state.Statistics()
	var b strings.Builder
	fmt.Fprintf(&b, "%d pontoons, %d cells\n", stats.Pontoons, stats.Cells)
	for _, name := range sortedKeys(stats.ByType) {
		fmt.Fprintf(&b, "  %s: %d\n", name, stats.ByType[name])
	}
	for _, name := range sortedKeys(stats.ByColor) {
		fmt.Fprintf(&b, "  %s: %d\n", name, stats.ByColor[name])
	}
	sp.statsLabel.SetText(strings.TrimRight(b.String(), "\n"))

	if stats.Pontoons == 0 {
		sp.connLabel.SetText("Structure: empty")
	} else if stats.Connected {
		sp.connLabel.SetText("Structure: contiguous")
	} else {
		sp.connLabel.SetText("Structure: DISCONNECTED")
	}

	ledger := sp.state.Pipeline().Ledger()
	sp.historyLabel.SetText(fmt.Sprintf("History: %d entries", ledger.Len()))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
