// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"

	"pontoon-planner/internal/app"
	"pontoon-planner/internal/catalog"
	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/tools"
	"pontoon-planner/internal/version"
	"pontoon-planner/ui/canvas"
	"pontoon-planner/ui/dialogs"
	"pontoon-planner/ui/panels"
	"pontoon-planner/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir     = "lastDirectory"
	prefKeyLastProject = "lastProject"
)

var toolOrder = []tools.Tool{
	tools.ToolSelect,
	tools.ToolPlace,
	tools.ToolDelete,
	tools.ToolRotate,
	tools.ToolPaint,
	tools.ToolMove,
	tools.ToolMultiDrop,
}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.PlatformCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	levelLabel  *widget.Label
	toolButtons map[tools.Tool]*widget.Button
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Pontoon Planner")

	mw := &MainWindow{
		Window:      win,
		app:         fyneApp,
		state:       state,
		prefs:       p,
		toolButtons: make(map[tools.Tool]*widget.Button),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	win.Resize(fyne.NewSize(1100, 760))

	return mw
}

func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPlatformCanvas(mw.state)
	mw.canvas.OnStatus(func(msg string) { mw.updateStatus(msg) })

	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.statusBar = widget.NewLabel("Ready")

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil, nil, nil,
		mw.canvas,
	)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)
	mw.SetContent(content)
}

func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	toolRow := container.NewHBox()
	for _, t := range toolOrder {
		t := t
		btn := widget.NewButton(t.String(), func() { mw.selectTool(t) })
		mw.toolButtons[t] = btn
		toolRow.Add(btn)
	}

	typeSelect := widget.NewSelect([]string{"single", "double"}, func(name string) {
		typ, err := grid.ParsePontoonType(name)
		if err != nil {
			return
		}
		mw.updatePlacement(typ, -1)
	})
	typeSelect.SetSelected("single")

	colorSelect := widget.NewSelect([]string{"blue", "gray", "sand", "green"}, func(name string) {
		col, err := grid.ParseColor(name)
		if err != nil {
			return
		}
		mw.updatePlacement(-1, col)
	})
	colorSelect.SetSelected("blue")

	mw.levelLabel = widget.NewLabel("Level 0")
	levelDown := widget.NewButton("▼", func() { mw.shiftLevel(-1) })
	levelUp := widget.NewButton("▲", func() { mw.shiftLevel(+1) })

	return container.NewHBox(
		toolRow,
		widget.NewSeparator(),
		typeSelect,
		colorSelect,
		widget.NewSeparator(),
		levelDown, mw.levelLabel, levelUp,
	)
}

// updatePlacement changes one half of the placement settings, keeping
// the other. A negative value means keep.
func (mw *MainWindow) updatePlacement(typ grid.PontoonType, col grid.Color) {
	pipeline := mw.state.Pipeline()
	curType, curCol := pipeline.Placement()
	if typ >= 0 {
		curType = typ
	}
	if col >= 0 {
		curCol = col
	}
	pipeline.SetPlacement(curType, curCol)
}

func (mw *MainWindow) selectTool(t tools.Tool) {
	mw.state.Pipeline().SetTool(t)
	mw.state.Emit(app.EventToolChanged, t)
	mw.updateStatus(fmt.Sprintf("Tool: %s", t))
	for tool, btn := range mw.toolButtons {
		if tool == t {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (mw *MainWindow) shiftLevel(delta int) {
	pipeline := mw.state.Pipeline()
	pipeline.SetActiveLevel(pipeline.ActiveLevel() + delta)
	mw.levelLabel.SetText(fmt.Sprintf("Level %d", pipeline.ActiveLevel()))
	mw.state.Emit(app.EventLevelChanged, pipeline.ActiveLevel())
	mw.canvas.Refresh()
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project...", mw.onNewProject),
		fyne.NewMenuItem("Open...", mw.onOpenProject),
		fyne.NewMenuItem("Save", mw.onSaveProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("About", mw.onAbout),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Check Connectivity", mw.onCheckConnectivity),
		fyne.NewMenuItem("Statistics...", func() { dialogs.ShowStatistics(mw.state, mw.Window) }),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu))
}

func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventGridChanged, func(interface{}) {
		mw.canvas.Refresh()
	})
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok && path != "" {
			mw.updateStatus(fmt.Sprintf("Loaded %s", path))
		}
		mw.levelLabel.SetText(fmt.Sprintf("Level %d", mw.state.Pipeline().ActiveLevel()))
		mw.canvas.Refresh()
	})
	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus(fmt.Sprintf("Saved %s", path))
			mw.prefs.SetString(prefKeyLastProject, path)
		}
	})
}

func (mw *MainWindow) onNewProject() {
	names := catalog.ListSpecs()
	sel := widget.NewSelect(names, nil)
	sel.SetSelected(names[0])
	dialog.ShowCustomConfirm("New Project", "Create", "Cancel",
		container.NewVBox(widget.NewLabel("Platform type:"), sel),
		func(ok bool) {
			if !ok {
				return
			}
			mw.state.NewProject(sel.Selected)
		}, mw.Window)
}

func (mw *MainWindow) onUndo() {
	r := mw.state.Undo()
	if !r.OK {
		mw.updateStatus(firstError(r))
	}
}

func (mw *MainWindow) onRedo() {
	r := mw.state.Redo()
	if !r.OK {
		mw.updateStatus(firstError(r))
	}
}

func (mw *MainWindow) onCheckConnectivity() {
	r := mw.state.CheckConnectivity()
	if r.OK {
		mw.updateStatus("Structure is contiguous")
	} else {
		mw.updateStatus(firstError(r))
	}
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefKeyLastProject, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".ponproj"}))
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath != "" {
		if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
			dialog.ShowError(err, mw.Window)
		}
		return
	}
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		_ = wc.Close()
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("platform.ponproj")
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("Pontoon Planner",
		fmt.Sprintf("Pontoon Planner %s\nModular floating platform layout", version.Version),
		mw.Window)
}

func (mw *MainWindow) updateStatus(msg string) {
	mw.statusBar.SetText(msg)
}

// SavePreferences flushes preferences to disk.
func (mw *MainWindow) SavePreferences() {
	_ = mw.prefs.Save()
}

func firstError(r app.Result) string {
	if len(r.Errors) == 0 {
		return "operation failed"
	}
	return r.Errors[0]
}
