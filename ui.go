package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/benchplot/backend"
	"git.sr.ht/~whereswaldon/benchplot/plan"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var errorColor = color.NRGBA{R: 170, G: 20, B: 20, A: 255}

var openIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.FileFolderOpen)
	return icon
}()

var reloadIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.NavigationRefresh)
	return icon
}()

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws   WindowState
	expl *explorer.Explorer

	charts    []*ChartData
	tab       widget.Enum
	openBtn   widget.Clickable
	reloadBtn widget.Clickable
	// chosen receives paths picked in the file explorer.
	chosen     chan string
	invalidate func()

	th         *material.Theme
	source     *backend.Source
	dataStream *stream.Stream[backend.Snapshot]
	snapshot   backend.Snapshot
	loaded     bool
}

func NewUI(ws WindowState, expl *explorer.Explorer, jobs []plan.Job, invalidate func()) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	ui := &UI{
		ws:         ws,
		th:         th,
		expl:       expl,
		chosen:     make(chan string, 1),
		invalidate: invalidate,
	}
	for _, job := range jobs {
		ui.charts = append(ui.charts, NewChart(job))
	}
	if len(jobs) > 0 {
		ui.tab.Value = jobs[0].Figure.Name
	}
	ui.watch(ws.Bundle.Source)
	return ui
}

// watch switches the UI over to the snapshots of src.
func (ui *UI) watch(src *backend.Source) {
	ui.source = src
	ui.loaded = false
	ui.dataStream = stream.New(ui.ws.Controller, src.Stream)
}

// chooseFile asks the user for a data file without blocking the frame.
func (ui *UI) chooseFile() {
	go func() {
		f, err := ui.expl.ChooseFile(".json")
		if err != nil {
			log.Printf("failed browsing for file: %v", err)
			return
		}
		defer f.Close()
		osFile, ok := f.(*os.File)
		if !ok {
			log.Printf("selected file of unexpected type: %T", f)
			return
		}
		ui.chosen <- osFile.Name()
		ui.invalidate()
	}()
}

// Update the state of the UI from input and backend streams.
func (ui *UI) Update(gtx C) {
	if snap, isNew := ui.dataStream.ReadNew(gtx); isNew {
		ui.snapshot = snap
		ui.loaded = true
		if snap.Err != nil {
			log.Printf("failed loading %s: %v", snap.Path, snap.Err)
		} else {
			for _, c := range ui.charts {
				c.SetData(snap.Data)
			}
		}
	}
	select {
	case path := <-ui.chosen:
		ui.watch(backend.NewSource(path))
	default:
	}
	ui.tab.Update(gtx)
	if ui.openBtn.Clicked(gtx) {
		ui.chooseFile()
	}
	if ui.reloadBtn.Clicked(gtx) {
		ui.watch(backend.NewSource(ui.source.Path()))
	}
}

// TabStyle draws one figure selector of the toolbar.
type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	inset  layout.Inset
	value  string
	fill   color.NRGBA
}

// Tab selects value in state when clicked. Tabs of figures that failed to
// assemble are drawn with an error border.
func Tab(th *material.Theme, state *widget.Enum, chart *ChartData) TabStyle {
	value := chart.Job.Figure.Name
	ts := TabStyle{
		state: state,
		label: material.Body2(th, value),
		inset: layout.UniformInset(2),
		border: widget.Border{
			Width:        2,
			CornerRadius: 4,
			Color:        th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	ts.label.MaxLines = 1
	if chart.Err != nil {
		ts.border.Color = errorColor
	}
	if state.Value == value {
		ts.label.Color = th.ContrastFg
		ts.fill = ts.border.Color
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	return t.inset.Layout(gtx, func(gtx C) D {
		return t.border.Layout(gtx, func(gtx C) D {
			return t.inset.Layout(gtx, func(gtx C) D {
				return t.state.Layout(gtx, t.value, func(gtx C) D {
					return layout.Background{}.Layout(gtx, func(gtx C) D {
						paint.FillShape(gtx.Ops, t.fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					}, t.label.Layout)
				})
			})
		})
	})
}

func (ui *UI) layoutToolbar(gtx C) D {
	tabs := make([]layout.FlexChild, 0, len(ui.charts)+2)
	for _, c := range ui.charts {
		tabs = append(tabs, layout.Flexed(1, Tab(ui.th, &ui.tab, c).Layout))
	}
	tabs = append(tabs,
		layout.Rigid(material.IconButton(ui.th, &ui.reloadBtn, reloadIcon, "Reload data file").Layout),
		layout.Rigid(material.IconButton(ui.th, &ui.openBtn, openIcon, "Open data file").Layout),
	)
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx, tabs...)
}

func (ui *UI) layoutStatus(gtx C) D {
	var l material.LabelStyle
	switch {
	case !ui.loaded:
		l = material.Body2(ui.th, fmt.Sprintf("Loading %s...", ui.source.Path()))
	case ui.snapshot.Err != nil:
		l = material.Body2(ui.th, ui.snapshot.Err.Error())
		l.Color = errorColor
	default:
		l = material.Body2(ui.th, fmt.Sprintf("%s: %d series, loaded %s",
			ui.snapshot.Path, ui.snapshot.Data.Len(), ui.snapshot.Loaded.Format("15:04:05")))
	}
	l.MaxLines = 1
	return layout.UniformInset(4).Layout(gtx, l.Layout)
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(ui.layoutToolbar),
		layout.Rigid(ui.layoutStatus),
		layout.Flexed(1, func(gtx C) D {
			for _, c := range ui.charts {
				if c.Job.Figure.Name == ui.tab.Value {
					return c.Layout(gtx, ui.th)
				}
			}
			return D{Size: gtx.Constraints.Max}
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	msg := "Loading " + ui.source.Path()
	if ui.snapshot.Err != nil {
		msg = ui.snapshot.Err.Error()
	}
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Body1(ui.th, msg).Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.openBtn, "Open Data File").Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if ui.loaded && ui.snapshot.Err == nil {
		return ui.layoutMainArea(gtx)
	}
	if ui.loaded && len(ui.charts) > 0 && ui.charts[0].Panels != nil {
		// Keep showing the last good data while the file is broken.
		return ui.layoutMainArea(gtx)
	}
	return ui.layoutStartScreen(gtx)
}
