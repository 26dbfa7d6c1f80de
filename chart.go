package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"git.sr.ht/~whereswaldon/benchplot/backend"
	"git.sr.ht/~whereswaldon/benchplot/plan"
	"git.sr.ht/~whereswaldon/benchplot/render"
)

// line is one drawable trace of a panel.
type line struct {
	key, label string
	xs         []float64
	ys         []float64
}

// PanelView draws a single panel and tracks the pointer hovering over it.
type PanelView struct {
	backend.Panel
	lines  []line
	x, y   scale
	xLabel string
	// hover gesture state
	pos       f32.Point
	isHovered bool
}

// ChartData is the state of one figure tab.
type ChartData struct {
	Job    plan.Job
	Err    error
	Panels []*PanelView
	// Keys lists the series of the figure in legend order. The maps below
	// are keyed the same way.
	Keys     []string
	Names    map[string]string
	Points   map[string]int
	Enabled  map[string]*widget.Bool
	palette  []color.NRGBA
	keyTable component.GridState
}

func NewChart(job plan.Job) *ChartData {
	return &ChartData{
		Job:     job,
		Enabled: make(map[string]*widget.Bool),
	}
}

// SetData assembles the figure from ds. Toggle state survives reloads.
func (c *ChartData) SetData(ds *backend.Dataset) {
	c.Panels = c.Panels[:0]
	c.Keys = c.Keys[:0]
	c.Names = make(map[string]string)
	c.Points = make(map[string]int)
	panels, err := backend.Assemble(ds, c.Job.Figure, c.Job.Options)
	c.Err = err
	if err != nil {
		log.Printf("failed assembling %s: %v", c.Job.Figure.Name, err)
		return
	}
	for _, p := range panels {
		pv := &PanelView{Panel: p.Panel, xLabel: c.Job.Options.XLabel}
		var allX, allY [][]float64
		for _, t := range p.Traces {
			xs, ys, dropped := render.Points(t, p.LogY)
			if dropped > 0 {
				log.Printf("%s, %s: skipped %d points outside the axis domain", t.Label, p.Metric, dropped)
			}
			pv.lines = append(pv.lines, line{key: t.Key, label: t.Label, xs: xs, ys: ys})
			allX = append(allX, xs)
			allY = append(allY, ys)
			if _, ok := c.Points[t.Key]; !ok {
				c.Keys = append(c.Keys, t.Key)
				c.Names[t.Key] = t.Label
				c.Points[t.Key] = len(t.X)
			}
		}
		pv.x = newScale(true, allX...)
		pv.y = newScale(p.LogY, allY...)
		c.Panels = append(c.Panels, pv)
	}
	c.palette = render.NRGBA(len(c.Keys))
	for _, key := range c.Keys {
		if _, ok := c.Enabled[key]; !ok {
			c.Enabled[key] = &widget.Bool{Value: true}
		}
	}
}

func (c *ChartData) enabled(key string) bool {
	b, ok := c.Enabled[key]
	return !ok || b.Value
}

// colorOf returns the color of the trace at index i of the legend.
func (c *ChartData) colorOf(i int) color.NRGBA {
	if i < 0 || i >= len(c.palette) {
		return color.NRGBA{A: 255}
	}
	return c.palette[i]
}

func (c *ChartData) keyIndex(key string) int {
	for i, k := range c.Keys {
		if k == key {
			return i
		}
	}
	return -1
}

func (c *ChartData) Update(gtx C) {
	for _, key := range c.Keys {
		c.Enabled[key].Update(gtx)
	}
	for _, p := range c.Panels {
		p.Update(gtx)
	}
}

func (c *ChartData) Layout(gtx C, th *material.Theme) D {
	c.Update(gtx)
	if c.Err != nil {
		l := material.Body1(th, c.Err.Error())
		l.Color = errorColor
		return layout.UniformInset(8).Layout(gtx, l.Layout)
	}
	if len(c.Panels) == 0 {
		return material.Body1(th, "Nothing to draw.").Layout(gtx)
	}

	// Determine the space occupied by the key.
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{X: gtx.Constraints.Max.X}
	gtx.Constraints.Max.Y = gtx.Constraints.Max.Y / 3
	keyDims, keyCall := rec(gtx, func(gtx C) D {
		return c.layoutKey(gtx, th)
	})
	gtx.Constraints = origConstraints

	children := make([]layout.FlexChild, 0, len(c.Panels)+1)
	for i, p := range c.Panels {
		p := p
		last := i == len(c.Panels)-1
		children = append(children, layout.Flexed(1, func(gtx C) D {
			return p.Layout(gtx, th, c, last)
		}))
	}
	children = append(children, layout.Rigid(func(gtx C) D {
		keyCall.Add(gtx.Ops)
		return keyDims
	}))
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func (c *ChartData) layoutKey(gtx C, th *material.Theme) D {
	table := component.Table(th, &c.keyTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	pointsColWidth := gtx.Dp(100)
	nameColWidth := gtx.Constraints.Max.X - colorColWidth - pointsColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	const (
		colorCol = iota
		seriesNameCol
		pointsCol
		numCols
	)
	return table.Layout(gtx, len(c.Keys), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case seriesNameCol:
				size = nameColWidth
			case pointsCol:
				size = pointsColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Show")
			case seriesNameCol:
				l = material.Body1(th, "Series")
				l.Alignment = text.Middle
			case pointsCol:
				l = material.Body1(th, "Points")
				l.Alignment = text.End
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			key := c.Keys[row]
			enabled := c.enabled(key)
			disabledAlpha := uint8(100)
			dims = layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				switch col {
				case colorCol:
					return c.Enabled[key].Layout(gtx, func(gtx C) D {
						return layout.Center.Layout(gtx, func(gtx C) D {
							sideLen := gtx.Dp(10)
							sz := image.Pt(sideLen, sideLen)
							fullColor := c.colorOf(row)
							if !enabled {
								fullColor.A = disabledAlpha
							}
							paint.FillShape(gtx.Ops, fullColor, clip.Rect{Max: sz}.Op())
							return D{Size: sz}
						})
					})
				case seriesNameCol:
					l := material.Body2(th, c.Names[key])
					if !enabled {
						l.Color.A = disabledAlpha
					}
					return l.Layout(gtx)
				case pointsCol:
					l := material.Body2(th, fmt.Sprintf("%d", c.Points[key]))
					if !enabled {
						l.Color.A = disabledAlpha
					}
					l.Alignment = text.End
					return l.Layout(gtx)
				default:
					return D{Size: gtx.Constraints.Max}
				}
			})
			if row&1 != 0 {
				col := c.colorOf(row)
				col.A = 50
				paint.FillShape(gtx.Ops, col, clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func (p *PanelView) Update(gtx C) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: p,
			Kinds:  pointer.Enter | pointer.Leave | pointer.Move,
		})
		if !ok {
			break
		}
		switch ev := ev.(type) {
		case pointer.Event:
			switch ev.Kind {
			case pointer.Enter:
				p.isHovered = true
				p.pos = ev.Position
			case pointer.Leave, pointer.Cancel:
				p.isHovered = false
			case pointer.Move:
				p.pos = ev.Position
			}
		}
	}
}

// Layout draws the panel. Tick labels of the x axis are drawn on every panel,
// the axis title only on the last one.
func (p *PanelView) Layout(gtx C, th *material.Theme, c *ChartData, last bool) D {
	size := gtx.Constraints.Max
	gtx.Constraints.Min = image.Point{}
	caption := material.Caption(th, "0")
	captionDims, _ := rec(gtx, caption.Layout)
	lineHeight := captionDims.Size.Y

	left := gtx.Dp(56) + lineHeight
	bottom := lineHeight + gtx.Dp(4)
	if last {
		bottom += lineHeight
	}
	area := image.Rectangle{
		Min: image.Pt(left, gtx.Dp(8)),
		Max: image.Pt(size.X-gtx.Dp(16), size.Y-bottom),
	}
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return D{Size: size}
	}
	toPx := func(x, y float64) f32.Point {
		return f32.Pt(
			float32(area.Min.X)+p.x.norm(x)*float32(area.Dx()),
			float32(area.Max.Y)-p.y.norm(y)*float32(area.Dy()),
		)
	}

	p.layoutGrid(gtx, th, area, last)
	p.layoutYTitle(gtx, th, area)

	lineWidth := float32(gtx.Dp(unit.Dp(1.5)))
	for _, l := range p.lines {
		if !c.enabled(l.key) || len(l.xs) == 0 {
			continue
		}
		col := c.colorOf(c.keyIndex(l.key))
		if len(l.xs) == 1 {
			pt := toPx(l.xs[0], l.ys[0])
			r := lineWidth * 2
			paint.FillShape(gtx.Ops, col, clip.Ellipse{
				Min: image.Pt(int(pt.X-r), int(pt.Y-r)),
				Max: image.Pt(int(pt.X+r), int(pt.Y+r)),
			}.Op(gtx.Ops))
			continue
		}
		var path clip.Path
		path.Begin(gtx.Ops)
		path.MoveTo(toPx(l.xs[0], l.ys[0]))
		for i := 1; i < len(l.xs); i++ {
			path.LineTo(toPx(l.xs[i], l.ys[i]))
		}
		paint.FillShape(gtx.Ops, col, clip.Stroke{Path: path.End(), Width: lineWidth}.Op())
	}

	// Register for pointer events over the plot area.
	stack := clip.Rect(area).Push(gtx.Ops)
	event.Op(gtx.Ops, p)
	stack.Pop()

	if p.isHovered {
		p.layoutHover(gtx, th, c, area, toPx)
	}
	return D{Size: size}
}

func (p *PanelView) layoutGrid(gtx C, th *material.Theme, area image.Rectangle, last bool) {
	oneDp := gtx.Dp(1)
	gridColor := color.NRGBA{A: 50}
	for _, t := range p.y.ticks() {
		y := area.Max.Y - int(p.y.norm(t.Value)*float32(area.Dy()))
		paint.FillShape(gtx.Ops, gridColor, clip.Rect{
			Min: image.Pt(area.Min.X, y),
			Max: image.Pt(area.Max.X, y+oneDp),
		}.Op())
		label := material.Caption(th, t.Label)
		dims, call := rec(gtx, label.Layout)
		stack := op.Offset(image.Pt(area.Min.X-dims.Size.X-gtx.Dp(4), y-dims.Size.Y/2)).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}
	var labelHeight int
	for _, t := range p.x.ticks() {
		x := area.Min.X + int(p.x.norm(t.Value)*float32(area.Dx()))
		paint.FillShape(gtx.Ops, gridColor, clip.Rect{
			Min: image.Pt(x, area.Min.Y),
			Max: image.Pt(x+oneDp, area.Max.Y),
		}.Op())
		label := material.Caption(th, t.Label)
		dims, call := rec(gtx, label.Layout)
		labelHeight = dims.Size.Y
		stack := op.Offset(image.Pt(x-dims.Size.X/2, area.Max.Y+gtx.Dp(2))).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}
	// Frame.
	paint.FillShape(gtx.Ops, color.NRGBA{A: 150}, clip.Stroke{
		Path:  clip.Rect(area).Path(),
		Width: float32(oneDp),
	}.Op())
	if !last {
		return
	}
	title := material.Body2(th, p.xLabel)
	title.MaxLines = 1
	dims, call := rec(gtx, title.Layout)
	stack := op.Offset(image.Pt(area.Min.X+(area.Dx()-dims.Size.X)/2, area.Max.Y+gtx.Dp(2)+labelHeight)).Push(gtx.Ops)
	call.Add(gtx.Ops)
	stack.Pop()
}

// layoutYTitle draws the panel title rotated along the left edge.
func (p *PanelView) layoutYTitle(gtx C, th *material.Theme, area image.Rectangle) {
	gtx.Constraints.Min = image.Point{}
	gtx.Constraints.Max = image.Pt(area.Dy(), area.Min.X)
	title := material.Body2(th, p.Title())
	title.MaxLines = 1
	title.Alignment = text.Middle
	gtx.Constraints.Min.X = area.Dy()
	_, call := rec(gtx, title.Layout)

	defer op.Affine(
		f32.Affine2D{}.
			Rotate(f32.Pt(0, 0), -math.Pi/2).
			Offset(f32.Pt(0, float32(area.Max.Y))),
	).Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)
}

// layoutHover draws a vertical rule under the pointer and, for every enabled
// trace, the point nearest to it.
func (p *PanelView) layoutHover(gtx C, th *material.Theme, c *ChartData, area image.Rectangle, toPx func(x, y float64) f32.Point) {
	if !image.Pt(int(p.pos.X), int(p.pos.Y)).In(area) {
		return
	}
	xR := ceil(p.pos.X)
	xL := xR - float32(gtx.Dp(1))
	paint.FillShape(gtx.Ops, color.NRGBA{A: 255}, clip.Rect{
		Min: image.Pt(int(xL), area.Min.Y),
		Max: image.Pt(int(xR), area.Max.Y),
	}.Op())

	x := p.x.value((p.pos.X - float32(area.Min.X)) / float32(area.Dx()))
	children := []layout.FlexChild{
		layout.Rigid(material.Body2(th, fmt.Sprintf("%s: %.2f", p.xLabel, x)).Layout),
	}
	for _, l := range p.lines {
		if !c.enabled(l.key) || len(l.xs) == 0 {
			continue
		}
		nearest := 0
		for i := range l.xs {
			if math.Abs(float64(toPx(l.xs[i], l.ys[i]).X-p.pos.X)) < math.Abs(float64(toPx(l.xs[nearest], l.ys[nearest]).X-p.pos.X)) {
				nearest = i
			}
		}
		col := c.colorOf(c.keyIndex(l.key))
		readout := fmt.Sprintf("%s  x:%.2f, y:%.3g", l.label, l.xs[nearest], l.ys[nearest])
		pt := toPx(l.xs[nearest], l.ys[nearest])
		size := gtx.Dp(6)
		paint.FillShape(gtx.Ops, col, clip.Ellipse{
			Min: image.Pt(int(pt.X)-size/2, int(pt.Y)-size/2),
			Max: image.Pt(int(pt.X)+size/2, int(pt.Y)+size/2),
		}.Op(gtx.Ops))
		children = append(children, layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					size := image.Pt(gtx.Dp(8), gtx.Dp(8))
					paint.FillShape(gtx.Ops, col, clip.Ellipse{Max: size}.Op(gtx.Ops))
					return D{Size: size}
				}),
				layout.Rigid(layout.Spacer{Width: 8}.Layout),
				layout.Rigid(material.Body2(th, readout).Layout),
			)
		}))
	}

	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	hoverInfoDims, hoverInfoCall := rec(gtx, func(gtx C) D {
		return layout.Background{}.Layout(gtx,
			func(gtx C) D {
				paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 200}, clip.Rect{Max: gtx.Constraints.Min}.Op())
				return D{Size: gtx.Constraints.Min}
			},
			func(gtx C) D {
				return layout.UniformInset(10).Layout(gtx, func(gtx C) D {
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
				})
			},
		)
	})
	gtx.Constraints = origConstraints

	pos := image.Point{}
	if int(xL) > gtx.Constraints.Max.X-int(xR) {
		pos.X = max(int(xL)-hoverInfoDims.Size.X, 0)
	} else {
		pos.X = min(int(xR), gtx.Constraints.Max.X-hoverInfoDims.Size.X)
	}
	pos.Y = max(min(int(p.pos.Y), gtx.Constraints.Max.Y-hoverInfoDims.Size.Y), 0)
	transform := op.Offset(pos).Push(gtx.Ops)
	hoverInfoCall.Add(gtx.Ops)
	transform.Pop()
}
