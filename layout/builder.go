package layout

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
)

const (
	defaultFont = "Arial"
	// maxDotRows 是窗口内可绘制圆点的最大相对品位。
	maxDotRows = 5
)

// openD 是启发式横按判断中被排除的开放 D 和弦（xx0232）。
var openD = []int{Muted, Muted, 0, 2, 3, 2}

// Dimensions 是由 FretModel 与缩放预设推导出的像素几何。
type Dimensions struct {
	ScalePreset
	Scale      int     `json:"scale"`
	Font       string  `json:"font"`
	CellHeight float64 `json:"cellHeight"`
	DotWidth   float64 `json:"dotWidth"`
	BoxWidth   float64 `json:"boxWidth"`
	BoxHeight  float64 `json:"boxHeight"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	BoxStartX  float64 `json:"boxStartX"`
	BoxStartY  float64 `json:"boxStartY"`
}

// CalculateDimensions 计算指板、画布与边距的几何尺寸。
func CalculateDimensions(m FretModel, scale int) (Dimensions, error) {
	preset, err := Scale(scale)
	if err != nil {
		return Dimensions{}, err
	}
	d := Dimensions{ScalePreset: preset, Scale: scale, Font: defaultFont}
	d.CellHeight = d.CellWidth
	d.DotWidth = 2 * d.DotRadius
	d.BoxWidth = float64(m.StringCount-1) * d.CellWidth
	d.BoxHeight = float64(m.FretCount) * d.CellHeight
	// 左右各留出两格，用于空弦/闷音标记与起始品位数字。
	d.Width = d.BoxWidth + 4*d.CellWidth
	d.Height = d.NameFontSize + d.NameFontPaddingBottom + d.DotWidth + d.NutSize + d.BoxHeight + d.FingerFontSize + 4
	d.BoxStartX = roundHalfUp((d.Width - d.BoxWidth) / 2)
	d.BoxStartY = roundHalfUp(d.NameFontSize + d.NameFontPaddingBottom + d.NutSize + d.DotWidth)
	return d, nil
}

// Build 生成和弦图的绘制计划。缩放级别越界时返回 ErrScaleOutOfRange。
func Build(m FretModel, name string, scale int) (*Plan, error) {
	rec := &recorder{}
	d, err := draw(rec, m, name, scale)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Name:     name,
		Scale:    scale,
		Width:    d.Width,
		Height:   d.Height,
		Model:    m,
		Commands: rec.commands,
	}, nil
}

// Draw 直接在 s 上绘制和弦图，顺序与 Build 记录的一致。
func Draw(s Surface, m FretModel, name string, scale int) error {
	if s == nil {
		return fmt.Errorf("layout: surface 不能为空")
	}
	_, err := draw(s, m, name, scale)
	return err
}

func draw(s Surface, m FretModel, name string, scale int) (Dimensions, error) {
	d, err := CalculateDimensions(m, scale)
	if err != nil {
		return Dimensions{}, err
	}
	e := &engine{s: s, m: m, d: d}
	s.Init(Canvas{Width: d.Width, Height: d.Height, LineWidth: d.LineWidth})
	e.drawFretGrid()
	e.drawNut()
	e.drawName(name)
	e.drawMutedAndOpenStrings()
	e.drawPositions()
	e.drawFingerings()
	// 横按线最后绘制，覆盖其跨越的圆点。
	e.drawBars()
	return d, nil
}

type engine struct {
	s Surface
	m FretModel
	d Dimensions
}

func (e *engine) stringX(i int) float64 {
	return e.d.BoxStartX + float64(i)*e.d.CellWidth
}

// fretY 返回相对品位 rel（从 1 开始）所在格子的垂直中心。
func (e *engine) fretY(rel int) float64 {
	return e.d.BoxStartY + float64(rel)*e.d.CellHeight - e.d.CellHeight/2
}

func (e *engine) drawFretGrid() {
	d := e.d
	bottom := d.BoxStartY + float64(e.m.FretCount)*d.CellHeight
	for i := 0; i < e.m.StringCount; i++ {
		x := e.stringX(i)
		e.s.Line(Line{X1: x, Y1: d.BoxStartY, X2: x, Y2: bottom, Width: d.LineWidth, Cap: CapSquare})
	}
	for i := 0; i <= e.m.FretCount; i++ {
		y := d.BoxStartY + float64(i)*d.CellHeight
		e.s.Line(Line{X1: d.BoxStartX, Y1: y, X2: d.BoxStartX + d.BoxWidth, Y2: y, Width: d.LineWidth, Cap: CapSquare})
	}
}

func (e *engine) drawNut() {
	d := e.d
	if e.m.StartFret == 1 {
		e.s.Rect(Rect{X: d.BoxStartX, Y: d.BoxStartY - d.NutSize, Width: d.BoxWidth, Height: d.NutSize, LineWidth: d.LineWidth})
		return
	}
	e.s.Text(Text{
		X:        d.BoxStartX - d.DotRadius,
		Y:        d.BoxStartY + d.CellHeight/2,
		Content:  strconv.Itoa(e.m.StartFret),
		Font:     d.Font,
		Size:     d.FretFontSize,
		Baseline: BaselineMiddle,
		Align:    AlignRight,
	})
}

func (e *engine) drawName(name string) {
	d := e.d
	e.s.Text(Text{
		X:        d.Width / 2,
		Y:        d.NameFontSize + d.LineWidth*3,
		Content:  name,
		Font:     d.Font,
		Size:     d.NameFontSize,
		Baseline: BaselineBottom,
		Align:    AlignCenter,
	})
}

func (e *engine) drawMutedAndOpenStrings() {
	d := e.d
	y := d.NameFontSize + d.NameFontPaddingBottom + d.DotRadius - 2
	if e.m.StartFret > 1 {
		y += d.NutSize
	}
	for i, pos := range e.m.Positions {
		x := e.stringX(i)
		switch {
		case pos == Muted:
			e.drawCross(x, y, d.MuteStringRadius, d.MuteStringLineWidth)
		case pos == 0:
			e.s.Circle(Circle{CX: x, CY: y, R: d.OpenStringRadius, Filled: false, LineWidth: d.OpenStringLineWidth})
		}
	}
}

// drawCross 以 45° 与 135° 两条圆头线段画出 X。
func (e *engine) drawCross(x, y, radius, lineWidth float64) {
	angle := math.Pi / 4
	for i := 0; i < 2; i++ {
		start := angle + float64(i)*math.Pi/2
		end := start + math.Pi
		e.s.Line(Line{
			X1:    x + radius*math.Cos(start),
			Y1:    y + radius*math.Sin(start),
			X2:    x + radius*math.Cos(end),
			Y2:    y + radius*math.Sin(end),
			Width: lineWidth,
			Cap:   CapRound,
		})
	}
}

func (e *engine) drawPositions() {
	for i, pos := range e.m.Positions {
		if pos <= 0 {
			continue
		}
		rel := pos - e.m.StartFret + 1
		if rel > maxDotRows {
			logger().Debug("layout: fret outside window", "string", i, "fret", pos, "startFret", e.m.StartFret)
			continue
		}
		e.s.Circle(Circle{CX: e.stringX(i), CY: e.fretY(rel), R: e.d.DotRadius, Filled: true})
	}
}

func (e *engine) drawFingerings() {
	d := e.d
	y := d.BoxStartY + d.BoxHeight + d.FingerFontSize + d.LineWidth + 1
	for i, finger := range e.m.Fingerings {
		if finger == "" {
			continue
		}
		e.s.Text(Text{
			X:        e.stringX(i),
			Y:        y,
			Content:  finger,
			Font:     d.Font,
			Size:     d.FingerFontSize,
			Baseline: BaselineBottom,
			Align:    AlignCenter,
		})
	}
}

type bar struct {
	finger string
	index  int
	length int
}

func (e *engine) drawBars() {
	if len(e.m.Fingerings) > 0 {
		e.drawExplicitBars()
		return
	}
	e.drawGuessedBar()
}

// drawExplicitBars 将同一品位、同一手指的弦合并为一条横按线。
func (e *engine) drawExplicitBars() {
	bars := map[int]*bar{}
	for i, fret := range e.m.Positions {
		if fret <= 0 {
			continue
		}
		finger := e.m.FingerAt(i)
		if b, ok := bars[fret]; ok && b.finger == finger {
			b.length = i - b.index
		} else {
			bars[fret] = &bar{finger: finger, index: i}
		}
	}

	frets := make([]int, 0, len(bars))
	for fret := range bars {
		frets = append(frets, fret)
	}
	sort.Ints(frets)
	for _, fret := range frets {
		b := bars[fret]
		if b.length <= 0 {
			continue
		}
		xStart := e.stringX(b.index)
		xEnd := xStart + float64(b.length)*e.d.CellWidth
		y := e.fretY(fret - e.m.StartFret + 1)
		e.s.Line(Line{X1: xStart, Y1: y, X2: xEnd, Y2: y, Width: e.d.BarWidth, Cap: CapSquare})
	}
}

// drawGuessedBar 在没有手指信息时，以最低音弦的品位推测横按。
func (e *engine) drawGuessedBar() {
	n := len(e.m.Positions)
	if n == 0 {
		return
	}
	barFret := e.m.Positions[n-1]
	if barFret <= 0 {
		return
	}
	if slices.Equal(e.m.Positions, openD) {
		return
	}

	start := -1
	for i := 0; i < n-2; i++ {
		fret := e.m.Positions[i]
		switch {
		case fret > 0 && fret < barFret:
			return
		case fret == barFret && start == -1:
			start = i
		case start != -1 && fret < barFret:
			return
		}
	}
	if start < 0 {
		return
	}
	y := e.fretY(barFret - e.m.StartFret + 1)
	e.s.Line(Line{
		X1:    e.stringX(start),
		Y1:    y,
		X2:    e.d.BoxStartX + e.d.BoxWidth,
		Y2:    y,
		Width: e.d.DotRadius,
		Cap:   CapSquare,
	})
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
