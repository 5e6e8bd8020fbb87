package layout

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

const eps = 1e-9

func mustBuild(t *testing.T, frets, fingers, name string, scale int) *Plan {
	t.Helper()
	plan, err := Build(ParseFrets(frets, fingers), name, scale)
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	return plan
}

func kinds(p *Plan) []CommandKind {
	out := make([]CommandKind, 0, len(p.Commands))
	for _, c := range p.Commands {
		out = append(out, c.Kind)
	}
	return out
}

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestCalculateDimensions(t *testing.T) {
	d, err := CalculateDimensions(ParseFrets("x32010", ""), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"cellHeight", d.CellHeight, 10},
		{"dotWidth", d.DotWidth, 9},
		{"boxWidth", d.BoxWidth, 50},
		{"boxHeight", d.BoxHeight, 50},
		{"width", d.Width, 90},
		{"height", d.Height, 22 + 4 + 9 + 5 + 50 + 11 + 4},
		{"boxStartX", d.BoxStartX, 20},
		{"boxStartY", d.BoxStartY, 40},
	}
	for _, c := range checks {
		if !near(c.got, c.want) {
			t.Fatalf("%s: got %g want %g", c.name, c.got, c.want)
		}
	}
	if d.Font != "Arial" {
		t.Fatalf("font: got %q", d.Font)
	}
}

// TestCalculateDimensionsRounding 覆盖 boxStartY 的取整（scale 2：14+4+3+5.6=26.6）。
func TestCalculateDimensionsRounding(t *testing.T) {
	d, err := CalculateDimensions(ParseFrets("x32010", ""), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near(d.BoxStartY, 27) {
		t.Fatalf("boxStartY: got %g want 27", d.BoxStartY)
	}
	d, err = CalculateDimensions(ParseFrets("x32010", ""), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 10+4+2+4 = 20
	if !near(d.BoxStartY, 20) || !near(d.BoxStartX, 8) {
		t.Fatalf("scale 1 box start: got (%g,%g)", d.BoxStartX, d.BoxStartY)
	}
}

func TestBuildScaleOutOfRange(t *testing.T) {
	m := ParseFrets("x32010", "")
	for _, scale := range []int{-1, 0, 11} {
		if _, err := Build(m, "C", scale); !errors.Is(err, ErrScaleOutOfRange) {
			t.Fatalf("scale %d: expected ErrScaleOutOfRange, got %v", scale, err)
		}
	}
	for scale := 1; scale <= ScaleCount; scale++ {
		if _, err := Build(m, "C", scale); err != nil {
			t.Fatalf("scale %d: unexpected error %v", scale, err)
		}
	}
}

func TestMustScalePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for scale 11")
		}
	}()
	MustScale(11)
}

func TestBuildOpenCDrawOrder(t *testing.T) {
	plan := mustBuild(t, "x32010", "", "C", 4)

	want := []CommandKind{KindInit}
	for i := 0; i < 12; i++ {
		want = append(want, KindLine) // 6 根弦 + 6 条品丝
	}
	want = append(want,
		KindRect,               // nut
		KindText,               // name
		KindLine, KindLine,     // muted 6th string
		KindCircle, KindCircle, // open strings
		KindCircle, KindCircle, KindCircle,
	)
	if got := kinds(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("draw order mismatch:\n got %v\nwant %v", got, want)
	}

	init := plan.Commands[0].Canvas
	if !near(init.Width, 90) || !near(init.Height, 105) || !near(init.LineWidth, 1) {
		t.Fatalf("unexpected init %+v", *init)
	}
	if !near(plan.Width, 90) || !near(plan.Height, 105) {
		t.Fatalf("unexpected plan size %gx%g", plan.Width, plan.Height)
	}

	nut := plan.Filter(KindRect)[0].Rect
	if *nut != (Rect{X: 20, Y: 35, Width: 50, Height: 5, LineWidth: 1}) {
		t.Fatalf("unexpected nut %+v", *nut)
	}

	name := plan.Filter(KindText)[0].Text
	if name.Content != "C" || !near(name.X, 45) || !near(name.Y, 25) ||
		name.Baseline != BaselineBottom || name.Align != AlignCenter || !near(name.Size, 22) {
		t.Fatalf("unexpected name label %+v", *name)
	}

	circles := plan.Filter(KindCircle)
	for i, c := range circles[:2] {
		if c.Circle.Filled || !near(c.Circle.R, 3) || !near(c.Circle.LineWidth, 1.4) {
			t.Fatalf("open marker %d: unexpected %+v", i, *c.Circle)
		}
	}
	if !near(circles[0].Circle.CX, 50) || !near(circles[1].Circle.CX, 70) || !near(circles[0].Circle.CY, 28.5) {
		t.Fatalf("open markers misplaced: %+v %+v", *circles[0].Circle, *circles[1].Circle)
	}

	dots := circles[2:]
	wantDots := []Circle{
		{CX: 30, CY: 65, R: 4.5, Filled: true},
		{CX: 40, CY: 55, R: 4.5, Filled: true},
		{CX: 60, CY: 45, R: 4.5, Filled: true},
	}
	for i, c := range dots {
		if *c.Circle != wantDots[i] {
			t.Fatalf("dot %d: got %+v want %+v", i, *c.Circle, wantDots[i])
		}
	}
}

func TestBuildGrid(t *testing.T) {
	plan := mustBuild(t, "0003", "", "C", 4)
	lines := plan.Filter(KindLine)
	// 4 根弦 + 5 条品丝（四弦琴窗口为 4 品）。
	if len(lines) != 9 {
		t.Fatalf("expected 9 grid lines, got %d", len(lines))
	}
	first := lines[0].Line
	if !near(first.X1, first.X2) || !near(first.Y2-first.Y1, 40) || first.Cap != CapSquare {
		t.Fatalf("unexpected vertical line %+v", *first)
	}
	last := lines[8].Line
	if !near(last.Y1, last.Y2) || !near(last.X2-last.X1, 30) {
		t.Fatalf("unexpected horizontal line %+v", *last)
	}
}

func TestBuildMutedCross(t *testing.T) {
	plan := mustBuild(t, "x32010", "", "C", 4)
	lines := plan.Filter(KindLine)
	cross := lines[12:14]
	r := 3.5 * math.Sqrt2 / 2
	want := []Line{
		{X1: 20 + r, Y1: 28.5 + r, X2: 20 - r, Y2: 28.5 - r, Width: 1.2, Cap: CapRound},
		{X1: 20 - r, Y1: 28.5 + r, X2: 20 + r, Y2: 28.5 - r, Width: 1.2, Cap: CapRound},
	}
	for i, c := range cross {
		l := c.Line
		if !near(l.X1, want[i].X1) || !near(l.Y1, want[i].Y1) || !near(l.X2, want[i].X2) || !near(l.Y2, want[i].Y2) ||
			l.Cap != CapRound || !near(l.Width, want[i].Width) {
			t.Fatalf("cross stroke %d: got %+v want %+v", i, *l, want[i])
		}
	}
}

func TestBuildFloatingWindow(t *testing.T) {
	plan := mustBuild(t, "x-10-12-12-11-10", "", "Bb", 4)
	if len(plan.Filter(KindRect)) != 0 {
		t.Fatalf("floating window must not draw the nut")
	}
	texts := plan.Filter(KindText)
	fret := texts[0].Text
	if fret.Content != "10" || fret.Baseline != BaselineMiddle || fret.Align != AlignRight {
		t.Fatalf("unexpected fret label %+v", *fret)
	}
	if !near(fret.X, 20-4.5) || !near(fret.Y, 45) || !near(fret.Size, 12) {
		t.Fatalf("fret label misplaced %+v", *fret)
	}
	if texts[1].Text.Content != "Bb" {
		t.Fatalf("name should follow the fret label, got %+v", *texts[1].Text)
	}
	// 闷音标记整体下移 nutSize。
	cross := plan.Filter(KindLine)[12].Line
	if !near((cross.Y1+cross.Y2)/2, 28.5+5) {
		t.Fatalf("muted marker not shifted by nut size: %+v", *cross)
	}
}

// TestBuildDotsOutsideWindow 断言：相对品位超过 5 的弦不绘制圆点。
func TestBuildDotsOutsideWindow(t *testing.T) {
	plan := mustBuild(t, "3-3-3-3-3-8", "", "X", 4)
	dots := 0
	for _, c := range plan.Filter(KindCircle) {
		if c.Circle.Filled {
			dots++
			if c.Circle.CX >= 70 {
				t.Fatalf("dot drawn for string beyond the window: %+v", *c.Circle)
			}
		}
	}
	if dots != 5 {
		t.Fatalf("expected 5 dots, got %d", dots)
	}

	plan = mustBuild(t, "1-1-1-1-1-7", "", "X", 4)
	if n := len(plan.Filter(KindCircle)); n != 5 {
		t.Fatalf("expected fret 7 to be omitted, got %d circles", n)
	}
}

func TestBuildFingerLabels(t *testing.T) {
	plan := mustBuild(t, "x32010", "321", "C", 4)
	texts := plan.Filter(KindText)
	if len(texts) != 4 {
		t.Fatalf("expected name + 3 finger labels, got %d", len(texts))
	}
	want := []Text{
		{X: 30, Y: 103, Content: "3", Font: "Arial", Size: 11, Baseline: BaselineBottom, Align: AlignCenter},
		{X: 40, Y: 103, Content: "2", Font: "Arial", Size: 11, Baseline: BaselineBottom, Align: AlignCenter},
		{X: 60, Y: 103, Content: "1", Font: "Arial", Size: 11, Baseline: BaselineBottom, Align: AlignCenter},
	}
	for i, tx := range texts[1:] {
		if *tx.Text != want[i] {
			t.Fatalf("finger %d: got %+v want %+v", i, *tx.Text, want[i])
		}
	}
	// 三个不同品位，没有横按。
	if last := plan.Commands[len(plan.Commands)-1]; last.Kind != KindText {
		t.Fatalf("expected no bar, last command is %s", last.Kind)
	}
}

func TestBuildExplicitBar(t *testing.T) {
	plan := mustBuild(t, "133211", "134211", "F", 4)
	last := plan.Commands[len(plan.Commands)-1]
	if last.Kind != KindLine {
		t.Fatalf("bars must be drawn last, got %s", last.Kind)
	}
	want := Line{X1: 20, Y1: 45, X2: 70, Y2: 45, Width: 7, Cap: CapSquare}
	if *last.Line != want {
		t.Fatalf("bar: got %+v want %+v", *last.Line, want)
	}
	bars := 0
	for _, c := range plan.Filter(KindLine) {
		if near(c.Line.Width, 7) {
			bars++
		}
	}
	if bars != 1 {
		t.Fatalf("expected a single bar, got %d", bars)
	}
}

func TestBuildExplicitBarNeedsSameFinger(t *testing.T) {
	// 第 1、5、6 弦同在 1 品但手指不同：不合并。
	plan := mustBuild(t, "133211", "134223", "F", 4)
	for _, c := range plan.Filter(KindLine) {
		if near(c.Line.Width, 7) {
			t.Fatalf("unexpected bar %+v", *c.Line)
		}
	}

	// 两个品位各自横按，按品位升序绘制。
	plan = mustBuild(t, "x-3-5-5-5-3", "11111", "C", 4)
	var bars []Line
	for _, c := range plan.Filter(KindLine) {
		if near(c.Line.Width, 7) {
			bars = append(bars, *c.Line)
		}
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if !(bars[0].Y1 < bars[1].Y1) {
		t.Fatalf("bars not in ascending fret order: %+v", bars)
	}
}

func TestBuildGuessedBar(t *testing.T) {
	plan := mustBuild(t, "133211", "", "F", 4)
	last := plan.Commands[len(plan.Commands)-1]
	want := Line{X1: 20, Y1: 45, X2: 70, Y2: 45, Width: 4.5, Cap: CapSquare}
	if last.Kind != KindLine || *last.Line != want {
		t.Fatalf("guessed bar: got %+v want %+v", last, want)
	}

	// 较低品位出现在前面的弦上时放弃。
	plan = mustBuild(t, "x-1-2-2-2-2", "", "X", 4)
	if last := plan.Commands[len(plan.Commands)-1]; last.Kind == KindLine {
		t.Fatalf("unexpected guessed bar %+v", *last.Line)
	}
}

func TestBuildOpenDExclusion(t *testing.T) {
	countLines := func(frets string) int {
		return len(mustBuild(t, frets, "", "D", 4).Filter(KindLine))
	}
	// xx0232：12 条网格线 + 两个 X，共 16 条，不推测横按。
	if n := countLines("xx0232"); n != 16 {
		t.Fatalf("open D: expected 16 lines, got %d", n)
	}
	// 形状相同但不是开放 D 时仍会推测横按。
	if n := countLines("xx0242"); n != 17 {
		t.Fatalf("xx0242: expected 17 lines, got %d", n)
	}
	if n := countLines("x10232"); n != 14 {
		t.Fatalf("x10232: expected 14 lines, got %d", n)
	}
}

func TestBuildDegradesSilently(t *testing.T) {
	for _, in := range [][2]string{{"", ""}, {"---", "12"}, {"x", "1"}, {"99", "1234"}} {
		if _, err := Build(ParseFrets(in[0], in[1]), "?", DefaultScale); err != nil {
			t.Fatalf("%q/%q: unexpected error %v", in[0], in[1], err)
		}
	}
}

func TestPlanDrawReplays(t *testing.T) {
	plan := mustBuild(t, "133211", "134211", "F", 7)
	rec := &recorder{}
	plan.Draw(rec)
	if !reflect.DeepEqual(rec.commands, plan.Commands) {
		t.Fatalf("replayed commands differ from plan")
	}

	direct := &recorder{}
	if err := Draw(direct, plan.Model, "F", 7); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if !reflect.DeepEqual(direct.commands, plan.Commands) {
		t.Fatalf("Draw and Build disagree")
	}
	if err := Draw(nil, plan.Model, "F", 7); err == nil {
		t.Fatalf("expected error for nil surface")
	}
}
