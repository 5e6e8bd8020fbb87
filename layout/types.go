package layout

// 该文件定义绘制计划（Plan）与基本图形，供布局计算、渲染与调试 JSON 共用。
// 坐标单位均为像素（px），原点在左上角。

// LineCap 线端样式。
type LineCap string

const (
	CapSquare LineCap = "square"
	CapRound  LineCap = "round"
)

// Baseline 文本的垂直锚点。
type Baseline string

const (
	BaselineMiddle Baseline = "middle"
	BaselineBottom Baseline = "bottom"
)

// Align 文本的水平对齐方式。
type Align string

const (
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// Surface 是与后端无关的绘图面。Draw 会按固定顺序调用这些原语，
// 后绘制的元素覆盖先绘制的元素。
type Surface interface {
	Init(c Canvas)
	Line(l Line)
	Text(t Text)
	Rect(r Rect)
	Circle(c Circle)
}

// Canvas 描述画布尺寸与基础线宽。
type Canvas struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	LineWidth float64 `json:"lineWidth"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Width float64 `json:"width"`
	Cap   LineCap `json:"cap"`
}

// Text 表示一段锚定在 (X, Y) 的单行文本。
type Text struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Content  string   `json:"content"`
	Font     string   `json:"font"`
	Size     float64  `json:"size"`
	Baseline Baseline `json:"baseline"`
	Align    Align    `json:"align"`
}

// Rect 表示一个实心矩形，四周各外扩 LineWidth/2。
type Rect struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	LineWidth float64 `json:"lineWidth"`
}

// Circle 表示一个圆；Filled 为 false 时按 LineWidth 描边。
type Circle struct {
	CX        float64 `json:"cx"`
	CY        float64 `json:"cy"`
	R         float64 `json:"r"`
	Filled    bool    `json:"filled"`
	LineWidth float64 `json:"lineWidth,omitempty"`
}

// CommandKind 标识绘制指令的类型。
type CommandKind string

const (
	KindInit   CommandKind = "init"
	KindLine   CommandKind = "line"
	KindText   CommandKind = "text"
	KindRect   CommandKind = "rect"
	KindCircle CommandKind = "circle"
)

// Command 是一条绘制指令，按 Kind 只会设置其中一个字段。
type Command struct {
	Kind   CommandKind `json:"kind"`
	Canvas *Canvas     `json:"canvas,omitempty"`
	Line   *Line       `json:"line,omitempty"`
	Text   *Text       `json:"text,omitempty"`
	Rect   *Rect       `json:"rect,omitempty"`
	Circle *Circle     `json:"circle,omitempty"`
}

// Plan 保存一张和弦图的完整绘制计划。
type Plan struct {
	Name     string    `json:"name"`
	Scale    int       `json:"scale"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Model    FretModel `json:"model"`
	Commands []Command `json:"commands"`
}

// Draw 将计划中的指令按顺序回放到 s 上。
func (p *Plan) Draw(s Surface) {
	if p == nil || s == nil {
		return
	}
	for _, cmd := range p.Commands {
		switch cmd.Kind {
		case KindInit:
			s.Init(*cmd.Canvas)
		case KindLine:
			s.Line(*cmd.Line)
		case KindText:
			s.Text(*cmd.Text)
		case KindRect:
			s.Rect(*cmd.Rect)
		case KindCircle:
			s.Circle(*cmd.Circle)
		}
	}
}

// Filter returns the commands of the given kind, in draw order.
func (p *Plan) Filter(kind CommandKind) []Command {
	if p == nil {
		return nil
	}
	var out []Command
	for _, cmd := range p.Commands {
		if cmd.Kind == kind {
			out = append(out, cmd)
		}
	}
	return out
}

// recorder 是记录型 Surface，用于生成 Plan。
type recorder struct {
	commands []Command
}

func (r *recorder) Init(c Canvas)   { r.commands = append(r.commands, Command{Kind: KindInit, Canvas: &c}) }
func (r *recorder) Line(l Line)     { r.commands = append(r.commands, Command{Kind: KindLine, Line: &l}) }
func (r *recorder) Text(t Text)     { r.commands = append(r.commands, Command{Kind: KindText, Text: &t}) }
func (r *recorder) Rect(rc Rect)    { r.commands = append(r.commands, Command{Kind: KindRect, Rect: &rc}) }
func (r *recorder) Circle(c Circle) { r.commands = append(r.commands, Command{Kind: KindCircle, Circle: &c}) }
