package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/chordify/fonts"
	"github.com/ByLCY/chordify/layout"
	"github.com/ByLCY/chordify/renderer"
)

// Format 输出格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// DefaultDPMM is the PNG resolution in dots per millimetre.
const DefaultDPMM = 8.0

// ParseFormat accepts a case-insensitive format name; empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatSVG, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q（可用：pdf, svg, png）", s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Options configures the canvas renderer.
type Options struct {
	Format Format
	// Font 覆盖绘制计划中的字体名，取值见 fonts.Load。
	Font string
	// FontBytes 直接注入字体数据，优先于 Font。
	FontBytes []byte
	// DPMM 仅用于 PNG。
	DPMM       float64
	Foreground color.Color
	Background color.Color
}

// Renderer draws chord diagram plans via github.com/tdewolff/canvas.
type Renderer struct {
	opts Options

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer validates opts and fills in defaults.
func NewRenderer(opts Options) (*Renderer, error) {
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = format
	if opts.DPMM <= 0 {
		opts.DPMM = DefaultDPMM
	}
	if opts.Foreground == nil {
		opts.Foreground = canvas.Black
	}
	if opts.Background == nil {
		opts.Background = canvas.White
	}
	return &Renderer{opts: opts, fontFamilies: map[string]*canvas.FontFamily{}}, nil
}

// Format returns the output format.
func (r *Renderer) Format() Format { return r.opts.Format }

// Render renders the plan into the configured format.
func (r *Renderer) Render(plan *layout.Plan) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("绘制计划为空")
	}
	if len(plan.Commands) == 0 {
		return nil, fmt.Errorf("绘制计划 %q 没有可渲染的指令", plan.Name)
	}

	width, height := layout.ToMM(plan.Width), layout.ToMM(plan.Height)
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	s := &surface{r: r, ctx: ctx}
	plan.Draw(s)
	if s.err != nil {
		return nil, s.err
	}
	return r.encode(c, width, height)
}

func (r *Renderer) encode(c *canvas.Canvas, width, height float64) ([]byte, error) {
	var buf bytes.Buffer
	switch r.opts.Format {
	case FormatSVG:
		writer := svg.New(&buf, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case FormatPNG:
		img := rasterizer.Draw(c, canvas.DPMM(r.opts.DPMM), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	default:
		writer := pdf.New(&buf, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) fontFace(name string, sizePx float64) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(name)
	if err != nil {
		return nil, err
	}
	return family.Face(layout.ToPT(sizePx), r.opts.Foreground, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	if r.opts.FontBytes != nil {
		name = "injected"
	} else if r.opts.Font != "" {
		name = r.opts.Font
	}

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}

	data := r.opts.FontBytes
	if data == nil {
		var err error
		if data, err = fonts.Load(name); err != nil {
			// 计划中的字体名只是提示，找不到时退回默认字体。
			if data, err = fonts.Load(fonts.Default); err != nil {
				return nil, err
			}
		}
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.fontFamilies[name] = family
	return family, nil
}

// surface 将 layout.Surface 的像素坐标映射到 canvas 的毫米坐标。
type surface struct {
	r   *Renderer
	ctx *canvas.Context
	err error
}

func (s *surface) Init(c layout.Canvas) {
	s.ctx.SetFillColor(s.r.opts.Background)
	s.ctx.SetStrokeColor(canvas.Transparent)
	s.ctx.DrawPath(0, 0, canvas.Rectangle(layout.ToMM(c.Width), layout.ToMM(c.Height)))
}

func (s *surface) Line(l layout.Line) {
	s.ctx.SetFillColor(canvas.Transparent)
	s.ctx.SetStrokeColor(s.r.opts.Foreground)
	s.ctx.SetStrokeWidth(layout.ToMM(l.Width))
	s.ctx.SetStrokeCapper(capper(l.Cap))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(layout.ToMM(l.X2-l.X1), layout.ToMM(l.Y2-l.Y1))
	s.ctx.DrawPath(layout.ToMM(l.X1), layout.ToMM(l.Y1), p)
}

func (s *surface) Text(t layout.Text) {
	if s.err != nil || t.Content == "" {
		return
	}
	face, err := s.r.fontFace(t.Font, t.Size)
	if err != nil {
		s.err = err
		return
	}
	align := canvas.Left
	switch t.Align {
	case layout.AlignCenter:
		align = canvas.Center
	case layout.AlignRight:
		align = canvas.Right
	}

	// 基线位置由锚点推算：bottom 对齐字体下沿，middle 对齐上升部与下降部的中点。
	metrics := face.Metrics()
	ascent, descent := math.Abs(metrics.Ascent), math.Abs(metrics.Descent)
	baseline := layout.ToMM(t.Y)
	switch t.Baseline {
	case layout.BaselineBottom:
		baseline -= descent
	case layout.BaselineMiddle:
		baseline += (ascent - descent) / 2
	}
	s.ctx.DrawText(layout.ToMM(t.X), baseline, canvas.NewTextLine(face, t.Content, align))
}

func (s *surface) Rect(rc layout.Rect) {
	inset := rc.LineWidth / 2
	s.ctx.SetFillColor(s.r.opts.Foreground)
	s.ctx.SetStrokeColor(canvas.Transparent)
	s.ctx.DrawPath(
		layout.ToMM(rc.X-inset), layout.ToMM(rc.Y-inset),
		canvas.Rectangle(layout.ToMM(rc.Width+rc.LineWidth), layout.ToMM(rc.Height+rc.LineWidth)),
	)
}

func (s *surface) Circle(c layout.Circle) {
	r := layout.ToMM(c.R)
	if c.Filled {
		s.ctx.SetFillColor(s.r.opts.Foreground)
		s.ctx.SetStrokeColor(canvas.Transparent)
	} else {
		s.ctx.SetFillColor(canvas.Transparent)
		s.ctx.SetStrokeColor(s.r.opts.Foreground)
		s.ctx.SetStrokeWidth(layout.ToMM(c.LineWidth))
	}
	// canvas.Circle 以原点为圆心。
	s.ctx.DrawPath(layout.ToMM(c.CX), layout.ToMM(c.CY), canvas.Circle(r))
}

func capper(c layout.LineCap) canvas.Capper {
	if c == layout.CapRound {
		return canvas.RoundCap
	}
	return canvas.SquareCap
}
