package canvasrenderer

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/ByLCY/chordify/layout"
)

func mustPlan(t *testing.T, frets, fingers, name string) *layout.Plan {
	t.Helper()
	plan, err := layout.Build(layout.ParseFrets(frets, fingers), name, layout.DefaultScale)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	return plan
}

func mustRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := NewRenderer(opts)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderPDF(t *testing.T) {
	r := mustRenderer(t, Options{})
	if r.Format() != FormatPDF {
		t.Fatalf("expected default format pdf, got %s", r.Format())
	}
	data, err := r.Render(mustPlan(t, "133211", "134211", "F"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", data[:min(len(data), 8)])
	}
}

func TestRenderSVG(t *testing.T) {
	r := mustRenderer(t, Options{Format: "SVG"})
	data, err := r.Render(mustPlan(t, "x-10-12-12-11-10", "", "C/G"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Fatalf("expected svg document")
	}
}

func TestRenderPNG(t *testing.T) {
	r := mustRenderer(t, Options{Format: FormatPNG, DPMM: 4})
	data, err := r.Render(mustPlan(t, "x32010", "", "C"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("expected PNG signature")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() <= b.Dx() {
		t.Fatalf("unexpected png bounds %v", b)
	}
}

func TestRenderRejectsEmptyPlans(t *testing.T) {
	r := mustRenderer(t, Options{})
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil plan")
	}
	if _, err := r.Render(&layout.Plan{Name: "empty"}); err == nil {
		t.Fatalf("expected error for plan without commands")
	}
}

func TestNewRendererUnknownFormat(t *testing.T) {
	if _, err := NewRenderer(Options{Format: "gif"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatPDF, "pdf": FormatPDF, " Png ": FormatPNG, "svg": FormatSVG}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if FormatSVG.Ext() != ".svg" {
		t.Fatalf("unexpected ext %q", FormatSVG.Ext())
	}
}

func TestFontFamiliesAreCached(t *testing.T) {
	r := mustRenderer(t, Options{})
	plan := mustPlan(t, "133211", "134211", "F")
	for i := 0; i < 2; i++ {
		if _, err := r.Render(plan); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
	}
	// 布局使用的 "Arial" 映射到内置字体，且只加载一次。
	if len(r.fontFamilies) != 1 {
		t.Fatalf("expected one cached family, got %d", len(r.fontFamilies))
	}
}

func TestRenderInvalidInjectedFont(t *testing.T) {
	r := mustRenderer(t, Options{FontBytes: []byte("not a font")})
	if _, err := r.Render(mustPlan(t, "x32010", "", "C")); err == nil {
		t.Fatalf("expected font loading error")
	}
}
