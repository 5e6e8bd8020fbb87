package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ByLCY/chordify/binding"
	"github.com/ByLCY/chordify/chord"
	"github.com/ByLCY/chordify/dsl"
	"github.com/ByLCY/chordify/internal/config"
	"github.com/ByLCY/chordify/layout"
	"github.com/ByLCY/chordify/renderer"
	canvasrenderer "github.com/ByLCY/chordify/renderer/canvas"
	"github.com/ByLCY/chordify/sheet"
)

// options 汇总命令行参数。
type options struct {
	name, frets, fingers string
	sheetPath            string
	textPath             string
	unique               bool
	wrap                 string
	scale                int
	outDir               string
	debugDir             string
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	var opts options
	flag.StringVar(&opts.name, "name", "", "和弦名，例如 Am")
	flag.StringVar(&opts.frets, "frets", "", "品位，例如 x32010 或 x-10-12-12-11-10")
	flag.StringVar(&opts.fingers, "fingers", "", "指法，例如 134211")
	flag.StringVar(&opts.sheetPath, "in", "", "和弦谱 DSL 文件路径")
	flag.StringVar(&opts.textPath, "text", "", "从文本文件中提取和弦（- 表示标准输入）")
	flag.BoolVar(&opts.unique, "unique", false, "提取和弦时去重")
	flag.StringVar(&opts.wrap, "wrap", "", "用模板替换文本中的和弦，例如 '<b>${chord}</b>'")
	flag.IntVar(&opts.scale, "scale", cfg.Scale, "缩放级别 1..10")
	flag.StringVar(&opts.outDir, "out", cfg.OutDir, "输出目录")
	flag.StringVar(&opts.debugDir, "debug", cfg.DebugDir, "绘制计划 JSON 输出目录")
	format := flag.String("format", cfg.Format, "输出格式 pdf|svg|png")
	font := flag.String("font", cfg.Font, "字体：regular|bold|mono 或 file:<path>")
	logLevel := flag.String("log-level", cfg.LogLevel, "日志级别 debug|info|warn|error")
	flag.Parse()

	cfg.LogLevel = *logLevel
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	layout.SetLogger(logger)

	r, err := canvasrenderer.NewRenderer(canvasrenderer.Options{Format: canvasrenderer.Format(*format), Font: *font})
	if err != nil {
		slog.Error("创建渲染器失败", "error", err)
		os.Exit(1)
	}
	if err := run(opts, r, os.Stdin, os.Stdout); err != nil {
		slog.Error("执行失败", "error", err)
		os.Exit(1)
	}
}

// run 按参数选择模式：文本提取、和弦谱渲染或单个和弦图渲染。
func run(opts options, r *canvasrenderer.Renderer, stdin io.Reader, stdout io.Writer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	switch {
	case opts.textPath != "":
		text, err := readInput(opts.textPath, stdin)
		if err != nil {
			return err
		}
		return extract(text, opts, stdout)
	case opts.sheetPath != "":
		return renderSheet(opts, r, stdout)
	case opts.frets != "":
		c := layout.Chord{Name: opts.name, Frets: opts.frets, Fingers: opts.fingers, Scale: opts.scale}
		plan, err := c.Plan()
		if err != nil {
			return fmt.Errorf("布局计算失败: %w", err)
		}
		path, err := writePlan(plan, r, r.Format().Ext(), opts.outDir, opts.debugDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "已生成：%s\n", path)
		return nil
	default:
		return errors.New("需要指定 -frets、-in 或 -text 之一")
	}
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("读取文本 %s 失败: %w", path, err)
	}
	return string(data), nil
}

// extract 输出文本中的和弦；指定 wrap 模板时输出替换后的全文。
func extract(text string, opts options, stdout io.Writer) error {
	if opts.wrap != "" {
		_, err := io.WriteString(stdout, chord.Wrap(text, wrapTransform(opts.wrap)))
		return err
	}
	tokens := chord.All(text)
	if opts.unique {
		tokens = chord.Unique(text)
	}
	for _, tok := range tokens {
		if _, err := fmt.Fprintln(stdout, tok); err != nil {
			return err
		}
	}
	return nil
}

func wrapTransform(template string) func(string) string {
	return binding.Transform(template, func(tok string) map[string]any {
		return chord.Describe(tok).Fields()
	})
}

func renderSheet(opts options, r *canvasrenderer.Renderer, stdout io.Writer) error {
	file, err := os.Open(opts.sheetPath)
	if err != nil {
		return fmt.Errorf("无法打开和弦谱 %s: %w", opts.sheetPath, err)
	}
	defer file.Close()

	doc, err := dsl.ParseFile(opts.sheetPath, file)
	if err != nil {
		return fmt.Errorf("解析和弦谱失败: %w", err)
	}
	s, err := sheet.Build(doc)
	if err != nil {
		return fmt.Errorf("编译和弦谱失败: %w", err)
	}
	slog.Info("和弦谱", "title", s.Title, "scale", s.Scale, "diagrams", len(s.Diagrams), "lyrics", len(s.Lyrics))

	for _, d := range s.Diagrams {
		path, err := writePlan(d.Plan, r, r.Format().Ext(), opts.outDir, opts.debugDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "已生成：%s\n", path)
	}
	for _, l := range s.Lyrics {
		line := l.Text
		if opts.wrap != "" {
			line = l.Wrap(wrapTransform(opts.wrap))
		}
		fmt.Fprintf(stdout, "%s\t[%s]\n", line, strings.Join(l.Chords, " "))
	}
	if len(s.Missing) > 0 {
		slog.Warn("歌词中的和弦缺少指法图", "chords", s.Missing)
		fmt.Fprintf(stdout, "缺少指法图：%s\n", strings.Join(s.Missing, " "))
	}
	return nil
}

// writePlan 渲染计划并写入 outDir，返回输出路径。
func writePlan(plan *layout.Plan, r renderer.Renderer, ext, outDir, debugDir string) (string, error) {
	base := fileName(plan.Name)
	if debugDir != "" {
		if err := os.MkdirAll(debugDir, 0o755); err != nil {
			return "", fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(plan, filepath.Join(debugDir, base+".json")); err != nil {
			return "", fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	data, err := r.Render(plan)
	if err != nil {
		return "", fmt.Errorf("渲染 %q 失败: %w", plan.Name, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(outDir, base+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	slog.Debug("已渲染和弦图", "name", plan.Name, "path", path, "bytes", len(data))
	return path, nil
}

// fileName 把和弦名转换为安全的文件名，例如 G/B → G_B，C# → Csharp。
func fileName(name string) string {
	if name == "" {
		return "chord"
	}
	return strings.NewReplacer("/", "_", "\\", "_", "#", "sharp", " ", "_", ":", "_").Replace(name)
}
