package renderer

import "github.com/ByLCY/chordify/layout"

// Renderer 将和弦图的绘制计划输出为最终文件，例如 PDF、SVG 或 PNG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(plan *layout.Plan) ([]byte, error)
}
