package layout

import (
	"errors"
	"fmt"
)

// ScaleCount 是可用缩放级别的数量（1..ScaleCount）。
const ScaleCount = 10

// DefaultScale 是未指定时使用的缩放级别。
const DefaultScale = 4

// ErrScaleOutOfRange 表示缩放级别不在 1..10 之内。
var ErrScaleOutOfRange = errors.New("layout: scale out of range")

// ScalePreset 是一个缩放级别下的全部几何与字号常量（px）。
type ScalePreset struct {
	CellWidth             float64 `json:"cellWidth"`
	NutSize               float64 `json:"nutSize"`
	LineWidth             float64 `json:"lineWidth"`
	BarWidth              float64 `json:"barWidth"`
	DotRadius             float64 `json:"dotRadius"`
	OpenStringRadius      float64 `json:"openStringRadius"`
	OpenStringLineWidth   float64 `json:"openStringLineWidth"`
	MuteStringRadius      float64 `json:"muteStringRadius"`
	MuteStringLineWidth   float64 `json:"muteStringLineWidth"`
	NameFontSize          float64 `json:"nameFontSize"`
	NameFontPaddingBottom float64 `json:"nameFontPaddingBottom"`
	FingerFontSize        float64 `json:"fingerFontSize"`
	FretFontSize          float64 `json:"fretFontSize"`
}

var scaleTable = [ScaleCount]ScalePreset{
	{CellWidth: 4, NutSize: 2, LineWidth: 1, BarWidth: 2.5, DotRadius: 2, OpenStringRadius: 1.5, OpenStringLineWidth: 1, MuteStringRadius: 2, MuteStringLineWidth: 1.05, NameFontSize: 10, NameFontPaddingBottom: 4, FingerFontSize: 7, FretFontSize: 6},
	{CellWidth: 6, NutSize: 3, LineWidth: 1, BarWidth: 3, DotRadius: 2.8, OpenStringRadius: 2, OpenStringLineWidth: 1.2, MuteStringRadius: 2.5, MuteStringLineWidth: 1.1, NameFontSize: 14, NameFontPaddingBottom: 4, FingerFontSize: 8, FretFontSize: 8},
	{CellWidth: 8, NutSize: 4, LineWidth: 1, BarWidth: 5, DotRadius: 3.7, OpenStringRadius: 2.5, OpenStringLineWidth: 1.2, MuteStringRadius: 3, MuteStringLineWidth: 1.1, NameFontSize: 18, NameFontPaddingBottom: 5, FingerFontSize: 9, FretFontSize: 10},
	{CellWidth: 10, NutSize: 5, LineWidth: 1, BarWidth: 7, DotRadius: 4.5, OpenStringRadius: 3, OpenStringLineWidth: 1.4, MuteStringRadius: 3.5, MuteStringLineWidth: 1.2, NameFontSize: 22, NameFontPaddingBottom: 4, FingerFontSize: 11, FretFontSize: 12},
	{CellWidth: 12, NutSize: 6, LineWidth: 1, BarWidth: 7, DotRadius: 5.3, OpenStringRadius: 3.5, OpenStringLineWidth: 1.4, MuteStringRadius: 4, MuteStringLineWidth: 1.5, NameFontSize: 26, NameFontPaddingBottom: 4, FingerFontSize: 13, FretFontSize: 14},
	{CellWidth: 14, NutSize: 7, LineWidth: 1, BarWidth: 9, DotRadius: 6.5, OpenStringRadius: 4, OpenStringLineWidth: 1.4, MuteStringRadius: 4.5, MuteStringLineWidth: 1.5, NameFontSize: 32, NameFontPaddingBottom: 4, FingerFontSize: 14, FretFontSize: 14},
	{CellWidth: 16, NutSize: 8, LineWidth: 2, BarWidth: 10, DotRadius: 7, OpenStringRadius: 4.5, OpenStringLineWidth: 1.6, MuteStringRadius: 5, MuteStringLineWidth: 1.5, NameFontSize: 36, NameFontPaddingBottom: 5, FingerFontSize: 15, FretFontSize: 16},
	{CellWidth: 18, NutSize: 9, LineWidth: 2, BarWidth: 10, DotRadius: 8, OpenStringRadius: 5, OpenStringLineWidth: 2, MuteStringRadius: 5.5, MuteStringLineWidth: 2, NameFontSize: 40, NameFontPaddingBottom: 5, FingerFontSize: 18, FretFontSize: 17},
	{CellWidth: 20, NutSize: 10, LineWidth: 2, BarWidth: 12, DotRadius: 9, OpenStringRadius: 5.5, OpenStringLineWidth: 2, MuteStringRadius: 6, MuteStringLineWidth: 2.4, NameFontSize: 44, NameFontPaddingBottom: 5, FingerFontSize: 20, FretFontSize: 18},
	{CellWidth: 22, NutSize: 11, LineWidth: 2, BarWidth: 12, DotRadius: 10, OpenStringRadius: 6.5, OpenStringLineWidth: 2, MuteStringRadius: 6.5, MuteStringLineWidth: 2.5, NameFontSize: 48, NameFontPaddingBottom: 5, FingerFontSize: 22, FretFontSize: 19},
}

// Scale 返回缩放级别 level（1..10）对应的预设。
func Scale(level int) (ScalePreset, error) {
	if level < 1 || level > ScaleCount {
		return ScalePreset{}, fmt.Errorf("%w: %d (want 1..%d)", ErrScaleOutOfRange, level, ScaleCount)
	}
	return scaleTable[level-1], nil
}

// MustScale is like Scale but panics on an invalid level.
func MustScale(level int) ScalePreset {
	p, err := Scale(level)
	if err != nil {
		panic(err)
	}
	return p
}
