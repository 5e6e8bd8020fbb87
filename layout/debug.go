package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// debugDump 在计划之外附带几何尺寸与各类指令的数量，便于对照排查。
type debugDump struct {
	*Plan
	Dimensions Dimensions          `json:"dimensions"`
	Counts     map[CommandKind]int `json:"counts"`
}

// WriteDebugJSON 将绘制计划输出为 JSON，便于调试或可视化。
func WriteDebugJSON(plan *Plan, path string) error {
	if plan == nil {
		return nil
	}
	d, err := CalculateDimensions(plan.Model, plan.Scale)
	if err != nil {
		return fmt.Errorf("debug json: %w", err)
	}
	dump := debugDump{Plan: plan, Dimensions: d, Counts: map[CommandKind]int{}}
	for _, cmd := range plan.Commands {
		dump.Counts[cmd.Kind]++
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
