// Package fonts 提供渲染器使用的内置字体（Go 字体家族）。
package fonts

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default is the font used when a plan names a family that is not built in.
const Default = "regular"

var builtin = map[string][]byte{
	"regular": goregular.TTF,
	"bold":    gobold.TTF,
	"mono":    gomono.TTF,
}

// aliases 将布局中常见的字体名映射到内置字体。
var aliases = map[string]string{
	"arial":     "regular",
	"helvetica": "regular",
	"sans":      "regular",
	"go":        "regular",
	"courier":   "mono",
}

// Load 返回字体的字节数据。name 可以是内置名称（regular/bold/mono）、
// 常见别名（如 Arial）或 "file:" 开头的路径；空名称返回 Default。
func Load(name string) ([]byte, error) {
	if path, ok := strings.CutPrefix(name, "file:"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取字体文件 %s 失败: %w", path, err)
		}
		return data, nil
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = Default
	}
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("未知的内置字体 %q（可用：%s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names lists the built-in font names.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
