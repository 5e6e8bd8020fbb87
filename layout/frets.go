package layout

import (
	"regexp"
	"strconv"
	"strings"
)

// Muted 标记不弹奏的弦。
const Muted = -1

const noFret = 1000

var compactFrets = regexp.MustCompile(`^[0-9xX]{1,6}$`)

// FretModel 是解析后的指法模型，构建后不再修改。
type FretModel struct {
	// Positions 每根弦一个值：Muted、0（空弦）或品位。
	Positions   []int `json:"positions"`
	StringCount int   `json:"stringCount"`
	FretCount   int   `json:"fretCount"`
	StartFret   int   `json:"startFret"`
	// Fingerings 按弦下标对齐；空弦/闷音以及未标注的弦为 ""。
	// 手指字符耗尽时停止，因此可能短于 Positions。
	Fingerings []string `json:"fingerings"`
}

// FingerAt returns the finger label for string i, or "" when unlabeled.
func (m FretModel) FingerAt(i int) string {
	if i < 0 || i >= len(m.Fingerings) {
		return ""
	}
	return m.Fingerings[i]
}

// Fretted reports whether string i is pressed at a positive fret.
func (m FretModel) Fretted(i int) bool {
	return i >= 0 && i < len(m.Positions) && m.Positions[i] > 0
}

// ParseFrets 将指法字符串（如 "x32010" 或 "10-12-12-11-10-10"）与可选的手指字符串解析为 FretModel。
// 不合法的输入不会报错，而是退化为尽力而为的模型。
func ParseFrets(frets, fingers string) FretModel {
	var raw []string
	if compactFrets.MatchString(frets) {
		raw = strings.Split(frets, "")
	} else {
		raw = strings.FieldsFunc(frets, func(r rune) bool { return !isFretRune(r) })
	}

	m := FretModel{
		Positions:   make([]int, 0, len(raw)),
		StringCount: len(raw),
		FretCount:   5,
		Fingerings:  []string{},
	}
	if m.StringCount == 4 {
		m.FretCount = 4
	}

	maxFret, minFret := 0, noFret
	for _, tok := range raw {
		fret := parseFret(tok)
		if fret > 0 && fret < minFret {
			minFret = fret
		}
		if fret > maxFret {
			maxFret = fret
		}
		m.Positions = append(m.Positions, fret)
	}
	if maxFret <= m.FretCount {
		m.StartFret = 1
	} else {
		m.StartFret = minFret
	}

	// 每个手指字符消耗下一根按品的弦，途经的空弦/闷音弦填 ""。
	j := 0
	for _, f := range fingers {
		for ; j < len(m.Positions); j++ {
			if m.Positions[j] <= 0 {
				m.Fingerings = append(m.Fingerings, "")
				continue
			}
			m.Fingerings = append(m.Fingerings, string(f))
			j++
			break
		}
	}
	if len(fingers) > 0 {
		logger().Debug("layout: fingers parsed",
			"frets", frets,
			"fingers", fingers,
			"labelled", len(m.Fingerings),
		)
	}
	return m
}

func isFretRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == 'x' || r == 'X'
}

// parseFret 取前导数字作为品位；以 x 开头或无数字的记为 Muted。
func parseFret(tok string) int {
	if strings.EqualFold(tok, "x") {
		return Muted
	}
	end := 0
	for end < len(tok) && tok[end] >= '0' && tok[end] <= '9' {
		end++
	}
	if end == 0 {
		return Muted
	}
	n, err := strconv.Atoi(tok[:end])
	if err != nil {
		return Muted
	}
	return n
}
