package chord

import "strings"

// 和弦记号的文法（按字节匹配，单词字符为 ASCII [A-Za-z0-9_]）：
//
//	token      = [ "\" ] <单词边界> root { group } <后面不是 terminator> trailer
//	root       = "A".."G"
//	group      = [ quality ] [ "/" ( "A".."G" | digit ) ]   每次重复必须消耗字符
//	quality    = "add" | "dim" | "aug" | "maj" | "mM" | "mMaj" | "sus" | "m" | "b" | "#" | digit
//	terminator = "|" | "—" | "-" | "." | ":"
//	trailer    = ( <单词边界> | "#" ) { "#" }
//
// 各选项按上面的顺序贪婪尝试，失败时回溯到更早的重复；按此搜索顺序第一个满足
// terminator 与 trailer 规则的结束位置即为匹配结果。

const escapeMark = '\\'

var qualities = []string{"add", "dim", "aug", "maj", "mM", "mMaj", "sus", "m", "b", "#"}

var terminators = []string{"|", "—", "-", ".", ":"}

// Match 是一次文法匹配，Start/End 为输入中的字节偏移。
type Match struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Text    string `json:"text"`
	Escaped bool   `json:"escaped"`
}

// Literal returns the matched text without its escape mark.
func (m Match) Literal() string {
	if m.Escaped {
		return m.Text[1:]
	}
	return m.Text
}

// scan 从左到右查找所有不重叠的匹配。
func scan(s string) []Match {
	var out []Match
	for i := 0; i < len(s); {
		end, escaped, ok := matchAt(s, i)
		if !ok {
			i++
			continue
		}
		out = append(out, Match{Start: i, End: end, Text: s[i:end], Escaped: escaped})
		i = end
	}
	return out
}

// matchAt 尝试以 i 为起点匹配一个记号。
func matchAt(s string, i int) (end int, escaped bool, ok bool) {
	if s[i] == escapeMark {
		// "\" 之后紧跟字母时单词边界总是成立。
		if i+1 < len(s) && isRoot(s[i+1]) {
			if end := newMatcher(s).body(i + 2); end >= 0 {
				return end, true, true
			}
		}
		return 0, false, false
	}
	if !isRoot(s[i]) || !boundary(s, i) {
		return 0, false, false
	}
	if end := newMatcher(s).body(i + 1); end >= 0 {
		return end, false, true
	}
	return 0, false, false
}

type matcher struct {
	s string
	// failed 记录已经证明无法完成匹配的重复起点。
	failed map[int]bool
}

func newMatcher(s string) *matcher {
	return &matcher{s: s, failed: map[int]bool{}}
}

// body 匹配 { group } 及其后的约束，返回记号结束位置，失败返回 -1。
func (m *matcher) body(p int) int {
	if m.failed[p] {
		return -1
	}
	for _, g := range m.qualityEnds(p) {
		for _, q := range m.bassEnds(g) {
			if q == p {
				continue
			}
			if end := m.body(q); end >= 0 {
				return end
			}
		}
	}
	if end := m.trailer(p); end >= 0 {
		return end
	}
	m.failed[p] = true
	return -1
}

// qualityEnds 按尝试顺序列出 [ quality ] 可能的结束位置（最后是不匹配）。
func (m *matcher) qualityEnds(p int) []int {
	rest := m.s[p:]
	ends := make([]int, 0, 3)
	for _, q := range qualities {
		if strings.HasPrefix(rest, q) {
			ends = append(ends, p+len(q))
		}
	}
	if len(rest) > 0 && isDigit(rest[0]) {
		ends = append(ends, p+1)
	}
	return append(ends, p)
}

// bassEnds 按尝试顺序列出 [ "/" note ] 可能的结束位置。
func (m *matcher) bassEnds(p int) []int {
	if p+1 < len(m.s) && m.s[p] == '/' && (isRoot(m.s[p+1]) || isDigit(m.s[p+1])) {
		return []int{p + 2, p}
	}
	return []int{p}
}

// trailer 检查 terminator 与结尾规则，成功时吞掉随后的所有 "#"。
func (m *matcher) trailer(q int) int {
	rest := m.s[q:]
	for _, t := range terminators {
		if strings.HasPrefix(rest, t) {
			return -1
		}
	}
	if !boundary(m.s, q) && (len(rest) == 0 || rest[0] != '#') {
		return -1
	}
	end := q
	for end < len(m.s) && m.s[end] == '#' {
		end++
	}
	return end
}

func boundary(s string, i int) bool {
	before := i > 0 && isWord(s[i-1])
	after := i < len(s) && isWord(s[i])
	return before != after
}

func isRoot(c byte) bool  { return c >= 'A' && c <= 'G' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWord(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
