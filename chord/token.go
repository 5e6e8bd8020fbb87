package chord

import "strings"

// Token splits a chord token into its parts.
type Token struct {
	Text    string `json:"text"`
	Root    string `json:"root"`
	Quality string `json:"quality"`
	Bass    string `json:"bass"`
}

// Describe 拆分记号：Root 为首字母，Quality 为根音到第一个 "/" 之间的部分，
// Bass 为最后一个 "/" 之后的部分。转义符会被去掉。不做乐理校验。
func Describe(tok string) Token {
	tok = strings.TrimPrefix(tok, `\`)
	t := Token{Text: tok}
	if tok == "" {
		return t
	}
	t.Root = tok[:1]
	rest := tok[1:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		t.Quality = rest[:i]
		t.Bass = rest[strings.LastIndexByte(rest, '/')+1:]
	} else {
		t.Quality = rest
	}
	return t
}

// Fields returns the token as a template data map keyed by
// "chord", "root", "quality" and "bass".
func (t Token) Fields() map[string]any {
	return map[string]any{
		"chord":   t.Text,
		"root":    t.Root,
		"quality": t.Quality,
		"bass":    t.Bass,
	}
}
