// Package dsl parses chord-sheet files:
//
//	sheet "Campfire" {
//	  scale 5
//	  chord C "x32010"
//	  chord F "133211" fingers "134211"
//	  lyric "Play \\Am then G/B softly"
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sheetLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Number", Pattern: `\d+`},
		// 和弦名可以直接写成标识符，例如 C#m7/G、Cadd9、Bb。
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_#/+\-]*`},
		{Name: "Symbol", Pattern: `;`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	sheetParser = participle.MustBuild[Document](
		participle.Lexer(sheetLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Document is the root AST node for a chord-sheet file.
type Document struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Title      StringLiteral  `parser:"Newline* 'sheet' @String"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Statement inside the sheet block.
type Statement struct {
	Scale *ScaleStatement `parser:"  @@"`
	Chord *ChordStatement `parser:"| @@"`
	Lyric *LyricStatement `parser:"| @@"`
}

// Kind returns the human-readable statement type.
func (s *Statement) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Scale != nil:
		return "scale"
	case s.Chord != nil:
		return "chord"
	case s.Lyric != nil:
		return "lyric"
	default:
		return "unknown"
	}
}

// ScaleStatement sets the diagram scale level for the whole sheet.
type ScaleStatement struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Level int            `parser:"'scale' @Number"`
}

// ChordStatement defines one diagram.
type ChordStatement struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    ChordName      `parser:"'chord' @(Ident | String)"`
	Frets   StringLiteral  `parser:"@String"`
	Fingers *StringLiteral `parser:"( 'fingers' @String )?"`
}

// FingerString returns the finger pattern, or "" when none was given.
func (c *ChordStatement) FingerString() string {
	if c.Fingers == nil {
		return ""
	}
	return string(*c.Fingers)
}

// LyricStatement is a line of text; the keyword is optional.
type LyricStatement struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Text StringLiteral  `parser:"'lyric'? @String"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// ChordName accepts either a bare identifier or a quoted string.
type ChordName string

// Capture implements participle.Capture.
func (n *ChordName) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("chord name capture requires value")
	}
	val := values[0]
	if strings.HasPrefix(val, `"`) {
		unquoted, err := strconv.Unquote(val)
		if err != nil {
			return err
		}
		val = unquoted
	}
	*n = ChordName(val)
	return nil
}

// Parse parses a chord sheet from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return sheetParser.Parse("", r)
}

// ParseString parses a chord sheet from a string.
func ParseString(input string) (*Document, error) {
	return sheetParser.ParseString("", input)
}

// ParseFile parses a chord sheet, using filename in error positions.
func ParseFile(filename string, r io.Reader) (*Document, error) {
	return sheetParser.Parse(filename, r)
}
