// Package sheet compiles a parsed chord-sheet document into diagram plans
// and a chord analysis of its lyrics.
package sheet

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ByLCY/chordify/chord"
	"github.com/ByLCY/chordify/dsl"
	"github.com/ByLCY/chordify/layout"
)

// Diagram is one compiled chord definition.
type Diagram struct {
	Name  string           `json:"name"`
	Model layout.FretModel `json:"model"`
	Plan  *layout.Plan     `json:"plan"`
}

// Lyric is a lyric line with the chords found in it.
type Lyric struct {
	Text   string   `json:"text"`
	Chords []string `json:"chords"`
}

// Wrap rewrites the lyric, replacing each chord with fn(chord).
func (l Lyric) Wrap(fn func(string) string) string {
	return chord.Wrap(l.Text, fn)
}

// Sheet is the compiled form of a dsl.Document.
type Sheet struct {
	Title    string    `json:"title"`
	Scale    int       `json:"scale"`
	Diagrams []Diagram `json:"diagrams"`
	Lyrics   []Lyric   `json:"lyrics"`
	// Missing 列出歌词中出现但没有定义指法图的和弦。
	Missing []string `json:"missing"`
}

// Diagram returns the diagram named name, ignoring case.
func (s *Sheet) Diagram(name string) (Diagram, bool) {
	for _, d := range s.Diagrams {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Diagram{}, false
}

// Build resolves the sheet scale, lays out every chord and analyses lyrics.
func Build(doc *dsl.Document) (*Sheet, error) {
	if doc == nil {
		return nil, errors.New("sheet: document is nil")
	}

	scale, err := resolveScale(doc)
	if err != nil {
		return nil, err
	}

	s := &Sheet{Title: string(doc.Title), Scale: scale, Diagrams: []Diagram{}, Lyrics: []Lyric{}, Missing: []string{}}

	for _, st := range doc.Statements {
		def := st.Chord
		if def == nil {
			continue
		}
		name := string(def.Name)
		if prev, ok := s.Diagram(name); ok {
			return nil, fmt.Errorf("%s: chord %q already defined as %q", def.Pos, name, prev.Name)
		}
		c := layout.Chord{Name: name, Frets: string(def.Frets), Fingers: def.FingerString(), Scale: scale}
		plan, err := c.Plan()
		if err != nil {
			return nil, fmt.Errorf("%s: chord %q: %w", def.Pos, name, err)
		}
		s.Diagrams = append(s.Diagrams, Diagram{Name: name, Model: plan.Model, Plan: plan})
	}

	for _, st := range doc.Statements {
		if st.Lyric == nil {
			continue
		}
		text := string(st.Lyric.Text)
		lyric := Lyric{Text: text, Chords: chord.Unique(text)}
		s.Lyrics = append(s.Lyrics, lyric)
		for _, name := range lyric.Chords {
			if _, ok := s.Diagram(name); ok {
				continue
			}
			if !slices.ContainsFunc(s.Missing, func(m string) bool { return strings.EqualFold(m, name) }) {
				s.Missing = append(s.Missing, name)
			}
		}
	}
	slices.SortStableFunc(s.Missing, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return s, nil
}

// resolveScale 取唯一的 scale 语句，缺省为 layout.DefaultScale。
func resolveScale(doc *dsl.Document) (int, error) {
	scale := layout.DefaultScale
	var seen *dsl.ScaleStatement
	for _, st := range doc.Statements {
		if st.Scale == nil {
			continue
		}
		if seen != nil {
			return 0, fmt.Errorf("%s: scale already set at %s", st.Scale.Pos, seen.Pos)
		}
		seen = st.Scale
		if _, err := layout.Scale(st.Scale.Level); err != nil {
			return 0, fmt.Errorf("%s: %w", st.Scale.Pos, err)
		}
		scale = st.Scale.Level
	}
	return scale, nil
}
