package layout

// Chord 描述一张和弦图的全部输入，供 Redrawer 与上层比较前后变化。
type Chord struct {
	Name    string `json:"name"`
	Frets   string `json:"frets"`
	Fingers string `json:"fingers,omitempty"`
	Scale   int    `json:"scale"`
}

// Resolved fills in DefaultScale when Scale is unset.
func (c Chord) Resolved() Chord {
	if c.Scale == 0 {
		c.Scale = DefaultScale
	}
	return c
}

// Plan parses the chord's notation and builds its draw plan.
func (c Chord) Plan() (*Plan, error) {
	c = c.Resolved()
	return Build(ParseFrets(c.Frets, c.Fingers), c.Name, c.Scale)
}
