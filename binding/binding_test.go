package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"chord": "Am",
		"sheet": map[string]any{
			"title":  "Campfire",
			"chords": []any{"C", map[string]any{"name": "G/B"}},
		},
		"tags": []string{"folk", "slow"},
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "<b>${chord}</b>", "<b>Am</b>"},
		{"nested", "${sheet.title}", "Campfire"},
		{"index", "${sheet.chords[0]}", "C"},
		{"index then key", "${sheet.chords[1].name}", "G/B"},
		{"string slice", "${tags[1]}", "slow"},
		{"spaces trimmed", "${ chord }", "Am"},
		{"unknown path kept", "${missing.key}", "${missing.key}"},
		{"index out of range kept", "${tags[5]}", "${tags[5]}"},
		{"bad index kept", "${tags[x]}", "${tags[x]}"},
		{"empty path kept", "${ }", "${ }"},
		{"multiple", "${chord}-${chord}", "Am-Am"},
		{"no placeholders", "plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.in, data))
		})
	}

	assert.Equal(t, "${chord}", Interpolate("${chord}", nil))
}

func TestLookup(t *testing.T) {
	v, ok := Lookup(map[string]string{"root": "C"}, "root")
	assert.True(t, ok)
	assert.Equal(t, "C", v)

	_, ok = Lookup(map[string]any{"a": 1}, "a.b")
	assert.False(t, ok)

	_, ok = Lookup(map[string]any{"a": 1}, "a..b")
	assert.False(t, ok)
}

func TestTransform(t *testing.T) {
	fields := func(tok string) map[string]any {
		return map[string]any{"chord": tok, "root": tok[:1]}
	}
	fn := Transform(`<span class="${root}">${chord}</span>`, fields)
	assert.Equal(t, `<span class="G">G/B</span>`, fn("G/B"))

	plain := Transform("[${chord}]", nil)
	assert.Equal(t, "[Am]", plain("Am"))
}
