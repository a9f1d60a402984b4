package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "empty body", body: "", want: 0},
		{name: "no recognized tokens", body: "hello there, have a great day!", want: 0},
		{name: "unrecognized emoji", body: "good luck 🍀🍀", want: 0},
		{name: "single token", body: "look at this dog 🐶", want: 10},
		{name: "repeated token", body: "🐶🐶🐶", want: 30},
		{name: "mixed tokens", body: "🐱 says hi to 🦖 and 🐾", want: 30},
		{name: "tokens inside text", body: "a🦄b🦄c", want: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.body, table))
		})
	}
}

func TestScoreCustomTable(t *testing.T) {
	table := map[string]int{"🐢": 5, "🦈": 50}
	assert.Equal(t, 60, Score("🐢🐢🦈", table))
	// Default tokens outside the table score nothing
	assert.Equal(t, 0, Score("🐶", table))
}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	assert.Len(t, table, 10)
	for tag, value := range table {
		assert.Equal(t, DefaultPointValue, value, "tag %q", tag)
	}
}
