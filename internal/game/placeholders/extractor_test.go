package placeholders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storyturn/internal/game"
)

func TestExtractPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		values map[string]string
	}{
		{
			name:   "plain text",
			input:  "You wake in a cellar.",
			want:   "You wake in a cellar.",
			values: map[string]string{},
		},
		{
			name:   "named value",
			input:  "You are ${hero:Mira}, a thief of ${city: Vell }.",
			want:   "You are Mira, a thief of Vell.",
			values: map[string]string{"hero": "Mira", "city": "Vell"},
		},
		{
			name:   "bare token keeps its name",
			input:  "Beware the ${Warden}.",
			want:   "Beware the Warden.",
			values: map[string]string{"Warden": "Warden"},
		},
		{
			name:   "empty value",
			input:  "[${title:}]",
			want:   "[]",
			values: map[string]string{"title": ""},
		},
		{
			name:   "nameless token is stripped but not recorded",
			input:  "${:ghost} walks",
			want:   "ghost walks",
			values: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := game.NewSessionState(3, true)
			got := NewExtractor(state).ExtractPlaceholders(tt.input)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.values, state.Placeholders)
		})
	}
}

func TestExtractPlaceholders_NilMap(t *testing.T) {
	state := &game.SessionState{}
	got := NewExtractor(state).ExtractPlaceholders("${a:1}")

	assert.Equal(t, "1", got)
	assert.Equal(t, map[string]string{"a": "1"}, state.Placeholders)
}

func TestFill(t *testing.T) {
	values := map[string]string{"hero": "Mira"}

	assert.Equal(t, "Mira waits for ${friend}.", Fill("${hero} waits for ${friend}.", values))
}
