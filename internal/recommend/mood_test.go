package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMoodTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"mixed case and spaces", "adventurous, Whimsical ,UPLIFTING", []string{"adventurous", "whimsical", "uplifting"}},
		{"single tag", "dark", []string{"dark"}},
		{"empty", "", nil},
		{"only separators", " , ,, ", nil},
		{"empty tags dropped", "epic,,heroic,", []string{"epic", "heroic"}},
		{"inner spaces kept", " thought provoking ", []string{"thought provoking"}},
		{"order preserved", "b,a,c", []string{"b", "a", "c"}},
		{"final sigma", "ΜΥΣΤΗΡΙΟΣ", []string{"μυστηριος"}},
		{"multi-rune lowering", "İkonik", []string{"i\u0307konik"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMoodTags(tt.raw))
		})
	}
}

func TestNewMood(t *testing.T) {
	assert.Equal(t, Mood("adventurous"), NewMood("  Adventurous\t"))
	assert.Equal(t, Mood(""), NewMood("   "))
	assert.Equal(t, Mood("fan@#$tasy.*"), NewMood("Fan@#$tasy.*"))
	assert.Equal(t, Mood("ωραίος"), NewMood(" ΩΡΑΊΟΣ "))
}

func TestMood_Matches(t *testing.T) {
	tags := []string{"dark", "suspenseful", "psychological"}

	tests := []struct {
		name string
		mood string
		want bool
	}{
		{"exact", "dark", true},
		{"query inside tag", "suspense", true},
		{"tag inside query", "very dark", true},
		{"no overlap", "uplifting", false},
		{"empty query matches", "", true},
		{"regex characters are literal", "d.rk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMood(tt.mood).Matches(tags))
		})
	}
}

func TestMood_Matches_NoTags(t *testing.T) {
	assert.False(t, NewMood("").Matches(nil))
	assert.False(t, NewMood("dark").Matches(ParseMoodTags(" , ")))
}

func TestMood_Score(t *testing.T) {
	tests := []struct {
		name string
		mood string
		tags []string
		want Score
	}{
		{"exact beats partial", "dark", []string{"darkly", "dark"}, ScoreExact},
		{"partial", "sus", []string{"dark", "suspenseful"}, ScorePartial},
		{"reverse containment only", "very dark", []string{"dark"}, ScoreReverse},
		{"empty mood is partial", "", []string{"epic"}, ScorePartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMood(tt.mood).Score(tt.tags))
		})
	}
}
