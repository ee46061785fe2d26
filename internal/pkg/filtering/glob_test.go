package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobSyntax(t *testing.T) {
	tests := []struct {
		name          string
		pattern       string
		candidate     string
		caseSensitive bool
		expected      bool
	}{
		{"contains", "Name:*Orc*", "Name:Big Orc Pawn:Level:5:", false, true},
		{"anywhere in candidate", "Race:Troll", "Name:Bob:Race:Troll:", false, true},
		{"no match", "Race:Troll", "Name:Bob:Race:Ogre:", false, false},
		{"case insensitive", "race:troll", "Name:Bob:Race:Troll:", false, true},
		{"case sensitive", "race:troll", "Name:Bob:Race:Troll:", true, false},
		{"alternatives", "Race:{Troll,Ogre}", "Name:Bob:Race:Ogre:", false, true},
		{"single char", "Class:?arrior", "Class:Warrior:", false, true},
		{"star spans colons", "Name:Bob*Class:Warrior", "Name:Bob:Race:Troll:Class:Warrior:", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := GlobSyntax.Compile(GlobSyntax.Normalize(tt.pattern), tt.caseSensitive)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.MatchString(tt.candidate))
		})
	}
}

func TestGlobSyntaxInExpression(t *testing.T) {
	e := NewExpression("Name:*Dragon*;25", WithSyntax(GlobSyntax))
	assert.Equal(t, "Name:*Dragon*", e.Pattern())
	assert.True(t, e.IsFiltered("Name:Great Dragon:", 25))
	assert.False(t, e.IsFiltered("Name:Great Dragon:", 24))

	opt, _ := newCapture()
	bad := NewExpression("Name:[Orc", WithSyntax(GlobSyntax), opt)
	assert.False(t, bad.Valid())
}

func TestLoadPatternsFromFile(t *testing.T) {
	path := writeTestFile(t, "patterns.txt", `# hunt list
Name:.*Orc.*:

Race:Troll;10-20
  # indented comment
  Class:Warrior
`)

	patterns, err := LoadPatternsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name:.*Orc.*:", "Race:Troll;10-20", "Class:Warrior"}, patterns)

	_, err = LoadPatternsFromFile("/nonexistent/patterns.txt")
	assert.Error(t, err)
}
