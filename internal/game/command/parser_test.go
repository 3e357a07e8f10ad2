package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Args)

	result = Parse("   \t ")
	assert.Equal(t, "", result.Command)
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("fire")
	assert.Equal(t, "fire", result.Command)
	assert.Nil(t, result.Args)
	assert.Equal(t, "", result.RawArgs)
}

func TestParse_Lowercase(t *testing.T) {
	result := Parse("RELOAD")
	assert.Equal(t, "reload", result.Command)
}

func TestParse_WithArgs(t *testing.T) {
	result := Parse("open Armory")
	assert.Equal(t, "open", result.Command)
	assert.Equal(t, []string{"Armory"}, result.Args, "arguments keep their case")
	assert.Equal(t, "Armory", result.RawArgs)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	result := Parse("  pickup   ab12   cd  ")
	assert.Equal(t, "pickup", result.Command)
	assert.Equal(t, []string{"ab12", "cd"}, result.Args)
	assert.Equal(t, "ab12   cd", result.RawArgs)
}

func TestParseResult_Arg(t *testing.T) {
	result := Parse("face left now")
	assert.Equal(t, "left", result.Arg(0))
	assert.Equal(t, "now", result.Arg(1))
	assert.Equal(t, "", result.Arg(2))
	assert.Equal(t, "", result.Arg(-1))
}

func TestPropertyParseAlwaysLowercasesCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z]{1,20}`).Draw(t, "word")
		result := Parse(word)
		for _, c := range result.Command {
			if c >= 'A' && c <= 'Z' {
				t.Fatalf("command %q contains uppercase char in Parse result %q", word, result.Command)
			}
		}
	})
}

func TestPropertyParseNonEmptyInputHasCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "word")
		args := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9]{1,8}`), 0, 4).Draw(t, "args")
		line := word
		for _, a := range args {
			line += " " + a
		}
		result := Parse(line)
		if result.Command != word {
			t.Fatalf("input %q produced command %q", line, result.Command)
		}
		if len(result.Args) != len(args) {
			t.Fatalf("input %q produced %d args, want %d", line, len(result.Args), len(args))
		}
	})
}
