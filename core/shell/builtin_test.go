package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBuiltin(t *testing.T) {
	cases := map[string]Builtin{
		"history":      BuiltinHistory,
		"cd":           BuiltinCd,
		"pwd":          BuiltinPwd,
		"clear":        BuiltinClear,
		"exit":         BuiltinExit,
		"clearHistory": BuiltinClearHistory,
		"help":         BuiltinHelp,

		// Matching is exact and case-sensitive.
		"Cd":           BuiltinExternal,
		"EXIT":         BuiltinExternal,
		"clearhistory": BuiltinExternal,
		"ls":           BuiltinExternal,
		"":             BuiltinExternal,
	}

	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, ClassifyBuiltin(name))
		})
	}
}
