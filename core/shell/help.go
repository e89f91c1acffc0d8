package shell

import (
	"io"

	"github.com/fatih/color"
)

// The original potato shell palette: green prompt, magenta builtin output,
// red errors, blue hints, yellow banner.
var (
	promptColor = color.New(color.FgGreen)
	outputColor = color.New(color.FgMagenta)
	errorColor  = color.New(color.FgRed)
	noticeColor = color.New(color.FgBlue)
	bannerColor = color.New(color.FgYellow)
)

const helpText = `These are the builtin commands you can use:
  - history: show your command history
  - cd: change directory
  - pwd: print the directory you are currently in
  - clear: clear the screen
  - exit: exit the shell
  - clearHistory: clear your history
  - help: show this help again
`

// PrintHelp writes the static usage text.
func PrintHelp(w io.Writer) {
	outputColor.Fprint(w, helpText)
	noticeColor.Fprintln(w, `use '|' for piping and "<<" and ">>" for file redirection`)
}
