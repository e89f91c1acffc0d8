package shell

// Builtin identifies one of the shell's built-in operations. BuiltinExternal
// is the catch-all for names that resolve to programs on the host.
type Builtin int

const (
	BuiltinExternal Builtin = iota
	BuiltinHistory
	BuiltinCd
	BuiltinPwd
	BuiltinClear
	BuiltinExit
	BuiltinClearHistory
	BuiltinHelp
)

// ClassifyBuiltin maps a command name to its builtin operation. Matching is
// exact and case-sensitive; any other name is BuiltinExternal.
func ClassifyBuiltin(name string) Builtin {
	switch name {
	case "history":
		return BuiltinHistory
	case "cd":
		return BuiltinCd
	case "pwd":
		return BuiltinPwd
	case "clear":
		return BuiltinClear
	case "exit":
		return BuiltinExit
	case "clearHistory":
		return BuiltinClearHistory
	case "help":
		return BuiltinHelp
	default:
		return BuiltinExternal
	}
}
