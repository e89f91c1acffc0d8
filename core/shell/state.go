package shell

// State is the shell's mutable record, passed by reference into the executor
// on every call.
type State struct {
	// Path is the path shown by the prompt and pwd. It mirrors the process
	// working directory only as closely as the last successful cd: it is the
	// raw argument the user gave, not a resolved absolute path.
	Path string
}

// NewState starts at the root path, matching the initial prompt.
func NewState() *State {
	return &State{Path: "/"}
}
