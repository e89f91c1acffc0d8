package shell

import "strings"

// PipeToken separates pipeline segments. A bare '|' without exactly one
// space on each side is ordinary text, not a separator.
const PipeToken = " | "

// Redirection operators, found by substring search. There is no quoting, so
// an argument that contains one of these is read as a redirection.
const (
	readOperator  = "<<"
	writeOperator = ">>"
)

// RedirectMode says where a segment's input or output is rewired to.
type RedirectMode int

const (
	RedirectNone RedirectMode = iota
	// RedirectRead makes the command read from the named file.
	RedirectRead
	// RedirectWrite makes the command write to the named file.
	RedirectWrite
)

// Redirect is a segment's optional file redirection.
type Redirect struct {
	Mode RedirectMode
	Path string
}

// Segment is one stage of a pipeline: a command with its arguments and an
// optional redirection. The first arg is the command name.
type Segment struct {
	Args     []string
	Redirect Redirect
}

// Command returns the segment's command name, or "" when there is nothing to
// run.
func (s Segment) Command() string {
	if len(s.Args) == 0 {
		return ""
	}
	return s.Args[0]
}

// Empty reports whether the segment has no command to run.
func (s Segment) Empty() bool {
	return len(s.Args) == 0
}

// Parse splits a raw input line into pipeline segments. There is always at
// least one segment; a blank line yields a single empty one.
func Parse(line string) []Segment {
	var segments []Segment
	for _, text := range strings.Split(strings.TrimSpace(line), PipeToken) {
		segments = append(segments, parseSegment(text))
	}
	return segments
}

// parseSegment checks for a read redirection before a write one; a segment
// gets at most one, any later operator stays part of the path text.
func parseSegment(text string) Segment {
	for _, op := range []struct {
		token string
		mode  RedirectMode
	}{
		{readOperator, RedirectRead},
		{writeOperator, RedirectWrite},
	} {
		if !strings.Contains(text, op.token) {
			continue
		}
		// The path is the text between the first and second occurrence of
		// the operator.
		parts := strings.Split(text, op.token)
		return Segment{
			Args:     strings.Fields(parts[0]),
			Redirect: Redirect{Mode: op.mode, Path: strings.TrimSpace(parts[1])},
		}
	}
	return Segment{Args: strings.Fields(text)}
}
