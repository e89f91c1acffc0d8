package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/potatoshell/potsh/core/history"
)

// ErrExit is returned by Run when the exit builtin terminates the line.
var ErrExit = errors.New("exit")

// HistoryStore is the slice of the history collaborator the executor needs:
// the history builtin reads it, clearHistory resets it.
type HistoryStore interface {
	Entries() []history.Entry
	Clear() error
}

// Terminal is the screen-clearing collaborator behind the clear builtin.
type Terminal interface {
	ClearScreen() error
}

// Executor runs parsed pipelines against the host OS.
type Executor struct {
	History  HistoryStore
	Terminal Terminal

	// Streams a segment falls back to when neither a redirection nor a pipe
	// claims them. Child stderr always goes to Stderr.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// previous is the exclusively owned handle to the last spawned process plus
// the read end of its stdout pipe. At most one exists at a time; each
// iteration either consumes it as the next stage's input or drops it.
type previous struct {
	cmd *exec.Cmd
	out *os.File // read end of the stdout pipe, nil when stdout went elsewhere
}

// release drops the handle without waiting on the process, closing our end
// of its pipe so the writer sees a broken pipe instead of blocking forever.
func (p *previous) release() *previous {
	if p != nil && p.out != nil {
		p.out.Close()
	}
	return nil
}

// Run executes one parsed line against the mutable shell state. The returned
// error is line-level: a failed redirection open, a failed final wait, or
// ErrExit. Spawn and cd failures are reported to Stderr and are not errors.
func (e *Executor) Run(segments []Segment, st *State) error {
	var prev *previous
	exiting := false

loop:
	for i, seg := range segments {
		if seg.Empty() {
			continue
		}

		switch ClassifyBuiltin(seg.Command()) {
		case BuiltinHistory:
			for _, entry := range e.History.Entries() {
				outputColor.Fprintln(e.Stdout, entry.Command)
			}
			prev = prev.release()

		case BuiltinCd:
			dir := "/"
			if len(seg.Args) > 1 {
				dir = seg.Args[1]
			}
			if err := os.Chdir(dir); err != nil {
				fmt.Fprintln(e.Stderr, err)
			} else {
				st.Path = dir
			}
			// cd always drops the previous handle, even mid-pipeline.
			prev = prev.release()

		case BuiltinPwd:
			outputColor.Fprintln(e.Stdout, st.Path)

		case BuiltinClear:
			if err := e.Terminal.ClearScreen(); err != nil {
				prev.release()
				return err
			}

		case BuiltinExit:
			exiting = true
			break loop

		case BuiltinClearHistory:
			if err := e.History.Clear(); err != nil {
				prev.release()
				return fmt.Errorf("clear history: %w", err)
			}
			outputColor.Fprintln(e.Stdout, "history cleared")

		case BuiltinHelp:
			PrintHelp(e.Stdout)

		case BuiltinExternal:
			next, err := e.spawn(seg, prev, i < len(segments)-1)
			prev = next
			if err != nil {
				return err
			}
		}
	}

	if prev != nil {
		err := prev.cmd.Wait()
		prev.release()
		// A nonzero exit status is not a wait failure; only an OS-level
		// error propagates. The status itself is never inspected.
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			return err
		}
	}
	if exiting {
		return ErrExit
	}
	return nil
}

// spawn starts one external segment. It always takes ownership of prev:
// either the new process inherits its pipe or the handle is dropped. The
// returned error is fatal for the line (a redirection open failure); a
// failure to start the program is only reported and yields a nil handle so
// later stages run disconnected.
func (e *Executor) spawn(seg Segment, prev *previous, pipeNext bool) (*previous, error) {
	cmd := exec.Command(seg.Args[0], seg.Args[1:]...)
	cmd.Stderr = e.Stderr

	// The child duplicates every fd it needs during Start, our copies close
	// on the way out.
	var toClose []io.Closer
	defer func() {
		for _, closer := range toClose {
			closer.Close()
		}
	}()

	// stdin: the redirection file, else the previous stage's pipe, else the
	// terminal.
	switch {
	case seg.Redirect.Mode == RedirectRead:
		in, err := os.Open(seg.Redirect.Path)
		if err != nil {
			prev.release()
			return nil, err
		}
		toClose = append(toClose, in)
		cmd.Stdin = in
		prev.release()

	case prev != nil:
		if prev.out != nil {
			toClose = append(toClose, prev.out)
			cmd.Stdin = prev.out
		} else {
			// The previous stage's output went to a file, there is nothing
			// to chain from.
			cmd.Stdin = e.Stdin
		}

	default:
		cmd.Stdin = e.Stdin
	}

	// stdout: the redirection file, else a pipe to the next stage, else the
	// terminal. The write redirection neither truncates nor appends, it
	// overwrites in place from the start of the file.
	var nextOut *os.File
	switch {
	case seg.Redirect.Mode == RedirectWrite:
		out, err := os.OpenFile(seg.Redirect.Path, os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return nil, err
		}
		toClose = append(toClose, out)
		cmd.Stdout = out

	case pipeNext:
		r, w, err := os.Pipe()
		if err != nil {
			return nil, err
		}
		toClose = append(toClose, w)
		cmd.Stdout = w
		nextOut = r

	default:
		cmd.Stdout = e.Stdout
	}

	if err := cmd.Start(); err != nil {
		if nextOut != nil {
			nextOut.Close()
		}
		errorColor.Fprintf(e.Stderr, "command failed to start: %v\n", err)
		return nil, nil
	}

	return &previous{cmd: cmd, out: nextOut}, nil
}
