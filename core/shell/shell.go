package shell

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/potatoshell/potsh/core/config"
	"github.com/potatoshell/potsh/core/history"
	"github.com/potatoshell/potsh/core/logger"
)

// Shell ties the readline REPL, the history file, the session log and the
// executor together.
type Shell struct {
	readline *readline.Instance
	history  *history.History
	state    *State
	prompt   string
	executor *Executor
	log      *logger.Logger
	stdout   io.Writer
	stderr   io.Writer
	toClose  listCloser
}

// New builds an interactive shell from the configuration.
func New(configuration *config.Configuration) (*Shell, error) {
	if !configuration.Colors || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	hist, err := history.Open(configuration.Fs(), configuration.HistoryPath())
	if err != nil {
		return nil, err
	}

	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(os.Stdin),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	s := &Shell{
		readline: rl,
		history:  hist,
		state:    NewState(),
		prompt:   configuration.Prompt,
		log:      logger.NewDiscardLogRecorder(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	s.toClose = append(s.toClose, rl)

	if configuration.SessionLogPath() != "" {
		logFd, err := configuration.OpenSessionLog()
		if err != nil {
			s.toClose.Close()
			return nil, err
		}
		s.log = logger.NewJsonLinesLogRecorder(logFd)
		s.toClose = append(s.toClose, logFd)
	}

	s.executor = &Executor{
		History:  &editorHistory{history: hist, readline: rl},
		Terminal: s,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}

	// Seed the line editor so arrow-up reaches past sessions.
	for _, entry := range hist.Entries() {
		rl.SaveHistory(entry.Command)
	}

	// First run: no history file yet, greet the user.
	if !hist.Existed() {
		bannerColor.Fprintln(s.stdout, configuration.Motd)
		PrintHelp(s.stdout)
	}

	return s, nil
}

// Run reads lines until exit, EOF or interrupt. History is saved on the way
// out.
func (s *Shell) Run() error {
	defer s.history.Save()

	for {
		s.readline.SetPrompt(s.Prompt())
		line, err := s.readline.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			noticeColor.Fprintln(s.stdout, "CTRL-C, Bye")
			return nil

		case err != nil:
			errorColor.Fprintf(s.stderr, "Error: %v\n", err)
			return err

		case len(line) == 0:
			continue // empty line

		default:
			s.history.Add(line)

			start := time.Now()
			runErr := s.executor.Run(Parse(line), s.state)
			s.log.RecordInput(line, time.Since(start), runErr)

			if errors.Is(runErr, ErrExit) {
				return nil
			}
			if runErr != nil {
				errorColor.Fprintln(s.stderr, runErr)
			}
		}
	}
}

// Prompt renders the green "<sigil> <path>/ : " prompt.
func (s *Shell) Prompt() string {
	return promptColor.Sprintf("%s %s/ : ", s.prompt, s.state.Path)
}

// ClearScreen implements Terminal for the clear builtin.
func (s *Shell) ClearScreen() error {
	_, err := io.WriteString(s.stdout, "\x1b[H\x1b[2J")
	return err
}

func (s *Shell) Close() error {
	return s.toClose.Close()
}

// editorHistory keeps the line editor's in-memory history in step with the
// history file when clearHistory runs.
type editorHistory struct {
	history  *history.History
	readline *readline.Instance
}

func (e *editorHistory) Entries() []history.Entry {
	return e.history.Entries()
}

func (e *editorHistory) Clear() error {
	e.readline.Operation.ResetHistory()
	return e.history.Clear()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
