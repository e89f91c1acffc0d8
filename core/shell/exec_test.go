package shell

import (
	"bytes"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/potatoshell/potsh/core/history"
)

type fakeHistory struct {
	entries []history.Entry
	cleared bool
}

func (f *fakeHistory) Entries() []history.Entry { return f.entries }

func (f *fakeHistory) Clear() error {
	f.cleared = true
	f.entries = nil
	return nil
}

type fakeTerminal struct {
	clears int
}

func (f *fakeTerminal) ClearScreen() error {
	f.clears++
	return nil
}

type execFixture struct {
	executor *Executor
	history  *fakeHistory
	terminal *fakeTerminal
	state    *State
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newExecFixture() *execFixture {
	f := &execFixture{
		history:  &fakeHistory{},
		terminal: &fakeTerminal{},
		state:    NewState(),
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
	}
	f.executor = &Executor{
		History:  f.history,
		Terminal: f.terminal,
		Stdin:    strings.NewReader(""),
		Stdout:   f.stdout,
		Stderr:   f.stderr,
	}
	return f
}

func (f *execFixture) run(t *testing.T, line string) error {
	t.Helper()
	return f.executor.Run(Parse(line), f.state)
}

// lockWorkingDir restores the process working directory after tests that cd.
func lockWorkingDir(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestRunEmptyLine(t *testing.T) {
	f := newExecFixture()

	assert.Nil(t, f.run(t, ""))
	assert.Empty(t, f.stdout.String())
	assert.Empty(t, f.stderr.String())
}

func TestRunPwd(t *testing.T) {
	f := newExecFixture()

	assert.Nil(t, f.run(t, "pwd"))
	assert.Nil(t, f.run(t, "pwd"))
	assert.Equal(t, "/\n/\n", f.stdout.String())
}

func TestRunCd(t *testing.T) {
	lockWorkingDir(t)
	dir := t.TempDir()
	f := newExecFixture()

	assert.Nil(t, f.run(t, "cd "+dir))
	assert.Equal(t, dir, f.state.Path)
	assert.Empty(t, f.stderr.String())

	wd, err := os.Getwd()
	assert.Nil(t, err)
	resolvedDir, err := filepath.EvalSymlinks(dir)
	assert.Nil(t, err)
	resolvedWd, err := filepath.EvalSymlinks(wd)
	assert.Nil(t, err)
	assert.Equal(t, resolvedDir, resolvedWd)
}

func TestRunCdFailure(t *testing.T) {
	lockWorkingDir(t)
	f := newExecFixture()

	assert.Nil(t, f.run(t, "cd /does/not/exist"))
	assert.Equal(t, "/", f.state.Path, "state unchanged on failure")
	assert.Contains(t, f.stderr.String(), "/does/not/exist")
}

func TestRunCdDefaultsToRoot(t *testing.T) {
	lockWorkingDir(t)
	f := newExecFixture()
	f.state.Path = "/tmp"

	assert.Nil(t, f.run(t, "cd"))
	assert.Equal(t, "/", f.state.Path)
}

func TestRunClear(t *testing.T) {
	f := newExecFixture()

	assert.Nil(t, f.run(t, "clear"))
	assert.Equal(t, 1, f.terminal.clears)
}

func TestRunHistory(t *testing.T) {
	f := newExecFixture()
	f.history.entries = []history.Entry{{Command: "ls"}, {Command: "pwd"}}

	assert.Nil(t, f.run(t, "history"))
	assert.Equal(t, "ls\npwd\n", f.stdout.String())
}

func TestRunClearHistory(t *testing.T) {
	f := newExecFixture()
	f.history.entries = []history.Entry{{Command: "ls"}}

	assert.Nil(t, f.run(t, "clearHistory"))
	assert.True(t, f.history.cleared)
	assert.Equal(t, "history cleared\n", f.stdout.String())
}

func TestRunExternal(t *testing.T) {
	f := newExecFixture()

	assert.Nil(t, f.run(t, "echo hello world"))
	assert.Equal(t, "hello world\n", f.stdout.String())
}

func TestRunExternalNonzeroExitStatus(t *testing.T) {
	f := newExecFixture()

	// The child's exit status is not inspected or propagated.
	assert.Nil(t, f.run(t, "false"))
	assert.Empty(t, f.stderr.String())
}

func TestRunPipelineNonzeroExitStatus(t *testing.T) {
	f := newExecFixture()

	assert.Nil(t, f.run(t, "echo hello | grep nomatch"))
}

func TestRunPipeline(t *testing.T) {
	f := newExecFixture()

	assert.Nil(t, f.run(t, "echo hello | cat"))
	assert.Equal(t, "hello\n", f.stdout.String())
}

func TestRunLongerPipeline(t *testing.T) {
	f := newExecFixture()

	assert.Nil(t, f.run(t, "echo one two three | cat | wc -w"))
	assert.Equal(t, "3", strings.TrimSpace(f.stdout.String()))
}

func TestRunReadRedirection(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	assert.Nil(t, ioutil.WriteFile(in, []byte("pear\napple\nbanana\n"), 0600))

	f := newExecFixture()

	assert.Nil(t, f.run(t, "sort << "+in))
	assert.Equal(t, "apple\nbanana\npear\n", f.stdout.String())
}

func TestRunReadRedirectionMissingFileIsFatal(t *testing.T) {
	f := newExecFixture()

	err := f.run(t, "cat << /does/not/exist.txt")
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunWriteRedirection(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	f := newExecFixture()

	assert.Nil(t, f.run(t, "echo hi >> "+out))

	contents, err := ioutil.ReadFile(out)
	assert.Nil(t, err)
	assert.Equal(t, "hi\n", string(contents))
	assert.Empty(t, f.stdout.String(), "output went to the file")
}

func TestRunWriteRedirectionOverwritesInPlace(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	f := newExecFixture()

	// The write redirection opens without O_TRUNC or O_APPEND: a shorter
	// second write leaves the tail of the first in place.
	assert.Nil(t, f.run(t, "echo abcdefgh >> "+out))
	assert.Nil(t, f.run(t, "echo hi >> "+out))

	contents, err := ioutil.ReadFile(out)
	assert.Nil(t, err)
	assert.Equal(t, "hi\ndefgh\n", string(contents))
}

func TestRunReadRedirectionFeedsPipeline(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	assert.Nil(t, ioutil.WriteFile(in, []byte("a\nb\nc\n"), 0600))

	f := newExecFixture()

	assert.Nil(t, f.run(t, "cat << "+in+" | wc -l"))
	assert.Equal(t, "3", strings.TrimSpace(f.stdout.String()))
}

func TestRunSpawnFailureIsReportedNotFatal(t *testing.T) {
	f := newExecFixture()

	assert.Nil(t, f.run(t, "definitely-not-a-real-program-12345"))
	assert.Contains(t, f.stderr.String(), "command failed to start")
}

func TestRunSpawnFailureDisconnectsChain(t *testing.T) {
	f := newExecFixture()
	f.executor.Stdin = strings.NewReader("fallback\n")

	assert.Nil(t, f.run(t, "definitely-not-a-real-program-12345 | cat"))
	assert.Contains(t, f.stderr.String(), "command failed to start")
	assert.Equal(t, "fallback\n", f.stdout.String(), "cat fell back to the terminal input")
}

func TestRunCdMidPipelineBreaksChain(t *testing.T) {
	lockWorkingDir(t)
	dir := t.TempDir()

	f := newExecFixture()
	f.executor.Stdin = strings.NewReader("broken\n")

	assert.Nil(t, f.run(t, "echo hello | cd "+dir+" | cat"))
	assert.Equal(t, dir, f.state.Path)
	// cd dropped the pipe from echo, cat read the terminal input instead.
	assert.Equal(t, "broken\n", f.stdout.String())
}

func TestRunExitSkipsRemainingSegments(t *testing.T) {
	f := newExecFixture()

	err := f.run(t, "exit | echo bye")
	assert.True(t, errors.Is(err, ErrExit))
	assert.Empty(t, f.stdout.String())
}

func TestRunExitStillWaitsForPrevious(t *testing.T) {
	f := newExecFixture()

	err := f.run(t, "echo hi | exit")
	assert.True(t, errors.Is(err, ErrExit))
}

func TestRunBuiltinAfterPipelineKeepsChainForExternals(t *testing.T) {
	f := newExecFixture()

	// pwd does not consume or drop the pipe, cat still reads echo's output.
	assert.Nil(t, f.run(t, "echo hello | pwd | cat"))
	assert.Equal(t, "/\nhello\n", f.stdout.String())
}
