// Command edi is the terminal entry point for the editor core: it parses
// the command line, puts the terminal into raw mode, wires up the
// dispatcher's default handlers, and runs the event loop to completion.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	edi "github.com/mikeyQwn/edi"
)

func main() {
	if err := run(os.Args); err != nil {
		var appErr *edi.Error
		if e, ok := err.(*edi.Error); ok {
			appErr = e
		} else {
			appErr = edi.NewError(edi.ErrUnexpected, err.Error())
		}
		fmt.Fprintln(os.Stderr, appErr)
		os.Exit(1)
	}
}

// cliArgs is the parsed command line: `edi [path]`.
type cliArgs struct {
	editFile string
}

func parseArgs(args []string) (cliArgs, error) {
	if len(args) < 2 {
		return cliArgs{}, nil
	}
	path := args[1]
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		prog := filepath.Base(args[0])
		return cliArgs{}, edi.NewError(edi.ErrInvalidArgument,
			fmt.Sprintf("`%s` does not exist or is not a regular file", path)).
			WithHint(fmt.Sprintf("run `%s <file_to_edit>`", prog))
	}
	return cliArgs{editFile: path}, nil
}

func run(args []string) error {
	cli, err := parseArgs(args)
	if err != nil {
		return err
	}

	if os.Getenv("EDI_DEBUG") != "" {
		f, err := os.OpenFile("edi.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			edi.SetDebugLog(f)
			defer f.Close()
		}
	}

	term, err := newTerminal(int(os.Stdin.Fd()))
	if err != nil {
		return edi.NewError(edi.ErrTerminalIo, "unable to configure the terminal").WithCause(err)
	}
	defer term.restore()

	if err := term.enterRawMode(); err != nil {
		return edi.NewError(edi.ErrTerminalIo, "unable to enter raw mode").WithCause(err)
	}

	dim, err := term.size()
	if err != nil {
		dim = edi.Dimensions{Width: 80, Height: 24}
	}

	os.Stdout.WriteString(edi.EnterAltScreen())
	defer os.Stdout.WriteString(edi.ExitAltScreen())

	state := edi.NewEditorState(dim, os.Stdout)

	if cli.editFile != "" {
		contents, err := os.ReadFile(cli.editFile)
		if err != nil {
			return edi.NewError(edi.ErrIo, "unable to read file").WithCause(err)
		}
		state.OpenFile(cli.editFile, string(contents))
	} else {
		state.OpenScratch()
	}

	source := edi.NewInputSource(os.Stdin)
	go source.Run()
	defer source.Shutdown()

	dispatcher := edi.NewDispatcher(source.Events())
	edi.RegisterDefaultHandlers(dispatcher)
	dispatcher.PipeQuery(edi.QueryPayload{Type: edi.QueryDraw, DrawKind: edi.DrawRedraw})

	dispatcher.Run(state)

	return nil
}

// terminal owns the raw-mode lifecycle of the controlling tty: canonical
// mode and echo off, VMIN=1/VTIME=0, restored on exit.
type terminal struct {
	fd       int
	orig     unix.Termios
	haveOrig bool
}

func newTerminal(fd int) (*terminal, error) {
	return &terminal{fd: fd}, nil
}

func (t *terminal) enterRawMode() error {
	orig, err := unix.IoctlGetTermios(t.fd, unix.TCGETS)
	if err != nil {
		return err
	}
	t.orig = *orig
	t.haveOrig = true

	raw := *orig
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(t.fd, unix.TCSETS, &raw)
}

func (t *terminal) restore() {
	if !t.haveOrig {
		return
	}
	_ = unix.IoctlSetTermios(t.fd, unix.TCSETS, &t.orig)
}

func (t *terminal) size() (edi.Dimensions, error) {
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return edi.Dimensions{}, err
	}
	return edi.Dimensions{Width: int(ws.Col), Height: int(ws.Row)}, nil
}
