package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/fzft/go-connecter/connect"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

var errQuit = errors.New("quit")

// submitter schedules work onto the main-loop goroutine. Satisfied by
// loop.Runner.
type submitter interface {
	Submit(fn func()) bool
}

// Shell reads dial targets and commands from the user and hands them
// to the main loop. Every registry touch goes through the submitter so
// the registry is only ever mutated on the loop goroutine; the shell's
// own goroutine never calls into it directly.
type Shell struct {
	runner      submitter
	registry    *connect.Registry
	out         io.Writer
	line        *liner.State
	scanner     *bufio.Scanner
	interactive bool
	history     string
}

func NewShell(runner submitter, registry *connect.Registry, cfg *Config) *Shell {
	s := &Shell{
		runner:      runner,
		registry:    registry,
		out:         os.Stdout,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
		history:     cfg.HistoryFile,
	}
	if s.interactive {
		s.line = liner.NewLiner()
		s.line.SetCtrlCAborts(true)
		if s.history != "" {
			if f, err := os.Open(s.history); err == nil {
				s.line.ReadHistory(f)
				f.Close()
			}
		}
	} else {
		s.scanner = bufio.NewScanner(os.Stdin)
	}
	return s
}

// Run reads input until EOF, ctrl-c, or a quit command. It blocks on
// the shell's own goroutine; the main loop keeps ticking elsewhere.
func (s *Shell) Run() error {
	for {
		input, err := s.read()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}
		if err := s.dispatch(input); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(s.out, err)
		}
	}
}

func (s *Shell) read() (string, error) {
	if s.interactive {
		input, err := s.line.Prompt("connect> ")
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(input) != "" {
			s.line.AppendHistory(input)
		}
		return input, nil
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// dispatch interprets one input line: a command, or a host:port to
// dial.
func (s *Shell) dispatch(input string) error {
	input = strings.TrimSpace(input)
	switch input {
	case "":
		return nil
	case "quit", "exit":
		return errQuit
	case "killall":
		s.submit(func() { s.registry.KillAll() })
		return nil
	case "list":
		s.submit(func() {
			addrs := s.registry.Pending()
			if len(addrs) == 0 {
				fmt.Fprintln(s.out, "no attempts in flight")
				return
			}
			for _, addr := range addrs {
				fmt.Fprintf(s.out, "pending %s\n", addr)
			}
		})
		return nil
	}

	addr, err := connect.ParseAddress(input)
	if err != nil {
		return fmt.Errorf("not a command or host:port: %w", err)
	}
	s.submit(func() {
		s.registry.Create(addr,
			func(conn net.Conn) {
				fmt.Fprintf(s.out, "connected to %s (%s)\n", addr, conn.RemoteAddr())
				conn.Close()
			},
			func() {
				fmt.Fprintf(s.out, "connect to %s failed\n", addr)
			})
	})
	return nil
}

func (s *Shell) submit(fn func()) {
	if !s.runner.Submit(fn) {
		fmt.Fprintln(s.out, "main loop not accepting work")
	}
}

// Close releases the terminal and saves history.
func (s *Shell) Close() error {
	if !s.interactive {
		return nil
	}
	var errs []error
	if s.history != "" {
		if f, err := os.Create(s.history); err == nil {
			if _, werr := s.line.WriteHistory(f); werr != nil {
				errs = append(errs, werr)
			}
			f.Close()
		} else {
			errs = append(errs, err)
		}
	}
	if err := s.line.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return MultiError(errs)
}
