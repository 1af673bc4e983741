// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package shell implements the line-oriented command interpreter over a
// flatfs instance.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/bpowers/flatfs"
)

var (
	errUsage   = errors.New("usage")
	errUnknown = errors.New("unknown command")
)

// Option configures a Shell.
type Option func(*Shell)

// WithColor turns ANSI colors on or off.  Colors are off by default.
func WithColor(enabled bool) Option {
	return func(s *Shell) {
		if enabled {
			s.colors = ansi
		} else {
			s.colors = plain
		}
	}
}

// WithPrompt replaces the default prompt.
func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// WithLogger sets the logger commands report failures to.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

type command struct {
	usage string
	help  string
	// nargs is the exact argument count, or -1 for "zero or one"
	nargs int
	run   func(s *Shell, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"ls":    {"ls [path]", "list the files in a directory", -1, (*Shell).list},
		"cat":   {"cat <file>", "print the content of a file", 1, (*Shell).cat},
		"touch": {"touch <file>", "create an empty file", 1, (*Shell).touch},
		"edit":  {"edit <file>", "replace the content of a file, ending input with an empty line", 1, (*Shell).edit},
		"tree":  {"tree", "print the directory tree", 0, (*Shell).tree},
		"mv":    {"mv <old> <new>", "rename a file", 2, (*Shell).rename},
		"stat":  {"stat <file>", "describe a file", 1, (*Shell).stat},
		"sum":   {"sum <file>", "print the fingerprint of a file's content", 1, (*Shell).sum},
		"fsck":  {"fsck", "check the file table for corruption", 0, (*Shell).fsck},
		"help":  {"help", "show this message", 0, (*Shell).help},
		"exit":  {"exit", "leave the shell", 0, nil},
	}
}

// Shell reads commands from an input stream and runs them against a flatfs
// instance.  It isn't safe for concurrent use.
type Shell struct {
	fs     *flatfs.FS
	in     *bufio.Scanner
	out    io.Writer
	prompt string
	colors palette
	logger *slog.Logger
}

func New(fs *flatfs.FS, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		fs:     fs,
		in:     bufio.NewScanner(in),
		out:    out,
		prompt: "flatfs$ ",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run prints the banner and interprets commands until exit or the end of
// input.  Command failures are reported on the output and don't stop the
// loop; only errors reading input are returned.
func (s *Shell) Run() error {
	fmt.Fprintf(s.out, "%sflatfs%s: %d files. Type 'help' for the list of commands.\n\n",
		s.colors.green, s.colors.reset, s.fs.Len())

	for {
		fmt.Fprintf(s.out, "%s%s%s", s.colors.yellow, s.prompt, s.colors.reset)
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		if exit := s.Exec(s.in.Text()); exit {
			return nil
		}
	}
}

// Exec runs one command line, reporting whether it asked the shell to exit.
func (s *Shell) Exec(line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	name, args := args[0], args[1:]

	cmd, ok := commands[name]
	var err error
	switch {
	case !ok:
		err = fmt.Errorf("%w: %s", errUnknown, name)
	case cmd.nargs >= 0 && len(args) != cmd.nargs, cmd.nargs < 0 && len(args) > 1:
		err = fmt.Errorf("%w: %s", errUsage, cmd.usage)
	case cmd.run == nil:
		return true
	default:
		err = cmd.run(s, args)
	}

	if err != nil {
		s.logger.Debug("command failed", "command", name, "error", err.Error())
		fmt.Fprintf(s.out, "%s%s: %v%s\n", s.colors.red, name, err, s.colors.reset)
	}
	return false
}

func (s *Shell) list(args []string) error {
	path := "/"
	if len(args) == 1 {
		path = args[0]
	}
	entries, err := s.fs.ListDir(path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		fmt.Fprintf(s.out, "%s%-25s%s%s%10d%s\n",
			s.colors.cyan, name, s.colors.reset, s.colors.yellow, e.Size, s.colors.reset)
	}
	return nil
}

func (s *Shell) cat(args []string) error {
	content, err := s.fs.Content(args[0])
	if err != nil {
		return err
	}
	s.out.Write(content)
	if len(content) == 0 || content[len(content)-1] != '\n' {
		fmt.Fprintln(s.out)
	}
	return nil
}

func (s *Shell) touch(args []string) error {
	return s.fs.CreateFile(args[0], false)
}

// edit collects lines until an empty one (or the end of input) and stores
// them, each newline-terminated, as the new content.
func (s *Shell) edit(args []string) error {
	var content strings.Builder
	for {
		fmt.Fprintf(s.out, "%s> %s", s.colors.cyan, s.colors.reset)
		if !s.in.Scan() {
			break
		}
		line := s.in.Text()
		if line == "" {
			break
		}
		content.WriteString(line)
		content.WriteByte('\n')
	}
	if err := s.in.Err(); err != nil {
		return err
	}
	return s.fs.SetContent(args[0], []byte(content.String()))
}

func (s *Shell) tree(args []string) error {
	entries, err := s.fs.ListDir("")
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "/")
	for i, e := range entries {
		branch := "├── "
		if i == len(entries)-1 {
			branch = "└── "
		}
		fmt.Fprintf(s.out, "%s%s%s%s\n", branch, s.colors.cyan, e.Name, s.colors.reset)
	}
	return nil
}

func (s *Shell) rename(args []string) error {
	return s.fs.Rename(args[0], args[1])
}

func (s *Shell) stat(args []string) error {
	e, err := s.fs.Stat(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "name: %s\nsize: %d\ndir:  %t\n", e.Name, e.Size, e.IsDir)
	return nil
}

func (s *Shell) sum(args []string) error {
	sum, err := s.fs.Checksum(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%016x  %s\n", sum, args[0])
	return nil
}

func (s *Shell) fsck(args []string) error {
	if err := s.fs.Check(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%sok%s: %d files\n", s.colors.green, s.colors.reset, s.fs.Len())
	return nil
}

func (s *Shell) help(args []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(s.out, "  %s%-16s%s %s\n", s.colors.bold, cmd.usage, s.colors.reset, cmd.help)
	}
	return nil
}
