package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/evanschultz/checklist/internal/app"
	"github.com/evanschultz/checklist/internal/prompt"
	"github.com/evanschultz/checklist/internal/render"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// shellHelp lists the line commands.
const shellHelp = `commands:
  input <text>         set the draft for the next task (kept as typed)
  add [text]           add the draft (or text) as a task
  toggle <n|id> [on|off]
                       flip or set a task's done flag
  rm <n|id>            remove a task after confirmation
  ls                   show the list
  help                 show this help
  quit                 leave the shell`

// newShellCommand builds the line-oriented shell command.
func newShellCommand(opts *globalOptions, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var (
		plain bool
		width int
	)
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Manage the list with line commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := resolveRuntime(*opts, true)
			if err != nil {
				return err
			}
			logger, err := newRuntimeLogger(stderr, env.opts.appName, env.opts.devMode, env.cfg.Logging, env.paths.LogDir(), time.Now)
			if err != nil {
				return fmt.Errorf("configure runtime logger: %w", err)
			}
			defer func() {
				if closeErr := logger.Close(); closeErr != nil {
					logger.Warn("close runtime log sink failed", "err", closeErr)
				}
			}()
			logRuntimeResolved(logger, env)

			reader := bufio.NewReader(stdin)
			confirm := prompt.NewRemoveConfirmer(reader, stdout, env.cfg.Confirm.RemovePrompt)
			list := app.NewTaskList(uuid.NewString, confirm, app.WithLogger(logger))
			sh := &shell{
				list:   list,
				reader: reader,
				out:    stdout,
				labels: render.Labels{
					Title:      env.cfg.UI.Title,
					EmptyTitle: env.cfg.UI.EmptyTitle,
					EmptyHint:  env.cfg.UI.EmptyHint,
				},
				width: width,
			}
			if !plain {
				sh.renderer = render.NewRenderer(env.cfg.UI.MarkdownStyle)
			}

			logger.Info("command flow start", "command", "shell")
			if err := sh.run(cmd.Context()); err != nil {
				logger.Error("command flow failed", "command", "shell", "err", err)
				return fmt.Errorf("run shell: %w", err)
			}
			logger.Info("command flow complete", "command", "shell", "tasks", list.Len(), "checked", list.CheckedCount())
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown instead of styled output")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width for styled output")
	return cmd
}

// shell reads commands from one line reader and applies them to the task list.
// Remove confirmations are read from the same reader.
type shell struct {
	list     *app.TaskList
	reader   *bufio.Reader
	out      io.Writer
	renderer *render.Renderer
	labels   render.Labels
	width    int
}

// run loops until quit, EOF, or context cancellation.
func (s *shell) run(ctx context.Context) error {
	s.show()
	for {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line, err := prompt.ReadRawLine(s.reader, s.out, "checklist> ")
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}
		if quit := s.exec(line); quit {
			return nil
		}
	}
}

// exec applies one command line and reports whether the shell should stop.
// Text for input and add is everything after the first space, kept as typed.
func (s *shell) exec(line string) bool {
	name, text, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")
	name = strings.TrimSpace(name)
	rest := strings.TrimSpace(text)
	switch strings.ToLower(name) {
	case "":
	case "help", "?":
		_, _ = fmt.Fprintln(s.out, shellHelp)
	case "ls", "list":
		s.show()
	case "input":
		s.list.SetPendingInput(text)
		_, _ = fmt.Fprintf(s.out, "draft: %q\n", text)
	case "add":
		if rest != "" {
			s.list.SetPendingInput(text)
		}
		if task, ok := s.list.AddTask(); ok {
			_, _ = fmt.Fprintf(s.out, "added #%d %q\n", s.list.Len(), task.Text)
		}
	case "toggle", "x":
		s.toggle(rest)
	case "rm", "remove":
		s.remove(rest)
	case "quit", "exit", "q":
		return true
	default:
		_, _ = fmt.Fprintf(s.out, "unknown command %q (try help)\n", name)
	}
	return false
}

// toggle flips a task, or sets it when on/off is given.
func (s *shell) toggle(args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		_, _ = fmt.Fprintln(s.out, "usage: toggle <n|id> [on|off]")
		return
	}
	id := s.resolveRef(fields[0])
	task, ok := s.list.Task(id)
	value := !task.Checked
	if len(fields) > 1 {
		parsed, err := parseOnOff(fields[1])
		if err != nil {
			_, _ = fmt.Fprintln(s.out, err)
			return
		}
		value = parsed
	}
	if err := s.list.ToggleTask(id, value); err != nil || !ok {
		_, _ = fmt.Fprintf(s.out, "no such task: %s\n", fields[0])
		return
	}
	snap := s.list.Snapshot()
	_, _ = fmt.Fprintf(s.out, "%q is %s (done %d of %d)\n", task.Text, doneLabel(value), snap.Checked, snap.Total)
}

// remove asks for confirmation and removes one task.
func (s *shell) remove(args string) {
	ref := strings.TrimSpace(args)
	if ref == "" {
		_, _ = fmt.Fprintln(s.out, "usage: rm <n|id>")
		return
	}
	removed, err := s.list.RemoveTask(s.resolveRef(ref))
	switch {
	case errors.Is(err, app.ErrNotFound):
		_, _ = fmt.Fprintf(s.out, "no such task: %s\n", ref)
	case err != nil:
		_, _ = fmt.Fprintf(s.out, "remove failed: %v\n", err)
	case removed:
		_, _ = fmt.Fprintln(s.out, "removed")
	default:
		_, _ = fmt.Fprintln(s.out, "kept")
	}
}

// resolveRef maps a 1-based position to a task id; anything else is treated as an id.
func (s *shell) resolveRef(ref string) string {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref
	}
	task, ok := s.list.TaskAt(n - 1)
	if !ok {
		return ""
	}
	return task.ID
}

// show prints the current list.
func (s *shell) show() {
	markdown := render.Markdown(s.list.Snapshot(), s.labels)
	if s.renderer != nil {
		markdown = s.renderer.Render(markdown, s.width)
	}
	_, _ = fmt.Fprintln(s.out, strings.TrimRight(markdown, "\n"))
}

// parseOnOff parses a toggle target value.
func parseOnOff(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "done", "yes", "true", "1":
		return true, nil
	case "off", "open", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", raw)
	}
}

// doneLabel describes a checked flag.
func doneLabel(checked bool) string {
	if checked {
		return "done"
	}
	return "open"
}
