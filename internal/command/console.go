package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alp4ka/moderator"
)

const consoleHelp = `commands:
  next | n                 show the next page
  prev | p                 show the previous page
  refresh | r              re-read the current page
  filter key=value ...     set filter (q, type, category, status, station, date)
  clear                    drop all filters
  size N                   change the page size
  claim ID                 mark an item as claimed
  flag ID                  flag an item
  delete ID                permanently delete an item
  contact EMAIL            print a mail draft link for the poster
  signin | signout         start or end the session
  help                     show this help
  quit | exit              leave the console`

func NewConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Browse and moderate listings interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			notifier := moderator.NotifierFunc(func(msg string) {
				fmt.Fprintf(cmd.ErrOrStderr(), "! %s\n", msg)
			})

			r := &repl{
				app:     a,
				console: a.console(notifier),
				out:     out,
			}

			return r.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

type repl struct {
	app     *app
	console *moderator.Console
	out     io.Writer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	r.exec(ctx, "signin", nil)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, r.prompt())
		if !scanner.Scan() {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		name := strings.ToLower(fields[0])
		if name == "quit" || name == "exit" {
			return nil
		}

		r.exec(ctx, name, fields[1:])
	}

	return scanner.Err()
}

func (r *repl) prompt() string {
	actor := r.console.Actor()
	if actor == nil {
		return "lfmod (signed out)> "
	}

	return fmt.Sprintf("lfmod %s p%d> ", actor.Claims.Role(), r.console.PageNumber())
}

// exec runs one console command. Failures are already reported through the
// notifier, so only the rendering is left here.
func (r *repl) exec(ctx context.Context, name string, args []string) {
	ctx, cancel := r.app.withTimeout(ctx)
	defer cancel()

	var (
		items []moderator.Item
		err   error
	)

	switch name {
	case "signin":
		items, err = r.console.SignIn(ctx)
	case "signout":
		err = r.console.SignOut(ctx)
		if err == nil {
			fmt.Fprintln(r.out, "Signed out.")
		}
		return
	case "next", "n":
		items, err = r.console.Next(ctx)
	case "prev", "p":
		items, err = r.console.Prev(ctx)
	case "refresh", "r":
		items, err = r.console.Refresh(ctx)
	case "clear":
		items, err = r.console.Clear(ctx)
	case "filter", "f":
		var filter moderator.Filter
		filter, err = parseFilter(args)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return
		}
		items, err = r.console.Apply(ctx, filter)
	case "size":
		var size int
		size, err = parseSingleInt(args)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return
		}
		items, err = r.console.SetPageSize(ctx, size)
	case "claim", "flag", "delete":
		if len(args) != 1 {
			fmt.Fprintf(r.out, "usage: %s ID\n", name)
			return
		}
		items, err = r.console.Act(ctx, moderator.Verb(name), args[0])
	case "contact":
		if len(args) != 1 {
			fmt.Fprintln(r.out, "usage: contact EMAIL")
			return
		}
		var href string
		if href, err = r.console.Contact(args[0]); err == nil {
			fmt.Fprintln(r.out, href)
		}
		return
	case "help", "?":
		fmt.Fprintln(r.out, consoleHelp)
		return
	default:
		fmt.Fprintf(r.out, "unknown command %q, type help\n", name)
		return
	}

	if err != nil && !errors.Is(err, moderator.ErrAuditNotRecorded) {
		return
	}

	renderPage(r.out, items, r.console.PageNumber(), r.console.PageSize(), r.console.Filter())
}

func parseSingleInt(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("usage: size N")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid page size %q", args[0])
	}

	return n, nil
}
