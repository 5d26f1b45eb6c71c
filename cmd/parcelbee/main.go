package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/dig"

	"parcelbee-client/internal/adapters/distance"
	"parcelbee-client/internal/app"
	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		return 2
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(stderr)
		return 2
	}

	fs := pflag.NewFlagSet("parcelbee "+name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	act := cmd.setup(fs)

	cfg, err := config.LoadFrom(fs, args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	b := app.NewContainerBuilder(cfg).WithOutput(stdout, stderr)
	if cmd.interactive {
		b = b.WithPrompter(distance.NewStdinPrompter(stdin, stdout))
	}
	container, err := b.Build(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = app.Close(container) }()

	err = act(env{ctx: ctx, container: container, args: fs.Args(), out: stdout})
	if err != nil {
		fmt.Fprintln(stderr, apperr.Message(dig.RootCause(err)))
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: parcelbee <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-9s %s\n", n, commands[n].summary)
	}
}
