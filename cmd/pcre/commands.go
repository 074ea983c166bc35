package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/coregx/pcre"
	"github.com/coregx/pcre/engine"
	"github.com/coregx/pcre/internal/server"
)

// errNoMatch makes the process exit with status 1, like grep.
var errNoMatch = errors.New("no match")

var (
	flagsFlag = &cli.StringFlag{
		Name:    "flags",
		Aliases: []string{"f"},
		Usage:   "modifier letters, e.g. im",
	}
	limitFlag = &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"l"},
		Value:   pcre.NoLimit,
		Usage:   "maximum number of replacements or pieces; negative means no limit",
	}

	matchCommand = &cli.Command{
		Name:      "match",
		Usage:     "print the groups of the first match",
		ArgsUsage: "PATTERN SUBJECT",
		Flags:     []cli.Flag{flagsFlag},
		Action:    matchCmd,
	}
	matchAllCommand = &cli.Command{
		Name:      "match-all",
		Usage:     "print every match",
		ArgsUsage: "PATTERN SUBJECT",
		Flags:     []cli.Flag{flagsFlag},
		Action:    matchAllCmd,
	}
	replaceCommand = &cli.Command{
		Name:      "replace",
		Usage:     "replace matches; $n, ${n} and \\n refer to groups",
		ArgsUsage: "PATTERN SUBJECT REPLACEMENT",
		Flags:     []cli.Flag{flagsFlag, limitFlag},
		Action:    replaceCmd,
	}
	splitCommand = &cli.Command{
		Name:      "split",
		Usage:     "split around matches, one piece per line",
		ArgsUsage: "PATTERN SUBJECT",
		Flags:     []cli.Flag{flagsFlag, limitFlag},
		Action:    splitCmd,
	}
	quoteCommand = &cli.Command{
		Name:      "quote",
		Usage:     "escape text so that it matches literally",
		ArgsUsage: "TEXT",
		Action:    quoteCmd,
	}
	composeCommand = &cli.Command{
		Name:      "compose",
		Usage:     "print the delimited form of a pattern",
		ArgsUsage: "PATTERN",
		Flags:     []cli.Flag{flagsFlag},
		Action:    composeCmd,
	}
	serveCommand = &cli.Command{
		Name:  "serve",
		Usage: "serve the JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Usage: "listen address (default :7780)"},
		},
		Action: serveCmd,
	}
)

// args returns exactly n positional arguments. A SUBJECT of "-" is read
// from standard input.
func args(c *cli.Context, names ...string) ([]string, error) {
	if c.NArg() != len(names) {
		return nil, fmt.Errorf("%s: expected %s", c.Command.Name, strings.Join(names, " "))
	}
	out := c.Args().Slice()
	for i, name := range names {
		if name != "SUBJECT" || out[i] != "-" {
			continue
		}
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return nil, fmt.Errorf("reading subject: %w", err)
		}
		out[i] = strings.TrimSuffix(string(data), "\n")
	}
	return out, nil
}

func flags(c *cli.Context) (pcre.Flags, error) {
	return engine.ParseModifiers(c.String("flags"))
}

func matchCmd(c *cli.Context) error {
	a, err := args(c, "PATTERN", "SUBJECT")
	if err != nil {
		return err
	}
	f, err := flags(c)
	if err != nil {
		return err
	}

	m, err := getEnv(c).pcre.Match(a[0], a[1], f)
	if err != nil {
		return err
	}
	if m == nil {
		return errNoMatch
	}
	for _, g := range m.Groups() {
		label := strconv.Itoa(g.Index)
		if g.Name != "" {
			label += ":" + g.Name
		}
		fmt.Fprintf(c.App.Writer, "%s\t%d\t%s\n", label, g.Offset, g.Text)
	}
	return nil
}

func matchAllCmd(c *cli.Context) error {
	a, err := args(c, "PATTERN", "SUBJECT")
	if err != nil {
		return err
	}
	f, err := flags(c)
	if err != nil {
		return err
	}

	matches, err := getEnv(c).pcre.MatchAll(a[0], a[1], f)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return errNoMatch
	}
	for _, m := range matches {
		offset, _ := m.Offset(0)
		fmt.Fprintf(c.App.Writer, "%d\t%s\n", offset, m.String())
	}
	return nil
}

func replaceCmd(c *cli.Context) error {
	a, err := args(c, "PATTERN", "SUBJECT", "REPLACEMENT")
	if err != nil {
		return err
	}
	f, err := flags(c)
	if err != nil {
		return err
	}

	out, err := getEnv(c).pcre.Replace(a[0], a[1], a[2], c.Int("limit"), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, out)
	return nil
}

func splitCmd(c *cli.Context) error {
	a, err := args(c, "PATTERN", "SUBJECT")
	if err != nil {
		return err
	}
	f, err := flags(c)
	if err != nil {
		return err
	}

	pieces, err := getEnv(c).pcre.Split(a[0], a[1], c.Int("limit"), f)
	if err != nil {
		return err
	}
	for _, piece := range pieces {
		fmt.Fprintln(c.App.Writer, piece)
	}
	return nil
}

func quoteCmd(c *cli.Context) error {
	a, err := args(c, "TEXT")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, getEnv(c).pcre.Quote(a[0]))
	return nil
}

func composeCmd(c *cli.Context) error {
	a, err := args(c, "PATTERN")
	if err != nil {
		return err
	}
	f, err := flags(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, getEnv(c).pcre.Compose(a[0], f))
	return nil
}

func serveCmd(c *cli.Context) error {
	e := getEnv(c)
	addr := e.settings.Listen
	if c.IsSet("listen") {
		addr = c.String("listen")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(e.pcre, e.log)
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start(addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	e.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
