// Command pcre runs delimited regular expressions from the command line and
// serves them over HTTP.
//
//	pcre match '(\w+)@(\w+)' 'mail bob@example.com'
//	pcre replace -limit 2 '(#\w+) (\w+)' '#foo bar #baz boo' '$1 LOL'
//	echo 'a,b,,c' | pcre split ',' -
//	pcre serve -listen :7780
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/coregx/pcre"
)

var (
	// Version is set at build time.
	Version = "dev"
)

// env is the state shared by every subcommand, set up in Before.
type env struct {
	settings *Settings
	pcre     *pcre.PCRE
	log      zerolog.Logger
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pcre",
		Usage:   "run delimited regular expressions",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to the configuration file (default: pcre.yaml)"},
			&cli.StringFlag{Name: "backend", Usage: "regex engine: auto, coregex, regexp2 or literal"},
			&cli.StringFlag{Name: "delimiter", Usage: "pattern delimiter"},
			&cli.IntFlag{Name: "cache-size", Usage: "number of compiled patterns to keep"},
			&cli.DurationFlag{Name: "match-timeout", Usage: "bound on each backtracking search"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
		},
		Before: setup,
		Commands: []*cli.Command{
			matchCommand,
			matchAllCommand,
			replaceCommand,
			splitCommand,
			quoteCommand,
			composeCommand,
			serveCommand,
		},
	}
}

// setup loads the configuration and builds the PCRE instance.
func setup(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	log, err := settings.newLogger()
	if err != nil {
		return err
	}
	config, err := settings.Config()
	if err != nil {
		return err
	}
	p, err := pcre.New(config)
	if err != nil {
		return err
	}

	pcre.SetLogger(log)
	if settings.ConfigFile != "" {
		log.Debug().Str("file", settings.ConfigFile).Msg("using config file")
	}

	c.App.Metadata = map[string]any{"env": &env{settings: settings, pcre: p, log: log}}
	return nil
}

func getEnv(c *cli.Context) *env {
	return c.App.Metadata["env"].(*env)
}

func main() {
	err := newApp().Run(os.Args)
	switch {
	case err == nil:
	case errors.Is(err, errNoMatch):
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "pcre:", err)
		os.Exit(2)
	}
}
