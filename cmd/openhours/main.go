// Command openhours answers opening-hours questions from the command line and
// serves them over HTTP.
//
//	openhours status --hours "Mo-Fr 09:00-18:00" --at 2026-01-05T10:00:00Z
//	openhours next --place bakery --catalog places.yaml --label
//	openhours serve
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage error")

const usage = `usage: openhours <command> [flags]

commands:
  status   print open, closed or unknown for an instant
  next     print the next opening instant (or label), or none
  serve    run the HTTP API
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)

		return exitUsage
	}

	var err error

	switch args[0] {
	case "status":
		err = runStatus(args[1:], stdout, stderr, now)
	case "next":
		err = runNext(args[1:], stdout, stderr, now)
	case "serve":
		err = runServe(args[1:], stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)

		return exitOK
	default:
		fmt.Fprintf(stderr, "openhours: unknown command %q\n\n%s", args[0], usage)

		return exitUsage
	}

	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}

	fmt.Fprintf(stderr, "openhours: %v\n", err)

	if errors.Is(err, errUsage) {
		return exitUsage
	}

	return exitFailure
}
