package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/LerianStudio/lib-openhours/openhours"
	"github.com/LerianStudio/lib-openhours/openhours/catalog"
	"github.com/LerianStudio/lib-openhours/openhours/hours"
)

const noOpening = "none"

type queryFlags struct {
	hours   string
	at      string
	place   string
	catalog string
	label   bool
}

func newQueryFlagSet(name string, stderr io.Writer, withLabel bool) (*pflag.FlagSet, *queryFlags) {
	flags := &queryFlags{}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&flags.hours, "hours", "", "opening-hours text, e.g. \"Mo-Fr 09:00-18:00\"")
	fs.StringVar(&flags.at, "at", "", "RFC 3339 instant to query (default now)")
	fs.StringVar(&flags.place, "place", "", "catalog place to query instead of --hours")
	fs.StringVar(&flags.catalog, "catalog", openhours.GetenvOrDefault("CATALOG_PATH", ""), "YAML catalog of places")

	if withLabel {
		fs.BoolVar(&flags.label, "label", false, "print \"<Day> <HH:MM>\" instead of an instant")
	}

	return fs, flags
}

func parseQueryFlags(fs *pflag.FlagSet, flags *queryFlags, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %s", errUsage, strings.Join(fs.Args(), " "))
	}

	if flags.place != "" && fs.Changed("hours") {
		return fmt.Errorf("%w: --hours and --place are mutually exclusive", errUsage)
	}

	if flags.place != "" && flags.catalog == "" {
		return fmt.Errorf("%w: --place requires --catalog or CATALOG_PATH", errUsage)
	}

	return nil
}

// resolve returns the schedule and instant the query is about.
func (flags *queryFlags) resolve(now func() time.Time) (hours.Schedule, time.Time, error) {
	at, err := hours.ParseInstant(flags.at, now)
	if err != nil {
		return nil, time.Time{}, err
	}

	if flags.place == "" {
		schedule, err := hours.Parse(flags.hours)
		if err != nil {
			return nil, time.Time{}, err
		}

		return schedule, at, nil
	}

	places, err := catalog.Load(flags.catalog)
	if err != nil {
		return nil, time.Time{}, err
	}

	place, err := places.Get(flags.place)
	if err != nil {
		return nil, time.Time{}, err
	}

	return place.Schedule, at, nil
}

func runStatus(args []string, stdout, stderr io.Writer, now func() time.Time) error {
	fs, flags := newQueryFlagSet("status", stderr, false)
	if err := parseQueryFlags(fs, flags, args); err != nil {
		return err
	}

	schedule, at, err := flags.resolve(now)
	if err != nil {
		return err
	}

	status, err := schedule.StatusAt(at)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, status)

	return err
}

func runNext(args []string, stdout, stderr io.Writer, now func() time.Time) error {
	fs, flags := newQueryFlagSet("next", stderr, true)
	if err := parseQueryFlags(fs, flags, args); err != nil {
		return err
	}

	schedule, at, err := flags.resolve(now)
	if err != nil {
		return err
	}

	opening, err := schedule.NextOpenAt(at)
	if err != nil {
		return err
	}

	switch {
	case opening == nil:
		_, err = fmt.Fprintln(stdout, noOpening)
	case flags.label:
		_, err = fmt.Fprintln(stdout, opening.Label())
	default:
		_, err = fmt.Fprintln(stdout, opening.At.Format(time.RFC3339))
	}

	return err
}
