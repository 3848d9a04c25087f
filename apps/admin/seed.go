package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core/calendar"
	"github.com/trezcool/tawjih/core/university"
)

const (
	universitiesPath = "assets/data/universities.yaml"
	locationsPath    = "assets/data/locations.yaml"
	calendarPath     = "assets/data/calendar.yaml"
)

// seed imports the reference universities and calendar events; existing rows are kept.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	dir, err := university.LoadDirectory(cli.assets, universitiesPath, locationsPath)
	if err != nil {
		return errors.Wrap(err, "loading universities")
	}
	unis, err := cli.uniSvc.Import(ctx, dir.Universities())
	if err != nil {
		return errors.Wrap(err, "importing universities")
	}

	events, err := calendar.LoadEvents(cli.assets, calendarPath)
	if err != nil {
		return errors.Wrap(err, "loading calendar")
	}
	evs, err := cli.calSvc.Import(ctx, events)
	if err != nil {
		return errors.Wrap(err, "importing calendar")
	}

	fmt.Printf("seeded %d universities and %d events\n", unis, evs)
	return nil
}
