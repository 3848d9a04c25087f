package calendar

import (
	"io/fs"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadEvents reads the YAML list of events `name` from fsys.
func LoadEvents(fsys fs.FS, name string) ([]Event, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	var events []Event
	if err = yaml.Unmarshal(data, &events); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", name)
	}
	for i, ev := range events {
		if !ev.Category.Valid() {
			return nil, errors.Errorf("%s: event %q: unknown category %q", name, ev.ID, ev.Category)
		}
		events[i].Date = ev.Date.UTC()
	}
	return events, nil
}
