package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LerianStudio/lib-openhours/openhours/assert"
	"github.com/LerianStudio/lib-openhours/openhours/hours"
)

var (
	// ErrInvalidCatalog is returned when a catalog document is malformed.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrPlaceNotFound is returned when a place name is not in the catalog.
	ErrPlaceNotFound = errors.New("place not found")
)

// Place is a named location with its parsed opening hours.
type Place struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Hours       string         `json:"hours"`
	Schedule    hours.Schedule `json:"-"`
}

// Catalog is an immutable set of places keyed by name. It is safe for concurrent use.
type Catalog struct {
	places map[string]Place
	names  []string
}

type document struct {
	Places []entry `yaml:"places"`
}

type entry struct {
	Name        string `yaml:"name"`
	Hours       string `yaml:"hours"`
	Description string `yaml:"description"`
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %q: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes a YAML catalog and parses every schedule eagerly. A malformed
// schedule fails the whole catalog; the error keeps the *hours.ParseError chain.
//
//	places:
//	  - name: bakery
//	    hours: "Mo-Fr 07:00-13:00; Sa 08:00-12:00"
func Parse(data []byte) (*Catalog, error) {
	var doc document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	catalog := &Catalog{
		places: make(map[string]Place, len(doc.Places)),
		names:  make([]string, 0, len(doc.Places)),
	}

	for i, item := range doc.Places {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: place #%d has no name", ErrInvalidCatalog, i+1)
		}

		if _, exists := catalog.places[name]; exists {
			return nil, fmt.Errorf("%w: duplicate place %q", ErrInvalidCatalog, name)
		}

		schedule, err := hours.Parse(item.Hours)
		if err != nil {
			return nil, fmt.Errorf("%w: place %q: %w", ErrInvalidCatalog, name, err)
		}

		if err := checkParsed(context.Background(), name, schedule); err != nil {
			return nil, fmt.Errorf("%w: place %q: %w", ErrInvalidCatalog, name, err)
		}

		catalog.places[name] = Place{
			Name:        name,
			Description: item.Description,
			Hours:       item.Hours,
			Schedule:    schedule,
		}
		catalog.names = append(catalog.names, name)
	}

	slices.Sort(catalog.names)

	return catalog, nil
}

// checkParsed asserts what every served schedule relies on: each day carries
// at least one interval and the canonical rendering parses back.
func checkParsed(ctx context.Context, name string, schedule hours.Schedule) error {
	asserter := assert.New(ctx, nil, "catalog", "Parse")

	for _, entry := range schedule {
		if err := asserter.That(ctx, len(entry.Intervals) > 0, "parsed day has no intervals",
			"place", name,
			"day", hours.WeekdayName(entry.Day),
		); err != nil {
			return err
		}
	}

	_, err := hours.Parse(schedule.String())

	return asserter.NoError(ctx, err, "canonical schedule does not parse back", "place", name)
}

// Empty returns a catalog with no places.
func Empty() *Catalog {
	return &Catalog{places: map[string]Place{}}
}

// Lookup returns the place called name.
func (c *Catalog) Lookup(name string) (Place, bool) {
	if c == nil {
		return Place{}, false
	}

	place, ok := c.places[name]

	return place, ok
}

// Get is Lookup returning ErrPlaceNotFound for unknown names.
func (c *Catalog) Get(name string) (Place, error) {
	place, ok := c.Lookup(name)
	if !ok {
		return Place{}, fmt.Errorf("%w: %q", ErrPlaceNotFound, name)
	}

	return place, nil
}

// Names returns the place names in ascending order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}

	return slices.Clone(c.names)
}

// Len returns the number of places.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.names)
}
