package cli

import (
	"context"
	"fmt"

	"github.com/rpggio/readtrail/internal/domain/insight"
)

// Execute implements the go-flags Commander interface for FacetsCommand.
func (c *FacetsCommand) Execute(args []string) error {
	field, err := insight.ParseFacetField(c.Field)
	if err != nil {
		return err
	}

	a, release, err := c.env.open()
	if err != nil {
		return err
	}
	defer release()

	f, err := c.filter(a.insight)
	if err != nil {
		return err
	}
	facets, err := a.insight.Facets(context.Background(), field, c.Limit, f)
	if err != nil {
		return fmt.Errorf("count %s: %w", field, err)
	}

	if c.env.globals.JSON {
		if facets == nil {
			facets = []insight.Facet{}
		}
		return writeJSON(c.env.out(), facets)
	}

	w := c.env.out()
	if len(facets) == 0 {
		fmt.Fprintf(w, "No %s.\n", field)
		return nil
	}
	for _, facet := range facets {
		fmt.Fprintf(w, "  %-24s %d\n", facet.Value, facet.Count)
	}
	return nil
}
