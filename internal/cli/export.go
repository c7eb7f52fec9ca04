package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpggio/readtrail/internal/domain/export"
)

type exportJSON struct {
	Text      string `json:"text"`
	Records   int    `json:"records"`
	Articles  int    `json:"articles"`
	Published bool   `json:"published"`
}

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	a, release, err := c.env.open()
	if err != nil {
		return err
	}
	defer release()

	f, err := c.filter(a.insight)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var res export.Result
	if c.Publish {
		res, err = a.export.Publish(ctx, f)
	} else {
		res, err = a.export.Render(ctx, f)
	}
	w := c.env.out()
	if errors.Is(err, export.ErrNothingToExport) {
		fmt.Fprintln(w, "Nothing to export.")
		return nil
	}
	if err != nil {
		return err
	}

	if c.env.globals.JSON {
		return writeJSON(w, exportJSON{Text: res.Text, Records: res.Records, Articles: res.Articles, Published: c.Publish})
	}
	fmt.Fprint(w, res.Text)
	if c.Publish {
		fmt.Fprintf(w, "\nPublished %d activities across %d articles.\n", res.Records, res.Articles)
	}
	return nil
}
