package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	w := c.env.out()
	if !c.Force {
		fmt.Fprintln(w, "WARNING: This will permanently delete ALL recorded reading activity.")
		fmt.Fprintln(w, "This action cannot be undone.")
		fmt.Fprintln(w)
		fmt.Fprint(w, `Type "PURGE" to confirm: `)

		if c.env.stdin == nil {
			return fmt.Errorf("aborted: no input received")
		}
		scanner := bufio.NewScanner(c.env.stdin)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		if strings.TrimSpace(scanner.Text()) != "PURGE" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	a, release, err := c.env.open()
	if err != nil {
		return err
	}
	defer release()

	n, err := a.repo.Purge(context.Background())
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if c.env.globals.JSON {
		return writeJSON(w, map[string]any{
			"purged":  true,
			"deleted": n,
		})
	}
	fmt.Fprintf(w, "Purged %d activities. The activity log is empty.\n", n)
	return nil
}
