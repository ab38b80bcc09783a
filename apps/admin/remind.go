package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// remind emails every user with an email address what is due within the next days.
func (cli *commandLine) remind(ctx context.Context, days int) error {
	profiles, err := cli.profiles.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "querying profiles")
	}
	sent, err := cli.reminder.Send(ctx, profiles, days)
	if err != nil {
		return errors.Wrap(err, "sending reminders")
	}
	fmt.Fprintf(cli.out, "%d reminder(s) sent to %d user(s)\n", sent, len(profiles))
	return nil
}
