package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/planner"
	"github.com/trezcool/pensum/core/profile"
	"github.com/trezcool/pensum/core/quiz"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	db       *sqlx.DB
	profiles *profile.Service
	quizSvc  *quiz.Service
	reminder *planner.Reminder
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  remind [-days N]       - email every user what is coming up in the next N days")
	fmt.Fprintln(cli.out, "  quiz -user ID -subject ID - print the basic quiz generated from a subject's notes")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	remindCmd := flag.NewFlagSet("remind", flag.ContinueOnError)
	remindCmd.SetOutput(cli.out)
	remindDays := remindCmd.Int("days", cli.conf.Reminders.WithinDays, "Number of days to look ahead.")

	quizCmd := flag.NewFlagSet("quiz", flag.ContinueOnError)
	quizCmd.SetOutput(cli.out)
	quizUser := quizCmd.String("user", "", "The ID of the subject's owner.")
	quizSubject := quizCmd.String("subject", "", "The ID of the subject.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	case "remind":
		if err := remindCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *remindDays < 0 {
			remindCmd.Usage()
			return errHelp
		}
		return cli.remind(ctx, *remindDays)
	case "quiz":
		if err := quizCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *quizUser == "" || *quizSubject == "" {
			quizCmd.Usage()
			return errHelp
		}
		return cli.quiz(ctx, *quizUser, *quizSubject)
	default:
		cli.printUsage()
		return errHelp
	}
}
