package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// quiz prints the questions generated from the subject's notes.
func (cli *commandLine) quiz(ctx context.Context, userID, subjectID string) error {
	questions, err := cli.quizSvc.Preview(ctx, userID, subjectID)
	if err != nil {
		return errors.Wrap(err, "generating quiz")
	}
	if len(questions) == 0 {
		fmt.Fprintln(cli.out, "not enough content to quiz on")
		return nil
	}
	for i, q := range questions {
		fmt.Fprintf(cli.out, "%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			mark := " "
			if opt == q.CorrectAnswer {
				mark = "*"
			}
			fmt.Fprintf(cli.out, "   %s %c) %s\n", mark, 'a'+j, opt)
		}
	}
	return nil
}
