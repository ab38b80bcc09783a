package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	dig_container "github.com/trezcool/pensum/apps/api/di/dig"
	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/planner"
	"github.com/trezcool/pensum/core/profile"
	"github.com/trezcool/pensum/core/quiz"
)

func main() {
	c := dig_container.New(dig_container.WithoutMigrations())

	code := 0
	err := c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		db *sqlx.DB,
		profileSvc *profile.Service,
		quizSvc *quiz.Service,
		reminder *planner.Reminder,
	) {
		defer db.Close()
		core.ParseEmailTemplates(conf, logger)

		cli := commandLine{
			conf:     conf,
			db:       db,
			profiles: profileSvc,
			quizSvc:  quizSvc,
			reminder: reminder,
			out:      os.Stdout,
		}
		if err := cli.run(os.Args); err != nil {
			if err != errHelp {
				logger.Error("admin: "+err.Error(), err)
			}
			code = 1
		}
	})
	if err != nil {
		log.Println(err)
		code = 1
	}
	os.Exit(code)
}
