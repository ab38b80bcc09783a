package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/pensum/apps/api/echo"
	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/activity"
	"github.com/trezcool/pensum/core/note"
	"github.com/trezcool/pensum/core/planner"
	"github.com/trezcool/pensum/core/profile"
	"github.com/trezcool/pensum/core/quiz"
	"github.com/trezcool/pensum/core/subject"
	emailsvc "github.com/trezcool/pensum/services/email"
	logsvc "github.com/trezcool/pensum/services/logger"
	"github.com/trezcool/pensum/storage/database"
	dummydb "github.com/trezcool/pensum/storage/database/dummy"
	"github.com/trezcool/pensum/storage/database/sqlxrepos"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	repositories struct {
		dig.Out
		Subjects   subject.Repository
		Notes      note.Repository
		Tags       note.TagRepository
		Flashcards quiz.FlashcardRepository
		Planner    planner.Repository
		Activity   activity.Repository
		Profiles   profile.Repository
		Sessions   quiz.SessionStore
	}

	services struct {
		dig.Out
		ProfileSvc  *profile.Service
		SubjectSvc  *subject.Service
		NoteSvc     *note.Service
		PlannerSvc  *planner.Service
		QuizSvc     *quiz.Service
		ActivitySvc *activity.Service
	}

	serviceParams struct {
		dig.In
		Conf   *core.Config
		Logger core.Logger

		Subjects   subject.Repository
		Notes      note.Repository
		Tags       note.TagRepository
		Flashcards quiz.FlashcardRepository
		Planner    planner.Repository
		Activity   activity.Repository
		Profiles   profile.Repository
		Sessions   quiz.SessionStore
	}

	serverParams struct {
		dig.In
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		ProfileSvc  *profile.Service
		SubjectSvc  *subject.Service
		NoteSvc     *note.Service
		PlannerSvc  *planner.Service
		QuizSvc     *quiz.Service
		ActivitySvc *activity.Service
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBFunc(migrate bool) func(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB) {
	return func(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB) {
		setUp := func() (*sqlx.DB, error) {
			if err := database.CreateIfNotExist(conf); err != nil {
				return nil, err
			}

			db, err := database.Open(conf)
			if err != nil {
				return nil, err
			}

			if migrate {
				if err = database.Migrate(context.Background(), db, conf); err != nil {
					return nil, err
				}
			}
			return db, nil
		}

		db, err := setUp()
		if err != nil {
			loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		return db, db
	}
}

func newRepositories(db core.DB) repositories {
	return repositories{
		Subjects:   sqlxrepos.NewSubjectRepository(db),
		Notes:      sqlxrepos.NewNoteRepository(db),
		Tags:       sqlxrepos.NewTagRepository(db),
		Flashcards: sqlxrepos.NewFlashcardRepository(db),
		Planner:    sqlxrepos.NewPlannerRepository(db),
		Activity:   sqlxrepos.NewActivityRepository(db),
		Profiles:   sqlxrepos.NewProfileRepository(db),
		Sessions:   dummydb.NewSessionStore(dummydb.Open()),
	}
}

func newServices(p serviceParams) services {
	activitySvc := activity.NewService(p.Activity)
	subjectSvc := subject.NewService(p.Subjects, p.Conf)
	noteSvc := note.NewService(p.Notes, p.Tags, subjectSvc, activitySvc, p.Conf, p.Logger)
	return services{
		ProfileSvc:  profile.NewService(p.Profiles, p.Conf),
		SubjectSvc:  subjectSvc,
		NoteSvc:     noteSvc,
		PlannerSvc:  planner.NewService(p.Planner, subjectSvc),
		QuizSvc:     quiz.NewService(p.Flashcards, p.Sessions, subjectSvc, noteSvc, activitySvc, p.Conf, p.Logger),
		ActivitySvc: activitySvc,
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newReminder(svc *planner.Service, mailSvc core.EmailService, logger core.Logger) *planner.Reminder {
	return planner.NewReminder(svc, mailSvc, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:        p.Conf,
		Logger:      p.Logger,
		Validate:    p.Validate,
		Translator:  p.Translator,
		ProfileSvc:  p.ProfileSvc,
		SubjectSvc:  p.SubjectSvc,
		NoteSvc:     p.NoteSvc,
		PlannerSvc:  p.PlannerSvc,
		QuizSvc:     p.QuizSvc,
		ActivitySvc: p.ActivitySvc,
	})
}

// Option customizes the container.
type Option func(*options)

type options struct {
	migrate bool
}

// WithoutMigrations keeps the database schema untouched when it is opened.
func WithoutMigrations() Option {
	return func(o *options) { o.migrate = false }
}

// New returns a new dependency injection dig.Container
func New(opts ...Option) *dig.Container {
	o := options{migrate: true}
	for _, opt := range opts {
		opt(&o)
	}

	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDBFunc(o.migrate)))
	must(c.Provide(newRepositories))
	must(c.Provide(newServices))
	must(c.Provide(newEmailService))
	must(c.Provide(newReminder))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
