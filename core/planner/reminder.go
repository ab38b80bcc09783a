package planner

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/profile"
)

const reminderTemplate = "study_reminder"

type ReminderData struct {
	Name       string
	WithinDays int
	Items      []UpcomingItem
}

// Reminder emails users about their upcoming exams and deadlines.
type Reminder struct {
	planner *Service
	mailSvc core.EmailService
	logger  core.Logger
}

func NewReminder(planner *Service, mailSvc core.EmailService, logger core.Logger) *Reminder {
	return &Reminder{planner: planner, mailSvc: mailSvc, logger: logger}
}

// Messages builds one reminder per profile having an email address and something coming up.
func (r *Reminder) Messages(ctx context.Context, profiles []profile.Profile, within int) ([]*core.EmailMessage, error) {
	messages := make([]*core.EmailMessage, 0, len(profiles))
	for _, p := range profiles {
		if p.Email == "" {
			continue
		}
		items, err := r.planner.Upcoming(ctx, p.ID, within)
		if err != nil {
			return nil, errors.Wrapf(err, "getting upcoming items of %s", p.ID)
		}
		if len(items) == 0 {
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: p.Name, Address: p.Email}},
			Subject:      fmt.Sprintf("%d things coming up", len(items)),
			TemplateName: reminderTemplate,
			TemplateData: ReminderData{Name: p.Name, WithinDays: within, Items: items},
		})
	}
	return messages, nil
}

// Send sends the reminders and returns how many were queued.
func (r *Reminder) Send(ctx context.Context, profiles []profile.Profile, within int) (int, error) {
	messages, err := r.Messages(ctx, profiles, within)
	if err != nil {
		return 0, err
	}
	r.mailSvc.SendMessages(messages...)
	r.logger.Info(fmt.Sprintf("queued %d reminder(s) for %d profile(s)", len(messages), len(profiles)))
	return len(messages), nil
}
