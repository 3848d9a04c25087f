// Package calendar manages the orientation calendar and emails reminders about upcoming deadlines.
package calendar

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
)

const DefaultUpcomingLimit = 5

var (
	NowFunc = time.Now // mockable

	ErrNotFound = errors.New("event not found")
)

type (
	Repository interface {
		CreateEvent(ctx context.Context, ev Event) (Event, error)
		// QueryEvents applies AND operation on available QueryFilter fields.
		QueryEvents(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Event, error)
		GetEvent(ctx context.Context, id string) (Event, error)
		UpdateEvent(ctx context.Context, ev Event) (Event, error)
		DeleteEvents(ctx context.Context, ids ...string) error
	}

	// RecipientSource lists who gets the calendar reminders.
	RecipientSource interface {
		ReminderRecipients(ctx context.Context) ([]mail.Address, error)
	}

	Service interface {
		Create(ctx context.Context, ne NewEvent) (Event, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Event, error)
		GetByID(ctx context.Context, id string) (Event, error)
		Update(ctx context.Context, id string, ue UpdateEvent) (Event, error)
		Delete(ctx context.Context, ids ...string) error
		Import(ctx context.Context, events []Event) (int, error)

		ByCategory(ctx context.Context, c Category) ([]Event, error)
		// ByMonth lists the events of `month` (1-12) of `year`, by date.
		ByMonth(ctx context.Context, month, year int) ([]Event, error)
		// Upcoming lists the next `limit` events from today on, by date.
		Upcoming(ctx context.Context, limit int) ([]Event, error)
		CurrentMonth(ctx context.Context) ([]Event, error)

		// SendReminders emails every recipient about the events due within `within` from now.
		// It returns the number of reminded events.
		SendReminders(ctx context.Context, within time.Duration) (int, error)
	}

	service struct {
		repo       Repository
		recipients RecipientSource
		mailSvc    core.EmailService
	}
)

var _ Service = (*service)(nil)

var byDate = []core.DBOrdering{{Field: "date", Ascending: true}}

func NewService(repo Repository, recipients RecipientSource, mailSvc core.EmailService) Service {
	return &service{repo: repo, recipients: recipients, mailSvc: mailSvc}
}

func (svc *service) Create(ctx context.Context, ne NewEvent) (Event, error) {
	date, err := ParseDate(ne.Date)
	if err != nil {
		return Event{}, errors.Wrap(err, "parsing date")
	}
	now := time.Now().UTC()
	ev := Event{
		ID:            uuid.New().String(),
		Title:         ne.Title,
		TitleFr:       ne.TitleFr,
		Date:          date,
		Description:   ne.Description,
		DescriptionFr: ne.DescriptionFr,
		Category:      Category(ne.Category),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateEvent(ctx, ev)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Event, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	if len(ordering) == 0 {
		ordering = byDate
	}
	return svc.repo.QueryEvents(ctx, filter, ordering...)
}

func (svc *service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEvent(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ue UpdateEvent) (Event, error) {
	orig, err := svc.repo.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	ev := ue.apply(orig)
	ev.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEvent(ctx, ev)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEvents(ctx, ids...)
}

// Import creates the events not known yet (same date and title) and returns how many were created.
func (svc *service) Import(ctx context.Context, events []Event) (int, error) {
	existing, err := svc.repo.QueryEvents(ctx, new(QueryFilter))
	if err != nil {
		return 0, errors.Wrap(err, "querying events")
	}
	known := make(map[string]bool, len(existing))
	key := func(ev Event) string { return ev.Date.UTC().Format(DateLayout) + "|" + ev.Title }
	for _, ev := range existing {
		known[key(ev)] = true
	}

	var created int
	for _, ev := range events {
		if known[key(ev)] {
			continue
		}
		now := time.Now().UTC()
		ev.ID = uuid.New().String()
		ev.Date = ev.Date.UTC()
		ev.CreatedAt, ev.UpdatedAt = now, now
		if _, err := svc.repo.CreateEvent(ctx, ev); err != nil {
			return created, errors.Wrapf(err, "creating %q", ev.Title)
		}
		known[key(ev)] = true
		created++
	}
	return created, nil
}

func (svc *service) ByCategory(ctx context.Context, c Category) ([]Event, error) {
	return svc.repo.QueryEvents(ctx, &QueryFilter{Category: string(c)}, byDate...)
}

func (svc *service) ByMonth(ctx context.Context, month, year int) ([]Event, error) {
	if month < 1 || month > 12 {
		return []Event{}, nil
	}
	return svc.repo.QueryEvents(ctx, &QueryFilter{Month: month, Year: year}, byDate...)
}

func (svc *service) Upcoming(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	events, err := svc.eventsBetween(ctx, today(), time.Time{})
	if err != nil {
		return nil, err
	}
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (svc *service) CurrentMonth(ctx context.Context) ([]Event, error) {
	now := NowFunc().UTC()
	return svc.ByMonth(ctx, int(now.Month()), now.Year())
}

// eventsBetween returns the events dated in [from, to], by date. A zero `to` means no upper bound.
func (svc *service) eventsBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	all, err := svc.repo.QueryEvents(ctx, new(QueryFilter), byDate...)
	if err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]Event, 0)
	for _, ev := range all {
		if ev.Date.Before(from) || (!to.IsZero() && ev.Date.After(to)) {
			continue
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

type (
	reminderEvent struct {
		Title    string
		TitleFr  string
		Date     string
		Category string
		DaysLeft int
	}

	reminderData struct {
		Events []reminderEvent
	}
)

func (svc *service) SendReminders(ctx context.Context, within time.Duration) (int, error) {
	from := today()
	events, err := svc.eventsBetween(ctx, from, NowFunc().UTC().Add(within))
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	recipients, err := svc.recipients.ReminderRecipients(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "listing reminder recipients")
	}

	data := reminderData{Events: make([]reminderEvent, 0, len(events))}
	for _, ev := range events {
		data.Events = append(data.Events, reminderEvent{
			Title:    ev.Title,
			TitleFr:  ev.TitleFr,
			Date:     ev.Date.Format(DateLayout),
			Category: ev.Category.Label(core.LangAr),
			DaysLeft: int(ev.Date.Sub(from).Hours() / 24),
		})
	}

	msgs := make([]*core.EmailMessage, 0, len(recipients))
	for _, to := range recipients {
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{to},
			Subject:      fmt.Sprintf("مواعيد التوجيه القادمة (%d)", len(events)),
			TemplateName: "calendar_reminder",
			TemplateData: data,
		})
	}
	svc.mailSvc.SendMessages(msgs...)
	return len(events), nil
}

// today is the current UTC date at midnight.
func today() time.Time {
	y, m, d := NowFunc().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate cleans and validates the payload.
func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.clean()
	return validate.Struct(ne)
}

func (ue *UpdateEvent) Validate(validate *validator.Validate) error {
	ue.Category = core.CleanString(ue.Category, true /* lower */)
	ue.Date = core.CleanString(ue.Date)
	return validate.Struct(ue)
}
