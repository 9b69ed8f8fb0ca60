// Package report runs aggregate queries straight against the database. It
// reads the same tables gormcrm writes but goes through sqlx, since these
// rollups are easier to say in SQL than through the ORM.
package report

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Reporter struct {
	db  *sqlx.DB
	log zerolog.Logger
}

func New(db *sqlx.DB, log zerolog.Logger) *Reporter {
	return &Reporter{db: db, log: log}
}

// TagCount is one row of the tag frequency report.
type TagCount struct {
	Tag   string `db:"tag" json:"tag"`
	Count int    `db:"count" json:"count"`
}

// TagCounts reports how many clients carry each tag, most common first.
func (r *Reporter) TagCounts(ctx context.Context) ([]TagCount, error) {
	const q = `
		SELECT t.tag, count(*) AS count
		FROM clients, jsonb_array_elements_text(tags::jsonb) AS t(tag)
		GROUP BY t.tag
		ORDER BY count DESC, t.tag
	`
	var counts []TagCount
	if err := r.db.SelectContext(ctx, &counts, q); err != nil {
		return nil, errors.Wrap(err, "tag counts")
	}
	return counts, nil
}

// InterestCount is one row of the interest breakdown. Clients with no
// interest recorded report under the empty string.
type InterestCount struct {
	Interest string `db:"interest" json:"interest"`
	Count    int    `db:"count" json:"count"`
}

func (r *Reporter) InterestBreakdown(ctx context.Context) ([]InterestCount, error) {
	const q = `
		SELECT COALESCE(interest, '') AS interest, count(*) AS count
		FROM clients
		GROUP BY COALESCE(interest, '')
		ORDER BY count DESC, interest
	`
	var counts []InterestCount
	if err := r.db.SelectContext(ctx, &counts, q); err != nil {
		return nil, errors.Wrap(err, "interest breakdown")
	}
	return counts, nil
}

// DueReminder is an open reminder joined with the client it belongs to.
type DueReminder struct {
	ReminderID string    `db:"reminder_id" json:"reminder_id"`
	ClientID   string    `db:"client_id" json:"client_id"`
	FirstName  *string   `db:"first_name" json:"first_name"`
	LastName   *string   `db:"last_name" json:"last_name"`
	Message    string    `db:"message" json:"message"`
	DueAt      time.Time `db:"due_at" json:"due_at"`
}

// RemindersDue lists open reminders due before the given time, soonest first.
func (r *Reporter) RemindersDue(ctx context.Context, before time.Time) ([]DueReminder, error) {
	const q = `
		SELECT rm.id AS reminder_id, rm.client_id, c.first_name, c.last_name, rm.message, rm.due_at
		FROM reminders rm
		JOIN clients c ON c.id = rm.client_id
		WHERE rm.completed = false AND rm.due_at < $1
		ORDER BY rm.due_at
	`
	var due []DueReminder
	if err := r.db.SelectContext(ctx, &due, q, before); err != nil {
		return nil, errors.Wrap(err, "reminders due")
	}
	return due, nil
}

// ClientsWithoutInstruments counts clients holding no instrument link.
func (r *Reporter) ClientsWithoutInstruments(ctx context.Context) (int, error) {
	const q = `
		SELECT count(*)
		FROM clients c
		WHERE NOT EXISTS (
			SELECT 1 FROM client_instruments ci WHERE ci.client_id = c.id
		)
	`
	var count int
	if err := r.db.GetContext(ctx, &count, q); err != nil {
		return 0, errors.Wrap(err, "clients without instruments")
	}
	return count, nil
}
