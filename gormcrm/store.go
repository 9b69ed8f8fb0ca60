// Package gormcrm persists clients, instruments, contact logs, and
// follow-up reminders through GORM, and feeds the in-memory pipeline.
package gormcrm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	crm "github.com/hcviolins/crm"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

func New(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// AutoMigrate creates or updates every table the store owns.
func (s *Store) AutoMigrate() error {
	err := s.db.AutoMigrate(
		&crm.Client{},
		&crm.Instrument{},
		&crm.ClientInstrument{},
		&crm.ContactLog{},
		&crm.Reminder{},
	)
	return errors.Wrap(err, "auto migrate")
}

func (s *Store) session(ctx context.Context) *gorm.DB {
	db := s.db
	if db.Statement.Context != ctx {
		db = db.WithContext(ctx)
	}
	return db
}

// Clients returns every client in insertion order. The pipeline relies on
// this order being stable between calls.
func (s *Store) Clients(ctx context.Context) ([]*crm.Client, error) {
	var clients []*crm.Client
	if err := s.session(ctx).Order("created_at, id").Find(&clients).Error; err != nil {
		return nil, errors.Wrap(err, "list clients")
	}
	return clients, nil
}

// InstrumentOwners returns the set of client IDs holding at least one
// instrument link.
func (s *Store) InstrumentOwners(ctx context.Context) (crm.InstrumentSet, error) {
	var ids []string
	err := s.session(ctx).
		Model(&crm.ClientInstrument{}).
		Distinct("client_id").
		Pluck("client_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "list instrument owners")
	}
	return crm.NewInstrumentSet(ids...), nil
}

func (s *Store) CreateClient(ctx context.Context, client *crm.Client) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if err := s.session(ctx).Create(client).Error; err != nil {
		return errors.Wrap(err, "create client")
	}
	s.log.Debug().Str("client_id", client.ID).Msg("client created")
	return nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*crm.Client, error) {
	var client crm.Client
	if err := s.session(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "get client %s", id)
	}
	return &client, nil
}

// UpdateClient writes the full record. Nil pointer fields clear the stored
// value rather than keeping it.
func (s *Store) UpdateClient(ctx context.Context, client *crm.Client) error {
	if client.ID == "" {
		return errors.New("client id must be set")
	}
	res := s.session(ctx).Model(client).Select("*").Omit("id", "created_at").Updates(client)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update client %s", client.ID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "update client %s", client.ID)
	}
	return nil
}

// DeleteClient removes the client together with its instrument links,
// contact logs, and reminders.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&crm.ClientInstrument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&crm.ContactLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&crm.Reminder{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&crm.Client{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return errors.Wrapf(err, "delete client %s", id)
}

func (s *Store) CreateInstrument(ctx context.Context, instrument *crm.Instrument) error {
	if instrument.ID == "" {
		instrument.ID = uuid.NewString()
	}
	return errors.Wrap(s.session(ctx).Create(instrument).Error, "create instrument")
}

// LinkInstrument records that a client owns an instrument. Linking the same
// pair twice is an error.
func (s *Store) LinkInstrument(ctx context.Context, clientID, instrumentID string, acquiredAt *time.Time) (*crm.ClientInstrument, error) {
	var count int64
	err := s.session(ctx).
		Model(&crm.ClientInstrument{}).
		Where("client_id = ? AND instrument_id = ?", clientID, instrumentID).
		Count(&count).Error
	if err != nil {
		return nil, errors.Wrap(err, "check instrument link")
	}
	if count > 0 {
		return nil, errors.Errorf("client %s is already linked to instrument %s", clientID, instrumentID)
	}

	link := &crm.ClientInstrument{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		InstrumentID: instrumentID,
		AcquiredAt:   acquiredAt,
	}
	if err := s.session(ctx).Create(link).Error; err != nil {
		return nil, errors.Wrap(err, "link instrument")
	}
	return link, nil
}

func (s *Store) UnlinkInstrument(ctx context.Context, clientID, instrumentID string) error {
	res := s.session(ctx).
		Where("client_id = ? AND instrument_id = ?", clientID, instrumentID).
		Delete(&crm.ClientInstrument{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "unlink instrument")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "unlink instrument %s from client %s", instrumentID, clientID)
	}
	return nil
}

// ClientInstruments returns the instruments a client owns, oldest link first.
func (s *Store) ClientInstruments(ctx context.Context, clientID string) ([]*crm.Instrument, error) {
	var instruments []*crm.Instrument
	err := s.session(ctx).
		Joins("JOIN client_instruments ON client_instruments.instrument_id = instruments.id").
		Where("client_instruments.client_id = ?", clientID).
		Order("client_instruments.created_at").
		Find(&instruments).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list instruments of client %s", clientID)
	}
	return instruments, nil
}

func (s *Store) AddContactLog(ctx context.Context, log *crm.ContactLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.ContactedAt.IsZero() {
		log.ContactedAt = time.Now()
	}
	return errors.Wrap(s.session(ctx).Create(log).Error, "add contact log")
}

// ContactLogs returns a client's touchpoints, newest first.
func (s *Store) ContactLogs(ctx context.Context, clientID string) ([]*crm.ContactLog, error) {
	var logs []*crm.ContactLog
	err := s.session(ctx).
		Where("client_id = ?", clientID).
		Order("contacted_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list contact logs of client %s", clientID)
	}
	return logs, nil
}

func (s *Store) CreateReminder(ctx context.Context, reminder *crm.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}
	return errors.Wrap(s.session(ctx).Create(reminder).Error, "create reminder")
}

// SetReminderCompleted flips the completion flag.
func (s *Store) SetReminderCompleted(ctx context.Context, id string, completed bool) error {
	res := s.session(ctx).
		Model(&crm.Reminder{}).
		Where("id = ?", id).
		Update("completed", completed)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "set reminder %s completed", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "set reminder %s completed", id)
	}
	return nil
}

// ClientReminders returns a client's reminders, soonest due first.
func (s *Store) ClientReminders(ctx context.Context, clientID string) ([]*crm.Reminder, error) {
	var reminders []*crm.Reminder
	err := s.session(ctx).
		Where("client_id = ?", clientID).
		Order("due_at").
		Find(&reminders).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list reminders of client %s", clientID)
	}
	return reminders, nil
}

// RemindersDue returns every open reminder due before the given time.
func (s *Store) RemindersDue(ctx context.Context, before time.Time) ([]*crm.Reminder, error) {
	var reminders []*crm.Reminder
	err := s.session(ctx).
		Where("completed = ? AND due_at < ?", false, before).
		Order("due_at").
		Find(&reminders).Error
	if err != nil {
		return nil, errors.Wrap(err, "list due reminders")
	}
	return reminders, nil
}
