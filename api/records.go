package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	crm "github.com/hcviolins/crm"
)

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.ContactLogs(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var log crm.ContactLog
	if err := json.NewDecoder(r.Body).Decode(&log); err != nil {
		s.writeBadRequest(w, "invalid contact log payload")
		return
	}
	log.ID = ""
	log.ClientID = mux.Vars(r)["id"]

	if _, err := s.store.GetClient(r.Context(), log.ClientID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.AddContactLog(r.Context(), &log); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &log)
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.store.ClientReminders(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reminders)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var reminder crm.Reminder
	if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
		s.writeBadRequest(w, "invalid reminder payload")
		return
	}
	if reminder.Message == "" {
		s.writeBadRequest(w, "reminder message must be set")
		return
	}
	if reminder.DueAt.IsZero() {
		s.writeBadRequest(w, "reminder due_at must be set")
		return
	}
	reminder.ID = ""
	reminder.ClientID = mux.Vars(r)["id"]
	reminder.Completed = false

	if _, err := s.store.GetClient(r.Context(), reminder.ClientID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.CreateReminder(r.Context(), &reminder); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &reminder)
}

func (s *Server) handleCompleteReminder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Completed *bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		s.writeBadRequest(w, "invalid payload")
		return
	}
	completed := true
	if body.Completed != nil {
		completed = *body.Completed
	}

	if err := s.store.SetReminderCompleted(r.Context(), mux.Vars(r)["id"], completed); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCreateInstrument(w http.ResponseWriter, r *http.Request) {
	var instrument crm.Instrument
	if err := json.NewDecoder(r.Body).Decode(&instrument); err != nil {
		s.writeBadRequest(w, "invalid instrument payload")
		return
	}
	instrument.ID = ""

	if err := s.store.CreateInstrument(r.Context(), &instrument); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &instrument)
}

func (s *Server) handleListInstruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := s.store.ClientInstruments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, instruments)
}

func (s *Server) handleLinkInstrument(w http.ResponseWriter, r *http.Request) {
	var body struct {
		InstrumentID string     `json:"instrument_id"`
		AcquiredAt   *time.Time `json:"acquired_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeBadRequest(w, "invalid payload")
		return
	}
	if body.InstrumentID == "" {
		s.writeBadRequest(w, "instrument_id must be set")
		return
	}

	clientID := mux.Vars(r)["id"]
	if _, err := s.store.GetClient(r.Context(), clientID); err != nil {
		s.writeError(w, r, err)
		return
	}

	link, err := s.store.LinkInstrument(r.Context(), clientID, body.InstrumentID, body.AcquiredAt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, link)
}

func (s *Server) handleUnlinkInstrument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.store.UnlinkInstrument(r.Context(), vars["id"], vars["instrumentID"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
