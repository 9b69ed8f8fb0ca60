package api_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	crm "github.com/hcviolins/crm"
	"github.com/hcviolins/crm/api"
	"github.com/hcviolins/crm/gormcrm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTestServer(t *testing.T) (*httptest.Server, *gormcrm.Store) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store := gormcrm.New(db, zerolog.Nop())
	require.NoError(t, store.AutoMigrate())

	srv := api.NewServer(store, zerolog.Nop(), api.Options{DefaultPageSize: 10, MaxPageSize: 50})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, store
}

func do(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rsp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer rsp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(rsp.Body).Decode(out))
	}
	return rsp
}

func TestClientLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	var created crm.Client
	rsp := do(t, http.MethodPost, ts.URL+"/clients", &crm.Client{
		FirstName: lo.ToPtr("Alice"),
		LastName:  lo.ToPtr("Kim"),
		Tags:      []string{crm.TagOwner},
	}, &created)
	require.Equal(t, http.StatusCreated, rsp.StatusCode)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Alice", *created.FirstName)

	var got crm.Client
	rsp = do(t, http.MethodGet, ts.URL+"/clients/"+created.ID, nil, &got)
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	require.Equal(t, created.ID, got.ID)

	created.Note = lo.ToPtr("prefers email")
	var updated crm.Client
	rsp = do(t, http.MethodPut, ts.URL+"/clients/"+created.ID, &created, &updated)
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	require.Equal(t, "prefers email", *updated.Note)

	rsp = do(t, http.MethodDelete, ts.URL+"/clients/"+created.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, rsp.StatusCode)

	rsp = do(t, http.MethodGet, ts.URL+"/clients/"+created.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, rsp.StatusCode)
}

func seedClients(t *testing.T, ts *httptest.Server) []crm.Client {
	t.Helper()

	seeds := []crm.Client{
		{FirstName: lo.ToPtr("Alice"), LastName: lo.ToPtr("Kim"), Interest: lo.ToPtr(crm.InterestActive), Tags: []string{crm.TagOwner}},
		{FirstName: lo.ToPtr("Bob"), LastName: lo.ToPtr("Lee"), Interest: lo.ToPtr(crm.InterestPassive), Tags: []string{crm.TagDealer}},
		{LastName: lo.ToPtr("Kim"), Note: lo.ToPtr("met at the spring auction")},
	}
	created := make([]crm.Client, 0, len(seeds))
	for i := range seeds {
		var c crm.Client
		rsp := do(t, http.MethodPost, ts.URL+"/clients", &seeds[i], &c)
		require.Equal(t, http.StatusCreated, rsp.StatusCode)
		created = append(created, c)
	}
	return created
}

func TestListClients(t *testing.T) {
	ts, _ := newTestServer(t)
	seedClients(t, ts)

	var rsp crm.ListResponse
	hr := do(t, http.MethodGet, ts.URL+"/clients", nil, &rsp)
	require.Equal(t, http.StatusOK, hr.StatusCode)
	require.Equal(t, 3, rsp.TotalCount)
	require.Equal(t, 1, rsp.CurrentPage)
	require.Equal(t, 1, rsp.TotalPages)
	require.NotNil(t, rsp.Options)
	require.ElementsMatch(t, []string{"Kim", "Lee"}, rsp.Options.LastNames)

	// default order is first_name ASC, nulls last
	names := lo.Map(rsp.Items, func(c *crm.Client, _ int) string {
		return lo.FromPtr(c.FirstName)
	})
	require.Equal(t, []string{"Alice", "Bob", ""}, names)

	rsp = crm.ListResponse{}
	hr = do(t, http.MethodGet, ts.URL+"/clients?search=auction&options=false", nil, &rsp)
	require.Equal(t, http.StatusOK, hr.StatusCode)
	require.Equal(t, 1, rsp.TotalCount)
	require.Nil(t, rsp.Options)

	rsp = crm.ListResponse{}
	q := url.Values{"last_name": {"Kim"}, "interest": {crm.InterestActive}}
	hr = do(t, http.MethodGet, ts.URL+"/clients?"+q.Encode(), nil, &rsp)
	require.Equal(t, http.StatusOK, hr.StatusCode)
	require.Equal(t, 1, rsp.TotalCount)
	require.Equal(t, "Alice", *rsp.Items[0].FirstName)

	rsp = crm.ListResponse{}
	hr = do(t, http.MethodGet, ts.URL+"/clients?page=2&page_size=2", nil, &rsp)
	require.Equal(t, http.StatusOK, hr.StatusCode)
	require.Equal(t, 2, rsp.CurrentPage)
	require.Equal(t, 2, rsp.TotalPages)
	require.Len(t, rsp.Items, 1)
}

func TestListClientsBadRequests(t *testing.T) {
	ts, _ := newTestServer(t)

	hr := do(t, http.MethodGet, ts.URL+"/clients?order_dir=sideways", nil, nil)
	require.Equal(t, http.StatusBadRequest, hr.StatusCode)

	hr = do(t, http.MethodGet, ts.URL+"/clients?page=abc", nil, nil)
	require.Equal(t, http.StatusBadRequest, hr.StatusCode)
}

func TestClientOptions(t *testing.T) {
	ts, _ := newTestServer(t)
	seedClients(t, ts)

	var opts crm.FilterOptions
	hr := do(t, http.MethodGet, ts.URL+"/clients/options", nil, &opts)
	require.Equal(t, http.StatusOK, hr.StatusCode)
	require.Equal(t, []string{"Kim", "Lee"}, opts.LastNames)
	require.Equal(t, []string{"Alice", "Bob"}, opts.FirstNames)
	require.Equal(t, []string{crm.TagDealer, crm.TagOwner}, opts.Tags)
}

func TestContactsAndReminders(t *testing.T) {
	ts, _ := newTestServer(t)
	clients := seedClients(t, ts)
	client := clients[0]

	var log crm.ContactLog
	hr := do(t, http.MethodPost, ts.URL+"/clients/"+client.ID+"/contacts", &crm.ContactLog{
		Method: lo.ToPtr("phone"),
		Note:   lo.ToPtr("discussed bow rehair"),
	}, &log)
	require.Equal(t, http.StatusCreated, hr.StatusCode)
	require.Equal(t, client.ID, log.ClientID)
	require.False(t, log.ContactedAt.IsZero())

	var logs []*crm.ContactLog
	hr = do(t, http.MethodGet, ts.URL+"/clients/"+client.ID+"/contacts", nil, &logs)
	require.Equal(t, http.StatusOK, hr.StatusCode)
	require.Len(t, logs, 1)

	hr = do(t, http.MethodPost, ts.URL+"/clients/no-such-client/contacts", &crm.ContactLog{}, nil)
	require.Equal(t, http.StatusNotFound, hr.StatusCode)

	var reminder crm.Reminder
	hr = do(t, http.MethodPost, ts.URL+"/clients/"+client.ID+"/reminders", &crm.Reminder{
		Message: "follow up on the cello",
		DueAt:   time.Now().Add(24 * time.Hour),
	}, &reminder)
	require.Equal(t, http.StatusCreated, hr.StatusCode)
	require.False(t, reminder.Completed)

	hr = do(t, http.MethodPost, ts.URL+"/clients/"+client.ID+"/reminders", &crm.Reminder{DueAt: time.Now()}, nil)
	require.Equal(t, http.StatusBadRequest, hr.StatusCode)

	hr = do(t, http.MethodPost, ts.URL+"/reminders/"+reminder.ID+"/complete", nil, nil)
	require.Equal(t, http.StatusNoContent, hr.StatusCode)

	var reminders []*crm.Reminder
	hr = do(t, http.MethodGet, ts.URL+"/clients/"+client.ID+"/reminders", nil, &reminders)
	require.Equal(t, http.StatusOK, hr.StatusCode)
	require.Len(t, reminders, 1)
	require.True(t, reminders[0].Completed)
}

func TestInstrumentLinks(t *testing.T) {
	ts, _ := newTestServer(t)
	clients := seedClients(t, ts)
	owner := clients[0]

	var violin crm.Instrument
	hr := do(t, http.MethodPost, ts.URL+"/instruments", &crm.Instrument{
		Maker:          lo.ToPtr("Guarneri"),
		InstrumentType: lo.ToPtr("violin"),
	}, &violin)
	require.Equal(t, http.StatusCreated, hr.StatusCode)
	require.NotEmpty(t, violin.ID)

	var link crm.ClientInstrument
	hr = do(t, http.MethodPost, ts.URL+"/clients/"+owner.ID+"/instruments", map[string]any{
		"instrument_id": violin.ID,
	}, &link)
	require.Equal(t, http.StatusCreated, hr.StatusCode)
	require.Equal(t, owner.ID, link.ClientID)

	var instruments []*crm.Instrument
	hr = do(t, http.MethodGet, ts.URL+"/clients/"+owner.ID+"/instruments", nil, &instruments)
	require.Equal(t, http.StatusOK, hr.StatusCode)
	require.Len(t, instruments, 1)
	require.Equal(t, "Guarneri", *instruments[0].Maker)

	// the ownership filter now sees exactly one owner
	var rsp crm.ListResponse
	q := url.Values{"hasInstruments": {crm.HasInstruments}}
	hr = do(t, http.MethodGet, ts.URL+"/clients?"+q.Encode(), nil, &rsp)
	require.Equal(t, http.StatusOK, hr.StatusCode)
	require.Equal(t, 1, rsp.TotalCount)
	require.Equal(t, owner.ID, rsp.Items[0].ID)

	hr = do(t, http.MethodDelete, ts.URL+"/clients/"+owner.ID+"/instruments/"+violin.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, hr.StatusCode)

	rsp = crm.ListResponse{}
	hr = do(t, http.MethodGet, ts.URL+"/clients?"+q.Encode(), nil, &rsp)
	require.Equal(t, http.StatusOK, hr.StatusCode)
	require.Equal(t, 0, rsp.TotalCount)
}
