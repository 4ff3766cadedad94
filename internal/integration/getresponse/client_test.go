package getresponse

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myway/panel-api/internal/integration"
	"github.com/myway/panel-api/internal/model"
)

type recorded struct {
	method string
	path   string
	query  string
	body   map[string]interface{}
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "api-key test-key", r.Header.Get("X-Auth-Token"))
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.Query().Get("query[email]")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		mu.Lock()
		calls = append(calls, rec)
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:        srv.URL + "/",
		APIKey:         "test-key",
		Campaigns:      map[string]string{"1": "camp1", "2": "camp2", "3": "camp3"},
		AllCampaign:    "all",
		FromFieldID:    "from1",
		PackageFieldID: "pkgField",
		PhoneFieldID:   "phoneField",
		Timeout:        time.Second,
	})
	return c, &calls
}

func TestAddContact(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	err := c.AddContact(context.Background(), "camp3", Contact{
		Email: "jan@example.com", Name: "Jan Kowalski", Package: model.Package3, Phone: "600100200",
	})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, "/contacts", got.path)
	assert.Equal(t, "jan@example.com", got.body["email"])
	assert.Equal(t, "camp3", got.body["campaign"].(map[string]interface{})["campaignId"])
	fields := got.body["customFieldValues"].([]interface{})
	require.Len(t, fields, 2)
	assert.Equal(t, "pkgField", fields[0].(map[string]interface{})["customFieldId"])
	assert.Equal(t, []interface{}{"3"}, fields[0].(map[string]interface{})["value"])
	assert.Equal(t, []interface{}{"600100200"}, fields[1].(map[string]interface{})["value"])
}

func TestAddContactAlreadyExists(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"httpStatus":409,"code":1008,"message":"Contact already added"}`))
	})

	assert.NoError(t, c.AddContact(context.Background(), "camp1", Contact{Email: "jan@example.com"}))
}

func TestAddContactRejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":1000,"message":"Invalid email"}`))
	})

	err := c.AddContact(context.Background(), "camp1", Contact{Email: "zly"})
	var apiErr *integration.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 1000, apiErr.Code)
}

func TestFindContactID(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query[email]") == "jan@example.com" {
			_, _ = w.Write([]byte(`[{"contactId":"c-1"},{"contactId":"c-2"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	id, err := c.FindContactID(context.Background(), "jan@example.com")
	require.NoError(t, err)
	assert.Equal(t, "c-1", id)
	assert.Equal(t, "jan@example.com", (*calls)[0].query)

	id, err = c.FindContactID(context.Background(), "nikt@example.com")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestSendNewsletter(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	c.now = func() time.Time { return time.Date(2026, 3, 1, 11, 58, 30, 0, time.FixedZone("CET", 3600)) }

	err := c.SendNewsletter(context.Background(), Newsletter{
		ContactID: "c-1", Subject: "Cześć", HTML: "<p>hej</p>", Plain: "hej",
	})
	require.NoError(t, err)

	got := (*calls)[0]
	assert.Equal(t, "/newsletters", got.path)
	assert.Equal(t, "2026-03-01T11:00:30+0000", got.body["sendOn"])
	assert.Equal(t, "all", got.body["campaign"].(map[string]interface{})["campaignId"])
	assert.Equal(t, "from1", got.body["fromField"].(map[string]interface{})["fromFieldId"])
	settings := got.body["sendSettings"].(map[string]interface{})
	assert.Equal(t, []interface{}{"c-1"}, settings["selectedContacts"])
	assert.Equal(t, "false", settings["timeTravel"])
}

func TestSendNewsletter_ConfiguredDelay(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	c.cfg.SendDelay = 10 * time.Minute
	c.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, c.SendNewsletter(context.Background(), Newsletter{ContactID: "c-1", Subject: "s"}))
	assert.Equal(t, "2026-03-01T10:10:00+0000", (*calls)[0].body["sendOn"])
}

func TestCampaignFor(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, "camp2", c.CampaignFor(model.Package2))
	assert.Equal(t, "camp1", c.CampaignFor(model.Package("9")))
}
