// Package getresponse talks to the GetResponse v3 API: list enrollment and
// one-off newsletters to a single contact.
package getresponse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/myway/panel-api/internal/integration"
	"github.com/myway/panel-api/internal/model"
)

// CodeAlreadyAdded is returned when the contact is already on the campaign.
const CodeAlreadyAdded = 1008

// SendOnLayout is the timestamp layout GetResponse expects for sendOn.
const SendOnLayout = "2006-01-02T15:04:05+0000"

type Config struct {
	BaseURL string
	APIKey  string
	// Campaigns maps a package to its campaign id.
	Campaigns      map[string]string
	AllCampaign    string
	FromFieldID    string
	PackageFieldID string
	PhoneFieldID   string
	// SendDelay offsets sendOn from now. Zero means two minutes.
	SendDelay time.Duration
	Timeout   time.Duration
}

const defaultSendDelay = 2 * time.Minute

type Client struct {
	cfg    Config
	caller *integration.Caller
	now    func() time.Time
}

func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.SendDelay <= 0 {
		cfg.SendDelay = defaultSendDelay
	}
	return &Client{
		cfg:    cfg,
		caller: integration.NewCaller("getresponse", cfg.Timeout),
		now:    time.Now,
	}
}

type Contact struct {
	Email   string
	Name    string
	Package model.Package
	Phone   string
}

type Newsletter struct {
	ContactID string
	Subject   string
	HTML      string
	Plain     string
}

type campaignRef struct {
	CampaignID string `json:"campaignId"`
}

type customFieldValue struct {
	CustomFieldID string   `json:"customFieldId"`
	Value         []string `json:"value"`
}

type addContactRequest struct {
	Email             string             `json:"email"`
	Name              string             `json:"name"`
	Campaign          campaignRef        `json:"campaign"`
	DayOfCycle        int                `json:"dayOfCycle"`
	CustomFieldValues []customFieldValue `json:"customFieldValues"`
}

type newsletterRequest struct {
	Subject   string      `json:"subject"`
	Name      string      `json:"name"`
	Campaign  campaignRef `json:"campaign"`
	FromField struct {
		FromFieldID string `json:"fromFieldId"`
	} `json:"fromField"`
	SendOn  string `json:"sendOn"`
	Content struct {
		HTML  string `json:"html"`
		Plain string `json:"plain"`
	} `json:"content"`
	SendSettings struct {
		SelectedContacts []string `json:"selectedContacts"`
		TimeTravel       string   `json:"timeTravel"`
		PerfectTiming    string   `json:"perfectTiming"`
	} `json:"sendSettings"`
}

func (c *Client) headers() map[string]string {
	return map[string]string{"X-Auth-Token": "api-key " + c.cfg.APIKey}
}

// CampaignFor returns the campaign of a package. Unknown packages use package 1.
func (c *Client) CampaignFor(pkg model.Package) string {
	if id, ok := c.cfg.Campaigns[string(pkg)]; ok && id != "" {
		return id
	}
	return c.cfg.Campaigns[string(model.Package1)]
}

// AllContactsCampaign is the campaign every confirmed patient joins.
func (c *Client) AllContactsCampaign() string {
	return c.cfg.AllCampaign
}

// AddContact enrolls the contact on a campaign. A contact that is already
// enrolled counts as success.
func (c *Client) AddContact(ctx context.Context, campaignID string, contact Contact) error {
	pkg := string(contact.Package)
	if pkg == "" {
		pkg = string(model.Package1)
	}
	req := addContactRequest{
		Email:      contact.Email,
		Name:       contact.Name,
		Campaign:   campaignRef{CampaignID: campaignID},
		DayOfCycle: 0,
		CustomFieldValues: []customFieldValue{
			{CustomFieldID: c.cfg.PackageFieldID, Value: []string{pkg}},
		},
	}
	if contact.Phone != "" {
		req.CustomFieldValues = append(req.CustomFieldValues, customFieldValue{
			CustomFieldID: c.cfg.PhoneFieldID, Value: []string{contact.Phone},
		})
	}

	_, err := c.caller.Do(ctx, http.MethodPost, c.cfg.BaseURL+"/contacts", c.headers(), req, nil)
	var apiErr *integration.APIError
	if errors.As(err, &apiErr) && apiErr.Code == CodeAlreadyAdded {
		return nil
	}
	return err
}

// FindContactID returns the id of the first contact with the email, or "".
func (c *Client) FindContactID(ctx context.Context, email string) (string, error) {
	endpoint := c.cfg.BaseURL + "/contacts?" + url.Values{"query[email]": {email}}.Encode()

	var contacts []struct {
		ContactID string `json:"contactId"`
	}
	if _, err := c.caller.Do(ctx, http.MethodGet, endpoint, c.headers(), nil, &contacts); err != nil {
		return "", err
	}
	if len(contacts) == 0 {
		return "", nil
	}
	return contacts[0].ContactID, nil
}

// SendNewsletter schedules a newsletter for one contact SendDelay from now.
func (c *Client) SendNewsletter(ctx context.Context, n Newsletter) error {
	now := c.now()
	req := newsletterRequest{
		Subject:  n.Subject,
		Name:     "auto-" + strconv.FormatInt(now.UnixMilli(), 10),
		Campaign: campaignRef{CampaignID: c.cfg.AllCampaign},
		SendOn:   now.Add(c.cfg.SendDelay).UTC().Format(SendOnLayout),
	}
	req.FromField.FromFieldID = c.cfg.FromFieldID
	req.Content.HTML = n.HTML
	req.Content.Plain = n.Plain
	req.SendSettings.SelectedContacts = []string{n.ContactID}
	req.SendSettings.TimeTravel = "false"
	req.SendSettings.PerfectTiming = "false"

	if _, err := c.caller.Do(ctx, http.MethodPost, c.cfg.BaseURL+"/newsletters", c.headers(), req, nil); err != nil {
		return fmt.Errorf("failed to send newsletter: %w", err)
	}
	return nil
}
