// Package slicktext is a thin client for the SlickText v1 REST API,
// covering the contact, list and campaign surface the reminder job
// touches.
//
// Failure semantics follow two channels. A local precondition violation
// (missing brand id, empty list name) is a caller bug and returns an
// error before any network I/O. A transport or non-success HTTP outcome
// is retried under the client's RetryPolicy and, once exhausted,
// surfaces as a nil record with a nil error; callers must treat a nil
// record as "the operation did not happen".
package slicktext

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL  = "https://dev.slicktext.com/v1"
	contactPageSize = 250
)

var endpoints = map[string]string{
	"brands":              "/brands",
	"brand_details":       "/brands/{brand_id}",
	"contacts":            "/brands/{brand_id}/contacts",
	"contact_details":     "/brands/{brand_id}/contacts/{contact_id}",
	"create_list":         "/brands/{brand_id}/lists",
	"add_contact_to_list": "/brands/{brand_id}/lists/contacts",
	"campaigns":           "/brands/{brand_id}/campaigns",
	"custom_fields":       "/brands/{brand_id}/custom-fields/{field_id}",
}

var ErrBrandNotSet = errors.New("brand id must be set for brand-scoped calls")

// RetryPolicy bounds the attempts made for one API call.
type RetryPolicy struct {
	MaxAttempts int
	Wait        time.Duration
}

// RetryPolicyFromEnv returns the default policy (5 attempts, 5s apart),
// overridable via SLICKTEXT_MAX_RETRIES and
// SLICKTEXT_RETRY_WAIT_SECONDS.
func RetryPolicyFromEnv() RetryPolicy {
	policy := RetryPolicy{
		MaxAttempts: 5,
		Wait:        5 * time.Second,
	}
	if v := os.Getenv("SLICKTEXT_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			policy.MaxAttempts = n
		}
	}
	if v := os.Getenv("SLICKTEXT_RETRY_WAIT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			policy.Wait = time.Duration(n) * time.Second
		}
	}
	return policy
}

type Client struct {
	baseURL string
	token   string
	brandID string
	httpc   *http.Client
	retry   RetryPolicy
	logger  *logrus.Logger
}

// NewClient builds a client bound to a bearer token and brand. The base
// URL comes from SLICKTEXT_API_BASE_URL when set (tests point it at a
// local server), the production default otherwise.
func NewClient(token, brandID string, logger *logrus.Logger) *Client {
	baseURL := strings.TrimSpace(os.Getenv("SLICKTEXT_API_BASE_URL"))
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		brandID: brandID,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		retry:   RetryPolicyFromEnv(),
		logger:  logger,
	}
}

func (c *Client) SetBrandID(brandID string) {
	c.brandID = brandID
}

func (c *Client) endpointURL(key string, pathParams map[string]string) string {
	path := endpoints[key]
	for k, v := range pathParams {
		path = strings.ReplaceAll(path, "{"+k+"}", v)
	}
	return c.baseURL + path
}

// request executes one API call under the retry policy and returns the
// raw JSON body, or nil once retries are exhausted. A success status
// carrying a body that is not valid JSON also yields nil, without
// further retries.
func (c *Client) request(ctx context.Context, method, urlKey string, pathParams map[string]string, params url.Values, body any) json.RawMessage {
	endpoint := c.endpointURL(urlKey, pathParams)
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"module": "slicktext",
				"method": method,
				"url":    endpoint,
			}).Errorf("failed to encode request body: %v", err)
			return nil
		}
	}

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(c.retry.Wait)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"module": "slicktext",
				"method": method,
				"url":    endpoint,
			}).Errorf("failed to build request: %v", err)
			return nil
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpc.Do(req)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"module":  "slicktext",
				"method":  method,
				"url":     endpoint,
				"attempt": attempt,
			}).Warnf("request failed: %v", err)
			continue
		}

		respBody, readErr := readAll(resp)
		if readErr != nil {
			c.logger.WithFields(logrus.Fields{
				"module":  "slicktext",
				"method":  method,
				"url":     endpoint,
				"attempt": attempt,
			}).Warnf("failed to read response body: %v", readErr)
			continue
		}

		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
			if !json.Valid(respBody) {
				c.logger.WithFields(logrus.Fields{
					"module": "slicktext",
					"method": method,
					"url":    endpoint,
					"status": resp.StatusCode,
				}).Error("response on success status is not valid JSON")
				return nil
			}
			return json.RawMessage(respBody)
		}

		c.logger.WithFields(logrus.Fields{
			"module":  "slicktext",
			"method":  method,
			"url":     endpoint,
			"status":  resp.StatusCode,
			"attempt": attempt,
		}).Warnf("error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	c.logger.WithFields(logrus.Fields{
		"module": "slicktext",
		"method": method,
		"url":    endpoint,
	}).Errorf("failed after %d attempts", c.retry.MaxAttempts)
	return nil
}

func decodeInto[T any](c *Client, raw json.RawMessage, funcName string) *T {
	if raw == nil {
		return nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.WithFields(logrus.Fields{
			"module":   "slicktext",
			"funcName": funcName,
		}).Errorf("failed to decode response: %v", err)
		return nil
	}
	return &out
}

// GetBrands lists the brands visible to the token.
func (c *Client) GetBrands(ctx context.Context) []Brand {
	raw := c.request(ctx, http.MethodGet, "brands", nil, nil, nil)
	resp := decodeInto[brandsResponse](c, raw, "GetBrands")
	if resp == nil {
		return nil
	}
	return resp.Data
}

// GetContacts fetches one page of contacts. filters pass through as
// query parameters verbatim.
func (c *Client) GetContacts(ctx context.Context, limit, offset int, filters url.Values) (*ContactsPage, error) {
	if c.brandID == "" {
		return nil, ErrBrandNotSet
	}

	params := url.Values{}
	for k, vs := range filters {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset >= 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	raw := c.request(ctx, http.MethodGet, "contacts", map[string]string{"brand_id": c.brandID}, params, nil)
	return decodeInto[ContactsPage](c, raw, "GetContacts"), nil
}

// GetAllContacts walks the contacts endpoint in pages of 250 until the
// paging metadata reports no more, accumulating in order. A nil return
// means the directory could not be fetched at all; an empty non-nil
// slice means the brand genuinely has no contacts.
func (c *Client) GetAllContacts(ctx context.Context, filters url.Values) ([]Contact, error) {
	if c.brandID == "" {
		return nil, ErrBrandNotSet
	}

	var all []Contact
	offset := 0
	for {
		page, err := c.GetContacts(ctx, contactPageSize, offset, filters)
		if err != nil {
			return nil, err
		}
		if page == nil || page.Data == nil {
			// Soft failure mid-walk keeps whatever was already read.
			return all, nil
		}
		if all == nil {
			all = make([]Contact, 0, len(page.Data))
		}
		all = append(all, page.Data...)
		if page.PagingData == nil || !page.PagingData.HasMore {
			return all, nil
		}
		offset += contactPageSize
	}
}

// GetContactDetails fetches one contact by id.
func (c *Client) GetContactDetails(ctx context.Context, contactID int) (*Contact, error) {
	if c.brandID == "" {
		return nil, ErrBrandNotSet
	}
	raw := c.request(ctx, http.MethodGet, "contact_details",
		map[string]string{"brand_id": c.brandID, "contact_id": strconv.Itoa(contactID)}, nil, nil)
	resp := decodeInto[contactResponse](c, raw, "GetContactDetails")
	if resp == nil {
		return nil, nil
	}
	return resp.Data, nil
}

// CreateContactList creates a named list and returns it with its
// assigned id.
func (c *Client) CreateContactList(ctx context.Context, name, description string) (*ContactList, error) {
	if c.brandID == "" {
		return nil, ErrBrandNotSet
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name must be provided to create a contact list")
	}

	raw := c.request(ctx, http.MethodPost, "create_list",
		map[string]string{"brand_id": c.brandID}, nil,
		newContactList{Name: name, Description: description})
	resp := decodeInto[contactListResponse](c, raw, "CreateContactList")
	if resp == nil {
		return nil, nil
	}
	return resp.Data, nil
}

// AddContactToList assigns a single contact to a list.
func (c *Client) AddContactToList(ctx context.Context, contactID, listID int) (json.RawMessage, error) {
	if c.brandID == "" {
		return nil, ErrBrandNotSet
	}
	if contactID == 0 {
		return nil, errors.New("contact id must be provided to add a contact to a list")
	}
	if listID == 0 {
		return nil, errors.New("list id must be provided to add a contact to a list")
	}

	body := []listMembership{{ContactId: contactID, Lists: []int{listID}}}
	return c.request(ctx, http.MethodPost, "add_contact_to_list",
		map[string]string{"brand_id": c.brandID}, nil, body), nil
}

// AddContactsToList assigns every contact id to the list in one batched
// request.
func (c *Client) AddContactsToList(ctx context.Context, contactIDs []int, listID int) (json.RawMessage, error) {
	if c.brandID == "" {
		return nil, ErrBrandNotSet
	}
	if len(contactIDs) == 0 {
		return nil, errors.New("contact ids must be provided to add contacts to a list")
	}
	if listID == 0 {
		return nil, errors.New("list id must be provided to add contacts to a list")
	}

	body := make([]listMembership, 0, len(contactIDs))
	for _, id := range contactIDs {
		body = append(body, listMembership{ContactId: id, Lists: []int{listID}})
	}
	return c.request(ctx, http.MethodPost, "add_contact_to_list",
		map[string]string{"brand_id": c.brandID}, nil, body), nil
}

// GetCustomField fetches a custom field definition.
func (c *Client) GetCustomField(ctx context.Context, fieldID int) (*CustomField, error) {
	if c.brandID == "" {
		return nil, ErrBrandNotSet
	}
	raw := c.request(ctx, http.MethodGet, "custom_fields",
		map[string]string{"brand_id": c.brandID, "field_id": strconv.Itoa(fieldID)}, nil, nil)
	resp := decodeInto[customFieldResponse](c, raw, "GetCustomField")
	if resp == nil {
		return nil, nil
	}
	return resp.Data, nil
}

// CreateCampaign creates a campaign against one contact list. A nil
// sendTime sends immediately (status "send"); a set sendTime schedules
// it.
func (c *Client) CreateCampaign(ctx context.Context, name, message string, listID int, sendTime *time.Time) (*Campaign, error) {
	if c.brandID == "" {
		return nil, ErrBrandNotSet
	}

	body := newCampaign{
		Name:   name,
		Body:   message,
		Status: "send",
		Audience: campaignAudience{
			ContactLists: []int{listID},
		},
	}
	if sendTime != nil {
		body.Status = "scheduled"
		scheduled := sendTime.Format(time.RFC3339)
		body.Scheduled = &scheduled
	}

	raw := c.request(ctx, http.MethodPost, "campaigns",
		map[string]string{"brand_id": c.brandID}, nil, body)
	resp := decodeInto[campaignResponse](c, raw, "CreateCampaign")
	if resp == nil {
		return nil, nil
	}
	return resp.Data, nil
}

func readAll(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	return buf.Bytes(), err
}
