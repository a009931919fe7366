package slicktext

// Typed views of the SlickText v1 API payloads the reminder job
// consumes. Optional blocks are pointers so that "absent" and "empty"
// stay distinguishable; contact matching depends on that.

type PagingData struct {
	HasMore bool `json:"hasMore"`
}

// ContactCustomFields carries the brand's custom fields. Only the
// adp_associate_id field matters here: it holds the payroll worker id
// for contacts that are employees. Non-payroll contacts leave it empty.
type ContactCustomFields struct {
	AdpAssociateId string `json:"adp_associate_id"`
}

type Contact struct {
	ID           int                  `json:"id"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName"`
	Mobile       string               `json:"mobile"`
	CustomFields *ContactCustomFields `json:"customFields"`
}

type ContactsPage struct {
	Data       []Contact   `json:"data"`
	PagingData *PagingData `json:"pagingData"`
}

type Brand struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ContactList struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Campaign struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

type CustomField struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Single-record responses arrive wrapped the same way list responses
// do, under a data key.
type brandsResponse struct {
	Data []Brand `json:"data"`
}

type contactResponse struct {
	Data *Contact `json:"data"`
}

type contactListResponse struct {
	Data *ContactList `json:"data"`
}

type campaignResponse struct {
	Data *Campaign `json:"data"`
}

type customFieldResponse struct {
	Data *CustomField `json:"data"`
}

// Request bodies.

type newContactList struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type listMembership struct {
	ContactId int   `json:"contact_id"`
	Lists     []int `json:"lists"`
}

type campaignAudience struct {
	ContactLists []int `json:"contact_lists"`
}

type newCampaign struct {
	Name      string           `json:"name"`
	Body      string           `json:"body"`
	Status    string           `json:"status"`
	Audience  campaignAudience `json:"audience"`
	Scheduled *string          `json:"scheduled"`
}
