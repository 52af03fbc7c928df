// internal/contentapi/models.go
package contentapi

import "encoding/json"

// Entry is one item from a collection response. The API serves two shapes:
// flat fields on the item itself, or the fields nested under "attributes".
// Fields resolves to whichever carries the data.
type Entry struct {
	ID         json.Number            `json:"id"`
	Attributes map[string]interface{} `json:"attributes"`
	Flat       map[string]interface{} `json:"-"`
}

// UnmarshalJSON keeps both the declared fields and the flat view of the
// whole object.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type alias Entry
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var flat map[string]interface{}
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	*e = Entry(a)
	e.Flat = flat
	return nil
}

// Fields returns the attribute map holding the entry's content fields.
func (e *Entry) Fields() map[string]interface{} {
	if len(e.Attributes) > 0 {
		return e.Attributes
	}
	return e.Flat
}

// collectionResponse is the wire envelope of a collection GET.
type collectionResponse struct {
	Data []Entry `json:"data"`
}

// Query carries the supported list-endpoint parameters.
type Query struct {
	Populate string
	Sort     string
	Page     int
	PageSize int
}
