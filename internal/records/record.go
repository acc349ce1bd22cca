package records

import (
	"encoding/json"
	"strings"
)

// Record mirrors a post as served by the remote /posts endpoint.
type Record struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	OwnerID int64  `json:"ownerId"`
}

// Draft is the payload for creating a record. The remote assigns the ID.
type Draft struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	OwnerID int64  `json:"ownerId"`
}

// UnmarshalJSON accepts JSONPlaceholder's userId as an alias for ownerId.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Body    string `json:"body"`
		OwnerID *int64 `json:"ownerId"`
		UserID  *int64 `json:"userId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{ID: raw.ID, Title: raw.Title, Body: raw.Body}
	switch {
	case raw.OwnerID != nil:
		r.OwnerID = *raw.OwnerID
	case raw.UserID != nil:
		r.OwnerID = *raw.UserID
	}
	return nil
}

// UnmarshalJSON accepts userId as an alias for ownerId.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*d = rec.Draft()
	return nil
}

// Draft returns the mutable fields of r.
func (r Record) Draft() Draft {
	return Draft{Title: r.Title, Body: r.Body, OwnerID: r.OwnerID}
}

// WithID builds a record from the draft and a server-assigned id.
func (d Draft) WithID(id int64) Record {
	return Record{ID: id, Title: d.Title, Body: d.Body, OwnerID: d.OwnerID}
}

// Validate checks the fields the remote requires on create.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if d.OwnerID < 1 {
		return &ValidationError{Field: "ownerId", Reason: "must be a positive integer"}
	}
	return nil
}

// Validate checks the fields the remote requires on a full replace.
func (r Record) Validate() error {
	if err := ValidateID(r.ID); err != nil {
		return err
	}
	return r.Draft().Validate()
}

// ValidateID rejects identifiers the remote can never have assigned.
func ValidateID(id int64) error {
	if id < 1 {
		return &ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return nil
}
