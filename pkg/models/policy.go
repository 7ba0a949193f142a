package models

import "time"

const (
	PolicyTypeCustom = "TYPE_CUSTOM"
	PolicyActionRead = "READ"
)

// Policy is a resource policy applied to a bitstream after upload.
// Exactly one of PersonID and GroupID is normally set.
type Policy struct {
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"policyType"`
	Action      string     `json:"action"`
	PersonID    string     `json:"-"`
	GroupID     string     `json:"-"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// NewGroupPolicy grants READ to a group.
func NewGroupPolicy(groupID string) Policy {
	return Policy{Type: PolicyTypeCustom, Action: PolicyActionRead, GroupID: groupID}
}

// NewPersonPolicy grants READ to one person.
func NewPersonPolicy(personID string) Policy {
	return Policy{Type: PolicyTypeCustom, Action: PolicyActionRead, PersonID: personID}
}

// Payload is the request body for POST /api/authz/resourcepolicies.
// Dates are sent as yyyy-mm-dd.
func (p Policy) Payload() map[string]any {
	typ, action := p.Type, p.Action
	if typ == "" {
		typ = PolicyTypeCustom
	}
	if action == "" {
		action = PolicyActionRead
	}
	out := map[string]any{
		"policyType": typ,
		"action":     action,
		"type":       "resourcepolicy",
	}
	if p.Name != "" {
		out["name"] = p.Name
	}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if p.StartDate != nil {
		out["startDate"] = p.StartDate.Format(time.DateOnly)
	}
	if p.EndDate != nil {
		out["endDate"] = p.EndDate.Format(time.DateOnly)
	}
	return out
}

// Query returns the resourcepolicies query parameters for a bitstream.
func (p Policy) Query(resourceID string) map[string]string {
	q := map[string]string{"resource": resourceID}
	if p.GroupID != "" {
		q["group"] = p.GroupID
	}
	if p.PersonID != "" {
		q["eperson"] = p.PersonID
	}
	return q
}
