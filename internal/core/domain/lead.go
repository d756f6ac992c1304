package domain

import "time"

type LeadSource string

const (
	SourceWebsite  LeadSource = "website"
	SourceCall     LeadSource = "call"
	SourceEmail    LeadSource = "email"
	SourceReferral LeadSource = "referral"
	SourceAds      LeadSource = "ads"
)

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// Lead is a sales prospect. CreatedBy is fixed at creation to the acting user.
type Lead struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Source     LeadSource `json:"source"`
	Status     LeadStatus `json:"status"`
	AssignedTo string     `json:"assignedTo,omitempty"`
	CreatedBy  string     `json:"createdBy"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// LeadPatch carries the mutable lead fields. Nil pointers are left untouched;
// CreatedBy is deliberately absent.
type LeadPatch struct {
	Name       *string
	Email      *string
	Phone      *string
	Source     *LeadSource
	Status     *LeadStatus
	AssignedTo *string
	Notes      *string
}

// Empty reports whether the patch changes nothing.
func (p LeadPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Source == nil &&
		p.Status == nil && p.AssignedTo == nil && p.Notes == nil
}
