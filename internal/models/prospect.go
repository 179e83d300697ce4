package models

import (
	"sort"
	"time"
)

// ProspectSource is the channel a prospect was acquired through
type ProspectSource string

const (
	SourceTradeShow      ProspectSource = "trade_show"
	SourceRideAlong      ProspectSource = "ride_along"
	SourceProspection    ProspectSource = "prospection"
	SourceRecommendation ProspectSource = "recommendation"
	SourceOther          ProspectSource = "other"
)

func AllProspectSources() []ProspectSource {
	return []ProspectSource{SourceTradeShow, SourceRideAlong, SourceProspection, SourceRecommendation, SourceOther}
}

func (s ProspectSource) IsValid() bool {
	for _, v := range AllProspectSources() {
		if s == v {
			return true
		}
	}
	return false
}

// ProspectStatus is the prospect's position in the outreach workflow.
// Transitions are driven externally; any status may follow any other.
type ProspectStatus string

const (
	StatusNew       ProspectStatus = "new"       // imported, not yet contacted
	StatusContacted ProspectStatus = "contacted" // email sequence started
	StatusResponded ProspectStatus = "responded" // prospect replied
	StatusArchived  ProspectStatus = "archived"  // moved to CRM or sleepy customer base
)

func AllProspectStatuses() []ProspectStatus {
	return []ProspectStatus{StatusNew, StatusContacted, StatusResponded, StatusArchived}
}

func (s ProspectStatus) IsValid() bool {
	for _, v := range AllProspectStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

type Prospect struct {
	ID          int64          `json:"id" db:"id"`
	FirstName   string         `json:"first_name" db:"first_name"`
	LastName    string         `json:"last_name" db:"last_name"`
	Email       string         `json:"email" db:"email"`
	PhoneNumber *string        `json:"phone_number" db:"phone_number"`
	Position    *string        `json:"position" db:"position"`
	CompanyName *string        `json:"company_name" db:"company_name"`
	CompanySize *string        `json:"company_size" db:"company_size"` // e.g. 1-10, 11-50, 51-200
	Market      *string        `json:"market" db:"market"`
	Source      ProspectSource `json:"source" db:"source"`
	SourceNotes *string        `json:"source_notes" db:"source_notes"`
	Status      ProspectStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

func (p *Prospect) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ProspectCreate is the payload for registering a lead, optionally with the
// products it is interested in
type ProspectCreate struct {
	FirstName          string         `json:"first_name" validate:"required,min=1,max=100"`
	LastName           string         `json:"last_name" validate:"required,min=1,max=100"`
	Email              string         `json:"email" validate:"required,email,max=255"`
	PhoneNumber        *string        `json:"phone_number" validate:"omitempty,max=20"`
	Position           *string        `json:"position" validate:"omitempty,max=100"`
	CompanyName        *string        `json:"company_name" validate:"omitempty,max=255"`
	CompanySize        *string        `json:"company_size" validate:"omitempty,max=50"`
	Market             *string        `json:"market" validate:"omitempty,max=100"`
	Source             ProspectSource `json:"source" validate:"required,prospect_source"`
	SourceNotes        *string        `json:"source_notes"`
	ProductInterestIDs []int64        `json:"product_interest_ids"`
}

// ProspectUpdate carries a sparse set of prospect fields, status included
type ProspectUpdate struct {
	FirstName   Optional[string]         `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName    Optional[string]         `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email       Optional[string]         `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber Optional[string]         `json:"phone_number" validate:"omitempty,max=20"`
	Position    Optional[string]         `json:"position" validate:"omitempty,max=100"`
	CompanyName Optional[string]         `json:"company_name" validate:"omitempty,max=255"`
	CompanySize Optional[string]         `json:"company_size" validate:"omitempty,max=50"`
	Market      Optional[string]         `json:"market" validate:"omitempty,max=100"`
	Source      Optional[ProspectSource] `json:"source" validate:"omitempty,prospect_source"`
	SourceNotes Optional[string]         `json:"source_notes"`
	Status      Optional[ProspectStatus] `json:"status" validate:"omitempty,prospect_status"`
}

func (u *ProspectUpdate) NullViolations() []string {
	var fields []string
	for name, null := range map[string]bool{
		"first_name": u.FirstName.IsNull(),
		"last_name":  u.LastName.IsNull(),
		"email":      u.Email.IsNull(),
		"source":     u.Source.IsNull(),
		"status":     u.Status.IsNull(),
	} {
		if null {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

func (u *ProspectUpdate) Changes() map[string]any {
	changes := make(map[string]any)
	required := map[string]Optional[string]{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
	}
	for column, field := range required {
		if field.IsSet() {
			changes[column] = field.Value
		}
	}
	nullable := map[string]Optional[string]{
		"phone_number": u.PhoneNumber,
		"position":     u.Position,
		"company_name": u.CompanyName,
		"company_size": u.CompanySize,
		"market":       u.Market,
		"source_notes": u.SourceNotes,
	}
	for column, field := range nullable {
		if field.IsSet() {
			changes[column] = field.Ptr()
		}
	}
	if u.Source.IsSet() {
		changes["source"] = string(u.Source.Value)
	}
	if u.Status.IsSet() {
		changes["status"] = string(u.Status.Value)
	}
	return changes
}

// DefaultLimit is the page size used when a listing does not specify one
const DefaultLimit = 100

// ProspectFilter narrows a prospect listing to exact source/status matches
type ProspectFilter struct {
	Skip   int
	Limit  int
	Source *ProspectSource
	Status *ProspectStatus
}
