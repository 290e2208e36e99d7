// Package models defines the persistent entities of the lostfound service.
package models

import "time"

// Report types.
const (
	ReportTypeLost  = "lost"
	ReportTypeFound = "found"
)

// Report item statuses. A report starts as available/lost/found depending on
// how it was filed; the claim workflow moves it through pending, claimed and
// released.
const (
	ItemStatusAvailable = "available"
	ItemStatusLost      = "lost"
	ItemStatusFound     = "found"
	ItemStatusPending   = "pending"
	ItemStatusClaimed   = "claimed"
	ItemStatusReleased  = "released"
)

// Report is a lost or found item record. Contact details are free text, not
// an account reference.
type Report struct {
	ID           int64
	ReportType   string
	ItemName     string
	Location     string
	ReportDate   time.Time
	ItemStatus   string
	CategoryID   *int64
	Description  string
	ContactInfo  string
	ContactEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Images []ReportImage
}

// ReportImage is a hosted image attached to a report.
type ReportImage struct {
	ID        int64
	ReportID  int64
	URL       string
	CreatedAt time.Time
}
