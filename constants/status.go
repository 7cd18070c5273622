package constants

// RecordStatus is the canonical status for rows in records.
type RecordStatus string

// Stable values (store these exact strings in DB).
const (
	StatusPending   RecordStatus = "Pending"   // recorded, awaiting gazettement
	StatusApproved  RecordStatus = "Approved"  // cleared for publication
	StatusRejected  RecordStatus = "Rejected"  // requires a rejection reason
	StatusPublished RecordStatus = "Published" // confirmed in a gazette document
)

// Valid reports whether s is one of the known statuses.
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPublished:
		return true
	}
	return false
}
