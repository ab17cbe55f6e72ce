package domain

// Ref identifies a named Harvest resource (project or task) as it appears
// embedded in a time entry.
type Ref struct {
	ID   int64
	Name string
}

// TimeEntry represents one recorded span of tracked work in the domain.
type TimeEntry struct {
	ID        int64
	SpentDate Date
	Hours     float64 // non-negative; for a running timer, hours so far
	Project   Ref
	Task      Ref
	Notes     string
	Running   bool
}
