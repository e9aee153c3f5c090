package models

import "time"

// Draft is an autosaved, unsubmitted entry form state. Drafts are keyed by
// the editing context ("new" or an entry ID) and are best-effort: losing one
// is acceptable, corrupting an entry is not.
type Draft struct {
	Key     string     `json:"key"`
	Form    EntryInput `json:"form"`
	SavedAt time.Time  `json:"saved_at"`
}
