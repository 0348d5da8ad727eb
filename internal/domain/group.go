package domain

import "time"

// Group is a named set of the owner's contacts. Reads embed the members.
type Group struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Contacts    []Contact `json:"contacts"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GroupUpdate replaces a group's name and description. When ContactIDs is
// non-nil, membership is replaced by exactly that set.
type GroupUpdate struct {
	Name        string
	Description string
	ContactIDs  []string
}

// UniqueIDs returns ids with blanks and duplicates removed, keeping order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
