package store

// Note is a single journal entry. The id and timestamp are assigned by the
// client; the store only keeps them.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"` // ISO 8601
}

// Categories is the set the UI offers. The store does not enforce it.
var Categories = []string{"Life", "Ideas", "Finance", "Personal", "Brain Dump"}
