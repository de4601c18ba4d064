package models

// Commit record status values
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// CommitRecord is one voice description turned into a conventional commit message.
// Field order is the export order and must stay stable.
type CommitRecord struct {
	ID            string `json:"id"`
	Author        string `json:"author"`
	Date          string `json:"date"` // YYYY-MM-DD
	Cost          string `json:"cost"`
	Transcript    string `json:"transcript"`
	CommitMessage string `json:"commitMessage"`
	Status        string `json:"status"`
}
