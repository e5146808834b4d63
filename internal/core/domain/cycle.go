package domain

// CycleRecord is a persisted audit entry for one supervisor cycle.
type CycleRecord struct {
	ID        string  `json:"id"         db:"id"`
	Outcome   Outcome `json:"outcome"    db:"outcome"`
	Count     int     `json:"count"      db:"count"`
	Label     string  `json:"label"      db:"label"`
	Error     string  `json:"error_msg"  db:"error_msg"`
	CreatedAt int64   `json:"created_at" db:"created_at"`
}
