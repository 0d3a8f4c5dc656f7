package journal

import "time"

// Outcome of a recorded catalog operation.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

// Entry is one recorded catalog operation.
type Entry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequestID   string    `gorm:"size:64;index" json:"request_id"`
	Operation   string    `gorm:"size:64" json:"operation"`
	Resource    string    `gorm:"size:32" json:"resource"`
	EntityID    int64     `json:"entity_id"`
	Outcome     string    `gorm:"size:16" json:"outcome"`
	Error       string    `gorm:"size:1024" json:"error,omitempty"`
	FailedPairs int       `json:"failed_pairs"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the gorm default.
func (Entry) TableName() string {
	return "catalog_journal"
}

// requiredColumns must exist after migration.
var requiredColumns = []string{
	"id", "request_id", "operation", "resource", "entity_id",
	"outcome", "error", "failed_pairs", "duration_ms", "created_at",
}

// ExportReport describes an uploaded journal day.
type ExportReport struct {
	Date    string `json:"date"`
	Object  string `json:"object"`
	Entries int    `json:"entries"`
	Size    int64  `json:"size"`
}
