package reconcile

// State tracks a bundle load through its lifecycle. Terminal states are
// Committed, ValidationFailed, and RolledBack.
type State string

const (
	StateReceived         State = "received"
	StateValidated        State = "validated"
	StateWriting          State = "writing"
	StateCommitted        State = "committed"
	StateValidationFailed State = "validation_failed"
	StateRolledBack       State = "rolled_back"
)

// InsertedCounts tallies rows created during one load.
type InsertedCounts struct {
	Topics    int `json:"topics"`
	Lessons   int `json:"lessons"`
	Examples  int `json:"examples"`
	Questions int `json:"questions"`
}

// UpdatedCounts tallies rows updated in place. Children are never updated
// in place (they are replaced), so only topics and lessons appear here.
type UpdatedCounts struct {
	Topics  int `json:"topics"`
	Lessons int `json:"lessons"`
}

// DeletedChildrenCounts tallies rows removed by the full-replace of lesson
// children.
type DeletedChildrenCounts struct {
	Examples  int `json:"examples"`
	Questions int `json:"questions"`
}

// Summary is the outcome report of one committed bundle load.
type Summary struct {
	Inserted        InsertedCounts        `json:"inserted"`
	Updated         UpdatedCounts         `json:"updated"`
	DeletedChildren DeletedChildrenCounts `json:"deleted_children"`
	DurationMS      int64                 `json:"duration_ms"`
	BundleID        string                `json:"bundle_id"`
}
