package domain

// ApprovalOutcome is what an approve call hands back to the caller: the
// transaction in its terminal state, the journal entry posted for it (nil
// when none was required), and a warning when account resolution came up
// empty.
type ApprovalOutcome struct {
	Transaction PendingTransaction `json:"transaction"`
	Journal     *JournalEntry      `json:"journal,omitempty"`
	Warning     string             `json:"warning,omitempty"`
}
