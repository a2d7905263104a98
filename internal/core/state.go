package core

// AppState is the whole persisted application state. Mutations return a new
// value instead of editing in place, so a failed persist leaves the previous
// state untouched.
type AppState struct {
	DisplayMode  bool          `json:"displayMode"`
	Transactions []Transaction `json:"transactions"`
}

// DefaultState is the state used for a fresh session and as the fallback
// when persisted data is missing or unreadable.
func DefaultState() AppState {
	return AppState{DisplayMode: true, Transactions: []Transaction{}}
}

// WithTransaction returns a copy of the state with tx appended.
func (s AppState) WithTransaction(tx Transaction) AppState {
	next := make([]Transaction, 0, len(s.Transactions)+1)
	next = append(next, s.Transactions...)
	next = append(next, tx)
	return AppState{DisplayMode: s.DisplayMode, Transactions: next}
}

// WithoutTransaction returns a copy of the state with the matching record
// removed. Removing an id that is not present is a no-op, not an error.
func (s AppState) WithoutTransaction(id string) AppState {
	next := make([]Transaction, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		if tx.ID == id {
			continue
		}
		next = append(next, tx)
	}
	return AppState{DisplayMode: s.DisplayMode, Transactions: next}
}

// Cleared returns a state with an empty transaction list and the display
// mode preserved.
func (s AppState) Cleared() AppState {
	return AppState{DisplayMode: s.DisplayMode, Transactions: []Transaction{}}
}

// WithDisplayMode returns a copy of the state with the mode flag set.
func (s AppState) WithDisplayMode(flag bool) AppState {
	next := make([]Transaction, len(s.Transactions))
	copy(next, s.Transactions)
	return AppState{DisplayMode: flag, Transactions: next}
}
