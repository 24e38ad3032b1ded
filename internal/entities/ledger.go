package entities

// LedgerEntry is one row of a time-indexed ledger: a signed value observed
// over the interval [InitialDatetime, FinalDatetime).
type LedgerEntry struct {
	InitialDatetime string
	FinalDatetime   string
	Value           float64
	Units           string
}

// Ledger is an append-only, time-indexed record of flows or state, keyed
// by InitialDatetime. Lookup and upsert are O(1) via the index map —
// the original implementation re-scanned its whole history per call,
// which is fine for the small horizons it runs but needless here.
type Ledger struct {
	entries []LedgerEntry
	index   map[string]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Get returns the entry recorded for initialDatetime, if any.
func (l *Ledger) Get(initialDatetime string) (LedgerEntry, bool) {
	idx, ok := l.index[initialDatetime]
	if !ok {
		return LedgerEntry{}, false
	}
	return l.entries[idx], true
}

// Entries returns all entries in the order they were first recorded.
func (l *Ledger) Entries() []LedgerEntry {
	return l.entries
}

// Last returns the most recently appended entry, if any.
func (l *Ledger) Last() (LedgerEntry, bool) {
	if len(l.entries) == 0 {
		return LedgerEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Accumulate increments the existing entry for initialDatetime by delta,
// or appends a new entry with value delta if none exists yet. It reports
// whether a new entry was created, since some callers (Battery) only
// update derived state on the creating write.
func (l *Ledger) Accumulate(initialDatetime, finalDatetime string, delta Measurement) (entry LedgerEntry, created bool) {
	if idx, ok := l.index[initialDatetime]; ok {
		l.entries[idx].Value += delta.Value
		return l.entries[idx], false
	}
	e := LedgerEntry{
		InitialDatetime: initialDatetime,
		FinalDatetime:   finalDatetime,
		Value:           delta.Value,
		Units:           delta.Units,
	}
	l.entries = append(l.entries, e)
	l.index[initialDatetime] = len(l.entries) - 1
	return e, true
}

// Has reports whether an entry exists for initialDatetime.
func (l *Ledger) Has(initialDatetime string) bool {
	_, ok := l.index[initialDatetime]
	return ok
}
