package ledger

// EventKind names the piece of ledger state that changed.
type EventKind int

const (
	EventRecordsChanged EventKind = iota + 1 // record added or removed
	EventRecordChanged                       // fields of one record updated in place
	EventSelectionChanged
	EventInputChanged
	EventSummaryChanged
)

func (k EventKind) String() string {
	switch k {
	case EventRecordsChanged:
		return "records_changed"
	case EventRecordChanged:
		return "record_changed"
	case EventSelectionChanged:
		return "selection_changed"
	case EventInputChanged:
		return "input_changed"
	case EventSummaryChanged:
		return "summary_changed"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the state it names has changed.
// RecordID is set for record and selection events; it is empty when the
// selection was cleared.
type Event struct {
	Kind     EventKind
	RecordID string
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. Subscribers run synchronously, in registration order.
func (l *Ledger) Subscribe(fn func(Event)) (unsubscribe func()) {
	l.nextSubID++
	id := l.nextSubID
	l.subs = append(l.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range l.subs {
			if s.id == id {
				l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

func (l *Ledger) emit(e Event) {
	// Copy so subscribers may unsubscribe while being notified.
	subs := append([]subscriber(nil), l.subs...)
	for _, s := range subs {
		s.fn(e)
	}
}
