package document

// Status is the raw lifecycle state of a document.
type Status string

const (
	// StatusDispatch means the document sits at an office and is actionable,
	// whether freshly created or just received.
	StatusDispatch Status = "dispatch"
	// StatusIntransit means the document is between a release and a receive.
	StatusIntransit Status = "intransit"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Operation is one of the four state-changing operations.
type Operation string

const (
	OpRelease  Operation = "release"
	OpReceive  Operation = "receive"
	OpComplete Operation = "complete"
	OpCancel   Operation = "cancel"
)

// transitions is the full state machine: absent entries are rejected.
// Completed and canceled are terminal so they have no row at all.
var transitions = map[Status]map[Operation]Status{
	StatusDispatch: {
		OpRelease:  StatusIntransit,
		OpComplete: StatusCompleted,
	},
	StatusIntransit: {
		OpReceive: StatusDispatch,
		OpCancel:  StatusCanceled,
	},
}

// NextStatus returns the status an operation moves a document to, or false
// when the document's current status does not allow the operation.
func NextStatus(current Status, op Operation) (Status, bool) {
	next, ok := transitions[current][op]
	return next, ok
}

// Terminal reports whether no further transitions are accepted.
func Terminal(s Status) bool {
	return s == StatusCompleted || s == StatusCanceled
}
