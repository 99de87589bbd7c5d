package document

// ViewStatus is one of the five display buckets the dashboard, trend chart
// and row badges are built from.
type ViewStatus string

const (
	ViewStatusDispatch ViewStatus = "dispatch"
	ViewStatusIncoming ViewStatus = "incoming"
	// The transposed spelling is the label the frontend has always filtered
	// and stored by; changing it breaks saved views.
	ViewStatusRecieved  ViewStatus = "recieved"
	ViewStatusOutgoing  ViewStatus = "outgoing"
	ViewStatusCompleted ViewStatus = "completed"
)

// ProjectViewStatus collapses a document's raw status, transit direction
// and receipt flag into display buckets for one viewer. An intransit
// self-loop yields two buckets, a canceled document yields none; everything
// else yields exactly one. This is the only place view status is derived;
// every view consumes its output.
func ProjectViewStatus(doc *Document, viewerAgencyID uint64) []ViewStatus {
	switch doc.Status {
	case StatusIntransit:
		flow := ClassifyTransit(doc, viewerAgencyID)
		buckets := make([]ViewStatus, 0, 2)
		if flow.Incoming {
			buckets = append(buckets, ViewStatusIncoming)
		}
		if flow.Outgoing {
			buckets = append(buckets, ViewStatusOutgoing)
		}
		return buckets
	case StatusDispatch:
		if doc.IsReceived {
			return []ViewStatus{ViewStatusRecieved}
		}
		return []ViewStatus{ViewStatusDispatch}
	case StatusCompleted:
		return []ViewStatus{ViewStatusCompleted}
	}
	return nil
}

// PrimaryViewStatus is the single badge shown on a list row. When the
// projection yields two buckets the incoming one wins; a canceled document
// shows its raw status.
func PrimaryViewStatus(doc *Document, viewerAgencyID uint64) string {
	buckets := ProjectViewStatus(doc, viewerAgencyID)
	if len(buckets) == 0 {
		return string(doc.Status)
	}
	return string(buckets[0])
}
