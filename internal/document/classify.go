package document

// TransitFlow is the direction of an in-flight document as seen from one
// office. A self-loop hop (an office routing to itself) is deliberately
// counted in both buckets; existing dashboard totals depend on it.
type TransitFlow struct {
	Incoming bool
	Outgoing bool
}

// ClassifyTransit derives the transit direction of doc from the viewpoint
// of viewerAgencyID. Only meaningful while the document is intransit; any
// other status yields a zero TransitFlow. The viewer's office is always an
// explicit parameter so the result is never cached across viewers.
func ClassifyTransit(doc *Document, viewerAgencyID uint64) TransitFlow {
	if doc.Status != StatusIntransit || doc.FromAgencyID == nil || doc.ToAgencyID == nil {
		return TransitFlow{}
	}

	from, to := *doc.FromAgencyID, *doc.ToAgencyID

	if from == to && from != 0 {
		return TransitFlow{Incoming: true, Outgoing: true}
	}
	if from == viewerAgencyID {
		return TransitFlow{Outgoing: true}
	}
	return TransitFlow{Incoming: true}
}
