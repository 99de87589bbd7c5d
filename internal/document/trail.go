package document

import (
	"sort"
	"time"
)

// TrailEntryStatus is the per-entry completion state of a reconstructed hop.
type TrailEntryStatus string

const (
	TrailCompleted TrailEntryStatus = "completed"
	TrailCurrent   TrailEntryStatus = "current"
	TrailPending   TrailEntryStatus = "pending"
)

// TrailEntry is one row of the human-readable routing history. Field names
// match what the routing form and detail timeline consume.
type TrailEntry struct {
	Date            time.Time        `json:"date"`
	From            string           `json:"from"`
	To              string           `json:"to"`
	Receiver        string           `json:"receiver"`
	ActionRequested string           `json:"actionRequested"`
	ActionTaken     string           `json:"actionTaken"`
	Remarks         string           `json:"remarks"`
	DeliveryMethod  string           `json:"deliveryMethod"`
	IsOrigin        bool             `json:"isOrigin"`
	Status          TrailEntryStatus `json:"status"`
}

// NameResolver turns catalog and account ids into display names.
type NameResolver interface {
	AgencyName(id uint64) string
	ActionName(id uint64) string
	UserName(id uint64) string
}

// BuildTrail turns a document's historical hops into an ordered audit
// trail: a synthetic creation entry first, then the hops oldest-first.
// The store does not guarantee event order, so it is imposed here.
func BuildTrail(doc *Document, events []TrailEvent, names NameResolver) []TrailEntry {
	sorted := make([]TrailEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ReleasedAt.Before(sorted[j].ReleasedAt)
	})

	origin := names.AgencyName(doc.OriginOfficeID)
	entries := make([]TrailEntry, 0, len(sorted)+1)
	entries = append(entries, TrailEntry{
		Date:            doc.CreatedAt,
		From:            origin,
		To:              origin,
		Receiver:        names.UserName(doc.CreatedByID),
		ActionRequested: "None",
		ActionTaken:     "Created",
		Remarks:         remarksOrNone(doc.Remarks),
		DeliveryMethod:  "Personal",
		IsOrigin:        true,
		Status:          TrailCompleted,
	})

	for _, ev := range sorted {
		entries = append(entries, buildEntry(ev, names))
	}

	return entries
}

func buildEntry(ev TrailEvent, names NameResolver) TrailEntry {
	status := TrailPending
	switch {
	case ev.CompletedByID != nil:
		status = TrailCompleted
	case ev.ReceivedByID != nil:
		status = TrailCurrent
	}

	receiver := "None"
	if ev.ReceivedByID != nil {
		receiver = names.UserName(*ev.ReceivedByID)
	}

	actionRequested := "None"
	if ev.ActionRequestedID != nil {
		actionRequested = names.ActionName(*ev.ActionRequestedID)
	}
	actionTaken := "Ongoing"
	if ev.ActionTakenID != nil {
		actionTaken = names.ActionName(*ev.ActionTakenID)
	}

	remarks := ev.ReceivedNotes
	if ev.ReceivedByID == nil || remarks == "" {
		remarks = ev.ReleasedNotes
	}

	method := ev.DeliveryMethod
	if method == "" {
		method = "Personal"
	}

	return TrailEntry{
		Date:            ev.ReleasedAt,
		From:            names.AgencyName(ev.FromAgencyID),
		To:              names.AgencyName(ev.ToAgencyID),
		Receiver:        receiver,
		ActionRequested: actionRequested,
		ActionTaken:     actionTaken,
		Remarks:         remarksOrNone(remarks),
		DeliveryMethod:  method,
		IsOrigin:        false,
		Status:          status,
	}
}

func remarksOrNone(remarks string) string {
	if remarks == "" {
		return "None"
	}
	return remarks
}
