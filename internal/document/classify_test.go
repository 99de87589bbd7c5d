package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func agencyID(id uint64) *uint64 {
	return &id
}

func TestClassifyTransitDirections(t *testing.T) {
	tests := []struct {
		name     string
		doc      Document
		viewer   uint64
		expected TransitFlow
	}{
		{
			name: "viewer is the sender",
			doc: Document{
				Status:       StatusIntransit,
				FromAgencyID: agencyID(1),
				ToAgencyID:   agencyID(2),
			},
			viewer:   1,
			expected: TransitFlow{Outgoing: true},
		},
		{
			name: "viewer is the recipient",
			doc: Document{
				Status:       StatusIntransit,
				FromAgencyID: agencyID(1),
				ToAgencyID:   agencyID(2),
			},
			viewer:   2,
			expected: TransitFlow{Incoming: true},
		},
		{
			name: "viewer is a third office",
			doc: Document{
				Status:       StatusIntransit,
				FromAgencyID: agencyID(1),
				ToAgencyID:   agencyID(2),
			},
			viewer:   3,
			expected: TransitFlow{Incoming: true},
		},
		{
			name: "self-loop counts both ways",
			doc: Document{
				Status:       StatusIntransit,
				FromAgencyID: agencyID(4),
				ToAgencyID:   agencyID(4),
			},
			viewer:   4,
			expected: TransitFlow{Incoming: true, Outgoing: true},
		},
		{
			name: "self-loop counts both ways for any viewer",
			doc: Document{
				Status:       StatusIntransit,
				FromAgencyID: agencyID(4),
				ToAgencyID:   agencyID(4),
			},
			viewer:   9,
			expected: TransitFlow{Incoming: true, Outgoing: true},
		},
		{
			name:     "dispatch document has no direction",
			doc:      Document{Status: StatusDispatch},
			viewer:   1,
			expected: TransitFlow{},
		},
		{
			name: "intransit without transit fields has no direction",
			doc: Document{
				Status: StatusIntransit,
			},
			viewer:   1,
			expected: TransitFlow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyTransit(&tt.doc, tt.viewer))
		})
	}
}

func TestClassifyTransitAssignsExactlyOneDirectionWhenNotSelfLoop(t *testing.T) {
	doc := Document{
		Status:       StatusIntransit,
		FromAgencyID: agencyID(7),
		ToAgencyID:   agencyID(8),
	}

	for viewer := uint64(1); viewer <= 10; viewer++ {
		flow := ClassifyTransit(&doc, viewer)
		assert.True(t, flow.Incoming != flow.Outgoing,
			"viewer %d: expected exactly one direction, got %+v", viewer, flow)
	}
}
