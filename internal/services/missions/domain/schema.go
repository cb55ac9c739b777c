package domain

import "missionsync/internal/core/changeset"

// Schema is the relationship table of the mission aggregate, walked when a value
// such as batch_id has to reach every record under an event
var Schema = changeset.MustSchema(
	changeset.Node{
		Kind:   KindMission,
		Fields: missionFields.names(),
		Relations: []changeset.Relation{
			{Child: KindEvent, Children: func(r changeset.Record) []changeset.Record { return records(r.(*Mission).Events) }},
		},
	},
	changeset.Node{
		Kind:   KindEvent,
		Fields: eventFields.names(),
		Relations: []changeset.Relation{
			{Child: KindEventComment, Children: func(r changeset.Record) []changeset.Record { return records(r.(*Event).EventComments) }},
			{Child: KindDiscreteHeader, Children: func(r changeset.Record) []changeset.Record { return records(r.(*Event).DiscreteHeaders) }},
			{Child: KindPlanktonHeader, Children: func(r changeset.Record) []changeset.Record { return records(r.(*Event).PlanktonHeaders) }},
		},
	},
	changeset.Node{Kind: KindEventComment, Fields: eventCommentFields.names()},
	changeset.Node{
		Kind:   KindDiscreteHeader,
		Fields: discreteHeaderFields.names(),
		Relations: []changeset.Relation{
			{Child: KindDiscreteDetail, Children: func(r changeset.Record) []changeset.Record { return records(r.(*DiscreteHeader).Details) }},
		},
	},
	changeset.Node{
		Kind:   KindDiscreteDetail,
		Fields: discreteDetailFields.names(),
		Relations: []changeset.Relation{
			{Child: KindDiscreteReplicate, Children: func(r changeset.Record) []changeset.Record { return records(r.(*DiscreteDetail).Replicates) }},
		},
	},
	changeset.Node{Kind: KindDiscreteReplicate, Fields: discreteReplicateFields.names()},
	changeset.Node{
		Kind:   KindPlanktonHeader,
		Fields: planktonHeaderFields.names(),
		Relations: []changeset.Relation{
			{Child: KindPlanktonGeneral, Children: func(r changeset.Record) []changeset.Record { return records(r.(*PlanktonHeader).Generals) }},
		},
	},
	changeset.Node{Kind: KindPlanktonGeneral, Fields: planktonGeneralFields.names()},
)

// Columns lists the writable columns of kind in lexical order, nil for unknown kinds
func Columns(kind changeset.Kind) []string {
	switch kind {
	case KindMission:
		return missionFields.names()
	case KindEvent:
		return eventFields.names()
	case KindEventComment:
		return eventCommentFields.names()
	case KindDiscreteHeader:
		return discreteHeaderFields.names()
	case KindDiscreteDetail:
		return discreteDetailFields.names()
	case KindDiscreteReplicate:
		return discreteReplicateFields.names()
	case KindPlanktonHeader:
		return planktonHeaderFields.names()
	case KindPlanktonGeneral:
		return planktonGeneralFields.names()
	}
	return nil
}

// EventByID finds the event carrying collector id id, nil when absent
func (m *Mission) EventByID(id int) *Event {
	for _, e := range m.Events {
		if e.EventID == id {
			return e
		}
	}
	return nil
}

// RemoveEvent drops e from the mission's event list; it reports whether e was present
func (m *Mission) RemoveEvent(e *Event) bool {
	for i, x := range m.Events {
		if x == e {
			m.Events = append(m.Events[:i:i], m.Events[i+1:]...)
			return true
		}
	}
	return false
}

// Summary counts the records of a mission aggregate
type Summary struct {
	ID                 int64  `json:"id"`
	Descriptor         string `json:"descriptor"`
	DataCenter         int    `json:"data_center"`
	BatchID            int64  `json:"batch_id"`
	Name               string `json:"name"`
	LeadScientist      string `json:"lead_scientist"`
	Events             int    `json:"events"`
	DiscreteHeaders    int    `json:"discrete_headers"`
	DiscreteDetails    int    `json:"discrete_details"`
	DiscreteReplicates int    `json:"discrete_replicates"`
	PlanktonHeaders    int    `json:"plankton_headers"`
	PlanktonGenerals   int    `json:"plankton_generals"`
}

// Summarize counts records across the aggregate
func (m *Mission) Summarize() Summary {
	s := Summary{
		ID:            m.ID,
		Descriptor:    m.Descriptor,
		DataCenter:    m.DataCenter,
		BatchID:       m.BatchID,
		Name:          m.Name,
		LeadScientist: m.LeadScientist,
		Events:        len(m.Events),
	}
	for _, e := range m.Events {
		s.DiscreteHeaders += len(e.DiscreteHeaders)
		for _, h := range e.DiscreteHeaders {
			s.DiscreteDetails += len(h.Details)
			for _, d := range h.Details {
				s.DiscreteReplicates += len(d.Replicates)
			}
		}
		s.PlanktonHeaders += len(e.PlanktonHeaders)
		for _, h := range e.PlanktonHeaders {
			s.PlanktonGenerals += len(h.Generals)
		}
	}
	return s
}
