// Package domain defines the mission aggregate: the mission root, its events and the
// sample records hanging off each event
package domain

import (
	"time"

	"missionsync/internal/core/changeset"

	"github.com/shopspring/decimal"
)

// Entity kinds
const (
	KindMission           changeset.Kind = "mission"
	KindEvent             changeset.Kind = "event"
	KindEventComment      changeset.Kind = "event_comment"
	KindDiscreteHeader    changeset.Kind = "discrete_header"
	KindDiscreteDetail    changeset.Kind = "discrete_detail"
	KindDiscreteReplicate changeset.Kind = "discrete_replicate"
	KindPlanktonHeader    changeset.Kind = "plankton_header"
	KindPlanktonGeneral   changeset.Kind = "plankton_general"
)

// Shared column names
const (
	FieldMissionID = "mission_id"
	FieldBatchID   = "batch_id"
)

// Mission is the aggregate root
type Mission struct {
	ID               int64
	Descriptor       string
	DataCenter       int
	BatchID          int64
	Name             string
	LeadScientist    string
	StartDate        *time.Time
	EndDate          *time.Time
	Institute        string
	Platform         string
	Protocol         string
	GeographicRegion string
	Comments         string
	UpdatedBy        string
	UpdatedAt        time.Time

	Events []*Event
}

// MissionMergeFields are copied from the source mission onto the destination
var MissionMergeFields = []string{
	"name", "lead_scientist", "start_date", "end_date", "institute", "platform",
	"protocol", "geographic_region", "comments", "updated_by", "updated_at",
}

var missionFields = fieldTable[Mission]{
	"descriptor":        field(func(m *Mission) *string { return &m.Descriptor }),
	"data_center":       field(func(m *Mission) *int { return &m.DataCenter }),
	FieldBatchID:        field(func(m *Mission) *int64 { return &m.BatchID }),
	"name":              field(func(m *Mission) *string { return &m.Name }),
	"lead_scientist":    field(func(m *Mission) *string { return &m.LeadScientist }),
	"start_date":        field(func(m *Mission) **time.Time { return &m.StartDate }),
	"end_date":          field(func(m *Mission) **time.Time { return &m.EndDate }),
	"institute":         field(func(m *Mission) *string { return &m.Institute }),
	"platform":          field(func(m *Mission) *string { return &m.Platform }),
	"protocol":          field(func(m *Mission) *string { return &m.Protocol }),
	"geographic_region": field(func(m *Mission) *string { return &m.GeographicRegion }),
	"comments":          field(func(m *Mission) *string { return &m.Comments }),
	"updated_by":        field(func(m *Mission) *string { return &m.UpdatedBy }),
	"updated_at":        field(func(m *Mission) *time.Time { return &m.UpdatedAt }),
}

func (m *Mission) Kind() changeset.Kind      { return KindMission }
func (m *Mission) PK() int64                 { return m.ID }
func (m *Mission) Has(f string) bool         { return missionFields.has(f) }
func (m *Mission) Get(f string) any          { return missionFields.get(m, f) }
func (m *Mission) Set(f string, v any) error { return missionFields.set(KindMission, m, f, v) }

// Event is one station occupation or net tow, identified within a mission by EventID
type Event struct {
	ID          int64
	MissionID   int64
	BatchID     int64
	EventID     int
	Station     string
	StartDate   *time.Time
	EndDate     *time.Time
	MinLat      *float64
	MaxLat      *float64
	MinLon      *float64
	MaxLon      *float64
	Comments    string
	UpdatedBy   string
	UpdatedAt   time.Time
	ProcessFlag string

	EventComments   []*EventComment
	DiscreteHeaders []*DiscreteHeader
	PlanktonHeaders []*PlanktonHeader
}

// EventMergeFields are copied from a source event onto the destination event sharing its EventID
var EventMergeFields = []string{
	"start_date", "end_date", "min_lat", "max_lat", "min_lon", "max_lon",
	"comments", "updated_by", "updated_at", "process_flag",
}

var eventFields = fieldTable[Event]{
	FieldMissionID: field(func(e *Event) *int64 { return &e.MissionID }),
	FieldBatchID:   field(func(e *Event) *int64 { return &e.BatchID }),
	"event_id":     field(func(e *Event) *int { return &e.EventID }),
	"station":      field(func(e *Event) *string { return &e.Station }),
	"start_date":   field(func(e *Event) **time.Time { return &e.StartDate }),
	"end_date":     field(func(e *Event) **time.Time { return &e.EndDate }),
	"min_lat":      field(func(e *Event) **float64 { return &e.MinLat }),
	"max_lat":      field(func(e *Event) **float64 { return &e.MaxLat }),
	"min_lon":      field(func(e *Event) **float64 { return &e.MinLon }),
	"max_lon":      field(func(e *Event) **float64 { return &e.MaxLon }),
	"comments":     field(func(e *Event) *string { return &e.Comments }),
	"updated_by":   field(func(e *Event) *string { return &e.UpdatedBy }),
	"updated_at":   field(func(e *Event) *time.Time { return &e.UpdatedAt }),
	"process_flag": field(func(e *Event) *string { return &e.ProcessFlag }),
}

func (e *Event) Kind() changeset.Kind      { return KindEvent }
func (e *Event) PK() int64                 { return e.ID }
func (e *Event) Has(f string) bool         { return eventFields.has(f) }
func (e *Event) Get(f string) any          { return eventFields.get(e, f) }
func (e *Event) Set(f string, v any) error { return eventFields.set(KindEvent, e, f, v) }

// EventComment is a free-text note attached to an event
type EventComment struct {
	ID      int64
	EventPK int64
	BatchID int64
	Seq     int
	Comment string
}

var eventCommentFields = fieldTable[EventComment]{
	"event_pk":    field(func(c *EventComment) *int64 { return &c.EventPK }),
	FieldBatchID:  field(func(c *EventComment) *int64 { return &c.BatchID }),
	"comment_seq": field(func(c *EventComment) *int { return &c.Seq }),
	"comment":     field(func(c *EventComment) *string { return &c.Comment }),
}

func (c *EventComment) Kind() changeset.Kind { return KindEventComment }
func (c *EventComment) PK() int64            { return c.ID }
func (c *EventComment) Has(f string) bool    { return eventCommentFields.has(f) }
func (c *EventComment) Get(f string) any     { return eventCommentFields.get(c, f) }
func (c *EventComment) Set(f string, v any) error {
	return eventCommentFields.set(KindEventComment, c, f, v)
}

// DiscreteHeader is one bottle fired during an event
type DiscreteHeader struct {
	ID          int64
	EventPK     int64
	BatchID     int64
	BottleID    int64
	StartDepth  *float64
	EndDepth    *float64
	Gear        int
	ProcessFlag string

	Details []*DiscreteDetail
}

var discreteHeaderFields = fieldTable[DiscreteHeader]{
	"event_pk":     field(func(h *DiscreteHeader) *int64 { return &h.EventPK }),
	FieldBatchID:   field(func(h *DiscreteHeader) *int64 { return &h.BatchID }),
	"bottle_id":    field(func(h *DiscreteHeader) *int64 { return &h.BottleID }),
	"start_depth":  field(func(h *DiscreteHeader) **float64 { return &h.StartDepth }),
	"end_depth":    field(func(h *DiscreteHeader) **float64 { return &h.EndDepth }),
	"gear":         field(func(h *DiscreteHeader) *int { return &h.Gear }),
	"process_flag": field(func(h *DiscreteHeader) *string { return &h.ProcessFlag }),
}

func (h *DiscreteHeader) Kind() changeset.Kind { return KindDiscreteHeader }
func (h *DiscreteHeader) PK() int64            { return h.ID }
func (h *DiscreteHeader) Has(f string) bool    { return discreteHeaderFields.has(f) }
func (h *DiscreteHeader) Get(f string) any     { return discreteHeaderFields.get(h, f) }
func (h *DiscreteHeader) Set(f string, v any) error {
	return discreteHeaderFields.set(KindDiscreteHeader, h, f, v)
}

// DiscreteDetail is one measured data type for a bottle
type DiscreteDetail struct {
	ID          int64
	HeaderPK    int64
	BatchID     int64
	DataType    int
	DataValue   decimal.NullDecimal
	DataFlag    int
	ProcessFlag string

	Replicates []*DiscreteReplicate
}

var discreteDetailFields = fieldTable[DiscreteDetail]{
	"header_pk":    field(func(d *DiscreteDetail) *int64 { return &d.HeaderPK }),
	FieldBatchID:   field(func(d *DiscreteDetail) *int64 { return &d.BatchID }),
	"data_type":    field(func(d *DiscreteDetail) *int { return &d.DataType }),
	"data_value":   field(func(d *DiscreteDetail) *decimal.NullDecimal { return &d.DataValue }),
	"data_flag":    field(func(d *DiscreteDetail) *int { return &d.DataFlag }),
	"process_flag": field(func(d *DiscreteDetail) *string { return &d.ProcessFlag }),
}

func (d *DiscreteDetail) Kind() changeset.Kind { return KindDiscreteDetail }
func (d *DiscreteDetail) PK() int64            { return d.ID }
func (d *DiscreteDetail) Has(f string) bool    { return discreteDetailFields.has(f) }
func (d *DiscreteDetail) Get(f string) any     { return discreteDetailFields.get(d, f) }
func (d *DiscreteDetail) Set(f string, v any) error {
	return discreteDetailFields.set(KindDiscreteDetail, d, f, v)
}

// DiscreteReplicate is one repeated measurement of a detail
type DiscreteReplicate struct {
	ID          int64
	DetailPK    int64
	BatchID     int64
	Replicate   int
	DataValue   decimal.NullDecimal
	ProcessFlag string
}

var discreteReplicateFields = fieldTable[DiscreteReplicate]{
	"detail_pk":    field(func(r *DiscreteReplicate) *int64 { return &r.DetailPK }),
	FieldBatchID:   field(func(r *DiscreteReplicate) *int64 { return &r.BatchID }),
	"replicate":    field(func(r *DiscreteReplicate) *int { return &r.Replicate }),
	"data_value":   field(func(r *DiscreteReplicate) *decimal.NullDecimal { return &r.DataValue }),
	"process_flag": field(func(r *DiscreteReplicate) *string { return &r.ProcessFlag }),
}

func (r *DiscreteReplicate) Kind() changeset.Kind { return KindDiscreteReplicate }
func (r *DiscreteReplicate) PK() int64            { return r.ID }
func (r *DiscreteReplicate) Has(f string) bool    { return discreteReplicateFields.has(f) }
func (r *DiscreteReplicate) Get(f string) any     { return discreteReplicateFields.get(r, f) }
func (r *DiscreteReplicate) Set(f string, v any) error {
	return discreteReplicateFields.set(KindDiscreteReplicate, r, f, v)
}

// PlanktonHeader is one net haul, identified by bottle and gear
type PlanktonHeader struct {
	ID          int64
	EventPK     int64
	BatchID     int64
	BottleID    int64
	Gear        int
	StartDepth  *float64
	EndDepth    *float64
	MeshSize    *int
	Volume      decimal.NullDecimal
	ProcessFlag string

	Generals []*PlanktonGeneral
}

var planktonHeaderFields = fieldTable[PlanktonHeader]{
	"event_pk":     field(func(h *PlanktonHeader) *int64 { return &h.EventPK }),
	FieldBatchID:   field(func(h *PlanktonHeader) *int64 { return &h.BatchID }),
	"bottle_id":    field(func(h *PlanktonHeader) *int64 { return &h.BottleID }),
	"gear":         field(func(h *PlanktonHeader) *int { return &h.Gear }),
	"start_depth":  field(func(h *PlanktonHeader) **float64 { return &h.StartDepth }),
	"end_depth":    field(func(h *PlanktonHeader) **float64 { return &h.EndDepth }),
	"mesh_size":    field(func(h *PlanktonHeader) **int { return &h.MeshSize }),
	"volume":       field(func(h *PlanktonHeader) *decimal.NullDecimal { return &h.Volume }),
	"process_flag": field(func(h *PlanktonHeader) *string { return &h.ProcessFlag }),
}

func (h *PlanktonHeader) Kind() changeset.Kind { return KindPlanktonHeader }
func (h *PlanktonHeader) PK() int64            { return h.ID }
func (h *PlanktonHeader) Has(f string) bool    { return planktonHeaderFields.has(f) }
func (h *PlanktonHeader) Get(f string) any     { return planktonHeaderFields.get(h, f) }
func (h *PlanktonHeader) Set(f string, v any) error {
	return planktonHeaderFields.set(KindPlanktonHeader, h, f, v)
}

// PlanktonGeneral is one taxon count from a net haul
type PlanktonGeneral struct {
	ID          int64
	HeaderPK    int64
	BatchID     int64
	Taxon       int64
	Stage       int
	Count       *int
	WetWeight   decimal.NullDecimal
	DryWeight   decimal.NullDecimal
	ProcessFlag string
}

var planktonGeneralFields = fieldTable[PlanktonGeneral]{
	"header_pk":    field(func(g *PlanktonGeneral) *int64 { return &g.HeaderPK }),
	FieldBatchID:   field(func(g *PlanktonGeneral) *int64 { return &g.BatchID }),
	"taxon":        field(func(g *PlanktonGeneral) *int64 { return &g.Taxon }),
	"stage":        field(func(g *PlanktonGeneral) *int { return &g.Stage }),
	"count":        field(func(g *PlanktonGeneral) **int { return &g.Count }),
	"wet_weight":   field(func(g *PlanktonGeneral) *decimal.NullDecimal { return &g.WetWeight }),
	"dry_weight":   field(func(g *PlanktonGeneral) *decimal.NullDecimal { return &g.DryWeight }),
	"process_flag": field(func(g *PlanktonGeneral) *string { return &g.ProcessFlag }),
}

func (g *PlanktonGeneral) Kind() changeset.Kind { return KindPlanktonGeneral }
func (g *PlanktonGeneral) PK() int64            { return g.ID }
func (g *PlanktonGeneral) Has(f string) bool    { return planktonGeneralFields.has(f) }
func (g *PlanktonGeneral) Get(f string) any     { return planktonGeneralFields.get(g, f) }
func (g *PlanktonGeneral) Set(f string, v any) error {
	return planktonGeneralFields.set(KindPlanktonGeneral, g, f, v)
}
