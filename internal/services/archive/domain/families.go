package domain

import (
	"fmt"
	"time"

	"missionsync/internal/core/archive"
	mdom "missionsync/internal/services/missions/domain"

	"github.com/shopspring/decimal"
)

// DiscreteKey identifies a bcd_d row
type DiscreteKey struct {
	Sample    string
	DataType  int64
	Replicate int64
}

// DiscreteObject is one local discrete value ready to be written as a bcd_d row
type DiscreteObject struct {
	Descriptor string
	BatchID    int64
	Event      *mdom.Event
	Header     *mdom.DiscreteHeader
	Detail     *mdom.DiscreteDetail
	Replicate  int
	Value      decimal.NullDecimal
	Flag       string
}

// FlattenDiscrete emits one object per detail, or per replicate when a detail has replicates
func FlattenDiscrete(m *mdom.Mission) []DiscreteObject {
	var out []DiscreteObject
	for _, e := range m.Events {
		for _, h := range e.DiscreteHeaders {
			for _, d := range h.Details {
				base := DiscreteObject{Descriptor: m.Descriptor, BatchID: m.BatchID, Event: e, Header: h, Detail: d}
				if len(d.Replicates) == 0 {
					o := base
					o.Replicate, o.Value, o.Flag = 1, d.DataValue, d.ProcessFlag
					out = append(out, o)
					continue
				}
				for _, r := range d.Replicates {
					o := base
					o.Replicate, o.Value, o.Flag = r.Replicate, r.DataValue, r.ProcessFlag
					out = append(out, o)
				}
			}
		}
	}
	return out
}

// Key builds the bcd_d key of the object
func (o DiscreteObject) Key() DiscreteKey {
	return DiscreteKey{
		Sample:    archive.DiscreteKey(o.Descriptor, o.Event.EventID, o.Header.BottleID),
		DataType:  int64(o.Detail.DataType),
		Replicate: int64(o.Replicate),
	}
}

// FillDiscrete writes the bcd_d column list for o
func FillDiscrete(o DiscreteObject, t *archive.Tracker) {
	k := o.Key()
	t.Set(ColDisKey, k.Sample)
	t.Set(ColMission, o.Descriptor)
	t.Set(ColEvent, eventID(o.Event))
	t.Set(ColStation, o.Event.Station)
	t.Set(ColDisStartDepth, o.Header.StartDepth)
	t.Set(ColDisEndDepth, o.Header.EndDepth)
	t.Set(ColDisLat, o.Event.MinLat)
	t.Set(ColDisLon, o.Event.MinLon)
	t.Set(ColDisDate, o.Event.StartDate)
	t.Set(ColDisBottle, o.Header.BottleID)
	t.Set(ColDisDataType, k.DataType)
	t.Set(ColDisReplicate, k.Replicate)
	t.Set(ColDisValue, o.Value)
	t.Set(ColDisQC, qcCode(o.Detail.DataFlag))
	t.Set(ColBatch, o.BatchID)
	t.Set(ColFlag, o.Flag)
}

// DiscreteKeyOf rebuilds the key of a row read back from bcd_d
func DiscreteKeyOf(r *archive.Row) (DiscreteKey, bool) {
	s, ok1 := r.Get(ColDisKey).(string)
	dt, ok2 := r.Get(ColDisDataType).(int64)
	rep, ok3 := r.Get(ColDisReplicate).(int64)
	return DiscreteKey{Sample: s, DataType: dt, Replicate: rep}, ok1 && ok2 && ok3
}

// PlanktonKey identifies a bcd_p row
type PlanktonKey struct {
	Sample string
	Taxon  int64
	Stage  int64
}

// PlanktonObject is one local taxon count ready to be written as a bcd_p row
type PlanktonObject struct {
	Descriptor string
	BatchID    int64
	Event      *mdom.Event
	Header     *mdom.PlanktonHeader
	General    *mdom.PlanktonGeneral
}

// FlattenPlankton emits one object per plankton general record
func FlattenPlankton(m *mdom.Mission) []PlanktonObject {
	var out []PlanktonObject
	for _, e := range m.Events {
		for _, h := range e.PlanktonHeaders {
			for _, g := range h.Generals {
				out = append(out, PlanktonObject{Descriptor: m.Descriptor, BatchID: m.BatchID, Event: e, Header: h, General: g})
			}
		}
	}
	return out
}

// Key builds the bcd_p key of the object
func (o PlanktonObject) Key() PlanktonKey {
	return PlanktonKey{
		Sample: archive.PlanktonKey(o.Descriptor, o.Event.EventID, o.Header.BottleID, o.Header.Gear),
		Taxon:  o.General.Taxon,
		Stage:  int64(o.General.Stage),
	}
}

// FillPlankton writes the bcd_p column list for o
func FillPlankton(o PlanktonObject, t *archive.Tracker) {
	k := o.Key()
	t.Set(ColPlKey, k.Sample)
	t.Set(ColMission, o.Descriptor)
	t.Set(ColEvent, eventID(o.Event))
	t.Set(ColStation, o.Event.Station)
	t.Set(ColPlStartDepth, o.Header.StartDepth)
	t.Set(ColPlEndDepth, o.Header.EndDepth)
	t.Set(ColPlDate, o.Event.StartDate)
	t.Set(ColPlBottle, o.Header.BottleID)
	t.Set(ColPlGear, o.Header.Gear)
	t.Set(ColPlMesh, o.Header.MeshSize)
	t.Set(ColPlVolume, o.Header.Volume)
	t.Set(ColPlTaxon, k.Taxon)
	t.Set(ColPlStage, k.Stage)
	t.Set(ColPlCount, o.General.Count)
	t.Set(ColPlWet, o.General.WetWeight)
	t.Set(ColPlDry, o.General.DryWeight)
	t.Set(ColBatch, o.BatchID)
	t.Set(ColFlag, o.General.ProcessFlag)
}

// PlanktonKeyOf rebuilds the key of a row read back from bcd_p
func PlanktonKeyOf(r *archive.Row) (PlanktonKey, bool) {
	s, ok1 := r.Get(ColPlKey).(string)
	tx, ok2 := r.Get(ColPlTaxon).(int64)
	st, ok3 := r.Get(ColPlStage).(int64)
	return PlanktonKey{Sample: s, Taxon: tx, Stage: st}, ok1 && ok2 && ok3
}

func eventID(e *mdom.Event) string { return fmt.Sprintf("%03d", e.EventID) }

// qcCode renders a data flag as the archive's two character quality code; 0 means unassessed
func qcCode(flag int) string {
	if flag <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", flag)
}

// TableReport is what one table sync produced
type TableReport struct {
	Table   string         `json:"table"`
	Objects int            `json:"objects"`
	Creates int            `json:"creates"`
	Updates int            `json:"updates"`
	Fields  []string       `json:"fields"`
	Result  archive.Result `json:"result"`
}

// SyncReport describes one archive sync run
type SyncReport struct {
	RunID      string        `json:"run_id"`
	Mission    int64         `json:"mission"`
	Descriptor string        `json:"descriptor"`
	Uploader   string        `json:"uploader"`
	Tables     []TableReport `json:"tables"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Totals sums the write results across tables
func (r SyncReport) Totals() archive.Result {
	var t archive.Result
	for _, tr := range r.Tables {
		t.Created += tr.Result.Created
		t.Updated += tr.Result.Updated
		t.Chunks += tr.Result.Chunks
	}
	return t
}
