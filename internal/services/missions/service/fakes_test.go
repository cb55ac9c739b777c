package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"missionsync/internal/core/changeset"
	"missionsync/internal/modkit/repokit"
	"missionsync/internal/platform/store"
	dom "missionsync/internal/services/missions/domain"
)

type bulkCall struct {
	kind   changeset.Kind
	pks    []int64
	fields []string
}

// fakeStore keeps aggregates in memory and records every write
type fakeStore struct {
	missions map[int64]*dom.Mission
	saves    []dom.Mission
	bulk     []bulkCall
	saveErr  error
	bulkErr  error
}

func newFakeStore(ms ...*dom.Mission) *fakeStore {
	fs := &fakeStore{missions: map[int64]*dom.Mission{}}
	for _, m := range ms {
		fs.missions[m.ID] = m
	}
	return fs
}

func (f *fakeStore) LoadAggregate(_ context.Context, id int64) (*dom.Mission, error) {
	m, ok := f.missions[id]
	if !ok {
		return nil, errors.New("missing mission")
	}
	return m, nil
}

func (f *fakeStore) SaveMission(_ context.Context, m *dom.Mission) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, *m)
	return nil
}

func (f *fakeStore) BulkUpdate(_ context.Context, kind changeset.Kind, recs []changeset.Record, fields []string) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	c := bulkCall{kind: kind, fields: append([]string(nil), fields...)}
	for _, r := range recs {
		c.pks = append(c.pks, r.PK())
	}
	f.bulk = append(f.bulk, c)
	return nil
}

func (f *fakeStore) call(kind changeset.Kind) (bulkCall, bool) {
	for _, c := range f.bulk {
		if c.kind == kind {
			return c, true
		}
	}
	return bulkCall{}, false
}

// fakeTx runs fn directly, counts transactions and keeps every Exec
type fakeTx struct {
	txs   int
	execs []string
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	t.execs = append(t.execs, sql)
	return nil, nil
}
func (t *fakeTx) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) store.Row        { return nil }
func (t *fakeTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	t.txs++
	return fn(t)
}

func binderFor(fs *fakeStore) repokit.Binder[dom.StorageRepo] {
	return repokit.BindFunc[dom.StorageRepo](func(repokit.Queryer) dom.StorageRepo { return fs })
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// fullEvent builds an event with one record of every child kind
func fullEvent(pk int64, collector int, missionID, batch int64) *dom.Event {
	base := pk * 100
	rep := &dom.DiscreteReplicate{ID: base + 4, BatchID: batch, Replicate: 1}
	det := &dom.DiscreteDetail{ID: base + 3, BatchID: batch, DataType: 61, Replicates: []*dom.DiscreteReplicate{rep}}
	dh := &dom.DiscreteHeader{ID: base + 2, BatchID: batch, BottleID: 490000 + base, Details: []*dom.DiscreteDetail{det}}
	gen := &dom.PlanktonGeneral{ID: base + 6, BatchID: batch, Taxon: 90000000}
	ph := &dom.PlanktonHeader{ID: base + 5, BatchID: batch, BottleID: 490000 + base, Gear: 90000102, Generals: []*dom.PlanktonGeneral{gen}}
	com := &dom.EventComment{ID: base + 1, BatchID: batch, Comment: "deployed"}
	return &dom.Event{
		ID: pk, MissionID: missionID, BatchID: batch, EventID: collector,
		StartDate:       day(2024, 11, 3),
		Comments:        fmt.Sprintf("event %03d", collector),
		EventComments:   []*dom.EventComment{com},
		DiscreteHeaders: []*dom.DiscreteHeader{dh},
		PlanktonHeaders: []*dom.PlanktonHeader{ph},
	}
}

// missionPair returns A (authoritative, leader Smith) and B (newer, leader Jones)
func missionPair() (*dom.Mission, *dom.Mission) {
	a := &dom.Mission{
		ID: 1, Descriptor: "MVP112024", DataCenter: 20, BatchID: 1001,
		Name: "AZMP fall", LeadScientist: "Smith", Institute: "BIO",
		StartDate: day(2024, 11, 1), EndDate: day(2024, 11, 20),
	}
	a.Events = []*dom.Event{fullEvent(10, 1, a.ID, a.BatchID), fullEvent(11, 2, a.ID, a.BatchID)}

	b := &dom.Mission{
		ID: 2, Descriptor: "MVP112024", DataCenter: 20, BatchID: 2002,
		Name: "AZMP fall 2024", LeadScientist: "Jones", Institute: "BIO",
		StartDate: day(2024, 11, 2), EndDate: day(2024, 11, 21), Comments: "resubmitted",
	}
	b.Events = []*dom.Event{fullEvent(20, 1, b.ID, b.BatchID), fullEvent(21, 4, b.ID, b.BatchID)}
	b.Events[0].Comments = "updated in B"
	return a, b
}
