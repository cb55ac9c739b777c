package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"missionsync/internal/core/progress"
	perr "missionsync/internal/platform/errors"
	jdom "missionsync/internal/services/journal/domain"
)

type fakeJournal struct {
	runs []jdom.Run
	err  error
}

func (f *fakeJournal) Record(_ context.Context, r jdom.Run) error {
	f.runs = append(f.runs, r)
	return f.err
}

func newTestService(fs *fakeStore, j jdom.WriterPort) (*Service, *fakeTx) {
	tx := &fakeTx{}
	s := New(tx, binderFor(fs), j, Config{})
	clock := time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { clock = clock.Add(time.Second); return clock }
	s.newID = func() string { return "run-1" }
	return s, tx
}

func TestMerge_EndToEnd(t *testing.T) {
	a, b := missionPair()
	fs := newFakeStore(a, b)
	j := &fakeJournal{}
	s, tx := newTestService(fs, j)
	rec := &progress.Recorder{}

	res, err := s.Merge(context.Background(), a.ID, b.ID, rec)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if tx.txs != 1 {
		t.Fatalf("ran %d transactions, want 1", tx.txs)
	}
	if res.RunID != "run-1" || res.Descriptor != "MVP112024" || res.EventsReparented != 1 {
		t.Fatalf("result = %+v", res)
	}
	if !res.FinishedAt.After(res.StartedAt) {
		t.Fatalf("timestamps = %v .. %v", res.StartedAt, res.FinishedAt)
	}
	if len(rec.Snapshot()) == 0 {
		t.Fatalf("caller listener not attached")
	}
	if len(j.runs) != 1 {
		t.Fatalf("journaled %d runs", len(j.runs))
	}
	run := j.runs[0]
	if run.Op != jdom.OpMerge || !run.OK || run.Mission != a.ID || run.Source != b.ID || run.Updated != 8 {
		t.Fatalf("journal run = %+v", run)
	}
}

func TestMerge_FailureIsJournaled(t *testing.T) {
	a, b := missionPair()
	b.Descriptor = "OTHER"
	j := &fakeJournal{err: errors.New("journal down")}
	s, _ := newTestService(newFakeStore(a, b), j)

	_, err := s.Merge(context.Background(), a.ID, b.ID)
	if !perr.IsCode(err, perr.ErrorCodeDescriptorMismatch) {
		t.Fatalf("err = %v", err)
	}
	if len(j.runs) != 1 || j.runs[0].OK || j.runs[0].ErrorCode != "descriptor_mismatch" {
		t.Fatalf("journal = %+v", j.runs)
	}
}

func TestMerge_RejectsBadIDs(t *testing.T) {
	s, tx := newTestService(newFakeStore(), nil)
	for _, ids := range [][2]int64{{1, 1}, {0, 2}, {3, -1}} {
		if _, err := s.Merge(context.Background(), ids[0], ids[1]); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("Merge(%d,%d) err = %v", ids[0], ids[1], err)
		}
	}
	if tx.txs != 0 {
		t.Fatalf("invalid ids should not open a transaction")
	}
}

func TestMerge_LoadFailure(t *testing.T) {
	a, _ := missionPair()
	j := &fakeJournal{}
	s, _ := newTestService(newFakeStore(a), j)
	if _, err := s.Merge(context.Background(), a.ID, 99); err == nil {
		t.Fatalf("expected load failure")
	}
	if len(j.runs) != 1 || j.runs[0].OK {
		t.Fatalf("failed load not journaled: %+v", j.runs)
	}
}

func TestMerge_StatementTimeoutOpensTheTx(t *testing.T) {
	a, b := missionPair()
	tx := &fakeTx{}
	s := New(tx, binderFor(newFakeStore(a, b)), nil, Config{StatementTimeout: 90 * time.Second})

	if _, err := s.Merge(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(tx.execs) != 1 || tx.execs[0] != "SET LOCAL statement_timeout = 90000" {
		t.Fatalf("execs = %q", tx.execs)
	}
	if _, err := s.Load(context.Background(), a.ID); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tx.execs) != 2 {
		t.Fatalf("Load skipped the timeout: %q", tx.execs)
	}
}

func TestSummary(t *testing.T) {
	a, _ := missionPair()
	s, _ := newTestService(newFakeStore(a), nil)
	sum, err := s.Summary(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Events != 2 || sum.DiscreteReplicates != 2 || sum.LeadScientist != "Smith" {
		t.Fatalf("summary = %+v", sum)
	}
	if _, err := s.Load(context.Background(), 0); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("Load(0) err = %v", err)
	}
}

func TestNew_PanicsWithoutDeps(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(nil, nil, nil, Config{})
}
