package service

import (
	"context"
	"fmt"

	"missionsync/internal/core/changeset"
	"missionsync/internal/core/progress"
	perr "missionsync/internal/platform/errors"
	dom "missionsync/internal/services/missions/domain"
)

// DefaultPartition is the only data-center code merges may touch unless configured otherwise
const DefaultPartition = 20

// MergeCoordinator folds mission src into mission dest
// dest is taken as authoritative; src values win on every copied field
// it is single use and not safe for concurrent calls
type MergeCoordinator struct {
	dest, src *dom.Mission
	store     dom.StorageRepo
	partition int
	status    *progress.Reporter
	stats     dom.MergeStats
}

// NewMergeCoordinator builds a coordinator over two loaded aggregates
func NewMergeCoordinator(dest, src *dom.Mission, st dom.StorageRepo, partition int, ls ...progress.Listener) *MergeCoordinator {
	if partition == 0 {
		partition = DefaultPartition
	}
	return &MergeCoordinator{
		dest:      dest,
		src:       src,
		store:     st,
		partition: partition,
		status:    progress.NewReporter(ls...),
	}
}

// RegisterListener adds a status listener; listeners are called in registration order
func (c *MergeCoordinator) RegisterListener(l progress.Listener) { c.status.Register(l) }

// CheckPreconditions refuses merges across different missions or outside the permitted partition
// nothing is mutated; the failure is reported to listeners before it is returned
func (c *MergeCoordinator) CheckPreconditions() error {
	if c.dest.Descriptor != c.src.Descriptor {
		err := perr.DescriptorMismatchf("mission descriptors do not match: %q != %q", c.dest.Descriptor, c.src.Descriptor)
		c.status.Report(err.Error())
		return err
	}
	for _, m := range []*dom.Mission{c.dest, c.src} {
		if m.DataCenter != c.partition {
			err := perr.UnsupportedPartitionf(
				"mission %d belongs to data center %d; only %d can be merged", m.ID, m.DataCenter, c.partition)
			c.status.Report(err.Error())
			return err
		}
	}
	return nil
}

// MergeEvents moves every src event into dest and returns the staged writes
//
// An event whose collector id already exists in dest has the merge fields copied onto the
// dest event. Any other event is reparented: its mission reference becomes dest and dest's
// batch id is propagated through it and all of its descendants. Children of an event on the
// merge path are left untouched
func (c *MergeCoordinator) MergeEvents(ctx context.Context) (changeset.ChangeSet, error) {
	var acc changeset.Accumulator
	events := append([]*dom.Event(nil), c.src.Events...)
	for i, e := range events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.status.Progress(fmt.Sprintf("Merging event %03d", e.EventID), i+1, len(events))

		if target := c.dest.EventByID(e.EventID); target != nil {
			for _, f := range dom.EventMergeFields {
				if err := target.Set(f, e.Get(f)); err != nil {
					return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "merge event %03d", e.EventID)
				}
			}
			acc.Track(target, dom.EventMergeFields...)
			c.stats.EventsMerged++
			continue
		}

		if err := e.Set(dom.FieldMissionID, c.dest.ID); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "reparent event %03d", e.EventID)
		}
		acc.Track(e, dom.FieldMissionID)
		moved, err := changeset.Propagate(dom.Schema, e, dom.FieldBatchID, c.dest.BatchID)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "reparent event %03d", e.EventID)
		}
		if err := acc.Combine(moved); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "reparent event %03d", e.EventID)
		}
		c.src.RemoveEvent(e)
		c.dest.Events = append(c.dest.Events, e)
		c.stats.EventsReparented++
	}
	return acc.Result(), nil
}

// MergeMission checks preconditions, copies the root fields, saves dest once,
// merges the events and flushes the staged writes kind by kind
func (c *MergeCoordinator) MergeMission(ctx context.Context) (dom.MergeStats, error) {
	if err := c.CheckPreconditions(); err != nil {
		return c.stats, err
	}

	c.status.Report(fmt.Sprintf("Merging mission %s (%d <- %d)", c.dest.Descriptor, c.dest.ID, c.src.ID))
	for _, f := range dom.MissionMergeFields {
		if err := c.dest.Set(f, c.src.Get(f)); err != nil {
			return c.stats, perr.Wrapf(err, perr.ErrorCodeUnknown, "merge mission field %s", f)
		}
	}
	if err := c.store.SaveMission(ctx, c.dest); err != nil {
		return c.stats, err
	}

	cs, err := c.MergeEvents(ctx)
	if err != nil {
		return c.stats, err
	}
	c.stats.Records = cs.Len()
	c.stats.Kinds = make(map[string]int, len(cs))
	for _, k := range cs.Kinds() {
		c.stats.Kinds[string(k)] = len(cs[k].Records)
	}

	if err := changeset.Flush(ctx, c.store, cs, c.status); err != nil {
		return c.stats, err
	}
	c.status.Report(fmt.Sprintf("Merged %d events, reparented %d", c.stats.EventsMerged, c.stats.EventsReparented))
	return c.stats, nil
}
