// Package repo provides the Postgres mission store
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"missionsync/internal/core/archive"
	"missionsync/internal/core/changeset"
	"missionsync/internal/modkit/repokit"
	perr "missionsync/internal/platform/errors"
	"missionsync/internal/platform/store"
	str "missionsync/internal/platform/strings"
	dom "missionsync/internal/services/missions/domain"
)

// maxParams stays under the Postgres bind parameter limit of 65535
const maxParams = 60000

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[dom.StorageRepo] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) dom.StorageRepo { return &pg{q: q} }

// LoadAggregate reads a mission and every record below it
func (s *pg) LoadAggregate(ctx context.Context, id int64) (*dom.Mission, error) {
	m, err := store.One(ctx, s.q, scanMission, `
		SELECT id, descriptor, data_center, batch_id, COALESCE(name, ''), COALESCE(lead_scientist, ''),
		       start_date, end_date, COALESCE(institute, ''), COALESCE(platform, ''), COALESCE(protocol, ''),
		       COALESCE(geographic_region, ''), COALESCE(comments, ''), COALESCE(updated_by, ''), updated_at
		FROM missions
		WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return nil, perr.WithField(perr.NotFoundf("mission %d not found", id), "id")
		}
		return nil, perr.FromPostgresf(err, "load mission %d", id)
	}

	events, err := store.Many(ctx, s.q, scanEvent, `
		SELECT id, mission_id, batch_id, event_id, COALESCE(station, ''), start_date, end_date,
		       min_lat, max_lat, min_lon, max_lon, COALESCE(comments, ''), COALESCE(updated_by, ''),
		       updated_at, COALESCE(process_flag, '')
		FROM events
		WHERE mission_id = $1
		ORDER BY event_id, id`, id)
	if err != nil {
		return nil, perr.FromPostgresf(err, "load events of mission %d", id)
	}
	m.Events = events
	byEvent := make(map[int64]*dom.Event, len(events))
	for _, e := range events {
		byEvent[e.ID] = e
	}

	comments, err := store.Many(ctx, s.q, scanEventComment, `
		SELECT c.id, c.event_pk, c.batch_id, c.comment_seq, COALESCE(c.comment, '')
		FROM event_comments c
		JOIN events e ON e.id = c.event_pk
		WHERE e.mission_id = $1
		ORDER BY c.event_pk, c.comment_seq, c.id`, id)
	if err != nil {
		return nil, perr.FromPostgresf(err, "load event comments of mission %d", id)
	}
	for _, c := range comments {
		if e := byEvent[c.EventPK]; e != nil {
			e.EventComments = append(e.EventComments, c)
		}
	}

	if err := s.loadDiscrete(ctx, id, byEvent); err != nil {
		return nil, err
	}
	if err := s.loadPlankton(ctx, id, byEvent); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *pg) loadDiscrete(ctx context.Context, id int64, byEvent map[int64]*dom.Event) error {
	headers, err := store.Many(ctx, s.q, scanDiscreteHeader, `
		SELECT h.id, h.event_pk, h.batch_id, h.bottle_id, h.start_depth, h.end_depth, h.gear,
		       COALESCE(h.process_flag, '')
		FROM discrete_headers h
		JOIN events e ON e.id = h.event_pk
		WHERE e.mission_id = $1
		ORDER BY h.event_pk, h.bottle_id, h.id`, id)
	if err != nil {
		return perr.FromPostgresf(err, "load discrete headers of mission %d", id)
	}
	byHeader := make(map[int64]*dom.DiscreteHeader, len(headers))
	for _, h := range headers {
		byHeader[h.ID] = h
		if e := byEvent[h.EventPK]; e != nil {
			e.DiscreteHeaders = append(e.DiscreteHeaders, h)
		}
	}

	details, err := store.Many(ctx, s.q, scanDiscreteDetail, `
		SELECT d.id, d.header_pk, d.batch_id, d.data_type, d.data_value, d.data_flag,
		       COALESCE(d.process_flag, '')
		FROM discrete_details d
		JOIN discrete_headers h ON h.id = d.header_pk
		JOIN events e ON e.id = h.event_pk
		WHERE e.mission_id = $1
		ORDER BY d.header_pk, d.data_type, d.id`, id)
	if err != nil {
		return perr.FromPostgresf(err, "load discrete details of mission %d", id)
	}
	byDetail := make(map[int64]*dom.DiscreteDetail, len(details))
	for _, d := range details {
		byDetail[d.ID] = d
		if h := byHeader[d.HeaderPK]; h != nil {
			h.Details = append(h.Details, d)
		}
	}

	reps, err := store.Many(ctx, s.q, scanDiscreteReplicate, `
		SELECT r.id, r.detail_pk, r.batch_id, r.replicate, r.data_value, COALESCE(r.process_flag, '')
		FROM discrete_replicates r
		JOIN discrete_details d ON d.id = r.detail_pk
		JOIN discrete_headers h ON h.id = d.header_pk
		JOIN events e ON e.id = h.event_pk
		WHERE e.mission_id = $1
		ORDER BY r.detail_pk, r.replicate, r.id`, id)
	if err != nil {
		return perr.FromPostgresf(err, "load discrete replicates of mission %d", id)
	}
	for _, r := range reps {
		if d := byDetail[r.DetailPK]; d != nil {
			d.Replicates = append(d.Replicates, r)
		}
	}
	return nil
}

func (s *pg) loadPlankton(ctx context.Context, id int64, byEvent map[int64]*dom.Event) error {
	headers, err := store.Many(ctx, s.q, scanPlanktonHeader, `
		SELECT h.id, h.event_pk, h.batch_id, h.bottle_id, h.gear, h.start_depth, h.end_depth,
		       h.mesh_size, h.volume, COALESCE(h.process_flag, '')
		FROM plankton_headers h
		JOIN events e ON e.id = h.event_pk
		WHERE e.mission_id = $1
		ORDER BY h.event_pk, h.bottle_id, h.gear, h.id`, id)
	if err != nil {
		return perr.FromPostgresf(err, "load plankton headers of mission %d", id)
	}
	byHeader := make(map[int64]*dom.PlanktonHeader, len(headers))
	for _, h := range headers {
		byHeader[h.ID] = h
		if e := byEvent[h.EventPK]; e != nil {
			e.PlanktonHeaders = append(e.PlanktonHeaders, h)
		}
	}

	gens, err := store.Many(ctx, s.q, scanPlanktonGeneral, `
		SELECT g.id, g.header_pk, g.batch_id, g.taxon, g.stage, g.count, g.wet_weight, g.dry_weight,
		       COALESCE(g.process_flag, '')
		FROM plankton_generals g
		JOIN plankton_headers h ON h.id = g.header_pk
		JOIN events e ON e.id = h.event_pk
		WHERE e.mission_id = $1
		ORDER BY g.header_pk, g.taxon, g.stage, g.id`, id)
	if err != nil {
		return perr.FromPostgresf(err, "load plankton generals of mission %d", id)
	}
	for _, g := range gens {
		if h := byHeader[g.HeaderPK]; h != nil {
			h.Generals = append(h.Generals, g)
		}
	}
	return nil
}

// SaveMission writes every column of the mission root
func (s *pg) SaveMission(ctx context.Context, m *dom.Mission) error {
	n, err := s.update(ctx, dom.KindMission, []changeset.Record{m}, dom.Columns(dom.KindMission))
	if err != nil {
		return err
	}
	if n == 0 {
		return perr.WithField(perr.NotFoundf("mission %d not found", m.ID), "id")
	}
	return nil
}

// BulkUpdate writes fields on every record of kind with UPDATE ... FROM (VALUES ...)
// batches are split only to respect the bind parameter limit
func (s *pg) BulkUpdate(ctx context.Context, kind changeset.Kind, recs []changeset.Record, fields []string) error {
	_, err := s.update(ctx, kind, recs, fields)
	return err
}

func (s *pg) update(ctx context.Context, kind changeset.Kind, recs []changeset.Record, fields []string) (int64, error) {
	if len(recs) == 0 || len(fields) == 0 {
		return 0, nil
	}
	tbl, ok := tables[kind]
	if !ok {
		return 0, perr.InvalidArgf("no table for kind %s", kind)
	}
	for _, f := range fields {
		if _, ok := tbl.types[f]; !ok {
			return 0, perr.WithField(perr.InvalidArgf("%s has no column %s", tbl.name, f), f)
		}
	}

	var total int64
	for _, chunk := range archive.Chunks(recs, maxParams/(len(fields)+1)) {
		sql, args, err := buildUpdate(tbl, chunk, fields)
		if err != nil {
			return total, err
		}
		tag, err := s.q.Exec(ctx, sql, args...)
		if err != nil {
			return total, perr.FromPostgresf(err, "bulk update %s", tbl.name)
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

// buildUpdate renders one UPDATE ... FROM (VALUES ...) statement. Blank text
// is written as NULL, matching the COALESCE on load.
func buildUpdate(tbl table, recs []changeset.Record, fields []string) (string, []any, error) {
	var sb strings.Builder
	args := make([]any, 0, len(recs)*(len(fields)+1))
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	fmt.Fprintf(&sb, "UPDATE %s AS t SET ", tbl.name)
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = v.%s", f, f)
	}
	sb.WriteString(" FROM (VALUES ")
	for i, r := range recs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString("(" + arg(r.PK()) + "::bigint")
		for _, f := range fields {
			if !r.Has(f) {
				return "", nil, perr.WithField(perr.InvalidArgf("%s/%d has no field %s", r.Kind(), r.PK(), f), f)
			}
			v := r.Get(f)
			if s, ok := v.(string); ok && tbl.types[f] == "text" {
				v = str.SQLNull(s)
			}
			sb.WriteString(", " + arg(v) + "::" + tbl.types[f])
		}
		sb.WriteByte(')')
	}
	sb.WriteString(") AS v(id, " + strings.Join(fields, ", ") + ") WHERE t.id = v.id")
	return sb.String(), args, nil
}
