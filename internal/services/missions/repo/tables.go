package repo

import (
	"missionsync/internal/core/changeset"
	dom "missionsync/internal/services/missions/domain"
)

// table maps an entity kind to its Postgres table and the SQL type of each writable column
type table struct {
	name  string
	types map[string]string
}

var tables = map[changeset.Kind]table{
	dom.KindMission: {name: "missions", types: map[string]string{
		"descriptor": "text", "data_center": "int", "batch_id": "bigint", "name": "text",
		"lead_scientist": "text", "start_date": "date", "end_date": "date", "institute": "text",
		"platform": "text", "protocol": "text", "geographic_region": "text", "comments": "text",
		"updated_by": "text", "updated_at": "timestamptz",
	}},
	dom.KindEvent: {name: "events", types: map[string]string{
		"mission_id": "bigint", "batch_id": "bigint", "event_id": "int", "station": "text",
		"start_date": "timestamptz", "end_date": "timestamptz",
		"min_lat": "double precision", "max_lat": "double precision",
		"min_lon": "double precision", "max_lon": "double precision",
		"comments": "text", "updated_by": "text", "updated_at": "timestamptz", "process_flag": "text",
	}},
	dom.KindEventComment: {name: "event_comments", types: map[string]string{
		"event_pk": "bigint", "batch_id": "bigint", "comment_seq": "int", "comment": "text",
	}},
	dom.KindDiscreteHeader: {name: "discrete_headers", types: map[string]string{
		"event_pk": "bigint", "batch_id": "bigint", "bottle_id": "bigint",
		"start_depth": "double precision", "end_depth": "double precision",
		"gear": "int", "process_flag": "text",
	}},
	dom.KindDiscreteDetail: {name: "discrete_details", types: map[string]string{
		"header_pk": "bigint", "batch_id": "bigint", "data_type": "int",
		"data_value": "numeric", "data_flag": "int", "process_flag": "text",
	}},
	dom.KindDiscreteReplicate: {name: "discrete_replicates", types: map[string]string{
		"detail_pk": "bigint", "batch_id": "bigint", "replicate": "int",
		"data_value": "numeric", "process_flag": "text",
	}},
	dom.KindPlanktonHeader: {name: "plankton_headers", types: map[string]string{
		"event_pk": "bigint", "batch_id": "bigint", "bottle_id": "bigint", "gear": "int",
		"start_depth": "double precision", "end_depth": "double precision",
		"mesh_size": "int", "volume": "numeric", "process_flag": "text",
	}},
	dom.KindPlanktonGeneral: {name: "plankton_generals", types: map[string]string{
		"header_pk": "bigint", "batch_id": "bigint", "taxon": "bigint", "stage": "int",
		"count": "int", "wet_weight": "numeric", "dry_weight": "numeric", "process_flag": "text",
	}},
}
