// Package domain declares the external archive tables and how mission records map onto them
package domain

import "missionsync/internal/core/archive"

// Column names shared by both archive tables
const (
	ColMission   = "mission_descriptor"
	ColEvent     = "event_collector_event_id"
	ColStation   = "event_collector_stn_name"
	ColBatch     = "batch_seq"
	ColFlag      = "process_flag"
	ColCreatedBy = "created_by"
)

// Discrete table columns
const (
	ColDisKey        = "dis_sample_key_value"
	ColDisStartDepth = "dis_header_start_depth"
	ColDisEndDepth   = "dis_header_end_depth"
	ColDisLat        = "dis_header_slat"
	ColDisLon        = "dis_header_slon"
	ColDisDate       = "dis_header_sdate"
	ColDisBottle     = "dis_detail_collector_samp_id"
	ColDisDataType   = "dis_detail_data_type_seq"
	ColDisReplicate  = "dis_detail_replicate"
	ColDisValue      = "dis_detail_data_value"
	ColDisQC         = "dis_detail_data_qc_code"
)

// Plankton table columns
const (
	ColPlKey        = "plank_sample_key_value"
	ColPlStartDepth = "pl_headr_start_depth"
	ColPlEndDepth   = "pl_headr_end_depth"
	ColPlDate       = "pl_headr_sdate"
	ColPlBottle     = "pl_headr_collector_sample_id"
	ColPlGear       = "pl_headr_gear_seq"
	ColPlMesh       = "pl_headr_mesh_size"
	ColPlVolume     = "pl_headr_volume"
	ColPlTaxon      = "pl_gen_national_taxonomic_seq"
	ColPlStage      = "pl_gen_life_history_seq"
	ColPlCount      = "pl_gen_counts"
	ColPlWet        = "pl_gen_wet_weight"
	ColPlDry        = "pl_gen_dry_weight"
)

// Discrete is the denormalised discrete sample table, one row per bottle, data type and replicate
var Discrete = archive.MustTable("bcd_d", "dis_data_num",
	archive.Field{Name: ColDisKey, Type: archive.String, MaxLen: 50, Key: true},
	archive.Field{Name: ColMission, Type: archive.String, MaxLen: 50, Key: true},
	archive.Field{Name: ColEvent, Type: archive.String, MaxLen: 50},
	archive.Field{Name: ColStation, Type: archive.String, MaxLen: 50, Nullable: true},
	archive.Field{Name: ColDisStartDepth, Type: archive.Decimal, Scale: 3, Nullable: true},
	archive.Field{Name: ColDisEndDepth, Type: archive.Decimal, Scale: 3, Nullable: true},
	archive.Field{Name: ColDisLat, Type: archive.Decimal, Scale: 5, Nullable: true},
	archive.Field{Name: ColDisLon, Type: archive.Decimal, Scale: 5, Nullable: true},
	archive.Field{Name: ColDisDate, Type: archive.Date, Nullable: true},
	archive.Field{Name: ColDisBottle, Type: archive.Int},
	archive.Field{Name: ColDisDataType, Type: archive.Int},
	archive.Field{Name: ColDisReplicate, Type: archive.Int},
	archive.Field{Name: ColDisValue, Type: archive.Decimal, Scale: 5, Nullable: true},
	archive.Field{Name: ColDisQC, Type: archive.String, MaxLen: 2, Nullable: true},
	archive.Field{Name: ColBatch, Type: archive.Int},
	archive.Field{Name: ColFlag, Type: archive.String, MaxLen: 3, Nullable: true},
	archive.Field{Name: ColCreatedBy, Type: archive.String, MaxLen: 30, Nullable: true},
)

// Plankton is the denormalised plankton table, one row per net haul, taxon and stage
var Plankton = archive.MustTable("bcd_p", "plank_data_num",
	archive.Field{Name: ColPlKey, Type: archive.String, MaxLen: 50, Key: true},
	archive.Field{Name: ColMission, Type: archive.String, MaxLen: 50, Key: true},
	archive.Field{Name: ColEvent, Type: archive.String, MaxLen: 50},
	archive.Field{Name: ColStation, Type: archive.String, MaxLen: 50, Nullable: true},
	archive.Field{Name: ColPlStartDepth, Type: archive.Decimal, Scale: 3, Nullable: true},
	archive.Field{Name: ColPlEndDepth, Type: archive.Decimal, Scale: 3, Nullable: true},
	archive.Field{Name: ColPlDate, Type: archive.Date, Nullable: true},
	archive.Field{Name: ColPlBottle, Type: archive.Int},
	archive.Field{Name: ColPlGear, Type: archive.Int},
	archive.Field{Name: ColPlMesh, Type: archive.Int, Nullable: true},
	archive.Field{Name: ColPlVolume, Type: archive.Decimal, Scale: 3, Nullable: true},
	archive.Field{Name: ColPlTaxon, Type: archive.Int},
	archive.Field{Name: ColPlStage, Type: archive.Int},
	archive.Field{Name: ColPlCount, Type: archive.Int, Nullable: true},
	archive.Field{Name: ColPlWet, Type: archive.Decimal, Scale: 4, Nullable: true},
	archive.Field{Name: ColPlDry, Type: archive.Decimal, Scale: 4, Nullable: true},
	archive.Field{Name: ColBatch, Type: archive.Int},
	archive.Field{Name: ColFlag, Type: archive.String, MaxLen: 3, Nullable: true},
	archive.Field{Name: ColCreatedBy, Type: archive.String, MaxLen: 30, Nullable: true},
)

// Tables lists every archive table in sync order
var Tables = []*archive.Table{Discrete, Plankton}

// TableInfo describes a table for the API
type TableInfo struct {
	Name    string   `json:"name"`
	PK      string   `json:"pk"`
	Columns []string `json:"columns"`
}

// Describe lists the declared tables
func Describe() []TableInfo {
	out := make([]TableInfo, 0, len(Tables))
	for _, t := range Tables {
		out = append(out, TableInfo{Name: t.Name, PK: t.PK, Columns: t.Columns()})
	}
	return out
}
