package repo

import (
	"missionsync/internal/platform/store"
	dom "missionsync/internal/services/missions/domain"
)

func scanMission(r store.Row) (*dom.Mission, error) {
	var m dom.Mission
	err := r.Scan(&m.ID, &m.Descriptor, &m.DataCenter, &m.BatchID, &m.Name, &m.LeadScientist,
		&m.StartDate, &m.EndDate, &m.Institute, &m.Platform, &m.Protocol,
		&m.GeographicRegion, &m.Comments, &m.UpdatedBy, &m.UpdatedAt)
	return &m, err
}

func scanEvent(r store.Row) (*dom.Event, error) {
	var e dom.Event
	err := r.Scan(&e.ID, &e.MissionID, &e.BatchID, &e.EventID, &e.Station, &e.StartDate, &e.EndDate,
		&e.MinLat, &e.MaxLat, &e.MinLon, &e.MaxLon, &e.Comments, &e.UpdatedBy,
		&e.UpdatedAt, &e.ProcessFlag)
	return &e, err
}

func scanEventComment(r store.Row) (*dom.EventComment, error) {
	var c dom.EventComment
	err := r.Scan(&c.ID, &c.EventPK, &c.BatchID, &c.Seq, &c.Comment)
	return &c, err
}

func scanDiscreteHeader(r store.Row) (*dom.DiscreteHeader, error) {
	var h dom.DiscreteHeader
	err := r.Scan(&h.ID, &h.EventPK, &h.BatchID, &h.BottleID, &h.StartDepth, &h.EndDepth, &h.Gear, &h.ProcessFlag)
	return &h, err
}

func scanDiscreteDetail(r store.Row) (*dom.DiscreteDetail, error) {
	var d dom.DiscreteDetail
	err := r.Scan(&d.ID, &d.HeaderPK, &d.BatchID, &d.DataType, &d.DataValue, &d.DataFlag, &d.ProcessFlag)
	return &d, err
}

func scanDiscreteReplicate(r store.Row) (*dom.DiscreteReplicate, error) {
	var x dom.DiscreteReplicate
	err := r.Scan(&x.ID, &x.DetailPK, &x.BatchID, &x.Replicate, &x.DataValue, &x.ProcessFlag)
	return &x, err
}

func scanPlanktonHeader(r store.Row) (*dom.PlanktonHeader, error) {
	var h dom.PlanktonHeader
	err := r.Scan(&h.ID, &h.EventPK, &h.BatchID, &h.BottleID, &h.Gear, &h.StartDepth, &h.EndDepth,
		&h.MeshSize, &h.Volume, &h.ProcessFlag)
	return &h, err
}

func scanPlanktonGeneral(r store.Row) (*dom.PlanktonGeneral, error) {
	var g dom.PlanktonGeneral
	err := r.Scan(&g.ID, &g.HeaderPK, &g.BatchID, &g.Taxon, &g.Stage, &g.Count, &g.WetWeight, &g.DryWeight,
		&g.ProcessFlag)
	return &g, err
}
