// Package pgstore persists streamed placemarks into PostGIS, and serves
// them back out for the HTTP gateway in internal/httpapi. It is the
// domain-stack counterpart to the embeddable kmlstream package: nothing
// here is imported by kmlstream itself, so the core library stays free
// of a database dependency.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devonrourke/kmlstream"
)

// Store wraps a pgxpool.Pool with the placemark schema this importer
// and gateway agree on.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the placemark tables and their indexes if they
// don't already exist. Safe to call on every run.
//
// Grounded on mandalay's ensureSchema/importPlacemarks shape: name and
// description get dedicated columns because mandalay's own schema
// already names them, everything else recognized by the assembler's
// attrs map goes into a placemark_attributes side table (mandalay's
// placemark_data, keyed here by the spec's open-ended attrs instead of
// a fixed ExtendedData set). placemark_geometries holds one row per
// entry in a placemark's Geoms (a placemark can carry more than one
// top-level geometry; mandalay's Placemark cannot, so it has no
// equivalent table).
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE EXTENSION IF NOT EXISTS postgis;

		CREATE TABLE IF NOT EXISTS placemarks (
			id SERIAL PRIMARY KEY,
			name TEXT,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS placemark_attributes (
			id SERIAL PRIMARY KEY,
			placemark_id INTEGER NOT NULL REFERENCES placemarks(id) ON DELETE CASCADE,
			key TEXT NOT NULL,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS placemark_geometries (
			id SERIAL PRIMARY KEY,
			placemark_id INTEGER NOT NULL REFERENCES placemarks(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			geometry_type TEXT NOT NULL,
			geom GEOMETRY(GEOMETRY, 4326) NOT NULL
		);

		CREATE INDEX IF NOT EXISTS placemark_geometries_geom_gix ON placemark_geometries USING GIST (geom);
		CREATE INDEX IF NOT EXISTS placemark_attributes_placemark_idx ON placemark_attributes (placemark_id);
		CREATE INDEX IF NOT EXISTS placemark_geometries_placemark_idx ON placemark_geometries (placemark_id);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE placemark_attributes, placemark_geometries, placemarks RESTART IDENTITY CASCADE")
	return err
}

// InsertBatch writes one flushed batch inside a single transaction, one
// placemarks row (plus its attribute and geometry child rows) per
// Placemark. A placemark with no renderable geometry still gets a row
// (its attrs may still be worth keeping); the caller's WarnFunc, not
// this store, is the place to surface dropped geometries.
func (s *Store) InsertBatch(ctx context.Context, placemarks []kmlstream.Placemark) (int, error) {
	if len(placemarks) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, pm := range placemarks {
		if err := insertPlacemark(ctx, tx, pm); err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, tx.Commit(ctx)
}

// insertPlacemark writes pm's placemarks row, then batches its
// non-reserved attrs into placemark_attributes and one
// placemark_geometries row per entry in Geoms that renders to WKT.
func insertPlacemark(ctx context.Context, tx pgx.Tx, pm kmlstream.Placemark) error {
	var name, description *string
	if v, ok := pm.Attrs["name"]; ok {
		name = &v
	}
	if v, ok := pm.Attrs["description"]; ok {
		description = &v
	}

	var placemarkID int
	err := tx.QueryRow(ctx,
		`INSERT INTO placemarks (name, description) VALUES ($1, $2) RETURNING id`,
		name, description,
	).Scan(&placemarkID)
	if err != nil {
		return fmt.Errorf("insert placemark: %w", err)
	}

	batch := &pgx.Batch{}
	queued := 0
	for key, value := range pm.Attrs {
		if key == "name" || key == "description" {
			continue
		}
		batch.Queue(
			`INSERT INTO placemark_attributes (placemark_id, key, value) VALUES ($1, $2, $3)`,
			placemarkID, key, value,
		)
		queued++
	}
	for seq, g := range pm.Geoms {
		wkt, ok := geometryWKT(g)
		if !ok {
			continue
		}
		batch.Queue(
			`INSERT INTO placemark_geometries (placemark_id, seq, geometry_type, geom)
			 VALUES ($1, $2, $3, ST_GeomFromText($4, 4326))`,
			placemarkID, seq, geometryKind(g), wkt,
		)
		queued++
	}

	if queued == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert placemark %d child row %d: %w", placemarkID, i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch for placemark %d: %w", placemarkID, err)
	}
	return nil
}

// Row is a placemark as read back from Postgres: its dedicated name
// and description columns, every other attribute joined in from
// placemark_attributes, and one GeometryRow per placemark_geometries
// entry, in seq order.
type Row struct {
	ID          int               `json:"id"`
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Attrs       map[string]string `json:"attrs"`
	Geometries  []GeometryRow     `json:"geometries"`
}

// GeometryRow is one entry of a placemark's Geoms, rendered into
// GeoJSON for the wire.
type GeometryRow struct {
	Seq          int                       `json:"seq"`
	GeometryType string                    `json:"geometry_type"`
	Geometry     kmlstream.GeoJSONGeometry `json:"geometry"`
}

// BoundingBox filters GetInBBox results with ST_Intersects against an
// envelope built from these four corners.
type BoundingBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Row, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description FROM placemarks ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list placemarks: %w", err)
	}
	placemarks, ids, err := scanPlacemarkRows(rows)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, placemarks, ids)
}

func (s *Store) GetByID(ctx context.Context, id int) (Row, error) {
	var row Row
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, description FROM placemarks WHERE id = $1`, id,
	).Scan(&row.ID, &row.Name, &row.Description)
	if err != nil {
		return Row{}, fmt.Errorf("get placemark %d: %w", id, err)
	}

	hydrated, err := s.hydrate(ctx, []Row{row}, []int{id})
	if err != nil {
		return Row{}, err
	}
	return hydrated[0], nil
}

// GetInBBox finds every placemark with at least one geometry
// intersecting bbox, then returns each matching placemark in full
// (every attribute and every geometry it carries, not only the one
// that matched).
func (s *Store) GetInBBox(ctx context.Context, bbox BoundingBox, limit int) ([]Row, error) {
	idRows, err := s.pool.Query(ctx,
		`SELECT DISTINCT placemark_id FROM placemark_geometries
		 WHERE ST_Intersects(geom, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		 ORDER BY placemark_id LIMIT $5`,
		bbox.MinLon, bbox.MinLat, bbox.MaxLon, bbox.MaxLat, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query bbox: %w", err)
	}
	var ids []int
	for idRows.Next() {
		var id int
		if err := idRows.Scan(&id); err != nil {
			idRows.Close()
			return nil, fmt.Errorf("scan bbox placemark id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := idRows.Err(); err != nil {
		idRows.Close()
		return nil, err
	}
	idRows.Close()

	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description FROM placemarks WHERE id = ANY($1) ORDER BY id`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("load bbox placemarks: %w", err)
	}
	placemarks, gotIDs, err := scanPlacemarkRows(rows)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, placemarks, gotIDs)
}

// Stats summarizes the whole placemark store for a dashboard landing
// view: placemark and geometry counts, geometries broken down by type.
type Stats struct {
	Placemarks     int            `json:"placemarks"`
	Geometries     int            `json:"geometries"`
	ByGeometryType map[string]int `json:"by_geometry_type"`
}

func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	stats := Stats{ByGeometryType: make(map[string]int)}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM placemarks`).Scan(&stats.Placemarks); err != nil {
		return Stats{}, fmt.Errorf("count placemarks: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT geometry_type, COUNT(*) FROM placemark_geometries GROUP BY geometry_type`,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return Stats{}, fmt.Errorf("scan stats row: %w", err)
		}
		stats.ByGeometryType[kind] = count
		stats.Geometries += count
	}
	return stats, rows.Err()
}

// scanPlacemarkRows reads id/name/description rows into Row values
// (Attrs and Geometries left nil — callers fill those via hydrate) and
// returns the placemark ids alongside, for the subsequent side-table
// lookups.
func scanPlacemarkRows(rows pgx.Rows) ([]Row, []int, error) {
	defer rows.Close()
	var out []Row
	var ids []int
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.Name, &row.Description); err != nil {
			return nil, nil, fmt.Errorf("scan placemark row: %w", err)
		}
		out = append(out, row)
		ids = append(ids, row.ID)
	}
	return out, ids, rows.Err()
}

// hydrate fills in Attrs and Geometries for a slice of placemark rows
// already scanned by scanPlacemarkRows, with one round-trip per side
// table rather than one per placemark.
func (s *Store) hydrate(ctx context.Context, placemarks []Row, ids []int) ([]Row, error) {
	if len(ids) == 0 {
		return placemarks, nil
	}

	attrsByID, err := s.loadAttributes(ctx, ids)
	if err != nil {
		return nil, err
	}
	geomsByID, err := s.loadGeometries(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range placemarks {
		placemarks[i].Attrs = attrsByID[placemarks[i].ID]
		placemarks[i].Geometries = geomsByID[placemarks[i].ID]
	}
	return placemarks, nil
}

func (s *Store) loadAttributes(ctx context.Context, ids []int) (map[int]map[string]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT placemark_id, key, value FROM placemark_attributes WHERE placemark_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}
	defer rows.Close()

	out := make(map[int]map[string]string, len(ids))
	for rows.Next() {
		var placemarkID int
		var key, value string
		if err := rows.Scan(&placemarkID, &key, &value); err != nil {
			return nil, fmt.Errorf("scan attribute row: %w", err)
		}
		if out[placemarkID] == nil {
			out[placemarkID] = make(map[string]string)
		}
		out[placemarkID][key] = value
	}
	return out, rows.Err()
}

func (s *Store) loadGeometries(ctx context.Context, ids []int) (map[int][]GeometryRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT placemark_id, seq, geometry_type, ST_AsGeoJSON(geom)
		 FROM placemark_geometries WHERE placemark_id = ANY($1) ORDER BY placemark_id, seq`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("load geometries: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]GeometryRow, len(ids))
	for rows.Next() {
		var placemarkID int
		var gr GeometryRow
		var geomRaw string
		if err := rows.Scan(&placemarkID, &gr.Seq, &gr.GeometryType, &geomRaw); err != nil {
			return nil, fmt.Errorf("scan geometry row: %w", err)
		}
		if err := json.Unmarshal([]byte(geomRaw), &gr.Geometry); err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		out[placemarkID] = append(out[placemarkID], gr)
	}
	return out, rows.Err()
}
