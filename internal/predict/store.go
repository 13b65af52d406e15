package predict

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/oncoreg/oncoreg/internal/score"
	"github.com/oncoreg/oncoreg/internal/variant"
)

// Store caches per-variant score tables in DuckDB so re-scoring a patient
// does not re-issue remote calls for variants already scored.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates a DuckDB score cache at the given path.
// Use an empty string for an in-memory database.
func OpenStore(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS variant_scores (
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		gene_name VARCHAR,
		output_type VARCHAR,
		tissue_id VARCHAR,
		biosample VARCHAR,
		raw_score DOUBLE,
		quantile_score DOUBLE
	)`)
	return err
}

// Put caches a score table. Any previously cached rows for the same variant
// are replaced, so a Put after a partial write is idempotent.
func (s *Store) Put(t *score.Table) error {
	v := t.Variant
	if _, err := s.db.Exec(
		`DELETE FROM variant_scores WHERE chrom=? AND pos=? AND ref=? AND alt=?`,
		v.Chrom, v.Pos, v.Ref, v.Alt); err != nil {
		return fmt.Errorf("clear cached scores: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variant_scores")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range t.Rows {
		if err := appender.AppendRow(
			v.Chrom, v.Pos, v.Ref, v.Alt,
			r.GeneName, r.OutputType, r.TissueID, r.BiosampleName,
			r.RawScore, r.QuantileScore,
		); err != nil {
			return fmt.Errorf("append score row: %w", err)
		}
	}

	return appender.Flush()
}

// Get returns the cached score table for a variant, or ok=false when no
// rows are cached for it. A table with zero rows is indistinguishable from
// a miss and will be re-scored; the service always returns rows for valid
// variants, so this only costs a repeat call in the degenerate case.
func (s *Store) Get(v variant.Variant) (*score.Table, bool, error) {
	rows, err := s.db.Query(`SELECT
		gene_name, output_type, tissue_id, biosample, raw_score, quantile_score
		FROM variant_scores
		WHERE chrom=? AND pos=? AND ref=? AND alt=?`,
		v.Chrom, v.Pos, v.Ref, v.Alt)
	if err != nil {
		return nil, false, fmt.Errorf("query cached scores: %w", err)
	}
	defer rows.Close()

	t := &score.Table{Variant: v}
	found := false
	for rows.Next() {
		var r score.Row
		if err := rows.Scan(&r.GeneName, &r.OutputType, &r.TissueID,
			&r.BiosampleName, &r.RawScore, &r.QuantileScore); err != nil {
			return nil, false, fmt.Errorf("scan cached score: %w", err)
		}
		found = true
		t.Rows = append(t.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate cached scores: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return t, true, nil
}

// Count returns the number of cached score rows.
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM variant_scores").Scan(&count); err != nil {
		return 0, fmt.Errorf("count cached scores: %w", err)
	}
	return count, nil
}

// Clear removes all cached score rows.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM variant_scores")
	return err
}
