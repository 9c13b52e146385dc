package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/codeveil/codeveil/internal/config"
	"github.com/codeveil/codeveil/internal/logger"
)

// Record is one audit trail row. Original text is never persisted; the
// trail records counts and scores only.
type Record struct {
	ID              int64     `db:"id" json:"id"`
	RequestID       string    `db:"request_id" json:"request_id"`
	Profile         string    `db:"profile" json:"profile"`
	Language        string    `db:"language" json:"language"`
	InputBytes      int       `db:"input_bytes" json:"input_bytes"`
	OutputBytes     int       `db:"output_bytes" json:"output_bytes"`
	RulesMatched    int       `db:"rules_matched" json:"rules_matched"`
	RulesSkipped    int       `db:"rules_skipped" json:"rules_skipped"`
	PrivacyScore    float64   `db:"privacy_score" json:"privacy_score"`
	LeakageRisk     float64   `db:"leakage_risk" json:"leakage_risk"`
	ReductionRate   int       `db:"reduction_rate" json:"reduction_rate"`
	ComplianceReady bool      `db:"compliance_ready" json:"compliance_ready"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS sanitize_audit (
	id BIGSERIAL PRIMARY KEY,
	request_id TEXT NOT NULL,
	profile TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	input_bytes INTEGER NOT NULL,
	output_bytes INTEGER NOT NULL,
	rules_matched INTEGER NOT NULL,
	rules_skipped INTEGER NOT NULL,
	privacy_score DOUBLE PRECISION NOT NULL,
	leakage_risk DOUBLE PRECISION NOT NULL,
	reduction_rate INTEGER NOT NULL,
	compliance_ready BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_sanitize_audit_created_at ON sanitize_audit (created_at);
`

// Store persists rewrite audit records in PostgreSQL.
type Store struct {
	db     *sqlx.DB
	logger *logger.Logger
}

// NewStore connects to the database and ensures the audit schema exists.
func NewStore(cfg config.AuditConfig, log *logger.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	store := &Store{db: db, logger: log}
	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audit store: %w", err)
	}

	log.Info("audit store initialized",
		zap.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
		zap.Int("max_open_conns", cfg.MaxOpenConns))

	return store, nil
}

func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure audit schema: %w", err)
	}
	return nil
}

// Insert appends one audit record.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO sanitize_audit (
			request_id, profile, language, input_bytes, output_bytes,
			rules_matched, rules_skipped, privacy_score, leakage_risk,
			reduction_rate, compliance_ready
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	row := s.db.QueryRowxContext(ctx, query,
		rec.RequestID, rec.Profile, rec.Language, rec.InputBytes, rec.OutputBytes,
		rec.RulesMatched, rec.RulesSkipped, rec.PrivacyScore, rec.LeakageRisk,
		rec.ReductionRate, rec.ComplianceReady)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// List returns the newest records, up to limit.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []Record
	query := `SELECT * FROM sanitize_audit ORDER BY created_at DESC LIMIT $1`
	if err := s.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	return records, nil
}

// Count returns the total number of audit records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sanitize_audit`); err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return count, nil
}

// Close releases the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// maskDatabaseURL masks credentials in a database URL for logging.
func maskDatabaseURL(url string) string {
	if i := strings.LastIndex(url, "@"); i >= 0 {
		if j := strings.Index(url, "://"); j >= 0 {
			return url[:j+3] + "***" + url[i:]
		}
	}
	return url
}
