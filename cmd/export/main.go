package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/segmentio/parquet-go"
	"go.uber.org/zap"

	"github.com/codeveil/codeveil/internal/audit"
	"github.com/codeveil/codeveil/internal/config"
	"github.com/codeveil/codeveil/internal/logger"
)

// auditRow is the Parquet projection of an audit record.
type auditRow struct {
	RequestID       string  `parquet:"request_id"`
	Profile         string  `parquet:"profile"`
	Language        string  `parquet:"language"`
	InputBytes      int32   `parquet:"input_bytes"`
	OutputBytes     int32   `parquet:"output_bytes"`
	RulesMatched    int32   `parquet:"rules_matched"`
	RulesSkipped    int32   `parquet:"rules_skipped"`
	PrivacyScore    float64 `parquet:"privacy_score"`
	LeakageRisk     float64 `parquet:"leakage_risk"`
	ReductionRate   int32   `parquet:"reduction_rate"`
	ComplianceReady bool    `parquet:"compliance_ready"`
	CreatedAt       int64   `parquet:"created_at_unix_ms"`
}

func main() {
	var (
		configPath = flag.String("config", "", "Configuration file path")
		outputFile = flag.String("output", "audit-export.parquet", "Output Parquet file")
		limit      = flag.Int("limit", 10000, "Maximum number of records to export")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := audit.NewStore(cfg.Audit, log.WithComponent("audit"))
	if err != nil {
		log.Fatal("Failed to open audit store", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records, err := store.List(ctx, *limit)
	if err != nil {
		log.Fatal("Failed to read audit records", zap.Error(err))
	}
	if len(records) == 0 {
		log.Info("No audit records to export")
		return
	}

	file, err := os.Create(*outputFile)
	if err != nil {
		log.Fatal("Failed to create output file", zap.Error(err))
	}
	defer file.Close()

	writer := parquet.NewWriter(file, parquet.SchemaOf(new(auditRow)))
	for _, rec := range records {
		row := auditRow{
			RequestID:       rec.RequestID,
			Profile:         rec.Profile,
			Language:        rec.Language,
			InputBytes:      int32(rec.InputBytes),
			OutputBytes:     int32(rec.OutputBytes),
			RulesMatched:    int32(rec.RulesMatched),
			RulesSkipped:    int32(rec.RulesSkipped),
			PrivacyScore:    rec.PrivacyScore,
			LeakageRisk:     rec.LeakageRisk,
			ReductionRate:   int32(rec.ReductionRate),
			ComplianceReady: rec.ComplianceReady,
			CreatedAt:       rec.CreatedAt.UnixMilli(),
		}
		if err := writer.Write(&row); err != nil {
			log.Fatal("Failed to write Parquet row", zap.Error(err))
		}
	}
	if err := writer.Close(); err != nil {
		log.Fatal("Failed to finalize Parquet file", zap.Error(err))
	}

	log.Info("Audit export complete",
		zap.String("output", *outputFile),
		zap.Int("records", len(records)))
}
