package processor

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/internal/repositories/batchreport"
	consumerrepo "github.com/Ramsey-B/aster/internal/repositories/consumer"
	"github.com/Ramsey-B/aster/internal/repositories/duplicatepair"
	settingsrepo "github.com/Ramsey-B/aster/internal/repositories/settings"
	"github.com/Ramsey-B/aster/pkg/dedup"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// BatchEmitter announces sweep completion. Nil-safe at the call site.
type BatchEmitter interface {
	EmitBatchCompleted(ctx context.Context, tenantID string, report *models.BatchReport)
}

// BatchConfig tunes a full-collection sweep
type BatchConfig struct {
	PageSize         int    // Consumers fetched per page
	CleanupThreshold int    // Pairs at or above this score land on the cleanup list
	ReportPath       string // Where to write the JSON report; empty skips the file
}

// DefaultBatchConfig returns the stock sweep configuration
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		PageSize:         100,
		CleanupThreshold: 80,
		ReportPath:       "deduplication_report.json",
	}
}

// BatchProcessor sweeps the whole collection: each record is scored against
// its retrieval candidates once, duplicate groups are clustered around the
// first record that claims them, and the findings are reported.
type BatchProcessor struct {
	logger       ectologger.Logger
	consumerRepo *consumerrepo.Repository
	pairRepo     *duplicatepair.Repository
	settingsRepo *settingsrepo.Repository
	reportRepo   *batchreport.Repository
	dedupService *dedup.Service
	emitter      BatchEmitter
	cfg          BatchConfig
}

// NewBatchProcessor creates a new batch deduplication processor. The report
// repository is optional; nil skips report persistence.
func NewBatchProcessor(
	logger ectologger.Logger,
	consumerRepo *consumerrepo.Repository,
	pairRepo *duplicatepair.Repository,
	settingsRepo *settingsrepo.Repository,
	reportRepo *batchreport.Repository,
	dedupService *dedup.Service,
	emitter BatchEmitter,
	cfg BatchConfig,
) *BatchProcessor {
	return &BatchProcessor{
		logger:       logger,
		consumerRepo: consumerRepo,
		pairRepo:     pairRepo,
		settingsRepo: settingsRepo,
		reportRepo:   reportRepo,
		dedupService: dedupService,
		emitter:      emitter,
		cfg:          cfg,
	}
}

// Run executes one sweep for a tenant and returns the report. Records already
// claimed by an earlier group are not used as masters again, so each pair is
// visited once per run.
func (b *BatchProcessor) Run(ctx context.Context, tenantID string) (*models.BatchReport, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.BatchProcessor.Run")
	defer span.End()

	startedAt := time.Now().UTC()
	log := b.logger.WithContext(ctx).WithFields(map[string]any{"tenant_id": tenantID})
	log.Info("Starting batch deduplication sweep")

	engineSettings, err := b.settingsRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := engineSettings.Validate(); err != nil {
		return nil, err
	}

	report := &models.BatchReport{TenantID: tenantID}
	processed := make(map[string]bool)

	afterID := ""
	for {
		page, err := b.consumerRepo.ListAll(ctx, tenantID, afterID, b.cfg.PageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, record := range page {
			report.Summary.TotalRecords++

			if processed[record.ID] {
				report.Summary.SkippedGrouped++
				continue
			}
			processed[record.ID] = true

			group, err := b.sweepRecord(ctx, tenantID, record, engineSettings, processed, &report.Summary)
			if err != nil {
				log.WithError(err).WithFields(map[string]any{"consumer_id": record.ID}).Warn("Sweep failed for record, continuing")
				continue
			}
			if group != nil {
				report.Groups = append(report.Groups, *group)
			}
		}

		afterID = page[len(page)-1].ID
	}

	report.Summary.DuplicateGroups = len(report.Groups)

	cleanup, err := b.pairRepo.ListAboveScore(ctx, tenantID, b.cfg.CleanupThreshold)
	if err != nil {
		log.WithError(err).Warn("Failed to build cleanup list")
	} else {
		report.CleanupList = cleanup
	}

	report.Summary.StartedAt = startedAt
	report.Summary.CompletedAt = time.Now().UTC()

	if b.cfg.ReportPath != "" {
		if err := b.writeReport(report); err != nil {
			log.WithError(err).Warn("Failed to write deduplication report")
		}
	}

	if b.reportRepo != nil {
		if _, err := b.reportRepo.Create(ctx, report); err != nil {
			log.WithError(err).Warn("Failed to persist deduplication report")
		}
	}

	if b.emitter != nil {
		b.emitter.EmitBatchCompleted(ctx, tenantID, report)
	}

	log.WithFields(map[string]any{
		"total_records":    report.Summary.TotalRecords,
		"duplicate_groups": report.Summary.DuplicateGroups,
		"pairs_scored":     report.Summary.PairsScored,
		"duration":         report.Summary.CompletedAt.Sub(startedAt),
	}).Info("Batch deduplication sweep completed")

	return report, nil
}

func (b *BatchProcessor) sweepRecord(
	ctx context.Context,
	tenantID string,
	record models.Consumer,
	engineSettings models.EngineSettings,
	processed map[string]bool,
	summary *models.BatchSummary,
) (*models.DuplicateGroup, error) {
	response, err := b.dedupService.FindDuplicatesWith(ctx, tenantID, record.Record(), engineSettings)
	if err != nil {
		return nil, err
	}
	summary.ProcessedRecords++

	var group *models.DuplicateGroup
	for _, result := range response.Results {
		summary.PairsScored++
		switch result.Confidence.Class {
		case "high":
			summary.HighConfidencePairs++
		case "medium":
			summary.PossiblePairs++
		default:
			summary.WorthReviewingPairs++
		}

		// Only medium-and-up findings join a group.
		if result.Confidence.Class == "low" || result.Record.ID == "" || processed[result.Record.ID] {
			continue
		}
		processed[result.Record.ID] = true

		if group == nil {
			group = &models.DuplicateGroup{Master: record.Record()}
		}
		group.Duplicates = append(group.Duplicates, result.Record)
		if result.SimilarityScore > group.MaxSimilarity {
			group.MaxSimilarity = result.SimilarityScore
		}
	}

	if group != nil {
		group.GroupSize = len(group.Duplicates) + 1
	}
	return group, nil
}

func (b *BatchProcessor) writeReport(report *models.BatchReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(b.cfg.ReportPath, data, 0o644)
}
