package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Projector mirrors scored duplicate pairs into the graph so clusters of
// linked records can be walked without recursive SQL.
type Projector struct {
	client *Client
	logger ectologger.Logger
}

// NewProjector creates a new graph projector
func NewProjector(client *Client, logger ectologger.Logger) *Projector {
	return &Projector{
		client: client,
		logger: logger,
	}
}

// ProjectPair upserts both consumer nodes and the DUPLICATE_OF edge between
// them. The edge carries the latest score so repeated sweeps refresh it.
func (p *Projector) ProjectPair(ctx context.Context, tenantID string, pair models.DuplicatePair) error {
	ctx, span := tracing.StartSpan(ctx, "graph.Projector.ProjectPair")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":    tenantID,
		"consumer_id":  pair.ConsumerID,
		"candidate_id": pair.CandidateID,
	})

	cypher := `
		MERGE (a:Consumer {id: $consumer_id, tenant_id: $tenant_id})
		MERGE (b:Consumer {id: $candidate_id, tenant_id: $tenant_id})
		MERGE (a)-[r:DUPLICATE_OF]-(b)
		SET r.score = $score,
			r.search_score = $search_score,
			r.confidence = $confidence,
			r.updated_at = datetime()
	`

	_, err := p.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"tenant_id":    tenantID,
			"consumer_id":  pair.ConsumerID,
			"candidate_id": pair.CandidateID,
			"score":        pair.SimilarityScore,
			"search_score": pair.SearchScore,
			"confidence":   pair.ConfidenceLevel,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		log.WithError(err).Error("Failed to project duplicate pair into graph")
		return fmt.Errorf("failed to project duplicate pair: %w", err)
	}

	log.Debug("Projected duplicate pair into graph")
	return nil
}

// CollapseMerge rewires the duplicate's edges onto the master and marks the
// duplicate node merged so cluster walks skip it.
func (p *Projector) CollapseMerge(ctx context.Context, tenantID string, masterID string, duplicateID string) error {
	ctx, span := tracing.StartSpan(ctx, "graph.Projector.CollapseMerge")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":    tenantID,
		"master_id":    masterID,
		"duplicate_id": duplicateID,
	})

	_, err := p.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Repoint surviving edges at the master, skipping the edge
		// between the pair itself.
		rewire := `
			MATCH (d:Consumer {id: $duplicate_id, tenant_id: $tenant_id})-[r:DUPLICATE_OF]-(o:Consumer)
			WHERE o.id <> $master_id
			MATCH (m:Consumer {id: $master_id, tenant_id: $tenant_id})
			MERGE (m)-[nr:DUPLICATE_OF]-(o)
			SET nr.score = CASE WHEN nr.score IS NULL OR r.score > nr.score THEN r.score ELSE nr.score END,
				nr.confidence = r.confidence,
				nr.updated_at = datetime()
			DELETE r
		`
		if _, err := tx.Run(ctx, rewire, map[string]any{
			"tenant_id":    tenantID,
			"master_id":    masterID,
			"duplicate_id": duplicateID,
		}); err != nil {
			return nil, err
		}

		collapse := `
			MATCH (d:Consumer {id: $duplicate_id, tenant_id: $tenant_id})
			OPTIONAL MATCH (d)-[r:DUPLICATE_OF]-()
			DELETE r
			SET d.merged_into = $master_id,
				d.merged_at = datetime()
		`
		result, err := tx.Run(ctx, collapse, map[string]any{
			"tenant_id":    tenantID,
			"master_id":    masterID,
			"duplicate_id": duplicateID,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		log.WithError(err).Error("Failed to collapse merged consumer in graph")
		return fmt.Errorf("failed to collapse merge: %w", err)
	}

	log.Debug("Collapsed merged consumer in graph")
	return nil
}
