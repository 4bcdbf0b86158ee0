package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Cluster is a connected component of consumers linked by duplicate edges.
type Cluster struct {
	ConsumerIDs []string `json:"consumer_ids"`
	Size        int      `json:"size"`
	MaxScore    int      `json:"max_score"`
}

// ClusterFor walks the duplicate edges transitively from one consumer and
// returns every reachable record above the score floor.
func (p *Projector) ClusterFor(ctx context.Context, tenantID string, consumerID string, minScore int) (*Cluster, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.Projector.ClusterFor")
	defer span.End()

	cypher := `
		MATCH (c:Consumer {id: $consumer_id, tenant_id: $tenant_id})
		WHERE c.merged_into IS NULL
		OPTIONAL MATCH path = (c)-[:DUPLICATE_OF*1..5]-(o:Consumer)
		WHERE o.merged_into IS NULL
			AND ALL(r IN relationships(path) WHERE r.score >= $min_score)
		WITH c, collect(DISTINCT o.id) AS others,
			[r IN collect(relationships(path)) | r] AS rels
		RETURN c.id AS id, others,
			reduce(m = 0, rs IN rels | reduce(mm = m, r IN rs | CASE WHEN r.score > mm THEN r.score ELSE mm END)) AS max_score
	`

	result, err := p.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{
			"tenant_id":   tenantID,
			"consumer_id": consumerID,
			"min_score":   minScore,
		})
		if err != nil {
			return nil, err
		}

		if !res.Next(ctx) {
			return nil, nil
		}
		record := res.Record()

		cluster := &Cluster{MaxScore: asInt(record, "max_score")}
		if id, ok := record.Get("id"); ok {
			cluster.ConsumerIDs = append(cluster.ConsumerIDs, id.(string))
		}
		if others, ok := record.Get("others"); ok {
			for _, v := range others.([]any) {
				cluster.ConsumerIDs = append(cluster.ConsumerIDs, v.(string))
			}
		}
		cluster.Size = len(cluster.ConsumerIDs)
		return cluster, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to load duplicate cluster: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	return result.(*Cluster), nil
}

func asInt(record *neo4j.Record, key string) int {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return 0
	}
	if i, ok := v.(int64); ok {
		return int(i)
	}
	return 0
}
