// Package dedup orchestrates duplicate detection: retrieval, scoring,
// persistence of scored pairs, and the merge workflow.
package dedup

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/internal/repositories/consumer"
	"github.com/Ramsey-B/aster/internal/repositories/duplicatepair"
	"github.com/Ramsey-B/aster/internal/repositories/settings"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/search"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// EventEmitter publishes duplicate lifecycle events. Nil-safe at the call
// sites so the service runs without a broker in tests.
type EventEmitter interface {
	EmitDuplicateIdentified(ctx context.Context, tenantID string, pair models.DuplicatePair)
	EmitDuplicateMerged(ctx context.Context, tenantID, masterID, duplicateID string)
}

// GraphProjector mirrors confirmed duplicate relationships into the graph
// database for cluster queries.
type GraphProjector interface {
	ProjectPair(ctx context.Context, tenantID string, pair models.DuplicatePair) error
	CollapseMerge(ctx context.Context, tenantID, masterID, duplicateID string) error
}

// Service coordinates the retrieval stage and the scoring engine
type Service struct {
	log       ectologger.Logger
	searcher  search.Searcher
	consumers *consumer.Repository
	pairs     *duplicatepair.Repository
	settings  *settings.Repository
	emitter   EventEmitter
	graph     GraphProjector
}

// NewService creates a new dedup service. Emitter and graph may be nil.
func NewService(
	log ectologger.Logger,
	searcher search.Searcher,
	consumers *consumer.Repository,
	pairs *duplicatepair.Repository,
	settingsRepo *settings.Repository,
	emitter EventEmitter,
	graph GraphProjector,
) *Service {
	return &Service{
		log:       log,
		searcher:  searcher,
		consumers: consumers,
		pairs:     pairs,
		settings:  settingsRepo,
		emitter:   emitter,
		graph:     graph,
	}
}

// FindDuplicates runs one detection pass for a query record: retrieve fuzzy
// candidates, drop the query's own row and same-person manual searches, rank
// by the point formula, persist the scored pairs, and emit events for
// high-confidence finds.
func (s *Service) FindDuplicates(ctx context.Context, tenantID string, query models.Record) (*models.DuplicateSearchResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "dedup.Service.FindDuplicates")
	defer span.End()

	engineSettings, err := s.settings.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.findDuplicates(ctx, tenantID, query, engineSettings)
}

// FindDuplicatesWith is FindDuplicates with explicit settings, for callers
// that already hold them (the batch sweep loads settings once per run).
func (s *Service) FindDuplicatesWith(ctx context.Context, tenantID string, query models.Record, engineSettings models.EngineSettings) (*models.DuplicateSearchResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "dedup.Service.FindDuplicatesWith")
	defer span.End()

	return s.findDuplicates(ctx, tenantID, query, engineSettings)
}

func (s *Service) findDuplicates(ctx context.Context, tenantID string, query models.Record, engineSettings models.EngineSettings) (*models.DuplicateSearchResponse, error) {
	if err := engineSettings.Validate(); err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	candidates, err := s.searcher.Search(ctx, tenantID, query, engineSettings.MaxResults)
	if err != nil {
		return nil, err
	}

	candidates, suppressed := filterCandidates(query, candidates)

	results, survivorCount, err := matching.RankCandidates(query, candidates, matching.ConfigFromSettings(engineSettings))
	if err != nil {
		return nil, err
	}

	if query.ID != "" {
		if err := s.persistResults(ctx, tenantID, query, results); err != nil {
			// Pair bookkeeping must not fail the search itself.
			s.log.WithContext(ctx).WithError(err).Warn("Failed to persist duplicate pairs")
		}
	}

	s.log.WithContext(ctx).WithFields(map[string]any{
		"query_id":   query.ID,
		"candidates": len(candidates),
		"survivors":  survivorCount,
		"returned":   len(results),
		"suppressed": suppressed,
	}).Info("Duplicate search completed")

	return &models.DuplicateSearchResponse{
		Query:         query,
		Results:       results,
		SurvivorCount: survivorCount,
		Suppressed:    suppressed,
	}, nil
}

// filterCandidates removes the query's own row (matched by ID) and, for
// manual searches without an ID, candidates that are recognizably the same
// person: at least two fields provided in the query and every provided field
// matching exactly. Returns whether anything was suppressed.
func filterCandidates(query models.Record, candidates []matching.Candidate) ([]matching.Candidate, bool) {
	filtered := make([]matching.Candidate, 0, len(candidates))
	suppressed := false
	for _, cand := range candidates {
		if query.ID != "" && cand.Record.ID == query.ID {
			continue
		}
		if query.ID == "" && isSamePerson(query, cand.Record) {
			suppressed = true
			continue
		}
		filtered = append(filtered, cand)
	}
	return filtered, suppressed
}

// isSamePerson reports whether every field provided in the query matches the
// candidate exactly, with at least two fields provided. A single matching
// field is not enough to claim identity.
func isSamePerson(query, candidate models.Record) bool {
	provided := 0

	if query.FirstName != "" {
		provided++
		if matching.MatchName(query.FirstName, candidate.FirstName) != matching.OutcomeExact {
			return false
		}
	}
	if query.LastName != "" {
		provided++
		if matching.MatchName(query.LastName, candidate.LastName) != matching.OutcomeExact {
			return false
		}
	}
	if query.Email != "" {
		provided++
		if matching.MatchEmail(query.Email, candidate.Email) != matching.OutcomeExact {
			return false
		}
	}
	if query.Phone != "" {
		provided++
		if matching.MatchPhone(query.Phone, candidate.Phone) != matching.OutcomeExact {
			return false
		}
	}

	return provided >= 2
}

func (s *Service) persistResults(ctx context.Context, tenantID string, query models.Record, results []models.CandidateResult) error {
	if len(results) == 0 {
		return nil
	}

	pairs := make([]*models.DuplicatePair, 0, len(results))
	for _, res := range results {
		if res.Record.ID == "" {
			continue
		}
		pairs = append(pairs, &models.DuplicatePair{
			TenantID:        tenantID,
			ConsumerID:      query.ID,
			CandidateID:     res.Record.ID,
			SimilarityScore: res.SimilarityScore,
			SearchScore:     res.SearchScore,
			ConfidenceLevel: res.Confidence.Class,
		})
	}
	if len(pairs) == 0 {
		return nil
	}

	if err := s.pairs.CreateBatch(ctx, pairs); err != nil {
		return err
	}

	for _, pair := range pairs {
		if pair.ConfidenceLevel != "high" {
			continue
		}
		if s.emitter != nil {
			s.emitter.EmitDuplicateIdentified(ctx, tenantID, *pair)
		}
		if s.graph != nil {
			if err := s.graph.ProjectPair(ctx, tenantID, *pair); err != nil {
				s.log.WithContext(ctx).WithError(err).Warn("Failed to project duplicate pair to graph")
			}
		}
	}

	return nil
}

// CheckBeforeCreate returns the high-confidence duplicates of a prospective
// record. Create and update handlers call this and demand confirmation when
// anything comes back.
func (s *Service) CheckBeforeCreate(ctx context.Context, tenantID string, record models.Record) ([]models.CandidateResult, error) {
	ctx, span := tracing.StartSpan(ctx, "dedup.Service.CheckBeforeCreate")
	defer span.End()

	response, err := s.FindDuplicates(ctx, tenantID, record)
	if err != nil {
		return nil, err
	}

	high := make([]models.CandidateResult, 0, len(response.Results))
	for _, res := range response.Results {
		if res.Confidence.Class == "high" {
			high = append(high, res)
		}
	}
	return high, nil
}
