// Package pipeline wires the harvesting components into a single query run:
// results page, per-result extraction, consolidation and output validation.
package pipeline

import (
	"context"
	"time"

	"contact-harvester/internal/common/config"
	"contact-harvester/internal/common/errors"
	httpclient "contact-harvester/internal/common/http"
	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/common/observability"
	"contact-harvester/internal/contact/consolidate"
	"contact-harvester/internal/contact/extractor"
	"contact-harvester/internal/contact/orchestrator"
	"contact-harvester/internal/contact/phone"
	"contact-harvester/internal/contact/serp"
	"contact-harvester/internal/models"

	"github.com/google/uuid"
)

// Result is everything produced by one query run.
type Result struct {
	RunID   string
	Output  models.QueryOutput
	Harvest *models.HarvestResult
}

type Pipeline struct {
	orchestrator  *orchestrator.Orchestrator
	consolidator  *consolidate.Consolidator
	observability *observability.Observability
	logger        logger.Logger
}

// New builds a pipeline from configuration. obs may be nil.
func New(cfg *config.Config, obs *observability.Observability, log logger.Logger) *Pipeline {
	log = log.WithFields(map[string]interface{}{"component": "pipeline"})

	client := httpclient.NewClient(httpclient.Options{
		Timeout:      config.GetDuration(cfg.Fetch.TimeoutMs),
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		UserAgents:   cfg.Fetch.UserAgents,
	})
	normalizer := phone.NewNormalizer()
	ex := extractor.New(normalizer, cfg.Extraction.DefaultRegion, log)

	harvester := serp.NewHarvester(serp.Config{
		BaseURL:    cfg.Search.BaseURL,
		Language:   cfg.Search.Language,
		Country:    cfg.Search.Country,
		NumResults: cfg.Search.NumResults,
	}, client, log)

	orch := orchestrator.New(orchestrator.Config{
		MaxConcurrency: cfg.Orchestrator.MaxConcurrency,
		DeepScanPaths:  cfg.Extraction.DeepScanPaths,
	}, harvester, client, ex, extractor.NewDeepScanner(client, ex, log), log)

	return &Pipeline{
		orchestrator:  orch,
		consolidator:  consolidate.New(normalizer, cfg.Extraction.DefaultRegion),
		observability: obs,
		logger:        log,
	}
}

// Run executes one query. The only error conditions are an unavailable
// results page and an output document that fails schema validation.
func (p *Pipeline) Run(ctx context.Context, query string, deepScan bool, observer orchestrator.ProgressObserver) (*Result, error) {
	runID := uuid.NewString()
	ctx = orchestrator.WithRunID(ctx, runID)
	log := p.logger.WithFields(map[string]interface{}{"runId": runID, "query": query})
	start := time.Now()

	harvest, err := p.orchestrator.Run(ctx, query, deepScan, observer)
	if err != nil {
		p.observability.RecordQueryRun(ctx, string(errors.CodeOf(err)), time.Since(start), 0)
		return nil, err
	}

	out := models.QueryOutput{
		KnowledgeGraph:          harvest.KnowledgePanel,
		ConsolidatedContactInfo: p.consolidator.Consolidate(harvest.KnowledgePanel, harvest.ContactRecords),
	}
	if err := ValidateOutput(out); err != nil {
		log.Error("query output rejected", map[string]interface{}{"error": err})
		p.observability.RecordQueryRun(ctx, string(errors.ErrCodeOutputSchemaInvalid), time.Since(start), len(harvest.Results))
		return nil, err
	}

	p.observability.RecordQueryRun(ctx, "success", time.Since(start), len(harvest.Results))
	log.Info("query completed", map[string]interface{}{
		"results":  len(harvest.Results),
		"email":    out.ConsolidatedContactInfo.Email != "",
		"phone":    out.ConsolidatedContactInfo.Phone != "",
		"address":  out.ConsolidatedContactInfo.Address != "",
		"duration": time.Since(start).String(),
	})

	return &Result{RunID: runID, Output: out, Harvest: harvest}, nil
}
