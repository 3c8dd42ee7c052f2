// Package orchestrator runs one query end to end: it harvests the results
// page and fans out a bounded batch of per-result contact tasks.
package orchestrator

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"contact-harvester/internal/common/errors"
	httpclient "contact-harvester/internal/common/http"
	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/common/metrics"
	"contact-harvester/internal/models"

	"golang.org/x/sync/errgroup"
)

const DefaultMaxConcurrency = 8

type SearchHarvester interface {
	Harvest(ctx context.Context, query string) (*models.SearchPage, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*httpclient.Response, error)
}

type PageExtractor interface {
	ExtractPage(body string, pageURL *url.URL) models.ContactRecord
}

type Scanner interface {
	Scan(ctx context.Context, siteURL *url.URL, candidatePaths []string) models.ContactRecord
}

// ProgressObserver is told how many tasks of the batch have finished.
// Calls may arrive from several goroutines.
type ProgressObserver interface {
	Progress(done, total int)
}

// ProgressFunc adapts a function to ProgressObserver.
type ProgressFunc func(done, total int)

func (f ProgressFunc) Progress(done, total int) { f(done, total) }

type Config struct {
	MaxConcurrency int
	DeepScanPaths  []string
}

type Orchestrator struct {
	config    Config
	harvester SearchHarvester
	fetcher   Fetcher
	extractor PageExtractor
	scanner   Scanner
	logger    logger.Logger
}

func New(config Config, harvester SearchHarvester, fetcher Fetcher, extractor PageExtractor, scanner Scanner, log logger.Logger) *Orchestrator {
	if config.MaxConcurrency < 1 {
		config.MaxConcurrency = DefaultMaxConcurrency
	}
	return &Orchestrator{
		config:    config,
		harvester: harvester,
		fetcher:   fetcher,
		extractor: extractor,
		scanner:   scanner,
		logger:    log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

type runIDKey struct{}

// WithRunID attaches a run identifier that is added to every log line of the run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

func RunIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// Run harvests the results page for query and extracts a contact record for
// every organic result. Only a failed results-page fetch is returned as an
// error; per-result failures become tagged empty records so that
// ContactRecords[i] always belongs to Results[i].
func (o *Orchestrator) Run(ctx context.Context, query string, deepScan bool, observer ProgressObserver) (*models.HarvestResult, error) {
	log := o.logger.WithFields(map[string]interface{}{"query": query})
	if id := RunIDFrom(ctx); id != "" {
		log = log.WithFields(map[string]interface{}{"runId": id})
	}

	start := time.Now()
	defer func() {
		metrics.HarvestDuration.Observe(time.Since(start).Seconds())
	}()

	page, err := o.harvester.Harvest(ctx, query)
	if err != nil {
		log.Error("results page unavailable", map[string]interface{}{"error": err})
		return nil, err
	}

	records := make([]models.ContactRecord, len(page.Results))
	links := make([]*url.URL, len(page.Results))
	total := 0
	for i, r := range page.Results {
		link, ok := resolvableLink(r.Link)
		if !ok {
			records[i] = models.FailedRecord(string(errors.ErrCodeNoResolvableLink))
			metrics.ContactTasks.WithLabelValues(string(errors.ErrCodeNoResolvableLink)).Inc()
			continue
		}
		links[i] = link
		total++
	}

	log.Info("dispatching contact tasks", map[string]interface{}{
		"results":  len(page.Results),
		"tasks":    total,
		"deepScan": deepScan,
	})

	var done atomic.Int64
	var g errgroup.Group
	g.SetLimit(o.config.MaxConcurrency)

	for i, link := range links {
		if link == nil {
			continue
		}
		g.Go(func() error {
			records[i] = o.runTask(ctx, link, deepScan, log)
			if observer != nil {
				observer.Progress(int(done.Add(1)), total)
			}
			// tasks never fail the group; siblings keep running
			return nil
		})
	}
	_ = g.Wait()

	log.Info("contact tasks finished", map[string]interface{}{
		"tasks":    total,
		"duration": time.Since(start).String(),
	})

	return &models.HarvestResult{
		Query:          page.Query,
		KnowledgePanel: page.KnowledgePanel,
		Results:        page.Results,
		ContactRecords: records,
	}, nil
}

// runTask fetches one result page and extracts from it, falling back to a
// deep scan when enabled and the landing page yielded nothing.
func (o *Orchestrator) runTask(ctx context.Context, link *url.URL, deepScan bool, log logger.Logger) (record models.ContactRecord) {
	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			log.Error("contact task panicked", map[string]interface{}{
				"url":   link.String(),
				"panic": fmt.Sprint(r),
			})
			record = models.FailedRecord(string(errors.ErrCodeParseAnomaly))
			outcome = string(errors.ErrCodeParseAnomaly)
		}
		metrics.ContactTasks.WithLabelValues(outcome).Inc()
	}()

	resp, err := o.fetcher.Fetch(ctx, link.String())
	if err != nil {
		log.Warn("page fetch failed", map[string]interface{}{
			"url":   link.String(),
			"error": errors.NewFetchFailureError(link.String(), err),
		})
		outcome = string(errors.ErrCodeFetchFailure)
		return models.FailedRecord(outcome)
	}
	if !resp.OK() {
		log.Warn("page fetch failed", map[string]interface{}{
			"url":   link.String(),
			"error": errors.NewFetchStatusError(link.String(), resp.Status),
		})
		outcome = string(errors.ErrCodeFetchFailure)
		return models.FailedRecord(outcome)
	}

	record = o.extractor.ExtractPage(resp.Body, link)
	if deepScan && record.IsEmpty() {
		log.Debug("landing page empty, deep scanning", map[string]interface{}{"url": link.String()})
		record = o.scanner.Scan(ctx, link, o.config.DeepScanPaths)
	}
	if record.IsEmpty() {
		outcome = "empty"
	}
	return record
}

// resolvableLink accepts absolute http(s) links only.
func resolvableLink(raw string) (*url.URL, bool) {
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, true
}
