package extractor

import (
	"context"
	"net/url"

	httpclient "contact-harvester/internal/common/http"
	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/common/metrics"
	"contact-harvester/internal/models"
)

// Fetcher is the page transport.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*httpclient.Response, error)
}

// DeepScanner probes a catalog of sub-paths on a site whose landing page
// yielded nothing.
type DeepScanner struct {
	fetcher   Fetcher
	extractor *Extractor
	logger    logger.Logger
}

func NewDeepScanner(fetcher Fetcher, extractor *Extractor, log logger.Logger) *DeepScanner {
	return &DeepScanner{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    log.WithFields(map[string]interface{}{"component": "deep-scan"}),
	}
}

// Scan fetches candidatePaths in order against the origin of siteURL and
// folds each page's record into an accumulator, stopping at the first probe
// that leaves the accumulator non-empty. Failed fetches and non-2xx statuses
// are skipped. A cancelled context ends the scan with what was gathered.
func (d *DeepScanner) Scan(ctx context.Context, siteURL *url.URL, candidatePaths []string) models.ContactRecord {
	var acc models.ContactRecord
	if siteURL == nil || (siteURL.Scheme != "http" && siteURL.Scheme != "https") || siteURL.Host == "" {
		return acc
	}
	origin := &url.URL{Scheme: siteURL.Scheme, Host: siteURL.Host}

	for i, p := range candidatePaths {
		if ctx.Err() != nil {
			d.logger.Debug("deep scan cancelled", map[string]interface{}{
				"site":   origin.String(),
				"probed": i,
			})
			return acc
		}

		ref, err := url.Parse(p)
		if err != nil {
			metrics.DeepScanProbes.WithLabelValues("skipped").Inc()
			continue
		}
		target := origin.ResolveReference(ref)

		resp, err := d.fetcher.Fetch(ctx, target.String())
		if err != nil || !resp.OK() {
			metrics.DeepScanProbes.WithLabelValues("skipped").Inc()
			continue
		}

		acc = acc.Merge(d.extractor.ExtractPage(resp.Body, target))
		if !acc.IsEmpty() {
			metrics.DeepScanProbes.WithLabelValues("hit").Inc()
			d.logger.Info("deep scan found contact data", map[string]interface{}{
				"site": origin.String(),
				"path": p,
			})
			return acc
		}
		metrics.DeepScanProbes.WithLabelValues("empty").Inc()
	}

	return acc
}
