// Package serp fetches a search-engine results page and parses it into a
// knowledge panel and organic results.
package serp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"contact-harvester/internal/common/errors"
	httpclient "contact-harvester/internal/common/http"
	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/models"
)

// Fetcher is the page transport.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*httpclient.Response, error)
}

type Config struct {
	BaseURL    string
	Language   string
	Country    string
	NumResults int
}

// Harvester issues one results-page fetch per query.
type Harvester struct {
	config  Config
	fetcher Fetcher
	logger  logger.Logger
}

func NewHarvester(config Config, fetcher Fetcher, log logger.Logger) *Harvester {
	return &Harvester{
		config:  config,
		fetcher: fetcher,
		logger:  log.WithFields(map[string]interface{}{"component": "serp"}),
	}
}

// SearchURL builds the results-page URL for query.
func (h *Harvester) SearchURL(query string) (*url.URL, error) {
	u, err := url.Parse(h.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search base url: %w", err)
	}

	params := u.Query()
	params.Set("q", query)
	if h.config.Language != "" {
		params.Set("hl", h.config.Language)
	}
	if h.config.Country != "" {
		params.Set("gl", h.config.Country)
	}
	if h.config.NumResults > 0 {
		params.Set("num", strconv.Itoa(h.config.NumResults))
	}
	u.RawQuery = params.Encode()
	return u, nil
}

// Harvest fetches and parses the results page for query. A failed fetch or a
// non-2xx status is returned as SEARCH_PAGE_UNAVAILABLE. An empty result list
// is not an error.
func (h *Harvester) Harvest(ctx context.Context, query string) (*models.SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewInvalidInputError("query must not be empty")
	}

	searchURL, err := h.SearchURL(query)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}

	resp, err := h.fetcher.Fetch(ctx, searchURL.String())
	if err != nil {
		return nil, errors.NewSearchPageUnavailableError(query, err)
	}
	if !resp.OK() {
		return nil, errors.NewSearchPageUnavailableError(query, fmt.Errorf("status %d", resp.Status))
	}

	panel, results := ParseResultsPage(resp.Body, searchURL)
	if panel == nil {
		h.logger.Info("knowledge panel not found", map[string]interface{}{"query": query})
	}
	h.logger.Info("results page harvested", map[string]interface{}{
		"query":          query,
		"results":        len(results),
		"knowledgePanel": panel != nil,
	})

	return &models.SearchPage{
		Query:          query,
		URL:            searchURL.String(),
		KnowledgePanel: panel,
		Results:        results,
	}, nil
}
