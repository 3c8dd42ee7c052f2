package harvestcontacts

import (
	"context"
	"strings"

	"contact-harvester/internal/common/errors"
	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/contact/orchestrator"
)

type Service struct {
	config *Config
	logger logger.Logger
	runner QueryRunner
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		runner: deps.Runner,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidInputError("query must not be empty")
	}

	deepScan := s.config.DeepScan
	if input.DeepScan != nil {
		deepScan = *input.DeepScan
	}

	s.logger.Info("Executing contact harvest", map[string]interface{}{
		"query":    query,
		"deepScan": deepScan,
	})

	progress := orchestrator.ProgressFunc(func(done, total int) {
		s.logger.Debug("harvest progress", map[string]interface{}{
			"query": query,
			"done":  done,
			"total": total,
		})
	})

	result, err := s.runner.Run(ctx, query, deepScan, progress)
	if err != nil {
		return nil, err
	}

	return &Output{
		RunID:                   result.RunID,
		Query:                   query,
		KnowledgeGraph:          result.Output.KnowledgeGraph,
		ConsolidatedContactInfo: result.Output.ConsolidatedContactInfo,
		Results:                 result.Harvest.Results,
		ContactRecords:          result.Harvest.ContactRecords,
	}, nil
}
