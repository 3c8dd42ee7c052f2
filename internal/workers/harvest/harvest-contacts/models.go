package harvestcontacts

import (
	"context"

	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/contact/orchestrator"
	"contact-harvester/internal/contact/pipeline"
	"contact-harvester/internal/models"
)

type Input struct {
	Query    string `json:"query"`
	DeepScan *bool  `json:"deepScan,omitempty"`
}

type Output struct {
	RunID                   string                    `json:"runId"`
	Query                   string                    `json:"query"`
	KnowledgeGraph          *models.KnowledgePanel    `json:"knowledge_graph"`
	ConsolidatedContactInfo models.ConsolidatedRecord `json:"consolidated_contact_info"`
	Results                 []models.SearchResult     `json:"results"`
	ContactRecords          []models.ContactRecord    `json:"contact_records"`
}

// QueryRunner executes one harvesting query.
type QueryRunner interface {
	Run(ctx context.Context, query string, deepScan bool, observer orchestrator.ProgressObserver) (*pipeline.Result, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	Runner QueryRunner
}
