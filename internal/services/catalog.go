package services

import (
	"context"
	"strings"

	"github.com/yungbote/nexuslearn-backend/internal/catalog"
	"github.com/yungbote/nexuslearn-backend/internal/data/repos"
	types "github.com/yungbote/nexuslearn-backend/internal/domain"
	"github.com/yungbote/nexuslearn-backend/internal/pkg/dbctx"
	"github.com/yungbote/nexuslearn-backend/internal/platform/apierr"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

// PartitionInput is the raw, unvalidated form of a catalog partition.
type PartitionInput struct {
	Type    string `form:"type"`
	Subject string `form:"subject"`
	Section string `form:"section"`
	DataKey string `form:"dataKey"`
}

// ParsePartition validates in. Subject is optional for SAT.
func ParsePartition(in PartitionInput) (catalog.Partition, error) {
	v := &apierr.ValidationError{}
	q, ok := catalog.ParseQualificationType(in.Type)
	if !ok {
		v.Add("type", "must be one of alevel, sat, olevel, igcse")
	}
	sec, ok := catalog.ParseSection(in.Section)
	if !ok {
		v.Add("section", "must be one of books, yearly, topical, sa_resources")
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" && q != catalog.SAT {
		v.Add("subject", "is required")
	}
	if err := v.Err(); err != nil {
		return catalog.Partition{}, err
	}
	return catalog.Partition{Type: q, Subject: subject, Section: sec, DataKey: strings.TrimSpace(in.DataKey)}, nil
}

type recordSource struct {
	repo repos.ResourceRepo
}

// NewRecordSource exposes the resource repo as the aggregator's persisted source.
func NewRecordSource(repo repos.ResourceRepo) catalog.RecordSource {
	return &recordSource{repo: repo}
}

func (s *recordSource) FindActiveResources(ctx context.Context, q catalog.Query) ([]*types.Resource, error) {
	return s.repo.FindActive(dbctx.Context{Ctx: ctx}, repos.ResourceActiveQuery{
		Type:    string(q.Type),
		Subject: q.Subject,
		Section: string(q.Section),
		DataKey: q.DataKeyAlternative,
	})
}

// CatalogInvalidator drops cached persisted records after admin writes.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context, t catalog.QualificationType) error
}

type CatalogService interface {
	List(ctx context.Context, p catalog.Partition, f *catalog.YearlyFilter) []catalog.Entry
	Years(ctx context.Context, p catalog.Partition) []string
	Options(ctx context.Context, p catalog.Partition) catalog.FilterOptions
	Subjects(q catalog.QualificationType) []catalog.SubjectInfo
	ActiveRecords(ctx context.Context, q catalog.Query) ([]*types.Resource, error)
}

type catalogService struct {
	log        *logger.Logger
	aggregator *catalog.Aggregator
	source     catalog.RecordSource
}

func NewCatalogService(log *logger.Logger, aggregator *catalog.Aggregator, source catalog.RecordSource) CatalogService {
	return &catalogService{
		log:        log.With("service", "CatalogService"),
		aggregator: aggregator,
		source:     source,
	}
}

func (cs *catalogService) List(ctx context.Context, p catalog.Partition, f *catalog.YearlyFilter) []catalog.Entry {
	return cs.aggregator.ListResources(ctx, p, f)
}

func (cs *catalogService) Years(ctx context.Context, p catalog.Partition) []string {
	return cs.aggregator.AvailableYears(ctx, p)
}

func (cs *catalogService) Options(ctx context.Context, p catalog.Partition) catalog.FilterOptions {
	return cs.aggregator.FilterOptions(ctx, p)
}

func (cs *catalogService) Subjects(q catalog.QualificationType) []catalog.SubjectInfo {
	return cs.aggregator.Static().Subjects(q)
}

// ActiveRecords is the raw persisted read. Unlike List it reports source errors.
func (cs *catalogService) ActiveRecords(ctx context.Context, q catalog.Query) ([]*types.Resource, error) {
	if cs.source == nil {
		return []*types.Resource{}, nil
	}
	return cs.source.FindActiveResources(ctx, q)
}
