package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
)

// Ensure LineageService implements the interface.
var _ driving.LineageService = (*LineageService)(nil)

// LineageService records and serves transformation history.
type LineageService struct {
	lineages driven.LineageStore
}

// NewLineageService creates a lineage service.
func NewLineageService(lineages driven.LineageStore) *LineageService {
	return &LineageService{lineages: lineages}
}

// RegisterTransformation appends a transformation, lazily creating the
// unit's lineage record.
func (s *LineageService) RegisterTransformation(ctx context.Context, input driving.RegisterTransformationInput) error {
	if input.SemanticUnitID == "" {
		return domain.ErrInvalidInput
	}

	lineage, err := s.load(ctx, input.SemanticUnitID)
	if err != nil {
		return err
	}

	lineage.Append(domain.Transformation{
		Type:          input.Type,
		StrategyUsed:  input.StrategyUsed,
		InputVersion:  input.InputVersion,
		OutputVersion: input.OutputVersion,
		Parameters:    input.Parameters,
	})

	if err := s.lineages.Save(ctx, lineage); err != nil {
		return fmt.Errorf("saving lineage: %w", err)
	}
	return nil
}

// AddTrace records a relationship between two units.
func (s *LineageService) AddTrace(ctx context.Context, fromUnitID, toUnitID, relationship string) error {
	if fromUnitID == "" || toUnitID == "" || relationship == "" {
		return domain.ErrInvalidInput
	}

	lineage, err := s.load(ctx, fromUnitID)
	if err != nil {
		return err
	}

	lineage.AddTrace(toUnitID, relationship)

	if err := s.lineages.Save(ctx, lineage); err != nil {
		return fmt.Errorf("saving lineage: %w", err)
	}
	return nil
}

// Get returns a unit's lineage.
func (s *LineageService) Get(ctx context.Context, unitID string) (*domain.KnowledgeLineage, error) {
	return s.lineages.Get(ctx, unitID)
}

// load fetches the unit's lineage, creating an empty record on first use.
func (s *LineageService) load(ctx context.Context, unitID string) (*domain.KnowledgeLineage, error) {
	lineage, err := s.lineages.Get(ctx, unitID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewKnowledgeLineage(unitID), nil
		}
		return nil, err
	}
	return lineage, nil
}
