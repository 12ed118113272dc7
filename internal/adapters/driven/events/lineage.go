package events

import (
	"context"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
	"github.com/custodia-labs/semantica/internal/logger"
)

// SubscribeLineage wires projection events to the lineage service, so every
// completed projection leaves a chunking and an embedding transformation in
// the unit's history. Recording errors are logged, never propagated.
func SubscribeLineage(p *Publisher, lineage driving.LineageService) {
	p.Subscribe("projection.generated", func(event domain.DomainEvent) {
		generated, ok := event.(domain.ProjectionGenerated)
		if !ok {
			return
		}

		ctx := context.Background()
		transformations := []driving.RegisterTransformationInput{
			{
				SemanticUnitID: generated.UnitID,
				Type:           domain.TransformationChunking,
				StrategyUsed:   generated.ChunkingStrategy,
				InputVersion:   generated.UnitVersion,
				OutputVersion:  generated.UnitVersion,
				Parameters: map[string]any{
					"projection_id": generated.ProjectionID,
					"profile_id":    generated.ProfileID,
					"chunk_count":   generated.ChunkCount,
				},
			},
			{
				SemanticUnitID: generated.UnitID,
				Type:           domain.TransformationEmbedding,
				StrategyUsed:   generated.EmbedderStrategy,
				InputVersion:   generated.UnitVersion,
				OutputVersion:  generated.UnitVersion,
				Parameters: map[string]any{
					"projection_id": generated.ProjectionID,
					"profile_id":    generated.ProfileID,
					"dimensions":    generated.Dimensions,
				},
			},
		}

		for _, t := range transformations {
			if err := lineage.RegisterTransformation(ctx, t); err != nil {
				logger.Warn("recording lineage for unit %s: %v", generated.UnitID, err)
			}
		}
	})

	p.Subscribe("projection.failed", func(event domain.DomainEvent) {
		failed, ok := event.(domain.ProjectionFailed)
		if !ok {
			return
		}
		logger.Warn("projection %s for unit %s failed: %s", failed.ProjectionID, failed.UnitID, failed.Reason)
	})
}
