package sqlite

import (
	"time"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

// DTO shapes mirror the aggregates field-for-field with RFC 3339 timestamps.
// They are the JSON persisted into the nested columns and must round-trip
// exactly through the toDTO/fromDTO pairs below.

type sourceVersionDTO struct {
	Version     int    `json:"version"`
	ContentHash string `json:"contentHash"`
	ExtractedAt string `json:"extractedAt"`
}

type unitSourceDTO struct {
	SourceID         string `json:"sourceId"`
	SourceType       string `json:"sourceType"`
	ResourceID       string `json:"resourceId,omitempty"`
	ExtractedContent string `json:"extractedContent"`
	ContentHash      string `json:"contentHash"`
	AddedAt          string `json:"addedAt"`
}

type snapshotDTO struct {
	SourceID      string   `json:"sourceId"`
	ContentHash   string   `json:"contentHash"`
	ProjectionIDs []string `json:"projectionIds,omitempty"`
}

type unitVersionDTO struct {
	Version                  int           `json:"version"`
	ProcessingProfileID      string        `json:"processingProfileId"`
	ProcessingProfileVersion int           `json:"processingProfileVersion"`
	SourceSnapshots          []snapshotDTO `json:"sourceSnapshots"`
	CreatedAt                string        `json:"createdAt"`
	Reason                   string        `json:"reason,omitempty"`
}

type transformationDTO struct {
	Type          string         `json:"type"`
	StrategyUsed  string         `json:"strategyUsed"`
	InputVersion  int            `json:"inputVersion"`
	OutputVersion int            `json:"outputVersion"`
	AppliedAt     string         `json:"appliedAt"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

type traceDTO struct {
	FromUnitID   string `json:"fromUnitId"`
	ToUnitID     string `json:"toUnitId"`
	Relationship string `json:"relationship"`
	CreatedAt    string `json:"createdAt"`
}

type projectionResultDTO struct {
	ChunkCount        int    `json:"chunkCount"`
	Dimensions        int    `json:"dimensions"`
	ChunkingStrategy  string `json:"chunkingStrategy"`
	EmbeddingStrategy string `json:"embeddingStrategy"`
	EmbeddingVersion  int    `json:"embeddingVersion"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func sourceVersionsToDTO(versions []domain.SourceVersion) []sourceVersionDTO {
	dtos := make([]sourceVersionDTO, len(versions))
	for i, v := range versions {
		dtos[i] = sourceVersionDTO{
			Version:     v.Version,
			ContentHash: v.ContentHash,
			ExtractedAt: formatTime(v.ExtractedAt),
		}
	}
	return dtos
}

func sourceVersionsFromDTO(dtos []sourceVersionDTO) []domain.SourceVersion {
	versions := make([]domain.SourceVersion, len(dtos))
	for i, d := range dtos {
		versions[i] = domain.SourceVersion{
			Version:     d.Version,
			ContentHash: d.ContentHash,
			ExtractedAt: parseTime(d.ExtractedAt),
		}
	}
	return versions
}

func unitSourcesToDTO(sources []domain.UnitSource) []unitSourceDTO {
	dtos := make([]unitSourceDTO, len(sources))
	for i, s := range sources {
		dtos[i] = unitSourceDTO{
			SourceID:         s.SourceID,
			SourceType:       string(s.SourceType),
			ResourceID:       s.ResourceID,
			ExtractedContent: s.ExtractedContent,
			ContentHash:      s.ContentHash,
			AddedAt:          formatTime(s.AddedAt),
		}
	}
	return dtos
}

func unitSourcesFromDTO(dtos []unitSourceDTO) []domain.UnitSource {
	sources := make([]domain.UnitSource, len(dtos))
	for i, d := range dtos {
		sources[i] = domain.UnitSource{
			SourceID:         d.SourceID,
			SourceType:       domain.SourceType(d.SourceType),
			ResourceID:       d.ResourceID,
			ExtractedContent: d.ExtractedContent,
			ContentHash:      d.ContentHash,
			AddedAt:          parseTime(d.AddedAt),
		}
	}
	return sources
}

func unitVersionsToDTO(versions []domain.UnitVersion) []unitVersionDTO {
	dtos := make([]unitVersionDTO, len(versions))
	for i, v := range versions {
		snapshots := make([]snapshotDTO, len(v.SourceSnapshots))
		for j, s := range v.SourceSnapshots {
			snapshots[j] = snapshotDTO{
				SourceID:      s.SourceID,
				ContentHash:   s.ContentHash,
				ProjectionIDs: s.ProjectionIDs,
			}
		}
		dtos[i] = unitVersionDTO{
			Version:                  v.Version,
			ProcessingProfileID:      v.ProcessingProfileID,
			ProcessingProfileVersion: v.ProcessingProfileVersion,
			SourceSnapshots:          snapshots,
			CreatedAt:                formatTime(v.CreatedAt),
			Reason:                   v.Reason,
		}
	}
	return dtos
}

func unitVersionsFromDTO(dtos []unitVersionDTO) []domain.UnitVersion {
	versions := make([]domain.UnitVersion, len(dtos))
	for i, d := range dtos {
		snapshots := make([]domain.VersionSourceSnapshot, len(d.SourceSnapshots))
		for j, s := range d.SourceSnapshots {
			snapshots[j] = domain.VersionSourceSnapshot{
				SourceID:      s.SourceID,
				ContentHash:   s.ContentHash,
				ProjectionIDs: s.ProjectionIDs,
			}
		}
		versions[i] = domain.UnitVersion{
			Version:                  d.Version,
			ProcessingProfileID:      d.ProcessingProfileID,
			ProcessingProfileVersion: d.ProcessingProfileVersion,
			SourceSnapshots:          snapshots,
			CreatedAt:                parseTime(d.CreatedAt),
			Reason:                   d.Reason,
		}
	}
	return versions
}

func transformationsToDTO(transformations []domain.Transformation) []transformationDTO {
	dtos := make([]transformationDTO, len(transformations))
	for i, t := range transformations {
		dtos[i] = transformationDTO{
			Type:          string(t.Type),
			StrategyUsed:  t.StrategyUsed,
			InputVersion:  t.InputVersion,
			OutputVersion: t.OutputVersion,
			AppliedAt:     formatTime(t.AppliedAt),
			Parameters:    t.Parameters,
		}
	}
	return dtos
}

func transformationsFromDTO(dtos []transformationDTO) []domain.Transformation {
	transformations := make([]domain.Transformation, len(dtos))
	for i, d := range dtos {
		transformations[i] = domain.Transformation{
			Type:          domain.TransformationType(d.Type),
			StrategyUsed:  d.StrategyUsed,
			InputVersion:  d.InputVersion,
			OutputVersion: d.OutputVersion,
			AppliedAt:     parseTime(d.AppliedAt),
			Parameters:    d.Parameters,
		}
	}
	return transformations
}

func tracesToDTO(traces []domain.Trace) []traceDTO {
	dtos := make([]traceDTO, len(traces))
	for i, t := range traces {
		dtos[i] = traceDTO{
			FromUnitID:   t.FromUnitID,
			ToUnitID:     t.ToUnitID,
			Relationship: t.Relationship,
			CreatedAt:    formatTime(t.CreatedAt),
		}
	}
	return dtos
}

func tracesFromDTO(dtos []traceDTO) []domain.Trace {
	traces := make([]domain.Trace, len(dtos))
	for i, d := range dtos {
		traces[i] = domain.Trace{
			FromUnitID:   d.FromUnitID,
			ToUnitID:     d.ToUnitID,
			Relationship: d.Relationship,
			CreatedAt:    parseTime(d.CreatedAt),
		}
	}
	return traces
}

func resultToDTO(r domain.ProjectionResult) projectionResultDTO {
	return projectionResultDTO{
		ChunkCount:        r.ChunkCount,
		Dimensions:        r.Dimensions,
		ChunkingStrategy:  r.ChunkingStrategy,
		EmbeddingStrategy: r.EmbeddingStrategy,
		EmbeddingVersion:  r.EmbeddingVersion,
	}
}

func resultFromDTO(d projectionResultDTO) domain.ProjectionResult {
	return domain.ProjectionResult{
		ChunkCount:        d.ChunkCount,
		Dimensions:        d.Dimensions,
		ChunkingStrategy:  d.ChunkingStrategy,
		EmbeddingStrategy: d.EmbeddingStrategy,
		EmbeddingVersion:  d.EmbeddingVersion,
	}
}
