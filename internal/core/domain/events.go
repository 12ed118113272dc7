package domain

import "time"

// DomainEvent is a fact recorded by an aggregate after a state change.
// Events are buffered inside the aggregate and drained by a service after
// the aggregate has been persisted, then handed to the event publisher.
type DomainEvent interface {
	// EventName identifies the event type (e.g. "semantic_unit.created").
	EventName() string

	// OccurredAt is when the event was recorded.
	OccurredAt() time.Time
}

// EventRecorder buffers pending domain events for an aggregate.
// Embed it in an aggregate and call Record after each state change.
// Services call DrainEvents once the aggregate has been saved.
type EventRecorder struct {
	events []DomainEvent
}

// Record appends an event to the pending buffer.
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// DrainEvents returns all pending events and clears the buffer.
func (r *EventRecorder) DrainEvents() []DomainEvent {
	events := r.events
	r.events = nil
	return events
}

// PendingEvents returns the buffered events without clearing them.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	return r.events
}

// baseEvent carries the fields shared by all concrete events.
type baseEvent struct {
	name string
	at   time.Time
}

func (e baseEvent) EventName() string     { return e.name }
func (e baseEvent) OccurredAt() time.Time { return e.at }

func newBaseEvent(name string) baseEvent {
	return baseEvent{name: name, at: time.Now().UTC()}
}

// SourceRegistered is recorded when a new source is registered.
type SourceRegistered struct {
	baseEvent
	SourceID string
	Name     string
	Type     SourceType
}

// SourceExtracted is recorded when an extraction produced a new source version.
type SourceExtracted struct {
	baseEvent
	SourceID    string
	Version     int
	ContentHash string
}

// SemanticUnitCreated is recorded when a unit is created.
type SemanticUnitCreated struct {
	baseEvent
	UnitID string
	Name   string
}

// SemanticUnitVersioned is recorded when a unit gains a new version.
type SemanticUnitVersioned struct {
	baseEvent
	UnitID  string
	Version int
	Reason  string
}

// SemanticUnitStateChanged is recorded on a lifecycle transition.
type SemanticUnitStateChanged struct {
	baseEvent
	UnitID string
	From   UnitState
	To     UnitState
	Reason string
}

// SemanticUnitReprocessRequested is recorded when reprocessing is requested.
// It does not mutate unit state; reprocessing is driven externally.
type SemanticUnitReprocessRequested struct {
	baseEvent
	UnitID string
	Reason string
}

// ProjectionGenerated is recorded when a projection completes successfully.
// It carries enough identifying data for lineage to record the transformation.
type ProjectionGenerated struct {
	baseEvent
	ProjectionID     string
	UnitID           string
	UnitVersion      int
	ProfileID        string
	ProfileVersion   int
	ChunkingStrategy string
	EmbedderStrategy string
	ChunkCount       int
	Dimensions       int
}

// ProjectionFailed is recorded when a projection ends in the failed state.
type ProjectionFailed struct {
	baseEvent
	ProjectionID string
	UnitID       string
	UnitVersion  int
	ProfileID    string
	Reason       string
}

// ProfileRegistered is recorded when a processing profile is registered.
type ProfileRegistered struct {
	baseEvent
	ProfileID string
	Name      string
}

// ProfileDeprecated is recorded when a profile is deactivated.
type ProfileDeprecated struct {
	baseEvent
	ProfileID string
}

// NewSourceRegistered builds a SourceRegistered event.
func NewSourceRegistered(sourceID, name string, sourceType SourceType) SourceRegistered {
	return SourceRegistered{baseEvent: newBaseEvent("source.registered"), SourceID: sourceID, Name: name, Type: sourceType}
}

// NewSourceExtracted builds a SourceExtracted event.
func NewSourceExtracted(sourceID string, version int, contentHash string) SourceExtracted {
	return SourceExtracted{baseEvent: newBaseEvent("source.extracted"), SourceID: sourceID, Version: version, ContentHash: contentHash}
}

// NewSemanticUnitCreated builds a SemanticUnitCreated event.
func NewSemanticUnitCreated(unitID, name string) SemanticUnitCreated {
	return SemanticUnitCreated{baseEvent: newBaseEvent("semantic_unit.created"), UnitID: unitID, Name: name}
}

// NewSemanticUnitVersioned builds a SemanticUnitVersioned event.
func NewSemanticUnitVersioned(unitID string, version int, reason string) SemanticUnitVersioned {
	return SemanticUnitVersioned{baseEvent: newBaseEvent("semantic_unit.versioned"), UnitID: unitID, Version: version, Reason: reason}
}

// NewSemanticUnitStateChanged builds a SemanticUnitStateChanged event.
func NewSemanticUnitStateChanged(unitID string, from, to UnitState, reason string) SemanticUnitStateChanged {
	return SemanticUnitStateChanged{baseEvent: newBaseEvent("semantic_unit.state_changed"), UnitID: unitID, From: from, To: to, Reason: reason}
}

// NewSemanticUnitReprocessRequested builds a SemanticUnitReprocessRequested event.
func NewSemanticUnitReprocessRequested(unitID, reason string) SemanticUnitReprocessRequested {
	return SemanticUnitReprocessRequested{baseEvent: newBaseEvent("semantic_unit.reprocess_requested"), UnitID: unitID, Reason: reason}
}

// NewProjectionGenerated builds a ProjectionGenerated event.
func NewProjectionGenerated(p *SemanticProjection, profileVersion int, chunking, embedder string) ProjectionGenerated {
	return ProjectionGenerated{
		baseEvent:        newBaseEvent("projection.generated"),
		ProjectionID:     p.ID,
		UnitID:           p.SemanticUnitID,
		UnitVersion:      p.SemanticUnitVersion,
		ProfileID:        p.ProcessingProfileID,
		ProfileVersion:   profileVersion,
		ChunkingStrategy: chunking,
		EmbedderStrategy: embedder,
		ChunkCount:       p.Result.ChunkCount,
		Dimensions:       p.Result.Dimensions,
	}
}

// NewProjectionFailed builds a ProjectionFailed event.
func NewProjectionFailed(p *SemanticProjection) ProjectionFailed {
	return ProjectionFailed{
		baseEvent:    newBaseEvent("projection.failed"),
		ProjectionID: p.ID,
		UnitID:       p.SemanticUnitID,
		UnitVersion:  p.SemanticUnitVersion,
		ProfileID:    p.ProcessingProfileID,
		Reason:       p.Error,
	}
}

// NewProfileRegistered builds a ProfileRegistered event.
func NewProfileRegistered(profileID, name string) ProfileRegistered {
	return ProfileRegistered{baseEvent: newBaseEvent("processing_profile.registered"), ProfileID: profileID, Name: name}
}

// NewProfileDeprecated builds a ProfileDeprecated event.
func NewProfileDeprecated(profileID string) ProfileDeprecated {
	return ProfileDeprecated{baseEvent: newBaseEvent("processing_profile.deprecated"), ProfileID: profileID}
}
