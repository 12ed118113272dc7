package domain

import (
	"sort"
	"strings"
	"time"
)

// UnitState is a semantic unit's lifecycle state.
type UnitState string

// Lifecycle states. Archived is terminal.
const (
	UnitStateDraft      UnitState = "draft"
	UnitStateActive     UnitState = "active"
	UnitStateDeprecated UnitState = "deprecated"
	UnitStateArchived   UnitState = "archived"
)

// unitTransitions enumerates the legal lifecycle transitions.
var unitTransitions = map[UnitState][]UnitState{
	UnitStateDraft:      {UnitStateActive, UnitStateDeprecated},
	UnitStateActive:     {UnitStateDeprecated, UnitStateArchived},
	UnitStateDeprecated: {UnitStateActive, UnitStateArchived},
	UnitStateArchived:   {},
}

// CanTransition reports whether the state machine allows moving to next.
func (s UnitState) CanTransition(next UnitState) bool {
	for _, allowed := range unitTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// UnitSource records one contributing source's extracted content.
type UnitSource struct {
	// SourceID links to the contributing Source.
	SourceID string

	// SourceType mirrors the source's content kind.
	SourceType SourceType

	// ResourceID optionally identifies a sub-resource within the source.
	ResourceID string

	// ExtractedContent is the text extracted from the source.
	ExtractedContent string

	// ContentHash is the digest of ExtractedContent.
	ContentHash string

	// AddedAt is when the source was attached to the unit.
	AddedAt time.Time
}

// VersionSourceSnapshot pins the content hash a unit version was built from,
// per contributing source. Comparing fresh hashes against the snapshot set
// decides whether reprocessing is necessary.
type VersionSourceSnapshot struct {
	SourceID      string
	ContentHash   string
	ProjectionIDs []string
}

// UnitVersion is one entry in a unit's version chain. Each version stores a
// full snapshot set; versions are never reconstructed by fold-replay.
type UnitVersion struct {
	// Version is the 1-based, contiguous version number.
	Version int

	// ProcessingProfileID names the profile this version was processed with.
	ProcessingProfileID string

	// ProcessingProfileVersion pins the profile version for reproducibility.
	ProcessingProfileVersion int

	// SourceSnapshots pins the content hash per contributing source.
	SourceSnapshots []VersionSourceSnapshot

	// CreatedAt is when the version was appended.
	CreatedAt time.Time

	// Reason is a free-form explanation for the new version.
	Reason string
}

// SemanticUnit is the atomic knowledge entity. It is created in Draft state
// with one contributing source; versions are appended on content change or
// explicit reprocessing, guarded by snapshot-hash comparison.
type SemanticUnit struct {
	EventRecorder

	// ID is the unique identifier for the unit.
	ID string

	// Name is the human-readable name.
	Name string

	// Description explains what knowledge the unit captures.
	Description string

	// Language is the content language (e.g. "en").
	Language string

	// State is the current lifecycle state.
	State UnitState

	// Sources holds one entry per contributing source.
	Sources []UnitSource

	// Versions is the version chain, oldest first.
	Versions []UnitVersion

	// CreatedAt is when the unit was created.
	CreatedAt time.Time

	// UpdatedAt is when the unit was last modified.
	UpdatedAt time.Time
}

// NewSemanticUnit creates a Draft unit with one contributing source.
func NewSemanticUnit(id, name, description, language string, source UnitSource) (*SemanticUnit, error) {
	if id == "" || strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	if source.SourceID == "" || source.ContentHash == "" {
		return nil, ErrInvalidInput
	}
	if source.AddedAt.IsZero() {
		source.AddedAt = time.Now().UTC()
	}

	now := time.Now().UTC()
	u := &SemanticUnit{
		ID:          id,
		Name:        name,
		Description: description,
		Language:    language,
		State:       UnitStateDraft,
		Sources:     []UnitSource{source},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	u.Record(NewSemanticUnitCreated(id, name))
	return u, nil
}

// CurrentVersion returns the latest unit version, or nil pre-first-version.
func (u *SemanticUnit) CurrentVersion() *UnitVersion {
	if len(u.Versions) == 0 {
		return nil
	}
	return &u.Versions[len(u.Versions)-1]
}

// CurrentVersionNumber returns the highest version number, or 0 when the
// unit has no versions yet.
func (u *SemanticUnit) CurrentVersionNumber() int {
	if v := u.CurrentVersion(); v != nil {
		return v.Version
	}
	return 0
}

// SourceFor returns the UnitSource for the given source id, or nil.
func (u *SemanticUnit) SourceFor(sourceID string) *UnitSource {
	for i := range u.Sources {
		if u.Sources[i].SourceID == sourceID {
			return &u.Sources[i]
		}
	}
	return nil
}

// AddSource attaches another contributing source. A source may contribute
// at most once; re-adding replaces its extracted content and hash.
func (u *SemanticUnit) AddSource(source UnitSource) error {
	if u.State == UnitStateArchived {
		return ErrUnitArchived
	}
	if source.SourceID == "" || source.ContentHash == "" {
		return ErrInvalidInput
	}
	if source.AddedAt.IsZero() {
		source.AddedAt = time.Now().UTC()
	}
	if existing := u.SourceFor(source.SourceID); existing != nil {
		existing.ExtractedContent = source.ExtractedContent
		existing.ContentHash = source.ContentHash
	} else {
		u.Sources = append(u.Sources, source)
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Content concatenates the extracted content of all contributing sources in
// source-id order, separated by blank lines. It is the text a projection
// chunks and embeds.
func (u *SemanticUnit) Content() string {
	sources := make([]UnitSource, len(u.Sources))
	copy(sources, u.Sources)
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].SourceID < sources[j].SourceID
	})

	var b strings.Builder
	for i, src := range sources {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(src.ExtractedContent)
	}
	return b.String()
}

// SnapshotsMatchCurrent reports whether every contributing source's current
// content hash equals the snapshot recorded in the latest version. True
// means reprocessing would be redundant. A unit with no versions never
// matches.
func (u *SemanticUnit) SnapshotsMatchCurrent() bool {
	current := u.CurrentVersion()
	if current == nil {
		return false
	}

	snapshots := make(map[string]string, len(current.SourceSnapshots))
	for _, snap := range current.SourceSnapshots {
		snapshots[snap.SourceID] = snap.ContentHash
	}

	if len(snapshots) != len(u.Sources) {
		return false
	}
	for _, src := range u.Sources {
		if snapshots[src.SourceID] != src.ContentHash {
			return false
		}
	}
	return true
}

// NextVersion appends a new version referencing the given profile, snapshotting
// the current per-source content hashes. It returns nil, and appends nothing,
// when all hashes match the current version's snapshots (idempotence guard).
func (u *SemanticUnit) NextVersion(profileID string, profileVersion int, reason string) (*UnitVersion, error) {
	if u.State == UnitStateArchived {
		return nil, ErrUnitArchived
	}
	if profileID == "" {
		return nil, ErrInvalidInput
	}
	if u.SnapshotsMatchCurrent() {
		return nil, nil
	}

	snapshots := make([]VersionSourceSnapshot, len(u.Sources))
	for i, src := range u.Sources {
		snapshots[i] = VersionSourceSnapshot{
			SourceID:    src.SourceID,
			ContentHash: src.ContentHash,
		}
	}

	version := UnitVersion{
		Version:                  u.CurrentVersionNumber() + 1,
		ProcessingProfileID:      profileID,
		ProcessingProfileVersion: profileVersion,
		SourceSnapshots:          snapshots,
		CreatedAt:                time.Now().UTC(),
		Reason:                   reason,
	}
	u.Versions = append(u.Versions, version)
	u.UpdatedAt = version.CreatedAt
	u.Record(NewSemanticUnitVersioned(u.ID, version.Version, reason))
	return &u.Versions[len(u.Versions)-1], nil
}

// AttachProjection records a projection id on the snapshot of the given
// version for the given source.
func (u *SemanticUnit) AttachProjection(version int, sourceID, projectionID string) {
	for i := range u.Versions {
		if u.Versions[i].Version != version {
			continue
		}
		for j := range u.Versions[i].SourceSnapshots {
			if u.Versions[i].SourceSnapshots[j].SourceID == sourceID {
				u.Versions[i].SourceSnapshots[j].ProjectionIDs = append(u.Versions[i].SourceSnapshots[j].ProjectionIDs, projectionID)
			}
		}
	}
}

// transition moves the unit to next if the state machine allows it.
func (u *SemanticUnit) transition(next UnitState, reason string) error {
	if !u.State.CanTransition(next) {
		return ErrInvalidTransition
	}
	from := u.State
	u.State = next
	u.UpdatedAt = time.Now().UTC()
	u.Record(NewSemanticUnitStateChanged(u.ID, from, next, reason))
	return nil
}

// Activate moves the unit to Active (from Draft or Deprecated).
func (u *SemanticUnit) Activate() error {
	return u.transition(UnitStateActive, "")
}

// Deprecate moves the unit to Deprecated. Invalid from Archived.
func (u *SemanticUnit) Deprecate(reason string) error {
	return u.transition(UnitStateDeprecated, reason)
}

// Archive moves the unit to the terminal Archived state.
func (u *SemanticUnit) Archive(reason string) error {
	return u.transition(UnitStateArchived, reason)
}

// RequestReprocess records a reprocess-requested event without mutating
// state. Rejected when the unit is archived.
func (u *SemanticUnit) RequestReprocess(reason string) error {
	if u.State == UnitStateArchived {
		return ErrUnitArchived
	}
	u.Record(NewSemanticUnitReprocessRequested(u.ID, reason))
	return nil
}
