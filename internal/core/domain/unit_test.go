package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUnitSource(sourceID, content string) UnitSource {
	return UnitSource{
		SourceID:         sourceID,
		SourceType:       SourceTypePlainText,
		ExtractedContent: content,
		ContentHash:      "hash-" + sourceID + "-" + content,
	}
}

func TestNewSemanticUnit_Success(t *testing.T) {
	unit, err := NewSemanticUnit("unit-1", "Intro", "Intro docs", "en", testUnitSource("src-1", "hello"))

	require.NoError(t, err)
	assert.Equal(t, UnitStateDraft, unit.State)
	assert.Len(t, unit.Sources, 1)
	assert.Equal(t, 0, unit.CurrentVersionNumber())

	events := unit.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "semantic_unit.created", events[0].EventName())
}

func TestNewSemanticUnit_Validation(t *testing.T) {
	_, err := NewSemanticUnit("", "Intro", "", "en", testUnitSource("src-1", "hello"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSemanticUnit("unit-1", "  ", "", "en", testUnitSource("src-1", "hello"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSemanticUnit("unit-1", "Intro", "", "en", UnitSource{SourceID: "src-1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnitState_CanTransition(t *testing.T) {
	tests := []struct {
		from    UnitState
		to      UnitState
		allowed bool
	}{
		{UnitStateDraft, UnitStateActive, true},
		{UnitStateDraft, UnitStateDeprecated, true},
		{UnitStateDraft, UnitStateArchived, false},
		{UnitStateActive, UnitStateDeprecated, true},
		{UnitStateActive, UnitStateArchived, true},
		{UnitStateActive, UnitStateDraft, false},
		{UnitStateDeprecated, UnitStateActive, true},
		{UnitStateDeprecated, UnitStateArchived, true},
		{UnitStateArchived, UnitStateActive, false},
		{UnitStateArchived, UnitStateDeprecated, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSemanticUnit_Lifecycle(t *testing.T) {
	unit, err := NewSemanticUnit("unit-1", "Intro", "", "en", testUnitSource("src-1", "hello"))
	require.NoError(t, err)
	unit.DrainEvents()

	require.NoError(t, unit.Activate())
	assert.Equal(t, UnitStateActive, unit.State)

	require.NoError(t, unit.Deprecate("superseded"))
	assert.Equal(t, UnitStateDeprecated, unit.State)

	require.NoError(t, unit.Activate())
	require.NoError(t, unit.Archive("done"))
	assert.Equal(t, UnitStateArchived, unit.State)

	// Archived is terminal.
	assert.ErrorIs(t, unit.Activate(), ErrInvalidTransition)
	assert.ErrorIs(t, unit.Deprecate("x"), ErrInvalidTransition)
	assert.ErrorIs(t, unit.RequestReprocess("x"), ErrUnitArchived)

	events := unit.DrainEvents()
	assert.Len(t, events, 4)
	for _, event := range events {
		assert.Equal(t, "semantic_unit.state_changed", event.EventName())
	}
}

func TestSemanticUnit_NextVersion(t *testing.T) {
	unit, err := NewSemanticUnit("unit-1", "Intro", "", "en", testUnitSource("src-1", "hello"))
	require.NoError(t, err)
	unit.DrainEvents()

	version, err := unit.NextVersion("profile-1", 1, "initial")
	require.NoError(t, err)
	require.NotNil(t, version)
	assert.Equal(t, 1, version.Version)
	assert.Equal(t, "profile-1", version.ProcessingProfileID)
	require.Len(t, version.SourceSnapshots, 1)
	assert.Equal(t, unit.Sources[0].ContentHash, version.SourceSnapshots[0].ContentHash)

	// Unchanged hashes make a second version a no-op.
	version, err = unit.NextVersion("profile-1", 1, "again")
	require.NoError(t, err)
	assert.Nil(t, version)
	assert.Len(t, unit.Versions, 1)

	// A content change invalidates the snapshot and permits a new version.
	require.NoError(t, unit.AddSource(testUnitSource("src-1", "hello again")))
	version, err = unit.NextVersion("profile-1", 2, "content changed")
	require.NoError(t, err)
	require.NotNil(t, version)
	assert.Equal(t, 2, version.Version)
}

func TestSemanticUnit_NextVersion_Validation(t *testing.T) {
	unit, err := NewSemanticUnit("unit-1", "Intro", "", "en", testUnitSource("src-1", "hello"))
	require.NoError(t, err)

	_, err = unit.NextVersion("", 1, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, unit.Activate())
	require.NoError(t, unit.Archive(""))
	_, err = unit.NextVersion("profile-1", 1, "")
	assert.ErrorIs(t, err, ErrUnitArchived)
}

func TestSemanticUnit_AddSource_ReplacesExisting(t *testing.T) {
	unit, err := NewSemanticUnit("unit-1", "Intro", "", "en", testUnitSource("src-1", "hello"))
	require.NoError(t, err)

	require.NoError(t, unit.AddSource(testUnitSource("src-2", "world")))
	assert.Len(t, unit.Sources, 2)

	// Re-adding an attached source replaces content in place.
	require.NoError(t, unit.AddSource(testUnitSource("src-2", "world v2")))
	assert.Len(t, unit.Sources, 2)
	assert.Equal(t, "world v2", unit.SourceFor("src-2").ExtractedContent)
}

func TestSemanticUnit_Content_SourceIDOrder(t *testing.T) {
	unit, err := NewSemanticUnit("unit-1", "Intro", "", "en", testUnitSource("src-b", "second"))
	require.NoError(t, err)
	require.NoError(t, unit.AddSource(testUnitSource("src-a", "first")))

	assert.Equal(t, "first\n\nsecond", unit.Content())
}

func TestSemanticUnit_AttachProjection(t *testing.T) {
	unit, err := NewSemanticUnit("unit-1", "Intro", "", "en", testUnitSource("src-1", "hello"))
	require.NoError(t, err)

	_, err = unit.NextVersion("profile-1", 1, "")
	require.NoError(t, err)

	unit.AttachProjection(1, "src-1", "proj-1")
	assert.Equal(t, []string{"proj-1"}, unit.Versions[0].SourceSnapshots[0].ProjectionIDs)

	// Unknown version or source is a no-op.
	unit.AttachProjection(9, "src-1", "proj-x")
	unit.AttachProjection(1, "src-x", "proj-x")
	assert.Len(t, unit.Versions[0].SourceSnapshots[0].ProjectionIDs, 1)
}
