// Package sqlite provides a unified SQLite-backed implementation of the
// metadata store and vector store ports.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/semantica/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.semantica/data/semantica.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".semantica", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "semantica.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SourceStore returns a SourceStore interface backed by this store.
func (s *Store) SourceStore() driven.SourceStore {
	return &sourceStore{store: s}
}

// SemanticUnitStore returns a SemanticUnitStore interface backed by this store.
func (s *Store) SemanticUnitStore() driven.SemanticUnitStore {
	return &unitStore{store: s}
}

// ProfileStore returns a ProfileStore interface backed by this store.
func (s *Store) ProfileStore() driven.ProfileStore {
	return &profileStore{store: s}
}

// ProjectionStore returns a ProjectionStore interface backed by this store.
func (s *Store) ProjectionStore() driven.ProjectionStore {
	return &projectionStore{store: s}
}

// LineageStore returns a LineageStore interface backed by this store.
func (s *Store) LineageStore() driven.LineageStore {
	return &lineageStore{store: s}
}

// VectorStore returns a VectorStore interface backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Source Store ====================

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

// Save stores or updates a source.
func (s *sourceStore) Save(ctx context.Context, source *domain.Source) error {
	if source.ID == "" {
		return domain.ErrInvalidInput
	}

	versionsJSON, err := json.Marshal(sourceVersionsToDTO(source.Versions))
	if err != nil {
		return fmt.Errorf("marshalling versions: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sources (id, name, type, uri, versions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			uri = excluded.uri,
			versions = excluded.versions,
			updated_at = excluded.updated_at
	`, source.ID, source.Name, string(source.Type), source.URI,
		string(versionsJSON), formatTime(source.CreatedAt), formatTime(source.UpdatedAt))

	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *sourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, type, uri, versions, created_at, updated_at
		FROM sources WHERE id = ?
	`, id)

	return scanSource(row)
}

// List returns all registered sources.
func (s *sourceStore) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, type, uri, versions, created_at, updated_at
		FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	return scanSources(rows)
}

// ListByType returns sources of the given type.
func (s *sourceStore) ListByType(ctx context.Context, sourceType domain.SourceType) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, type, uri, versions, created_at, updated_at
		FROM sources WHERE type = ? ORDER BY id
	`, string(sourceType))
	if err != nil {
		return nil, fmt.Errorf("querying sources by type: %w", err)
	}
	defer rows.Close()

	return scanSources(rows)
}

// scanSource scans a single source row.
func scanSource(row *sql.Row) (*domain.Source, error) {
	var source domain.Source
	var sourceType, versionsJSON, createdAt, updatedAt string

	if err := row.Scan(&source.ID, &source.Name, &sourceType, &source.URI,
		&versionsJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	var versions []sourceVersionDTO
	if err := json.Unmarshal([]byte(versionsJSON), &versions); err != nil {
		return nil, fmt.Errorf("unmarshalling versions: %w", err)
	}

	source.Type = domain.SourceType(sourceType)
	source.Versions = sourceVersionsFromDTO(versions)
	source.CreatedAt = parseTime(createdAt)
	source.UpdatedAt = parseTime(updatedAt)

	return &source, nil
}

// scanSources scans multiple source rows.
func scanSources(rows *sql.Rows) ([]domain.Source, error) {
	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		var source domain.Source
		var sourceType, versionsJSON, createdAt, updatedAt string

		if err := rows.Scan(&source.ID, &source.Name, &sourceType, &source.URI,
			&versionsJSON, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}

		var versions []sourceVersionDTO
		if err := json.Unmarshal([]byte(versionsJSON), &versions); err != nil {
			return nil, fmt.Errorf("unmarshalling versions: %w", err)
		}

		source.Type = domain.SourceType(sourceType)
		source.Versions = sourceVersionsFromDTO(versions)
		source.CreatedAt = parseTime(createdAt)
		source.UpdatedAt = parseTime(updatedAt)
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// ==================== Semantic Unit Store ====================

// unitStore implements driven.SemanticUnitStore.
type unitStore struct {
	store *Store
}

var _ driven.SemanticUnitStore = (*unitStore)(nil)

// Save stores or updates a unit.
func (s *unitStore) Save(ctx context.Context, unit *domain.SemanticUnit) error {
	if unit.ID == "" {
		return domain.ErrInvalidInput
	}

	sourcesJSON, err := json.Marshal(unitSourcesToDTO(unit.Sources))
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	versionsJSON, err := json.Marshal(unitVersionsToDTO(unit.Versions))
	if err != nil {
		return fmt.Errorf("marshalling versions: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO semantic_units (id, name, description, language, state, sources, versions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			language = excluded.language,
			state = excluded.state,
			sources = excluded.sources,
			versions = excluded.versions,
			updated_at = excluded.updated_at
	`, unit.ID, unit.Name, unit.Description, unit.Language, string(unit.State),
		string(sourcesJSON), string(versionsJSON),
		formatTime(unit.CreatedAt), formatTime(unit.UpdatedAt))

	if err != nil {
		return fmt.Errorf("saving semantic unit: %w", err)
	}
	return nil
}

// Get retrieves a unit by ID.
func (s *unitStore) Get(ctx context.Context, id string) (*domain.SemanticUnit, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, description, language, state, sources, versions, created_at, updated_at
		FROM semantic_units WHERE id = ?
	`, id)

	var unit domain.SemanticUnit
	var state, sourcesJSON, versionsJSON, createdAt, updatedAt string

	if err := row.Scan(&unit.ID, &unit.Name, &unit.Description, &unit.Language,
		&state, &sourcesJSON, &versionsJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning semantic unit: %w", err)
	}

	if err := hydrateUnit(&unit, state, sourcesJSON, versionsJSON, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &unit, nil
}

// List returns all units.
func (s *unitStore) List(ctx context.Context) ([]domain.SemanticUnit, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, description, language, state, sources, versions, created_at, updated_at
		FROM semantic_units ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying semantic units: %w", err)
	}
	defer rows.Close()

	return scanUnits(rows)
}

// ListBySourceID returns units with a contributing source. The JSON sources
// column is filtered in Go rather than with json_each, keeping the query
// portable across driver builds.
func (s *unitStore) ListBySourceID(ctx context.Context, sourceID string) ([]domain.SemanticUnit, error) {
	units, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var matched []domain.SemanticUnit
	for _, unit := range units {
		if unit.SourceFor(sourceID) != nil {
			matched = append(matched, unit)
		}
	}
	return matched, nil
}

// scanUnits scans multiple unit rows.
func scanUnits(rows *sql.Rows) ([]domain.SemanticUnit, error) {
	var units []domain.SemanticUnit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var unit domain.SemanticUnit
		var state, sourcesJSON, versionsJSON, createdAt, updatedAt string

		if err := rows.Scan(&unit.ID, &unit.Name, &unit.Description, &unit.Language,
			&state, &sourcesJSON, &versionsJSON, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning semantic unit: %w", err)
		}

		if err := hydrateUnit(&unit, state, sourcesJSON, versionsJSON, createdAt, updatedAt); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating semantic units: %w", err)
	}

	return units, nil
}

// hydrateUnit fills the nested unit fields from their scanned columns.
func hydrateUnit(unit *domain.SemanticUnit, state, sourcesJSON, versionsJSON, createdAt, updatedAt string) error {
	var sources []unitSourceDTO
	if err := json.Unmarshal([]byte(sourcesJSON), &sources); err != nil {
		return fmt.Errorf("unmarshalling sources: %w", err)
	}

	var versions []unitVersionDTO
	if err := json.Unmarshal([]byte(versionsJSON), &versions); err != nil {
		return fmt.Errorf("unmarshalling versions: %w", err)
	}

	unit.State = domain.UnitState(state)
	unit.Sources = unitSourcesFromDTO(sources)
	unit.Versions = unitVersionsFromDTO(versions)
	unit.CreatedAt = parseTime(createdAt)
	unit.UpdatedAt = parseTime(updatedAt)
	return nil
}

// ==================== Profile Store ====================

// profileStore implements driven.ProfileStore.
type profileStore struct {
	store *Store
}

var _ driven.ProfileStore = (*profileStore)(nil)

// Save stores or updates a profile.
func (s *profileStore) Save(ctx context.Context, profile *domain.ProcessingProfile) error {
	if profile.ID == "" {
		return domain.ErrInvalidInput
	}

	configJSON, err := json.Marshal(profile.Config)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	active := 0
	if profile.Active {
		active = 1
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO processing_profiles
			(id, name, chunking_strategy, embedding_strategy, config, version, active, registered_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			chunking_strategy = excluded.chunking_strategy,
			embedding_strategy = excluded.embedding_strategy,
			config = excluded.config,
			version = excluded.version,
			active = excluded.active,
			updated_at = excluded.updated_at
	`, profile.ID, profile.Name, profile.ChunkingStrategy, profile.EmbeddingStrategy,
		string(configJSON), profile.Version, active,
		formatTime(profile.RegisteredAt), formatTime(profile.UpdatedAt))

	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// Get retrieves a profile by ID.
func (s *profileStore) Get(ctx context.Context, id string) (*domain.ProcessingProfile, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, chunking_strategy, embedding_strategy, config, version, active, registered_at, updated_at
		FROM processing_profiles WHERE id = ?
	`, id)

	var profile domain.ProcessingProfile
	var configJSON, registeredAt, updatedAt string
	var active int

	if err := row.Scan(&profile.ID, &profile.Name, &profile.ChunkingStrategy,
		&profile.EmbeddingStrategy, &configJSON, &profile.Version, &active,
		&registeredAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning profile: %w", err)
	}

	if configJSON != jsonNull {
		if err := json.Unmarshal([]byte(configJSON), &profile.Config); err != nil {
			return nil, fmt.Errorf("unmarshalling config: %w", err)
		}
	}

	profile.Active = active != 0
	profile.RegisteredAt = parseTime(registeredAt)
	profile.UpdatedAt = parseTime(updatedAt)

	return &profile, nil
}

// List returns all profiles.
func (s *profileStore) List(ctx context.Context) ([]domain.ProcessingProfile, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, chunking_strategy, embedding_strategy, config, version, active, registered_at, updated_at
		FROM processing_profiles ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.ProcessingProfile //nolint:prealloc // size unknown from query
	for rows.Next() {
		var profile domain.ProcessingProfile
		var configJSON, registeredAt, updatedAt string
		var active int

		if err := rows.Scan(&profile.ID, &profile.Name, &profile.ChunkingStrategy,
			&profile.EmbeddingStrategy, &configJSON, &profile.Version, &active,
			&registeredAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}

		if configJSON != jsonNull {
			if err := json.Unmarshal([]byte(configJSON), &profile.Config); err != nil {
				return nil, fmt.Errorf("unmarshalling config: %w", err)
			}
		}

		profile.Active = active != 0
		profile.RegisteredAt = parseTime(registeredAt)
		profile.UpdatedAt = parseTime(updatedAt)
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}

	return profiles, nil
}

// ==================== Projection Store ====================

// projectionStore implements driven.ProjectionStore.
type projectionStore struct {
	store *Store
}

var _ driven.ProjectionStore = (*projectionStore)(nil)

// Save stores or updates a projection.
func (s *projectionStore) Save(ctx context.Context, projection *domain.SemanticProjection) error {
	if projection.ID == "" {
		return domain.ErrInvalidInput
	}

	resultJSON, err := json.Marshal(resultToDTO(projection.Result))
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO projections
			(id, semantic_unit_id, semantic_unit_version, type, processing_profile_id, status, result, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			semantic_unit_id = excluded.semantic_unit_id,
			semantic_unit_version = excluded.semantic_unit_version,
			type = excluded.type,
			processing_profile_id = excluded.processing_profile_id,
			status = excluded.status,
			result = excluded.result,
			error = excluded.error,
			updated_at = excluded.updated_at
	`, projection.ID, projection.SemanticUnitID, projection.SemanticUnitVersion,
		string(projection.Type), projection.ProcessingProfileID, string(projection.Status),
		string(resultJSON), projection.Error,
		formatTime(projection.CreatedAt), formatTime(projection.UpdatedAt))

	if err != nil {
		return fmt.Errorf("saving projection: %w", err)
	}
	return nil
}

// Get retrieves a projection by ID.
func (s *projectionStore) Get(ctx context.Context, id string) (*domain.SemanticProjection, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, semantic_unit_id, semantic_unit_version, type, processing_profile_id, status, result, error, created_at, updated_at
		FROM projections WHERE id = ?
	`, id)

	var projection domain.SemanticProjection
	var projectionType, status, resultJSON, createdAt, updatedAt string

	if err := row.Scan(&projection.ID, &projection.SemanticUnitID, &projection.SemanticUnitVersion,
		&projectionType, &projection.ProcessingProfileID, &status,
		&resultJSON, &projection.Error, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning projection: %w", err)
	}

	if err := hydrateProjection(&projection, projectionType, status, resultJSON, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &projection, nil
}

// ListBySemanticUnitID returns all projections for a unit, oldest first.
func (s *projectionStore) ListBySemanticUnitID(ctx context.Context, unitID string) ([]domain.SemanticProjection, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, semantic_unit_id, semantic_unit_version, type, processing_profile_id, status, result, error, created_at, updated_at
		FROM projections WHERE semantic_unit_id = ?
		ORDER BY created_at
	`, unitID)
	if err != nil {
		return nil, fmt.Errorf("querying projections: %w", err)
	}
	defer rows.Close()

	var projections []domain.SemanticProjection //nolint:prealloc // size unknown from query
	for rows.Next() {
		var projection domain.SemanticProjection
		var projectionType, status, resultJSON, createdAt, updatedAt string

		if err := rows.Scan(&projection.ID, &projection.SemanticUnitID, &projection.SemanticUnitVersion,
			&projectionType, &projection.ProcessingProfileID, &status,
			&resultJSON, &projection.Error, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning projection: %w", err)
		}

		if err := hydrateProjection(&projection, projectionType, status, resultJSON, createdAt, updatedAt); err != nil {
			return nil, err
		}
		projections = append(projections, projection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projections: %w", err)
	}

	return projections, nil
}

// hydrateProjection fills the nested projection fields from scanned columns.
func hydrateProjection(projection *domain.SemanticProjection, projectionType, status, resultJSON, createdAt, updatedAt string) error {
	if resultJSON != jsonNull {
		var result projectionResultDTO
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return fmt.Errorf("unmarshalling result: %w", err)
		}
		projection.Result = resultFromDTO(result)
	}

	projection.Type = domain.ProjectionType(projectionType)
	projection.Status = domain.ProjectionStatus(status)
	projection.CreatedAt = parseTime(createdAt)
	projection.UpdatedAt = parseTime(updatedAt)
	return nil
}

// ==================== Lineage Store ====================

// lineageStore implements driven.LineageStore.
type lineageStore struct {
	store *Store
}

var _ driven.LineageStore = (*lineageStore)(nil)

// Save stores or updates a lineage record.
func (s *lineageStore) Save(ctx context.Context, lineage *domain.KnowledgeLineage) error {
	if lineage.SemanticUnitID == "" {
		return domain.ErrInvalidInput
	}

	transformationsJSON, err := json.Marshal(transformationsToDTO(lineage.Transformations))
	if err != nil {
		return fmt.Errorf("marshalling transformations: %w", err)
	}

	tracesJSON, err := json.Marshal(tracesToDTO(lineage.Traces))
	if err != nil {
		return fmt.Errorf("marshalling traces: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO lineages (semantic_unit_id, transformations, traces, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(semantic_unit_id) DO UPDATE SET
			transformations = excluded.transformations,
			traces = excluded.traces
	`, lineage.SemanticUnitID, string(transformationsJSON), string(tracesJSON),
		formatTime(lineage.CreatedAt))

	if err != nil {
		return fmt.Errorf("saving lineage: %w", err)
	}
	return nil
}

// Get retrieves the lineage for a unit.
func (s *lineageStore) Get(ctx context.Context, unitID string) (*domain.KnowledgeLineage, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT semantic_unit_id, transformations, traces, created_at
		FROM lineages WHERE semantic_unit_id = ?
	`, unitID)

	var lineage domain.KnowledgeLineage
	var transformationsJSON, tracesJSON, createdAt string

	if err := row.Scan(&lineage.SemanticUnitID, &transformationsJSON, &tracesJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning lineage: %w", err)
	}

	var transformations []transformationDTO
	if err := json.Unmarshal([]byte(transformationsJSON), &transformations); err != nil {
		return nil, fmt.Errorf("unmarshalling transformations: %w", err)
	}

	var traces []traceDTO
	if err := json.Unmarshal([]byte(tracesJSON), &traces); err != nil {
		return nil, fmt.Errorf("unmarshalling traces: %w", err)
	}

	lineage.Transformations = transformationsFromDTO(transformations)
	lineage.Traces = tracesFromDTO(traces)
	lineage.CreatedAt = parseTime(createdAt)

	return &lineage, nil
}

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore with exact brute-force cosine
// scoring over all stored vectors.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Upsert inserts or overwrites entries by id.
func (s *vectorStore) Upsert(ctx context.Context, entries []domain.VectorEntry) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vector_entries (id, semantic_unit_id, vector, content, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			semantic_unit_id = excluded.semantic_unit_id,
			vector = excluded.vector,
			content = excluded.content,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if entry.ID == "" {
			return domain.ErrInvalidInput
		}

		metadataJSON, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}

		vectorBlob := float32SliceToBytes(entry.Vector)

		if _, err := stmt.ExecContext(ctx, entry.ID, entry.SemanticUnitID,
			vectorBlob, entry.Content, string(metadataJSON)); err != nil {
			return fmt.Errorf("saving vector entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Delete removes entries by id. Missing ids are ignored.
func (s *vectorStore) Delete(ctx context.Context, ids []string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM vector_entries WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting vector entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteBySemanticUnitID removes all entries for the given unit.
func (s *vectorStore) DeleteBySemanticUnitID(ctx context.Context, unitID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM vector_entries WHERE semantic_unit_id = ?", unitID)
	if err != nil {
		return fmt.Errorf("deleting vector entries: %w", err)
	}
	return nil
}

// Search returns up to topK entries ranked by descending cosine similarity.
// Vectors are scored in Go after loading all rows; acceptable for the
// collection sizes a local pipeline handles.
func (s *vectorStore) Search(ctx context.Context, query []float32, topK int, filter map[string]any) ([]domain.VectorHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, semantic_unit_id, vector, content, metadata
		FROM vector_entries
	`)
	if err != nil {
		return nil, fmt.Errorf("querying vector entries: %w", err)
	}
	defer rows.Close()

	var hits []domain.VectorHit
	for rows.Next() {
		var entry domain.VectorEntry
		var vectorBlob []byte
		var metadataJSON string

		if err := rows.Scan(&entry.ID, &entry.SemanticUnitID, &vectorBlob,
			&entry.Content, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning vector entry: %w", err)
		}

		if metadataJSON != jsonNull {
			if err := json.Unmarshal([]byte(metadataJSON), &entry.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshalling metadata: %w", err)
			}
		}

		if !matchesFilter(entry.Metadata, filter) {
			continue
		}

		entry.Vector = bytesToFloat32Slice(vectorBlob)
		hits = append(hits, domain.VectorHit{
			Entry: entry,
			Score: domain.CosineSimilarity(query, entry.Vector),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vector entries: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Count returns the number of stored entries.
func (s *vectorStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vector_entries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting vector entries: %w", err)
	}
	return count, nil
}

// matchesFilter reports whether metadata satisfies every exact-match
// condition in filter. JSON round-trips numbers as float64, so numeric
// filter values should be float64 too.
func matchesFilter(metadata, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
