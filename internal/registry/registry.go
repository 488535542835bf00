// Package registry persists the tenant registry file and implements the
// graph.TenantDirectory seam the session core reads tenant ids from and
// writes access times through.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// FormatVersion is the registry file format version this package writes.
const FormatVersion = 1

// registryFile is the on-disk shape of the registry.
type registryFile struct {
	Version int                  `json:"version"`
	Updated time.Time            `json:"updated"`
	Tenants []graph.TenantRecord `json:"tenants"`
}

// Registry manages the tenant registry file. Every operation reads the
// file, applies its change, and saves atomically, so concurrent processes
// never observe a half-written registry.
type Registry struct {
	mu   sync.Mutex
	path string
}

// New creates a registry backed by the file at path. The file is created
// on the first write; a missing file reads as an empty registry.
func New(path string) *Registry {
	return &Registry{path: path}
}

// DefaultPath returns the registry file location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".tenantctl", "tenants.json"), nil
}

// Path returns the backing file location.
func (r *Registry) Path() string {
	return r.path
}

// List returns all registered tenants in file order.
func (r *Registry) List() ([]graph.TenantRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return nil, err
	}

	return file.Tenants, nil
}

// Get returns the registered tenant with the given id.
func (r *Registry) Get(tenantID string) (*graph.TenantRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range file.Tenants {
		if file.Tenants[i].ID == tenantID {
			return &file.Tenants[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", graph.ErrTenantNotRegistered, tenantID)
}

// Upsert adds a tenant record or replaces the existing one with the same
// id. RegisteredAt is preserved across updates and stamped on first insert
// when the record carries none.
func (r *Registry) Upsert(record graph.TenantRecord) error {
	if record.ID == "" {
		return graph.ErrTenantIDRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return err
	}

	for i := range file.Tenants {
		if file.Tenants[i].ID == record.ID {
			if record.RegisteredAt.IsZero() {
				record.RegisteredAt = file.Tenants[i].RegisteredAt
			}

			if record.LastAccessedAt.IsZero() {
				record.LastAccessedAt = file.Tenants[i].LastAccessedAt
			}

			file.Tenants[i] = record

			return r.save(file)
		}
	}

	if record.RegisteredAt.IsZero() {
		record.RegisteredAt = time.Now().UTC()
	}

	file.Tenants = append(file.Tenants, record)

	return r.save(file)
}

// Remove deletes the tenant with the given id.
func (r *Registry) Remove(tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return err
	}

	for i := range file.Tenants {
		if file.Tenants[i].ID == tenantID {
			file.Tenants = append(file.Tenants[:i], file.Tenants[i+1:]...)

			return r.save(file)
		}
	}

	return fmt.Errorf("%w: %s", graph.ErrTenantNotRegistered, tenantID)
}

// TenantIDs implements graph.TenantDirectory.
func (r *Registry) TenantIDs() ([]string, error) {
	records, err := r.List()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}

	return ids, nil
}

// Touch implements graph.TenantDirectory. Touching a tenant that was never
// registered is an error; connecting still succeeds, the session layer only
// logs the failed touch.
func (r *Registry) Touch(tenantID string, accessedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return err
	}

	for i := range file.Tenants {
		if file.Tenants[i].ID == tenantID {
			file.Tenants[i].LastAccessedAt = accessedAt.UTC()

			return r.save(file)
		}
	}

	return fmt.Errorf("%w: %s", graph.ErrTenantNotRegistered, tenantID)
}

// load reads the registry file. A missing file is an empty registry.
func (r *Registry) load() (*registryFile, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return &registryFile{Version: FormatVersion}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var file registryFile

	err = json.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", r.path, err)
	}

	return &file, nil
}

// save writes the registry through a temp file and renames it into place.
func (r *Registry) save(file *registryFile) error {
	file.Version = FormatVersion
	file.Updated = time.Now().UTC()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	dir := filepath.Dir(r.path)

	err = os.MkdirAll(dir, constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	tmp := r.path + ".tmp"

	err = os.WriteFile(tmp, data, constants.RegistryFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}

	err = os.Rename(tmp, r.path)
	if err != nil {
		return fmt.Errorf("failed to replace registry file: %w", err)
	}

	return nil
}
