package snapshot

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tipline/tipline/internal/pkg/models"
)

// Store persists raw fetched bytes plus a sidecar metadata record on disk.
// Files are append-only and uniquely named, so no locking is needed.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the bytes verbatim and a .meta.json sidecar. Idempotent for
// identical (url, fetchedAt): the path is derived from both, so a repeat save
// overwrites the same file with the same content.
func (s *Store) Save(meta models.SnapshotMeta, body []byte) (string, error) {
	meta.SizeBytes = len(body)

	sum := md5.Sum([]byte(meta.URL))
	name := fmt.Sprintf("%s_%s_%s",
		meta.SourceSlug,
		meta.FetchedAt.UTC().Format("20060102T150405"),
		hex.EncodeToString(sum[:])[:12],
	)
	day := meta.FetchedAt.UTC().Format("2006-01-02")
	dir := filepath.Join(s.dir, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot day dir: %w", err)
	}

	path := filepath.Join(dir, name+".body")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot body: %w", err)
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".meta.json"), metaBytes, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot meta: %w", err)
	}

	return path, nil
}

// Load re-reads snapshot bytes for the parse stage.
func (s *Store) Load(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return b, nil
}

// LoadMeta reads the sidecar record back.
func (s *Store) LoadMeta(bodyPath string) (models.SnapshotMeta, error) {
	var meta models.SnapshotMeta
	metaPath := bodyPath[:len(bodyPath)-len(".body")] + ".meta.json"
	b, err := os.ReadFile(metaPath)
	if err != nil {
		return meta, fmt.Errorf("failed to read snapshot meta %s: %w", metaPath, err)
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return meta, fmt.Errorf("failed to parse snapshot meta: %w", err)
	}
	return meta, nil
}
