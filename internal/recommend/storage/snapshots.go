// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/cinematch/internal/recommend"
)

const (
	filePrefix = "snapshot_v"
	fileSuffix = ".gob.gz"

	// SourceDisk is the snapshot source reported for restored snapshots.
	SourceDisk = "disk"
)

// ErrNotFound is returned when no stored snapshot matches a request.
var ErrNotFound = errors.New("stored snapshot not found")

// SnapshotMetadata contains information about a stored snapshot.
type SnapshotMetadata struct {
	// Version is the engine snapshot version.
	Version int64 `json:"version"`

	// BuiltAt is when the snapshot was built.
	BuiltAt time.Time `json:"built_at"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	// Source is the data source the snapshot was built from.
	Source string `json:"source"`

	UserCount   int `json:"user_count"`
	ItemCount   int `json:"item_count"`
	RatingCount int `json:"rating_count"`

	// Checksum is the SHA-256 checksum of the uncompressed state.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// SnapshotState is the serialized content of a snapshot.
type SnapshotState struct {
	Ratings []recommend.Rating
	Items   []recommend.Item
}

// storedFile is the on-disk format for snapshot files.
type storedFile struct {
	Metadata       SnapshotMetadata
	CompressedData []byte
}

// Store manages snapshot persistence.
type Store struct {
	baseDir string
	keep    int
	mu      sync.RWMutex

	// versions holds stored versions in ascending order.
	versions []int64
}

// NewStore creates a snapshot store at the given directory. When keep is
// positive, Save prunes all but the newest keep versions.
func NewStore(baseDir string, keep int) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for snapshot storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir: baseDir,
		keep:    keep,
	}

	versions, err := s.scanVersions()
	if err != nil {
		return nil, fmt.Errorf("scan existing snapshots: %w", err)
	}
	s.versions = versions

	return s, nil
}

// scanVersions lists the snapshot versions present on disk, ascending.
func (s *Store) scanVersions() ([]int64, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	var versions []int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if v, ok := parseSnapshotFilename(entry.Name()); ok {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions, nil
}

// parseSnapshotFilename extracts the version from "snapshot_v{N}.gob.gz".
func parseSnapshotFilename(name string) (int64, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// Save writes a snapshot and returns its metadata. Stored versions only
// grow: a snapshot numbered at or below the newest stored version is saved
// as newest+1, and the returned metadata carries the assigned version.
func (s *Store) Save(ctx context.Context, snap *recommend.Snapshot) (*SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("save snapshot: nil snapshot")
	}

	state := SnapshotState{
		Ratings: snap.Ratings(),
		Items:   snap.Items(),
	}

	// Serialize snapshot state
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	m := snap.Matrix()
	meta := SnapshotMetadata{
		Version:     snap.Version(),
		BuiltAt:     snap.BuiltAt(),
		SavedAt:     time.Now(),
		Source:      snap.Source(),
		UserCount:   m.NumUsers(),
		ItemCount:   len(state.Items),
		RatingCount: m.NumRatings(),
		Checksum:    hex.EncodeToString(hash[:]),
		SizeBytes:   int64(compressed.Len()),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.versions); n > 0 && meta.Version <= s.versions[n-1] {
		meta.Version = s.versions[n-1] + 1
	}

	if err := s.writeFile(meta, compressed.Bytes()); err != nil {
		return nil, err
	}
	s.addVersion(meta.Version)

	if s.keep > 0 {
		s.pruneLocked(s.keep)
	}

	return &meta, nil
}

// writeFile writes to a temporary file and renames it into place.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) writeFile(meta SnapshotMetadata, compressed []byte) error {
	f, err := os.CreateTemp(s.baseDir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }() //nolint:errcheck // no-op after a successful rename

	sf := storedFile{
		Metadata:       meta,
		CompressedData: compressed,
	}
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		_ = f.Close() //nolint:errcheck // the encode error is the one worth returning
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmp, s.snapshotPath(meta.Version)); err != nil {
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}

func (s *Store) addVersion(v int64) {
	i := sort.Search(len(s.versions), func(i int) bool { return s.versions[i] >= v })
	if i < len(s.versions) && s.versions[i] == v {
		return
	}
	s.versions = append(s.versions, 0)
	copy(s.versions[i+1:], s.versions[i:])
	s.versions[i] = v
}

// Load reads a stored snapshot. Version 0 loads the latest.
func (s *Store) Load(ctx context.Context, version int64) (*SnapshotState, *SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		if len(s.versions) == 0 {
			return nil, nil, ErrNotFound
		}
		version = s.versions[len(s.versions)-1]
	}

	sf, err := s.readFile(version)
	if err != nil {
		return nil, nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	checksum := hex.EncodeToString(hash[:])
	if checksum != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var state SnapshotState
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(&state); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return &state, &sf.Metadata, nil
}

func (s *Store) readFile(version int64) (*storedFile, error) {
	f, err := os.Open(s.snapshotPath(version))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: version %d", ErrNotFound, version)
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	return &sf, nil
}

// Restore loads a stored snapshot and rebuilds it. Version 0 restores the
// latest. features may be nil.
func (s *Store) Restore(ctx context.Context, version int64, features recommend.FeatureProvider) (*recommend.Snapshot, error) {
	state, meta, err := s.Load(ctx, version)
	if err != nil {
		return nil, err
	}

	snap, err := recommend.NewSnapshot(state.Ratings, state.Items, recommend.SnapshotOptions{
		Version:  meta.Version,
		Source:   SourceDisk,
		BuiltAt:  meta.BuiltAt,
		Features: features,
	})
	if err != nil {
		return nil, fmt.Errorf("rebuild snapshot v%d: %w", meta.Version, err)
	}
	return snap, nil
}

// LatestVersion returns the newest stored version.
func (s *Store) LatestVersion() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.versions) == 0 {
		return 0, false
	}
	return s.versions[len(s.versions)-1], true
}

// ListVersions returns metadata for all stored snapshots, oldest first.
// Unreadable files are skipped.
func (s *Store) ListVersions(ctx context.Context) ([]SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SnapshotMetadata, 0, len(s.versions))
	for _, v := range s.versions {
		sf, err := s.readFile(v)
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	return out, nil
}

// Delete removes a specific snapshot version.
func (s *Store) Delete(ctx context.Context, version int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.snapshotPath(version)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: version %d", ErrNotFound, version)
		}
		return fmt.Errorf("delete snapshot: %w", err)
	}
	s.removeVersion(version)
	return nil
}

func (s *Store) removeVersion(v int64) {
	for i, cur := range s.versions {
		if cur == v {
			s.versions = append(s.versions[:i], s.versions[i+1:]...)
			return
		}
	}
}

// Prune removes old snapshot versions, keeping only the latest keep versions.
func (s *Store) Prune(ctx context.Context, keep int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(keep)
	return nil
}

func (s *Store) pruneLocked(keep int) {
	if keep < 1 {
		keep = 1
	}
	if len(s.versions) <= keep {
		return
	}

	cut := len(s.versions) - keep
	for _, v := range s.versions[:cut] {
		_ = os.Remove(s.snapshotPath(v)) //nolint:errcheck // best-effort cleanup of old versions
	}
	s.versions = append([]int64(nil), s.versions[cut:]...)
}

// snapshotPath returns the file path for a snapshot version.
func (s *Store) snapshotPath(version int64) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s%d%s", filePrefix, version, fileSuffix))
}
