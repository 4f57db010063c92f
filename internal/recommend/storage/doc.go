// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package storage provides snapshot persistence for the recommendation engine.
//
// Every successful refresh can be written to disk so that a restart, or a
// rating source that is down at startup, does not leave the engine without
// data. Stored snapshots hold the raw ratings and item metadata; the
// interaction matrix and content features are rebuilt on restore.
//
// # Overview
//
// The storage system provides:
//   - Gob serialization for efficient Go type encoding
//   - Gzip compression to reduce storage footprint
//   - SHA-256 checksums for data integrity verification
//   - Versions that follow the engine and never go backwards across restarts
//   - Automatic cleanup of old snapshot versions
//
// # Storage Format
//
//	filename: snapshot_v{version}.gob.gz
//
//	structure:
//	  - Metadata (SnapshotMetadata)
//	  - CompressedData (gzip-compressed gob-encoded SnapshotState)
//
// Files are written to a temporary name and renamed into place, so a crash
// mid-write never leaves a truncated snapshot under a valid name.
//
// # Usage Example
//
// Saving the engine's current snapshot:
//
//	store, err := storage.NewStore("/data/snapshots", 3)
//	if err != nil {
//	    return err
//	}
//	meta, err := store.Save(ctx, engine.Snapshot())
//
// Restoring the latest snapshot:
//
//	snap, err := store.Restore(ctx, 0, content.NewTFIDF(content.TFIDFConfig{}))
//	if err != nil {
//	    return err
//	}
//	engine.Publish(snap)
//
// # Data Integrity
//
// Snapshots are validated on load using SHA-256 checksums:
//
//  1. Decompress gzip data
//  2. Compute SHA-256 of decompressed data
//  3. Compare with stored checksum
//  4. Return error if mismatch
//
// # Directory Structure
//
//	/data/snapshots/
//	  snapshot_v7.gob.gz
//	  snapshot_v8.gob.gz
//	  snapshot_v9.gob.gz     <- latest
//
// # Thread Safety
//
// All store operations are safe for concurrent use. Loads share a read
// lock; saves, deletes and pruning take the write lock.
package storage
