// Package blobstore provides storage abstraction for datasets and run artifacts.
//
// BlobStore is the interface for reading dataset blobs and writing reports and
// completed tables. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with atomic finalize (temp + rename)
//   - MemoryStore: in-memory store for testing
//   - s3.Store: Amazon S3 with streaming uploads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for streaming writes
//	    Put(ctx, name, data) error               // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blobs are sequential streams: datasets are parsed front to back and reports
// are written the same way, so no random access surface is required.
package blobstore
