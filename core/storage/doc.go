// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so journal exports
// can be written to AWS S3 or a self-hosted MinIO, and mocked in tests
// (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
//	size, err := storage.PutJSON(ctx, client, cfg.Storage.Bucket, "journal/2024-03-09.json", entries)
package storage
