// Where: cli/internal/infra/publish/publish.go
// What: Publish the final firmware image and its build record.
// Why: Make integrated images retrievable outside the local workspace.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"
)

var (
	errBucketRequired = errors.New("publish bucket is required")
	errStoreNil       = errors.New("object store is nil")
)

// ObjectName is the file name used for every uploaded image.
const ObjectName = "firmware.bin"

// Record describes one published firmware image.
type Record struct {
	Key       string
	Platform  string
	Arch      string
	Target    string
	Toolchain string
	SHA256    string
	Size      int64
	BuiltAt   time.Time
}

// ObjectStore uploads image bytes.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, metadata map[string]string) error
}

// BuildLedger stores build records.
type BuildLedger interface {
	PutRecord(ctx context.Context, table string, record Record) error
}

// Publisher uploads to Bucket and, when Table is set, records the build.
type Publisher struct {
	Store  ObjectStore
	Ledger BuildLedger
	Bucket string
	Prefix string
	Table  string
	Now    func() time.Time
}

// ObjectKey returns <prefix>/<platform>/<arch>/<target>/firmware.bin.
func ObjectKey(prefix string, record Record) string {
	parts := []string{}
	if trimmed := strings.Trim(strings.TrimSpace(prefix), "/"); trimmed != "" {
		parts = append(parts, trimmed)
	}
	parts = append(parts, record.Platform, record.Arch, record.Target, ObjectName)
	return path.Join(parts...)
}

// Publish uploads imagePath and returns the completed record.
func (p Publisher) Publish(ctx context.Context, imagePath string, record Record) (Record, error) {
	if strings.TrimSpace(p.Bucket) == "" {
		return Record{}, errBucketRequired
	}
	if p.Store == nil {
		return Record{}, errStoreNil
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return Record{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Record{}, fmt.Errorf("stat image: %w", err)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	record.Key = ObjectKey(p.Prefix, record)
	record.Size = info.Size()
	record.BuiltAt = now().UTC()

	metadata := map[string]string{
		"platform":  record.Platform,
		"arch":      record.Arch,
		"target":    record.Target,
		"toolchain": record.Toolchain,
		"sha256":    record.SHA256,
	}
	if err := p.Store.PutObject(ctx, p.Bucket, record.Key, f, record.Size, metadata); err != nil {
		return Record{}, fmt.Errorf("upload s3://%s/%s: %w", p.Bucket, record.Key, err)
	}

	if strings.TrimSpace(p.Table) == "" || p.Ledger == nil {
		return record, nil
	}
	if err := p.Ledger.PutRecord(ctx, p.Table, record); err != nil {
		return Record{}, fmt.Errorf("record build in %s: %w", p.Table, err)
	}
	return record, nil
}
