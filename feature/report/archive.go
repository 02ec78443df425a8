package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/SheepYY039/snipeit-netbox/core/storage"
	"github.com/SheepYY039/snipeit-netbox/feature/sync"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const objectPrefix = "reports/"

// Archiver stores sync pass reports as JSON objects in the report bucket.
// Object names start with the pass timestamp, so lexicographic order is
// chronological order.
type Archiver struct {
	store  storage.Client
	bucket string
	logger *zap.Logger
}

// NewArchiver creates an Archiver over the given storage client.
func NewArchiver(store storage.Client, bucket string, logger *zap.Logger) *Archiver {
	return &Archiver{store: store, bucket: bucket, logger: logger}
}

// EnsureBucket creates the report bucket if it does not exist yet.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.store.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("checking report bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.store.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating report bucket: %w", err)
	}
	a.logger.Info("created report bucket", zap.String("bucket", a.bucket))
	return nil
}

// Store uploads the report and returns the object name.
func (a *Archiver) Store(ctx context.Context, rep *sync.Report) (string, error) {
	body, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	name := fmt.Sprintf("%s%s-%s.json",
		objectPrefix,
		rep.StartedAt.UTC().Format("2006-01-02T15-04-05"),
		rep.RunID,
	)

	_, err = a.store.PutObject(ctx, a.bucket, name,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("uploading report %s: %w", name, err)
	}

	a.logger.Info("archived report", zap.String("object", name))
	return name, nil
}

// Latest fetches the most recent archived report. It returns nil when the
// archive is empty.
func (a *Archiver) Latest(ctx context.Context) (*sync.Report, error) {
	var names []string
	for obj := range a.store.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: objectPrefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing reports: %w", obj.Err)
		}
		names = append(names, obj.Key)
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)
	name := names[len(names)-1]

	body, err := a.store.GetObject(ctx, a.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching report %s: %w", name, err)
	}
	defer body.Close()

	var rep sync.Report
	if err := json.NewDecoder(body).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", name, err)
	}
	return &rep, nil
}
