package semantic

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	json "github.com/goccy/go-json"

	"github.com/Pushkarm029/postgres-proxy-server/internal/apperr"
)

// objectGetter is the minimal S3 surface RemoteStore needs, narrowed so
// tests can supply an in-memory fake instead of a real client (grounded
// on the original source's s3_store_tests, SPEC_FULL §9).
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// RemoteStore fetches semantic models from an S3-compatible object store
// under the key prefix "<tenant>/<name>.json" (spec.md §3, §6). Models
// are memoized for cacheTTL — a TTL-cache pattern grounded on the
// teacher's schema/cache.go — since every wire connection shares one
// RemoteStore instance and re-fetching per query would put network I/O
// on the per-query hot path.
type RemoteStore struct {
	client s3Client
	tenant string
	bucket string
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.RWMutex
	cached   *staticStore
	cachedAt time.Time
}

type s3Client = objectGetter

const defaultRemoteTTL = 5 * time.Minute

// NewRemoteStore builds an S3-backed store using the default AWS config
// chain (environment, shared config file, IMDS — same resolution order
// aws-sdk-go-v2 always uses; no custom endpoint override here since the
// original source targets real S3, not an S3-compatible host).
func NewRemoteStore(ctx context.Context, tenant, bucket string, logger *slog.Logger) (*RemoteStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return newRemoteStoreWithClient(s3.NewFromConfig(cfg), tenant, bucket, logger), nil
}

func newRemoteStoreWithClient(client s3Client, tenant, bucket string, logger *slog.Logger) *RemoteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteStore{client: client, tenant: tenant, bucket: bucket, ttl: defaultRemoteTTL, logger: logger}
}

// refresh lists "<tenant>/*.json" and fetches every model, replacing the
// memoized snapshot. Returns the existing snapshot, stale or not, if the
// refresh itself fails — a transient S3 outage should not take down an
// already-running proxy.
func (r *RemoteStore) refresh(ctx context.Context) (*staticStore, error) {
	r.mu.RLock()
	if r.cached != nil && time.Since(r.cachedAt) < r.ttl {
		snap := r.cached
		r.mu.RUnlock()
		return snap, nil
	}
	r.mu.RUnlock()

	keys, err := r.listObjectKeys(ctx)
	if err != nil {
		r.mu.RLock()
		stale := r.cached
		r.mu.RUnlock()
		if stale != nil {
			r.logger.Warn("remote semantic-model listing failed, serving stale snapshot", slog.String("error", err.Error()))
			return stale, nil
		}
		return nil, err
	}

	models := make(map[string]*SemanticModel, len(keys))
	for _, key := range keys {
		name := strings.TrimSuffix(strings.TrimPrefix(key, r.tenant+"/"), ".json")
		m, err := r.fetchModel(ctx, name)
		if err != nil {
			r.logger.Warn("skipping unreadable semantic model", slog.String("name", name), slog.String("error", err.Error()))
			continue
		}
		if err := m.Validate(); err != nil {
			r.logger.Warn("skipping invalid semantic model", slog.String("name", name), slog.String("error", err.Error()))
			continue
		}
		models[name] = m
	}

	snap := newStaticStore(models)
	r.mu.Lock()
	r.cached = snap
	r.cachedAt = time.Now()
	r.mu.Unlock()
	return snap, nil
}

func (r *RemoteStore) listObjectKeys(ctx context.Context) ([]string, error) {
	prefix := r.tenant + "/"
	out, err := r.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("list objects under %q: %w", prefix, err)
	}
	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key == nil {
			continue
		}
		if strings.HasSuffix(*obj.Key, ".json") {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}

func (r *RemoteStore) fetchModel(ctx context.Context, name string) (*SemanticModel, error) {
	key := r.tenant + "/" + name + ".json"
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %q: %w", key, err)
	}

	var m SemanticModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse object %q: %w", key, err)
	}
	if m.Name == "" {
		m.Name = name
	}
	return &m, nil
}

func (r *RemoteStore) GetModel(ctx context.Context, name string) (*SemanticModel, error) {
	snap, err := r.refresh(ctx)
	if err != nil {
		return nil, apperr.Backend(err.Error())
	}
	return snap.getModel(name)
}

func (r *RemoteStore) ListModels(ctx context.Context) []string {
	snap, err := r.refresh(ctx)
	if err != nil {
		return nil
	}
	return snap.listModels()
}

func (r *RemoteStore) GetMeasure(ctx context.Context, table, measure string) (*Measure, error) {
	snap, err := r.refresh(ctx)
	if err != nil {
		return nil, apperr.Backend(err.Error())
	}
	return snap.getMeasure(table, measure)
}

func (r *RemoteStore) Digest(ctx context.Context) string {
	snap, err := r.refresh(ctx)
	if err != nil {
		return ""
	}
	return snap.digest
}
