package minio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	putErr  error
	putName string
	putBody []byte
	putSize int64
	putOpts minioLib.PutObjectOptions

	statErr error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, name string, r io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return minioLib.UploadInfo{}, err
	}
	f.putName, f.putBody, f.putSize, f.putOpts = name, body, size, opts
	return minioLib.UploadInfo{Key: name, Size: size}, nil
}
func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return minioLib.ObjectInfo{}, f.statErr
}

func notFound() error {
	return minioLib.ErrorResponse{Code: "NoSuchKey"}
}

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", c.bucket)
	assert.False(t, api.madeBucket)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)
	assert.Equal(t, "bucket", c.bucket)
	assert.True(t, api.madeBucket)
}

func TestNewClientWithAPI_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists error", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeMinio{bucketExistsErr: errors.New("boom")}, "bucket")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to ensure bucket exists")
	})

	t.Run("make bucket error", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeMinio{makeBucketErr: errors.New("fail")}, "bucket")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to ensure bucket exists")
	})
}

func TestClient_Archive(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	events := []model.AuditEvent{
		{ID: uuid.New(), TenantID: &tenantID, EventType: model.EventLoginSuccess, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: uuid.New(), EventType: model.EventLogout, Details: map[string]any{"k": "v"}, CreatedAt: time.Date(2024, 1, 2, 3, 5, 0, 0, time.UTC)},
	}

	t.Run("writes ndjson", func(t *testing.T) {
		api := &fakeMinio{statErr: notFound()}
		c := &Client{api: api, bucket: "b"}

		err := c.Archive(ctx, "audit/x.ndjson", events)
		require.NoError(t, err)

		assert.Equal(t, "audit/x.ndjson", api.putName)
		assert.Equal(t, ndjsonContentType, api.putOpts.ContentType)
		assert.Equal(t, int64(len(api.putBody)), api.putSize)

		var got []model.AuditEvent
		sc := bufio.NewScanner(bytes.NewReader(api.putBody))
		for sc.Scan() {
			var e model.AuditEvent
			require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
			got = append(got, e)
		}
		require.Len(t, got, 2)
		assert.Equal(t, events[0].ID, got[0].ID)
		assert.Equal(t, tenantID, *got[0].TenantID)
		assert.Equal(t, "v", got[1].Details["k"])
	})

	t.Run("already archived", func(t *testing.T) {
		api := &fakeMinio{}
		c := &Client{api: api, bucket: "b"}

		err := c.Archive(ctx, "audit/x.ndjson", events)
		require.NoError(t, err)
		assert.Empty(t, api.putName)
	})

	t.Run("stat error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: errors.New("stat-fail")}, bucket: "b"}
		err := c.Archive(ctx, "audit/x.ndjson", events)
		assert.ErrorContains(t, err, "failed to stat object")
	})

	t.Run("upload error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: notFound(), putErr: errors.New("put-fail")}, bucket: "b"}
		err := c.Archive(ctx, "audit/x.ndjson", events)
		assert.ErrorContains(t, err, "failed to upload object")
	})
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		c := &Client{api: &fakeMinio{}, bucket: "b"}
		ok, err := c.Exists(ctx, "k")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not found", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: notFound()}, bucket: "b"}
		ok, err := c.Exists(ctx, "absent")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: errors.New("stat-fail")}, bucket: "b"}
		ok, err := c.Exists(ctx, "k")
		assert.Error(t, err)
		assert.False(t, ok)
		assert.Contains(t, err.Error(), "failed to stat object")
	})
}
