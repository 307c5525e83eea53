package blob

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investogun/internal/platform/config"
)

// fakeS3 serves the object subset of the S3 API from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

type fakeObject struct {
	body        []byte
	contentType string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// path style: /bucket/key
	_, key, _ := strings.Cut(strings.TrimPrefix(req.URL.Path, "/"), "/")
	switch req.Method {
	case http.MethodPut:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") {
			if body, err = decodeAWSChunked(body); err != nil {
				return nil, err
			}
		}
		f.objects[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type")}
		return response(http.StatusOK, nil, http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			body := []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return response(http.StatusNotFound, body, http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return response(http.StatusOK, obj.body, http.Header{
			"Content-Type":   {obj.contentType},
			"Content-Length": {strconv.Itoa(len(obj.body))},
		}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return response(http.StatusNoContent, nil, http.Header{}), nil
	}
	return response(http.StatusNotImplemented, nil, http.Header{}), nil
}

func response(status int, body []byte, header http.Header) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// decodeAWSChunked strips aws-chunked framing: <hex>[;ext]\r\n<data>\r\n ... 0\r\n<trailers>.
func decodeAWSChunked(b []byte) ([]byte, error) {
	r := bufio.NewReader(bytes.NewReader(b))
	var out bytes.Buffer
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeHex, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("chunk size %q: %w", sizeHex, err)
		}
		if size == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, r, size); err != nil {
			return nil, err
		}
		if _, err := r.Discard(2); err != nil {
			return nil, err
		}
	}
}

func newFakeS3Store(t *testing.T, fake *fakeS3) *S3 {
	t.Helper()
	store, err := NewS3(context.Background(), S3Config{
		Bucket:    "kyc-uploads",
		Region:    "eu-west-1",
		Endpoint:  "https://s3.test.local",
		PathStyle: true,
		Prefix:    "attachments/",
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.Credentials = credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")
		o.RetryMaxAttempts = 1
	})
	require.NoError(t, err)
	return store
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	assert.Equal(t, DriverMemory, m.Driver())

	info, err := m.Put(ctx, "a/plan.pdf", strings.NewReader("pdf-bytes"), PutOptions{ContentType: "application/pdf", Size: -1})
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size)

	got, rc, err := m.Get(ctx, "a/plan.pdf")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "pdf-bytes", string(body))
	assert.Equal(t, "application/pdf", got.ContentType)

	require.NoError(t, m.Delete(ctx, "a/plan.pdf"))
	_, _, err = m.Get(ctx, "a/plan.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: make(map[string]fakeObject)}
	store := newFakeS3Store(t, fake)
	assert.Equal(t, DriverS3, store.Driver())

	data := []byte("company profile")
	info, err := store.Put(ctx, "d1/profile.pdf", bytes.NewReader(data), PutOptions{ContentType: "application/pdf", Size: int64(len(data))})
	require.NoError(t, err)
	assert.Equal(t, "d1/profile.pdf", info.Key)

	require.Contains(t, fake.objects, "attachments/d1/profile.pdf")
	assert.Equal(t, data, fake.objects["attachments/d1/profile.pdf"].body)

	got, rc, err := store.Get(ctx, "d1/profile.pdf")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, data, body)
	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, int64(len(data)), got.Size)

	require.NoError(t, store.Delete(ctx, "d1/profile.pdf"))
	_, _, err = store.Get(ctx, "d1/profile.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.BlobConfig{})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, s.Driver())

	s, err = Open(ctx, config.BlobConfig{Driver: "s3", S3Bucket: "b", S3Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, DriverS3, s.Driver())

	_, err = Open(ctx, config.BlobConfig{Driver: "gcs"})
	assert.Error(t, err)
}
