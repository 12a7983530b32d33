package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/yelpcamp/config"
	"github.com/haguru/yelpcamp/pkg/zerolog"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

func newFakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func TestStore_UploadAndDestroy(t *testing.T) {
	srv, requests := newFakeS3(t)

	store, err := NewStore(context.Background(), &config.MediaConfig{
		Bucket:        "yelpcamp",
		Region:        "us-east-1",
		BaseEndpoint:  srv.URL,
		PublicBaseURL: "http://cdn.example/yelpcamp/",
		Folder:        "YelpCamp",
		UsePathStyle:  true,
		AccessKey:     "minio",
		SecretKey:     "minio-secret",
		Timeout:       5 * time.Second,
	}, zerolog.NewNopLogger())
	require.NoError(t, err)

	image, err := store.Upload(context.Background(), "Tent.JPG", "image/jpeg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(image.Filename, "YelpCamp/"))
	assert.True(t, strings.HasSuffix(image.Filename, ".jpg"))
	assert.Equal(t, "http://cdn.example/yelpcamp/"+image.Filename, image.URL)

	require.NoError(t, store.Destroy(context.Background(), image.Filename))

	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/yelpcamp/"+image.Filename, got[0].path)
	assert.Contains(t, got[0].body, "fake image bytes")
	assert.Equal(t, http.MethodDelete, got[1].method)
	assert.Equal(t, "/yelpcamp/"+image.Filename, got[1].path)
}

type fakeObjectAPI struct {
	putErr    error
	deleteErr error
	puts      int
	last      *s3.PutObjectInput
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts++
	f.last = params
	return &s3.PutObjectOutput{}, f.putErr
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, f.deleteErr
}

func TestStore_Errors(t *testing.T) {
	cfg := &config.MediaConfig{Bucket: "b", PublicBaseURL: "http://cdn"}
	ctx := context.Background()

	t.Run("unsupported extension is rejected before upload", func(t *testing.T) {
		api := &fakeObjectAPI{}
		store := newStore(api, cfg, zerolog.NewNopLogger())
		_, err := store.Upload(ctx, "notes.txt", "text/plain", strings.NewReader("x"))
		assert.Error(t, err)
		assert.Zero(t, api.puts)
	})

	t.Run("put failure", func(t *testing.T) {
		store := newStore(&fakeObjectAPI{putErr: errors.New("denied")}, cfg, zerolog.NewNopLogger())
		_, err := store.Upload(ctx, "a.png", "image/png", strings.NewReader("x"))
		assert.Error(t, err)
	})

	t.Run("empty folder keeps key at bucket root", func(t *testing.T) {
		store := newStore(&fakeObjectAPI{}, cfg, zerolog.NewNopLogger())
		image, err := store.Upload(ctx, "a.png", "image/png", strings.NewReader("x"))
		require.NoError(t, err)
		assert.NotContains(t, image.Filename, "/")
	})

	t.Run("destroy failure and empty filename", func(t *testing.T) {
		store := newStore(&fakeObjectAPI{deleteErr: errors.New("gone")}, cfg, zerolog.NewNopLogger())
		assert.Error(t, store.Destroy(ctx, "k"))
		assert.Error(t, store.Destroy(ctx, ""))
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewStore(ctx, nil, zerolog.NewNopLogger())
		assert.Error(t, err)
	})
}

func TestStore_UploadBody(t *testing.T) {
	cfg := &config.MediaConfig{Bucket: "b", PublicBaseURL: "http://cdn"}
	ctx := context.Background()

	t.Run("seekable body is streamed from its current offset", func(t *testing.T) {
		api := &fakeObjectAPI{}
		store := newStore(api, cfg, zerolog.NewNopLogger())
		body := strings.NewReader("skip-image-bytes")
		_, err := body.Seek(int64(len("skip-")), io.SeekStart)
		require.NoError(t, err)

		_, err = store.Upload(ctx, "a.png", "image/png", body)
		require.NoError(t, err)

		assert.Same(t, body, api.last.Body)
		assert.Equal(t, int64(len("image-bytes")), *api.last.ContentLength)
		sent, err := io.ReadAll(api.last.Body)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(sent))
	})

	t.Run("plain reader is buffered", func(t *testing.T) {
		api := &fakeObjectAPI{}
		store := newStore(api, cfg, zerolog.NewNopLogger())

		_, err := store.Upload(ctx, "a.png", "image/png", io.MultiReader(strings.NewReader("image-"), strings.NewReader("bytes")))
		require.NoError(t, err)

		assert.Equal(t, int64(len("image-bytes")), *api.last.ContentLength)
		sent, err := io.ReadAll(api.last.Body)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(sent))
	})
}
