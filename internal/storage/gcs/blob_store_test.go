package gcs

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	gstorage "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func fakeClient(t *testing.T, handler roundTripperFunc) *gstorage.Client {
	t.Helper()
	client, err := gstorage.NewClient(
		context.Background(),
		option.WithoutAuthentication(),
		option.WithHTTPClient(&http.Client{Transport: handler}),
	)
	require.NoError(t, err)
	return client
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	client := fakeClient(t, func(_ *http.Request) (*http.Response, error) {
		t.Fatal("constructor must not touch the network")
		return nil, nil
	})

	_, err := New(nil, Config{Bucket: "b"})
	require.Error(t, err)

	_, err = New(client, Config{})
	require.Error(t, err)

	s, err := New(client, Config{Bucket: "uploads"})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestPutObject_UploadsAndReturnsURI(t *testing.T) {
	t.Parallel()

	var sawUpload bool
	client := fakeClient(t, func(r *http.Request) (*http.Response, error) {
		if strings.Contains(r.URL.Path, "/b/uploads/o") {
			sawUpload = true
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"name":"resumes/x.pdf","bucket":"uploads"}`)),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})

	s, err := New(client, Config{Bucket: "uploads"})
	require.NoError(t, err)

	uri, err := s.PutObject(context.Background(), "resumes/x.pdf", "application/pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "gs://uploads/resumes/x.pdf", uri)
	assert.True(t, sawUpload)
}

func TestPutObject_RequiresPath(t *testing.T) {
	t.Parallel()

	client := fakeClient(t, func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{}`)),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})

	s, err := New(client, Config{Bucket: "uploads"})
	require.NoError(t, err)

	_, err = s.PutObject(context.Background(), "  ", "", strings.NewReader("x"))
	require.Error(t, err)
}
