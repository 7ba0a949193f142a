package connection

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divinity/dspace.go/internal/codec"
)

func readAll(t *testing.T, enc *Encoded) string {
	t.Helper()
	if enc.Body == nil {
		return ""
	}
	b, err := io.ReadAll(enc.Body)
	require.NoError(t, err)
	return string(b)
}

func TestEncodeOrder(t *testing.T) {
	m := codec.NewJSON()

	req := NewRequest(http.MethodPost, "http://x").
		WithURIList("http://x/api/core/items/a", "http://x/api/core/items/b").
		WithForm(url.Values{"user": {"u"}}).
		WithBody(map[string]any{"a": 1})
	enc, err := Encode(req, m)
	require.NoError(t, err)
	assert.Equal(t, "text/uri-list", enc.ContentType)
	assert.Equal(t, "http://x/api/core/items/a\nhttp://x/api/core/items/b", readAll(t, enc))

	req.URIList = nil
	enc, err = Encode(req, m)
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", enc.ContentType)
	assert.Equal(t, "user=u", readAll(t, enc))

	req.Form = nil
	enc, err = Encode(req, m)
	require.NoError(t, err)
	assert.Equal(t, "application/json", enc.ContentType)
	assert.JSONEq(t, `{"a":1}`, readAll(t, enc))
}

func TestEncodeEmptyPayload(t *testing.T) {
	for _, body := range []any{nil, map[string]any{}, []string{}, "", (*int)(nil)} {
		enc, err := Encode(NewRequest(http.MethodGet, "http://x").WithBody(body), codec.NewJSON())
		require.NoError(t, err)
		assert.Nil(t, enc.Body, "%#v", body)
		assert.Empty(t, enc.ContentType)
		assert.NoError(t, enc.Close())
	}
	assert.False(t, IsEmptyPayload(0))
	assert.False(t, IsEmptyPayload(struct{}{}))
}

func TestEncodeMultipart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7"), 0o600))

	req := NewRequest(http.MethodPost, "http://x").
		WithFile(&FilePart{Filename: "paper.pdf", MimeType: "application/pdf", Path: path}).
		WithURIList("ignored").
		WithBody(map[string]any{"name": "paper.pdf"})

	enc, err := Encode(req, codec.NewJSON())
	require.NoError(t, err)
	defer enc.Close()

	mediaType, params, err := mime.ParseMediaType(enc.ContentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	form, err := multipart.NewReader(enc.Body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)

	files := form.File["file"]
	require.Len(t, files, 1)
	assert.Equal(t, "paper.pdf", files[0].Filename)
	assert.Equal(t, "application/pdf", files[0].Header.Get("Content-Type"))
	f, err := files[0].Open()
	require.NoError(t, err)
	content, _ := io.ReadAll(f)
	assert.Equal(t, "%PDF-1.7", string(content))

	require.Len(t, form.Value["properties"], 1)
	assert.JSONEq(t, `{"name":"paper.pdf"}`, form.Value["properties"][0])
}

func TestEncodeMultipartWithoutProperties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	enc, err := Encode(NewRequest(http.MethodPost, "http://x").WithFile(&FilePart{Path: path}), codec.NewJSON())
	require.NoError(t, err)
	defer enc.Close()

	_, params, _ := mime.ParseMediaType(enc.ContentType)
	form, err := multipart.NewReader(enc.Body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Empty(t, form.Value["properties"])
	assert.Equal(t, "file", form.File["file"][0].Filename)
}

func TestEncodeMultipartMissingFile(t *testing.T) {
	_, err := Encode(NewRequest(http.MethodPost, "http://x").
		WithFile(&FilePart{Filename: "gone", Path: filepath.Join(t.TempDir(), "gone")}), codec.NewJSON())
	assert.Error(t, err)
}

func TestResponseIsJSON(t *testing.T) {
	for ct, want := range map[string]bool{
		"application/json":                   true,
		"application/hal+json;charset=UTF-8": true,
		"text/plain":                         false,
		"":                                   false,
	} {
		r := &Response{Header: http.Header{"Content-Type": {ct}}}
		assert.Equal(t, want, r.IsJSON(), ct)
	}
}

func TestRequestClone(t *testing.T) {
	req := NewRequest(http.MethodGet, "http://x")
	req.Header.Set("A", "1")
	c := req.Clone()
	c.Header.Set("A", "2")
	assert.Equal(t, "1", req.Header.Get("A"))
}
