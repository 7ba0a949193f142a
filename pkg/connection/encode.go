package connection

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"reflect"
	"strings"

	"github.com/divinity/dspace.go/internal/codec"
	"github.com/divinity/dspace.go/pkg/constants"
)

// Encoded is a request body ready to send.
type Encoded struct {
	Body        io.Reader
	ContentType string
	// Close releases anything the body holds open. Never nil.
	Close func() error
}

func noClose() error { return nil }

// Encode renders the body of req. A request without any body kind yields a
// nil Body and empty ContentType.
func Encode(req *Request, m codec.Marshaler) (*Encoded, error) {
	switch {
	case req.File != nil:
		return encodeMultipart(req, m)
	case len(req.URIList) > 0:
		return &Encoded{
			Body:        strings.NewReader(strings.Join(req.URIList, "\n")),
			ContentType: constants.ContentTypeURIList,
			Close:       noClose,
		}, nil
	case len(req.Form) > 0:
		return &Encoded{
			Body:        strings.NewReader(req.Form.Encode()),
			ContentType: constants.ContentTypeForm,
			Close:       noClose,
		}, nil
	case !IsEmptyPayload(req.Body):
		b, err := m.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		return &Encoded{Body: bytes.NewReader(b), ContentType: constants.ContentTypeJSON, Close: noClose}, nil
	default:
		return &Encoded{Close: noClose}, nil
	}
}

// encodeMultipart streams the file through a pipe.
func encodeMultipart(req *Request, m codec.Marshaler) (*Encoded, error) {
	var properties []byte
	if !IsEmptyPayload(req.Body) {
		b, err := m.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode properties: %w", err)
		}
		properties = b
	}

	f, err := os.Open(req.File.Path)
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", req.File.Filename, err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(mw, req.File, f, properties)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		_ = pw.CloseWithError(err)
	}()

	return &Encoded{
		Body:        pr,
		ContentType: mw.FormDataContentType(),
		Close: func() error {
			_ = pr.Close()
			return f.Close()
		},
	}, nil
}

func writeMultipart(mw *multipart.Writer, part *FilePart, content io.Reader, properties []byte) error {
	h := make(textproto.MIMEHeader)
	filename := part.Filename
	if filename == "" {
		filename = "file"
	}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	mimeType := part.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)

	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, content); err != nil {
		return err
	}

	if properties != nil {
		if err := mw.WriteField("properties", string(properties)); err != nil {
			return err
		}
	}
	return nil
}

// IsEmptyPayload reports whether v has nothing to send: nil, a nil pointer,
// or an empty string, map, slice or array.
func IsEmptyPayload(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() == 0
	default:
		return false
	}
}
