package codec

import (
	"io"

	"github.com/goccy/go-json"
)

// JSON implements Codec on top of goccy/go-json.
type JSON struct{}

var _ Codec = (*JSON)(nil)

func NewJSON() *JSON {
	return &JSON{}
}

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) NewEncoder(w io.Writer) Encoder {
	return json.NewEncoder(w)
}

func (JSON) Unmarshal(data []byte, dst any) error {
	return json.Unmarshal(data, dst)
}

func (JSON) NewDecoder(r io.Reader) Decoder {
	return json.NewDecoder(r)
}
