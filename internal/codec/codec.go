// Package codec abstracts the JSON library used for request bodies, HAL
// responses and cached entries.
package codec

import "io"

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}

// Marshaler encodes outbound JSON bodies and multipart properties.
type Marshaler interface {
	Marshal(v any) ([]byte, error)
	NewEncoder(w io.Writer) Encoder
}

// Unmarshaler decodes response documents.
type Unmarshaler interface {
	Unmarshal(data []byte, dst any) error
	NewDecoder(r io.Reader) Decoder
}

// Codec is both directions, as kept by session stores and the page cache.
type Codec interface {
	Marshaler
	Unmarshaler
}
