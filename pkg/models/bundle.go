package models

import "strconv"

// Bundle groups the bitstreams of an item, ORIGINAL being the usual one.
type Bundle struct {
	ID                  string
	Name                string
	BitstreamsHref      string
	PrimaryBitstreamURI string
}

func BundleFromDocument(doc Document) Bundle {
	id := doc.String("uuid")
	if id == "" {
		id = doc.String("id")
	}
	return Bundle{
		ID:                  id,
		Name:                doc.String("name"),
		BitstreamsHref:      doc.Href("bitstreams"),
		PrimaryBitstreamURI: doc.Href("primaryBitstream"),
	}
}

// Bitstream is a stored file as reported by the server.
type Bitstream struct {
	ID          string
	Name        string
	SizeBytes   int64
	Checksum    string
	ContentHref string
	Document    Document
}

func BitstreamFromDocument(doc Document) Bitstream {
	id := doc.String("uuid")
	if id == "" {
		id = doc.String("id")
	}
	size, _ := strconv.ParseInt(doc.String("sizeBytes"), 10, 64)
	return Bitstream{
		ID:          id,
		Name:        doc.String("name"),
		SizeBytes:   size,
		Checksum:    doc.String("checkSum.value"),
		ContentHref: doc.Href("content"),
		Document:    doc,
	}
}
