package wheel

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"net/textproto"
	"strings"
)

// Metadata is the parsed core-metadata file from a wheel's .dist-info
// directory. Header fields keep their canonical MIME casing; the message body
// (if any) carries the long description.
type Metadata struct {
	Fields      textproto.MIMEHeader
	Description string
}

// Get returns the first value for a metadata field, "" when absent.
func (m *Metadata) Get(key string) string {
	if m == nil || m.Fields == nil {
		return ""
	}
	return m.Fields.Get(key)
}

// Has reports whether the field is present with a non-empty value.
func (m *Metadata) Has(key string) bool { return m.Get(key) != "" }

// LongDescription returns the body when present, falling back to the
// legacy Description header.
func (m *Metadata) LongDescription() string {
	if m.Description != "" {
		return m.Description
	}
	return m.Get("Description")
}

// ReadMetadata opens a wheel archive and parses its METADATA file.
func ReadMetadata(path string) (*Metadata, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open wheel %s: %w", path, err)
	}
	defer archive.Close()

	for _, f := range archive.File {
		if !strings.HasSuffix(f.Name, ".dist-info/METADATA") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open METADATA in %s: %w", path, err)
		}
		meta, err := parseMetadata(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse METADATA in %s: %w", path, err)
		}
		return meta, nil
	}

	return nil, fmt.Errorf("wheel %s has no .dist-info/METADATA", path)
}

// parseMetadata reads the RFC 822 style header block and the optional body.
func parseMetadata(r io.Reader) (*Metadata, error) {
	tp := textproto.NewReader(bufio.NewReader(r))
	header, err := tp.ReadMIMEHeader()
	if err != nil && err != io.EOF {
		return nil, err
	}

	body, err := io.ReadAll(tp.R)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		Fields:      header,
		Description: strings.TrimSpace(string(body)),
	}, nil
}
