// Package source implements parser.ReaderFactory for report files on disk and
// for in-memory content. It resolves the text encoding so parsers always see
// UTF-8.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hyperifyio/goanalysis/internal/parser"
)

var (
	_ parser.ReaderFactory = (*File)(nil)
	_ parser.ReaderFactory = (*Memory)(nil)
)

// sniffLen is how much of the input is inspected to guess its encoding.
const sniffLen = 1024

// File reads a report from disk.
type File struct {
	Path string
	// Encoding is an optional WHATWG label ("utf-8", "windows-1252", ...).
	// When empty the encoding is taken from a byte order mark or an HTML meta
	// declaration. Otherwise the input is read as UTF-8 unless its first
	// bytes are not valid UTF-8, in which case windows-1252 is assumed.
	Encoding string
}

// NewFile returns a File for path.
func NewFile(path, encodingLabel string) *File {
	return &File{Path: path, Encoding: encodingLabel}
}

func (f *File) FileName() string { return f.Path }

func (f *File) ReadStream() (io.ReadCloser, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	r, err := decode(fh, f.Encoding)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return readCloser{Reader: r, Closer: fh}, nil
}

func (f *File) ReadHTML() (*html.Node, error) {
	rc, err := f.ReadStream()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return html.Parse(rc)
}

// ReadXML parses the document. An encoding named in the XML declaration
// wins; Encoding applies to documents without one.
func (f *File) ReadXML() (*xmlquery.Node, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return readXML(fh, f.Encoding)
}

// Memory is report content held in memory. Name only matters for format
// checks and error messages.
type Memory struct {
	Name     string
	Data     []byte
	Encoding string
}

// FromString returns in-memory content named name.
func FromString(name, content string) *Memory {
	return &Memory{Name: name, Data: []byte(content)}
}

func (m *Memory) FileName() string { return m.Name }

func (m *Memory) ReadStream() (io.ReadCloser, error) {
	r, err := decode(bytes.NewReader(m.Data), m.Encoding)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(r), nil
}

func (m *Memory) ReadHTML() (*html.Node, error) {
	r, err := decode(bytes.NewReader(m.Data), m.Encoding)
	if err != nil {
		return nil, err
	}
	return html.Parse(r)
}

func (m *Memory) ReadXML() (*xmlquery.Node, error) {
	return readXML(bytes.NewReader(m.Data), m.Encoding)
}

type readCloser struct {
	io.Reader
	io.Closer
}

// decode returns a UTF-8 view of r. An explicit label wins. Otherwise a byte
// order mark or an HTML charset declaration decides, and undeclared input is
// read as UTF-8 unless the sample is not valid UTF-8. A leading byte order
// mark always overrides and is removed from the output.
func decode(r io.Reader, label string) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	var enc encoding.Encoding
	if label != "" {
		e, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
		}
		enc = e
	} else {
		sample, err := peek(br)
		if err != nil {
			return nil, err
		}
		enc = sniff(sample, len(sample) == sniffLen)
	}
	return transform.NewReader(br, unicode.BOMOverride(enc.NewDecoder())), nil
}

func peek(br *bufio.Reader) ([]byte, error) {
	b, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	return b, nil
}

var charsetDecl = regexp.MustCompile(`(?i)<meta[^>]+charset`)

// sniff picks the encoding of undeclared input; truncated is set when the
// sample is only a prefix of it. charset.DetermineEncoding falls back to
// windows-1252 for pure ASCII samples, which would garble UTF-8 text further
// into the file.
func sniff(sample []byte, truncated bool) encoding.Encoding {
	enc, name, certain := charset.DetermineEncoding(sample, "")
	switch {
	case certain:
		return enc
	case name == "utf-8":
		return unicode.UTF8
	case charsetDecl.Match(sample):
		return enc
	case validUTF8(sample, truncated):
		return unicode.UTF8
	default:
		return enc
	}
}

// validUTF8 reports whether sample is UTF-8. In a truncated sample a rune cut
// off at the end is ignored.
func validUTF8(sample []byte, truncated bool) bool {
	for i := len(sample) - 1; truncated && i >= 0 && i >= len(sample)-utf8.UTFMax; i-- {
		if utf8.RuneStart(sample[i]) {
			if !utf8.FullRune(sample[i:]) {
				sample = sample[:i]
			}
			break
		}
	}
	return utf8.Valid(sample)
}

var xmlEncodingDecl = regexp.MustCompile(`^\x{FEFF}?\s*<\?xml[^>]*\bencoding\s*=`)

// readXML parses an XML document. Without a label, or when the document
// declares its own encoding, xmlquery decodes it; otherwise label is applied
// first.
func readXML(r io.Reader, label string) (*xmlquery.Node, error) {
	if label == "" {
		return xmlquery.Parse(r)
	}
	br := bufio.NewReaderSize(r, sniffLen)
	sample, err := peek(br)
	if err != nil {
		return nil, err
	}
	if xmlEncodingDecl.Match(sample) {
		return xmlquery.Parse(br)
	}
	dr, err := decode(br, label)
	if err != nil {
		return nil, err
	}
	return xmlquery.Parse(dr)
}
