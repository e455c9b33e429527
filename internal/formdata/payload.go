package formdata

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// sniffLen is the number of leading bytes filetype needs to identify a format.
const sniffLen = 261

const defaultContentType = "application/octet-stream"

// File is a binary attachment. Content is consumed when the payload is encoded.
type File struct {
	Name    string
	Content io.Reader
}

// IsFile reports whether f is a real file: it has content and a file name.
func (f *File) IsFile() bool {
	return f != nil && f.Content != nil && f.Name != ""
}

// Close closes the content if it is closable.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	if c, ok := f.Content.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Open returns a File reading from the file at path. The caller closes it.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open attachment: %w", err)
	}
	return &File{Name: filepath.Base(path), Content: fh}, nil
}

// Part is one entry of a payload; exactly one of Value or File is meaningful.
type Part struct {
	Name  string
	Value string
	File  *File
}

// Payload is an ordered list of multipart parts.
type Payload struct {
	parts []Part
}

func NewPayload() *Payload {
	return &Payload{}
}

func (p *Payload) AddField(name, value string) {
	p.parts = append(p.parts, Part{Name: name, Value: value})
}

func (p *Payload) AddFile(name string, f *File) {
	p.parts = append(p.parts, Part{Name: name, File: f})
}

// Parts returns the parts in insertion order.
func (p *Payload) Parts() []Part {
	return p.parts
}

// Encode writes the payload as multipart/form-data and returns the body along
// with the content type carrying the boundary.
func (p *Payload) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, part := range p.parts {
		if part.File == nil {
			if err := mw.WriteField(part.Name, part.Value); err != nil {
				return nil, "", fmt.Errorf("unable to write field %s: %w", part.Name, err)
			}
			continue
		}
		if err := writeFile(mw, part.Name, part.File); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("unable to finish multipart body: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func writeFile(mw *multipart.Writer, name string, f *File) error {
	br := bufio.NewReaderSize(f.Content, 512)
	head, _ := br.Peek(sniffLen)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(name), escapeQuotes(f.Name)))
	h.Set("Content-Type", DetectContentType(head))

	w, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("unable to create part %s: %w", name, err)
	}
	if _, err := io.Copy(w, br); err != nil {
		return fmt.Errorf("unable to copy attachment %s: %w", f.Name, err)
	}
	return nil
}

// DetectContentType identifies the MIME type of an attachment from its first bytes.
func DetectContentType(head []byte) string {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return defaultContentType
	}
	return kind.MIME.Value
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
