// Package dump reads and writes tree images: a store subtree serialized as
// deterministic CBOR behind a small header, optionally compressed.
//
// Layout:
//
//	magic        6 bytes  "XSDUMP"
//	version      1 byte   1
//	compression  1 byte   CompressionTag
//	size         8 bytes  uncompressed payload length, big endian
//	payload      CBOR Image, compressed per the tag
//
// Images are explicit artifacts for inspection and seeding; the store never
// writes or reads them on its own.
package dump

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KilimcininKorOglu/xenstore/internal/codec"
	"github.com/KilimcininKorOglu/xenstore/internal/store"
)

const (
	formatVersion = 1
	headerSize    = 16

	// maxPayload bounds the decoded size a header may announce.
	maxPayload = 1 << 30
)

var magic = [6]byte{'X', 'S', 'D', 'U', 'M', 'P'}

// Dump errors.
var (
	ErrBadMagic   = errors.New("not a xenstore dump")
	ErrBadVersion = errors.New("unsupported dump version")
	ErrTruncated  = errors.New("dump is truncated")
	ErrCorrupt    = errors.New("dump holds a malformed tree")
	ErrMismatch   = errors.New("dump does not match its recorded summary")
)

// Image is the decoded payload of a dump.
type Image struct {
	// Path is the store path the tree was exported from.
	Path string `cbor:"1,keyasint"`
	// Nodes is the node count of Root.
	Nodes uint64 `cbor:"2,keyasint"`
	// Digest is the subtree digest at export time.
	Digest []byte `cbor:"3,keyasint,omitempty"`
	// Root is the exported tree.
	Root *store.Document `cbor:"4,keyasint"`
}

// Encode writes img to w. A payload that does not shrink under the chosen
// compression is stored uncompressed. It returns the tag actually used.
func Encode(w io.Writer, img *Image, tag CompressionTag) (CompressionTag, error) {
	payload, err := codec.Marshal(img)
	if err != nil {
		return 0, fmt.Errorf("encode image: %w", err)
	}

	body, err := compress(payload, tag)
	if errors.Is(err, errIncompressible) {
		body, tag = payload, CompressionNone
	} else if err != nil {
		return 0, err
	}

	var header [headerSize]byte
	copy(header[:6], magic[:])
	header[6] = formatVersion
	header[7] = byte(tag)
	binary.BigEndian.PutUint64(header[8:], uint64(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return 0, err
	}
	if _, err := w.Write(body); err != nil {
		return 0, err
	}
	return tag, nil
}

// Decode reads an image written by Encode. The tree is checked for
// structure (no missing children, valid names) but not against the recorded
// summary; see Verify.
func Decode(r io.Reader) (*Image, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, err
	}
	if !bytes.Equal(header[:6], magic[:]) {
		return nil, ErrBadMagic
	}
	if header[6] != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, header[6])
	}
	tag := CompressionTag(header[7])
	size := binary.BigEndian.Uint64(header[8:])
	if size > maxPayload {
		return nil, fmt.Errorf("payload of %d bytes exceeds %d", size, maxPayload)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	payload, err := decompress(body, tag, int(size))
	if err != nil {
		return nil, err
	}

	img := &Image{}
	if err := codec.Unmarshal(payload, img); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Root == nil {
		return nil, fmt.Errorf("decode image: %w", ErrTruncated)
	}
	if err := img.Root.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return img, nil
}

// Verify checks the tree against the node count and digest recorded at
// export time. An image without a recorded digest only has its count
// checked.
func (img *Image) Verify() error {
	if count := uint64(img.Root.Count()); count != img.Nodes {
		return fmt.Errorf("%w: %d nodes recorded, tree has %d", ErrMismatch, img.Nodes, count)
	}
	if len(img.Digest) == 0 {
		return nil
	}
	if d := img.Root.Digest(); !bytes.Equal(d[:], img.Digest) {
		return fmt.Errorf("%w: recorded digest %x, tree has %s", ErrMismatch, img.Digest, d)
	}
	return nil
}

// WriteFile encodes img into the file at path, replacing it.
func WriteFile(path string, img *Image, tag CompressionTag) (CompressionTag, error) {
	var buf bytes.Buffer
	used, err := Encode(&buf, img, tag)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return 0, err
	}
	return used, nil
}

// ReadFile decodes the image in the file at path.
func ReadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
