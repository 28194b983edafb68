package dump

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KilimcininKorOglu/xenstore/internal/store"
)

func sampleImage(t *testing.T) *Image {
	t.Helper()
	s := store.New(store.DefaultOptions())
	for i, name := range []string{"vif", "vbd", "console"} {
		path := "/local/domain/1/device/" + name + "/0/state"
		if err := s.Write(0, path, []byte(strings.Repeat("connected ", i+5))); err != nil {
			t.Fatalf("Write(%s): %v", path, err)
		}
	}
	doc, err := s.Export(0, "/local")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	digest, err := s.Digest(0, "/local")
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	return &Image{Path: "/local", Nodes: uint64(doc.Count()), Digest: digest[:], Root: doc}
}

func TestParseCompressionTag(t *testing.T) {
	tests := []struct {
		name    string
		want    CompressionTag
		wantErr bool
	}{
		{"", CompressionNone, false},
		{"none", CompressionNone, false},
		{"lz4", CompressionLZ4, false},
		{"zstd", CompressionZstd, false},
		{"gzip", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompressionTag(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCompressionTag(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if tt.name != "" && got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			img := sampleImage(t)

			var buf bytes.Buffer
			if _, err := Encode(&buf, img, tag); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Path != img.Path || got.Nodes != img.Nodes {
				t.Errorf("header fields changed: got %s/%d, want %s/%d", got.Path, got.Nodes, img.Path, img.Nodes)
			}
			if !bytes.Equal(got.Digest, img.Digest) {
				t.Error("digest changed across encode/decode")
			}

			restored := store.New(store.DefaultOptions())
			if err := restored.Import(0, got.Root); err != nil {
				t.Fatalf("Import: %v", err)
			}
			value, err := restored.Read(0, "/domain/1/device/vbd/0/state")
			if err != nil {
				t.Fatalf("Read after import: %v", err)
			}
			if !strings.HasPrefix(string(value), "connected") {
				t.Errorf("unexpected value after import: %q", value)
			}
		})
	}
}

func TestEncodeFallsBackWhenIncompressible(t *testing.T) {
	img := &Image{Path: "/", Nodes: 1, Root: &store.Document{}}

	var buf bytes.Buffer
	used, err := Encode(&buf, img, CompressionZstd)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if used != CompressionNone {
		t.Errorf("expected tiny payload to be stored uncompressed, got %v", used)
	}
	if _, err := Decode(&buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	var good bytes.Buffer
	if _, err := Encode(&good, sampleImage(t), CompressionNone); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	badVersion := bytes.Clone(good.Bytes())
	badVersion[6] = 9

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"short header", []byte("XSDU"), ErrTruncated},
		{"bad magic", append([]byte("NOTDMP"), good.Bytes()[6:]...), ErrBadMagic},
		{"bad version", badVersion, ErrBadVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("truncated payload", func(t *testing.T) {
		data := good.Bytes()
		if _, err := Decode(bytes.NewReader(data[:len(data)-3])); err == nil {
			t.Error("expected error for truncated payload")
		}
	})
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.xsdump")
	img := sampleImage(t)

	if _, err := WriteFile(path, img, CompressionLZ4); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Root.Count() != img.Root.Count() {
		t.Errorf("node count = %d, want %d", got.Root.Count(), img.Root.Count())
	}
}

func TestDecodeRejectsMalformedTree(t *testing.T) {
	tests := []struct {
		name string
		root *store.Document
	}{
		{"nil child", &store.Document{Children: map[string]*store.Document{"x": nil}}},
		{"nested nil child", &store.Document{Children: map[string]*store.Document{
			"a": {Children: map[string]*store.Document{"b": nil}},
		}}},
		{"bad child name", &store.Document{Children: map[string]*store.Document{"a b": {}}}},
		{"slash in child name", &store.Document{Children: map[string]*store.Document{"a/b": {}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tree.xsdump")
			img := &Image{Path: "/", Nodes: 2, Digest: make([]byte, 32), Root: tt.root}
			if _, err := WriteFile(path, img, CompressionNone); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			got, err := ReadFile(path)
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("ReadFile() error = %v, want %v", err, ErrCorrupt)
			}
			if got != nil {
				t.Error("expected no image for a malformed tree")
			}
		})
	}
}

func TestVerify(t *testing.T) {
	wrongDigest := func(img *Image) {
		img.Digest = bytes.Clone(img.Digest)
		img.Digest[0] ^= 0xff
	}

	tests := []struct {
		name   string
		modify func(*Image)
		want   error
	}{
		{"intact", func(*Image) {}, nil},
		{"no recorded digest", func(img *Image) { img.Digest = nil }, nil},
		{"node count too high", func(img *Image) { img.Nodes++ }, ErrMismatch},
		{"node count too low", func(img *Image) { img.Nodes-- }, ErrMismatch},
		{"wrong digest", wrongDigest, ErrMismatch},
		{"short digest", func(img *Image) { img.Digest = img.Digest[:16] }, ErrMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := sampleImage(t)
			tt.modify(img)

			var buf bytes.Buffer
			if _, err := Encode(&buf, img, CompressionZstd); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			err = got.Verify()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Verify() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}
