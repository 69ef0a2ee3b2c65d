package tofio

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/toftable/lib/table"
	"github.com/phil-mansfield/toftable/lib/tof"
)

const (
	// DefaultLevel is the zstd level used when Options.Level is zero.
	DefaultLevel = 3
	// CompressedSuffix marks files that are written zstd-compressed.
	CompressedSuffix = ".zst"
)

// zstdMagic is the little-endian frame magic number 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Marshal returns the document Write would produce. If compress is true,
// the bytes are a zstd frame.
func Marshal(
	recs []tof.Recorder, tab *table.Table, opt Options, compress bool,
) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Write(buf, recs, tab, opt); err != nil { return nil, err }
	if !compress { return buf.Bytes(), nil }

	level := opt.Level
	if level == 0 { level = DefaultLevel }
	return zstd.CompressLevel(nil, buf.Bytes(), level)
}

// Unmarshal reads a document produced by Marshal. Compression is detected
// from the frame magic number.
func Unmarshal(b []byte) (*Dataset, error) {
	if IsCompressed(b) {
		var err error
		b, err = zstd.Decompress(nil, b)
		if err != nil {
			return nil, fmt.Errorf("Could not decompress table: %w", err)
		}
	}
	return Read(bytes.NewReader(b))
}

// IsCompressed returns true if b starts with a zstd frame.
func IsCompressed(b []byte) bool {
	return bytes.HasPrefix(b, zstdMagic)
}

// WriteFile writes the table to fileName. The file is compressed if
// opt.Compress is set or the name ends in CompressedSuffix.
func WriteFile(
	fileName string, recs []tof.Recorder, tab *table.Table, opt Options,
) error {
	compress := opt.Compress || strings.HasSuffix(fileName, CompressedSuffix)
	b, err := Marshal(recs, tab, opt, compress)
	if err != nil { return err }

	if err := os.WriteFile(fileName, b, 0644); err != nil {
		return fmt.Errorf("Could not write table to %s: %w", fileName, err)
	}
	return nil
}

// ReadFile reads a table written by WriteFile in either layout.
func ReadFile(fileName string) (*Dataset, error) {
	b, err := os.ReadFile(fileName)
	if err != nil { return nil, err }
	ds, err := Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("Could not read table from %s: %w", fileName, err)
	}
	return ds, nil
}
