// Package tzsnap stores encoded databases as snapshots.
//
// A snapshot is the CBOR form of a tzenc.Database in Core Deterministic
// Encoding (RFC 8949 §4.2), so the same encoded database always produces the
// same bytes. Snapshots are used to diff the tables produced from two tzdb
// releases and to check that repeated runs are reproducible. Snapshots can be
// written zstd-compressed; Read detects compression by the zstd frame magic.
package tzsnap

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/ngrash/go-zonedb/tzenc"
)

// FormatVersion is the version of the snapshot layout.
const FormatVersion = 1

// ErrFormatVersion is returned by Unmarshal for snapshots of an unsupported layout.
var ErrFormatVersion = errors.New("unsupported snapshot format version")

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// tzenc.Mode is stored by name.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("tzsnap: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("tzsnap: CBOR decoder initialization failed: " + err.Error())
	}
}

type snapshot struct {
	Format   int             `cbor:"format"`
	Database *tzenc.Database `cbor:"database"`
}

// Marshal returns the snapshot bytes of db.
func Marshal(db *tzenc.Database) ([]byte, error) {
	if db == nil {
		return nil, errors.New("nil database")
	}
	return encMode.Marshal(snapshot{Format: FormatVersion, Database: db})
}

// Unmarshal decodes snapshot bytes that were produced by Marshal.
func Unmarshal(data []byte) (*tzenc.Database, error) {
	var s snapshot
	if err := decMode.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Format != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrFormatVersion, s.Format)
	}
	if s.Database == nil {
		return nil, errors.New("decode snapshot: no database")
	}
	return s.Database, nil
}

// Fingerprint returns the xxhash of the snapshot bytes of db.
// Two databases have the same fingerprint if their encodings are identical.
func Fingerprint(db *tzenc.Database) (uint64, error) {
	data, err := Marshal(db)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// Write writes the snapshot of db to w, zstd-compressed if compress is true.
func Write(w io.Writer, db *tzenc.Database, compress bool) error {
	data, err := Marshal(db)
	if err != nil {
		return err
	}
	if !compress {
		_, err := w.Write(data)
		return err
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return fmt.Errorf("zstd compress: %w", err)
	}
	return zw.Close()
}

// Read reads a snapshot written by Write, compressed or not.
func Read(r io.Reader) (*tzenc.Database, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		src = zr
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Unmarshal(data)
}
