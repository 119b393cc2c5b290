// Package savefile loads persistent world state from disk and decodes it.
package savefile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"

	"github.com/St4ndd/NodeStack/internal/nbt"
	"github.com/St4ndd/NodeStack/internal/observability"
)

// Save data is usually gzip-compressed on disk but some tooling writes it
// raw; Decode accepts both by sniffing the magic bytes.
var gzipMagic = []byte{0x1f, 0x8b}

// Load reads and decodes one save file.
func Load(path string) (*nbt.Compound, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		observability.RecordSaveDecode("read_error")
		return nil, fmt.Errorf("savefile: read %s: %w", path, err)
	}
	root, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("savefile: %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("keys", root.Len()).Msg("save file decoded")
	return root, nil
}

// Decode decompresses data when gzip-wrapped and decodes the tag tree.
func Decode(data []byte) (*nbt.Compound, error) {
	if bytes.HasPrefix(data, gzipMagic) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			observability.RecordSaveDecode("gzip_error")
			return nil, fmt.Errorf("savefile: open gzip stream: %w", err)
		}
		defer zr.Close()
		raw, err := io.ReadAll(zr)
		if err != nil {
			observability.RecordSaveDecode("gzip_error")
			return nil, fmt.Errorf("savefile: decompress: %w", err)
		}
		data = raw
	}
	root, err := nbt.Decode(data)
	if err != nil {
		observability.RecordSaveDecode("decode_error")
		return nil, err
	}
	observability.RecordSaveDecode("ok")
	return root, nil
}
