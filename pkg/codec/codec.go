// Package codec implements the transparent compression applied to journal
// content before it is persisted.
//
// Encoded content is a gzip stream wrapped in standard base64. Because the
// gzip magic header is fixed, every encoded value begins with the base64
// prefix "H4sI"; Decode uses that prefix to tell encoded content apart from
// legacy plaintext rows written before compression existed. Rows that do not
// match the prefix are passed through unchanged, so old data stays readable
// forever without a migration.
package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/wanderlog/wanderlog-backend/internal/logger"
)

// EncodedPrefix is the base64 rendering of the gzip magic bytes (1f 8b 08).
const EncodedPrefix = "H4sI"

// ErrCompress reports a failure while compressing content for storage.
// Callers must abort the write; storing a partial stream would corrupt the row.
var ErrCompress = errors.New("content compression failed")

// Encode compresses plaintext and returns it as a base64 string starting
// with EncodedPrefix. The input is never mutated.
func Encode(plaintext string) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(plaintext)); err != nil {
		zw.Close()
		return "", fmt.Errorf("%w: %v", ErrCompress, err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompress, err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Encoded reports whether stored looks like codec output. This is a
// heuristic: plaintext that happens to begin with "H4sI" is misclassified.
// Stored rows rely on it, so it cannot be tightened without a migration.
func Encoded(stored string) bool {
	return strings.HasPrefix(stored, EncodedPrefix)
}

// Decode reverses Encode. Empty input yields ""; input without the encoded
// prefix is returned unchanged (legacy plaintext). If the prefix matches but
// the data will not decode, the stored string is returned as-is and a warning
// is logged; a corrupt row never fails the read that touched it.
func Decode(stored string) string {
	if stored == "" {
		return ""
	}
	if !Encoded(stored) {
		return stored
	}

	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		logger.Warn.Printf("codec: base64 decode failed, returning stored content: %v", err)
		return stored
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		logger.Warn.Printf("codec: gzip header invalid, returning stored content: %v", err)
		return stored
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		logger.Warn.Printf("codec: decompression failed, returning stored content: %v", err)
		return stored
	}
	return string(out)
}
