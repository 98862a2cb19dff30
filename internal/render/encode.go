// Package render talks to a PlantUML server: it encodes diagram source into the
// compact URL form the server expects and fetches rendered output.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
)

// PlantUML's URL-safe alphabet. Bit layout matches standard base64.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

var encoding = base64.NewEncoding(alphabet).WithPadding(base64.NoPadding)

// Encode deflates source and maps it onto the PlantUML alphabet. Incomplete
// trailing groups are zero-padded, so the result length is a multiple of 4.
func Encode(source string) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("deflate: %w", err)
	}
	if _, err := io.WriteString(w, source); err != nil {
		return "", fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("deflate: %w", err)
	}
	data := buf.Bytes()
	if r := len(data) % 3; r != 0 {
		data = append(data, make([]byte, 3-r)...)
	}
	return encoding.EncodeToString(data), nil
}

// Decode reverses Encode. A full server URL is accepted; only its last path
// segment is decoded.
func Decode(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if i := strings.LastIndex(encoded, "/"); i >= 0 {
		encoded = encoded[i+1:]
	}
	data, err := encoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("inflate: %w", err)
	}
	return string(out), nil
}
