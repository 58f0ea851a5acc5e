// Package parser loads decoded match records written by the external replay
// decoder. Records are JSON or msgpack documents, optionally zstd-compressed.
package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/pable/go-league-stats/internal/model"
)

// ErrUnsupportedFormat marks files the loader has no decoder for.
var ErrUnsupportedFormat = errors.New("unsupported record format")

// DecodeError reports a record file that could not be decoded.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.File, e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder turns one file into a RawRecord.
type Decoder interface {
	Decode(path string) (*model.RawRecord, error)
}

// FileDecoder reads *.json and *.msgpack records, each optionally ending in .zst.
type FileDecoder struct{}

var _ Decoder = FileDecoder{}

// Decode reads the record at path. Failures are returned as *DecodeError.
func (FileDecoder) Decode(path string) (*model.RawRecord, error) {
	rec, err := decodeFile(path)
	if err != nil {
		return nil, &DecodeError{File: filepath.Base(path), Err: err}
	}
	return rec, nil
}

func decodeFile(path string) (*model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	// Hash the bytes as stored; this is the match identity.
	hash := fmt.Sprintf("%x", sha256.Sum256(data))

	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".zst") {
		data, err = decompress(data)
		if err != nil {
			return nil, err
		}
		name = strings.TrimSuffix(name, ".zst")
	}

	var rec model.RawRecord
	switch filepath.Ext(name) {
	case ".json":
		err = json.Unmarshal(data, &rec)
	case ".msgpack", ".mp":
		err = msgpack.Unmarshal(data, &rec)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	if len(rec.Players) != 2 {
		return nil, fmt.Errorf("expected 2 players, got %d", len(rec.Players))
	}

	rec.Hash = hash
	rec.File = filepath.Base(path)
	return &rec, nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	out, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}

// ListRecords returns the regular files in dir sorted by name. Hidden files
// are skipped; every other file is a candidate record, including formats the
// decoder will reject, so that those surface as diagnostics.
func ListRecords(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read records dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
