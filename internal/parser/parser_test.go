package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/pable/go-league-stats/internal/model"
)

func sampleRecord() *model.RawRecord {
	return &model.RawRecord{
		Players: []model.RawPlayer{
			{Name: "&lt;TAG&gt;<sp/>Al", Race: "Protoss", Result: 1},
			{Name: "Bob", Race: "Zerg", Result: 2},
		},
		TimeUTC: 132127668000000000,
		Title:   "Acropolis LE",
		Metadata: &model.RawMetadata{
			Duration: 611,
			Players: []model.RawMetaPlayer{
				{MMR: 4000, APM: 180, SelectedRace: "Prot", Result: "Win"},
				{MMR: 3800, APM: 150, SelectedRace: "Zerg", Result: "Loss"},
			},
		},
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func jsonBytes(t *testing.T, rec *model.RawRecord) []byte {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	return data
}

func TestDecode_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m1.json", jsonBytes(t, sampleRecord()))

	rec, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, "m1.json", rec.File)
	assert.Len(t, rec.Hash, 64)
	assert.Equal(t, "Acropolis LE", rec.Title)
	assert.Equal(t, 4000, rec.Meta(0).MMR)
	assert.Equal(t, 611, rec.Duration())
}

func TestDecode_MsgpackAndZstd(t *testing.T) {
	dir := t.TempDir()
	data, err := msgpack.Marshal(sampleRecord())
	require.NoError(t, err)
	mpPath := writeFile(t, dir, "m2.msgpack", data)

	var zbuf bytes.Buffer
	zw, err := zstd.NewWriter(&zbuf)
	require.NoError(t, err)
	_, err = zw.Write(jsonBytes(t, sampleRecord()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	zPath := writeFile(t, dir, "m3.json.zst", zbuf.Bytes())

	for _, path := range []string{mpPath, zPath} {
		rec, err := FileDecoder{}.Decode(path)
		require.NoError(t, err, path)
		assert.Equal(t, "Bob", rec.Players[1].Name)
		assert.Equal(t, "Zerg", rec.Meta(1).SelectedRace)
	}
}

func TestDecode_SameBytesSameHash(t *testing.T) {
	dir := t.TempDir()
	data := jsonBytes(t, sampleRecord())
	a, err := FileDecoder{}.Decode(writeFile(t, dir, "a.json", data))
	require.NoError(t, err)
	b, err := FileDecoder{}.Decode(writeFile(t, dir, "b.json", data))
	require.NoError(t, err)
	assert.Equal(t, a.Hash, b.Hash)
}

func TestDecode_Failures(t *testing.T) {
	dir := t.TempDir()
	one := sampleRecord()
	one.Players = one.Players[:1]

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"unsupported replay", "game.SC2Replay", []byte("MPQ\x1b")},
		{"bad json", "broken.json", []byte("{")},
		{"single player", "solo.json", jsonBytes(t, one)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FileDecoder{}.Decode(writeFile(t, dir, tt.file, tt.data))
			var de *DecodeError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, tt.file, de.File)
		})
	}

	_, err := FileDecoder{}.Decode(filepath.Join(dir, "game.SC2Replay"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestListRecords_SortedSkipsHiddenAndDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", []byte("{}"))
	writeFile(t, dir, "a.json", []byte("{}"))
	writeFile(t, dir, ".hidden", []byte("x"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	files, err := ListRecords(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}, files)
}
