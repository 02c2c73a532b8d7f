package snapshotfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hardisty/hardisty/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	doc := []byte(`{
		"groups": {"ios": 12, "android": 9},
		"dates": {
			"2024-03-01": 4,
			"2024-03-01T00:00:00+09:00": 1,
			"2024-03-02 14:30:00": 2
		},
		"distribution": [1.5, 2, 2.5]
	}`)

	snapshot, err := Decode(doc, jst)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"ios": 12, "android": 9}, snapshot.ValueCountsByGroup())
	assert.Equal(t, []float64{1.5, 2, 2.5}, snapshot.ValueDistribution())

	dates := snapshot.ValueCountsByDate()
	require.Len(t, dates, 2)
	midnight := time.Date(2024, 3, 1, 0, 0, 0, 0, jst).UTC()
	assert.Equal(t, 5, dates[midnight])
	assert.Equal(t, 2, dates[time.Date(2024, 3, 2, 14, 30, 0, 0, jst).UTC()])
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"dates": {"yesterday": 1}}`), nil)
	assert.ErrorContains(t, err, "invalid date key")

	_, err = Decode([]byte(`not json`), nil)
	assert.Error(t, err)
}

func TestDecode_EmptyDocument(t *testing.T) {
	snapshot, err := Decode([]byte(`{}`), nil)
	require.NoError(t, err)
	assert.True(t, snapshot.IsEmpty())
}

func TestSaveLoad(t *testing.T) {
	original := analytics.NewSnapshot(
		map[string]int{"a": 1, "b": 2},
		map[time.Time]int{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC):  3,
			time.Date(2024, 1, 2, 8, 15, 0, 0, time.UTC): 4,
		},
		[]float64{1, 2, 3},
	)

	for _, name := range []string{"snapshot.json", "snapshot.json.sz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, original))

			loaded, err := Load(path, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, original.ValueCountsByGroup(), loaded.ValueCountsByGroup())
			assert.Equal(t, original.ValueCountsByDate(), loaded.ValueCountsByDate())
			assert.Equal(t, original.ValueDistribution(), loaded.ValueDistribution())
		})
	}
}

func TestSave_CompressesSnappyFiles(t *testing.T) {
	dir := t.TempDir()
	snapshot := analytics.NewSnapshot(map[string]int{"label": 1}, nil, nil)

	plain := filepath.Join(dir, "s.json")
	packed := filepath.Join(dir, "s.sz")
	require.NoError(t, Save(plain, snapshot))
	require.NoError(t, Save(packed, snapshot))

	plainData, err := os.ReadFile(plain)
	require.NoError(t, err)
	packedData, err := os.ReadFile(packed)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(plainData, []byte("{")))
	assert.NotEqual(t, plainData, packedData)
}

func TestLoad_CorruptSnappy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sz")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xff, 0xff, 0xff, 0x0f, 0x00}, 0o644))

	_, err := Load(path, nil)
	assert.ErrorContains(t, err, "snappy decompress failed")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompressors(t *testing.T) {
	assert.Equal(t, Snappy, AlgorithmForPath("x.SZ"))
	assert.Equal(t, None, AlgorithmForPath("x.json"))

	for _, algo := range []Algorithm{None, Snappy} {
		c, err := GetCompressor(algo)
		require.NoError(t, err)
		assert.Equal(t, algo, c.Algorithm())

		payload := []byte("Hello, World! Hello, World! Hello, World!")
		packed, err := c.Compress(payload)
		require.NoError(t, err)
		unpacked, err := c.Decompress(packed)
		require.NoError(t, err)
		assert.Equal(t, payload, unpacked)

		empty, err := c.Compress(nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	}

	_, err := GetCompressor(Algorithm(7))
	assert.Error(t, err)
}
