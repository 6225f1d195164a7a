package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	K        int     `json:"k"`
	Accuracy float64 `json:"accuracy"`
}

type report struct {
	Metric  string   `json:"metric"`
	Results []result `json:"results"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_Agree(t *testing.T) {
	in := report{Metric: "euclidean", Results: []result{{K: 1, Accuracy: 96.5}, {K: 3, Accuracy: 97.25}}}

	var std, fast bytes.Buffer
	require.NoError(t, JSON{}.Encode(&std, in))
	require.NoError(t, GoJSON{}.Encode(&fast, in))
	assert.JSONEq(t, std.String(), fast.String())

	var out report
	require.NoError(t, GoJSON{}.Decode(&std, &out))
	assert.Equal(t, in, out)
}

func TestEncode_Indented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default.Encode(&buf, result{K: 5, Accuracy: 90}))

	assert.Equal(t, "{\n  \"k\": 5,\n  \"accuracy\": 90\n}\n", buf.String())
}

func TestDecode_Error(t *testing.T) {
	var out report
	err := JSON{}.Decode(strings.NewReader("{"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codec json: decode")
}
