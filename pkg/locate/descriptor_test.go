package locate

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_prioritize(t *testing.T) {
	link := GNUDebugLink{Filename: []byte("app.debug"), CRC: 1}
	id := BuildID{0xab, 0xcd}
	pdb := PDBInfo{Path: []byte("app.pdb"), GUID: guidA, Age: 1}

	got := prioritize([]Descriptor{link, nil, id, BuildID{0x01, 0x02}, pdb, uuidA})
	want := []Descriptor{uuidA, pdb, id, link}
	diff := cmp.Diff(want, got)
	assert.Empty(t, diff, "Diff (-want,+got):\n%s", diff)

	assert.Empty(t, prioritize(nil))
}

func Test_DescriptorString(t *testing.T) {
	assert.Equal(t, "AA010203-0405-0607-0809-0A0B0C0D0E0F", uuidA.String())
	assert.Equal(t, "abcdef", BuildID{0xab, 0xcd, 0xef}.String())
	assert.Equal(t, "build-id", KindBuildID.String())
	assert.Equal(t, "none", Kind(42).String())
}

func Test_ResultJSON(t *testing.T) {
	b, err := json.Marshal(Result{Path: "/usr/lib/debug/app.debug", Strategy: KindDebugLink})
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"/usr/lib/debug/app.debug","strategy":"debuglink"}`, string(b))

	assert.False(t, Result{}.Found())
}

func Test_KindUnmarshalText(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("pdb")))
	assert.Equal(t, KindPDB, k)
	assert.Error(t, k.UnmarshalText([]byte("dwarf")))
}
