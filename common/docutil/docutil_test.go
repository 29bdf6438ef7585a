package docutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-sidetree-sdk/common/sderr"
)

func TestEncodeDecode(t *testing.T) {
	data := []byte("hello sidetree")

	encoded := EncodeToString(data)
	assert.NotContains(t, encoded, "=")

	decoded, err := DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestDecodeStringRejectsPadding(t *testing.T) {
	_, err := DecodeString("abc=")
	require.Error(t, err)
	assert.Equal(t, sderr.EncodedStringIncorrectEncoding, sderr.CodeOf(err))
}

func TestMultihashCode(t *testing.T) {
	mh, err := ComputeMultihash(Sha2_256, []byte("payload"))
	require.NoError(t, err)

	code, err := MultihashCode(EncodeToString(mh))
	require.NoError(t, err)
	assert.Equal(t, Sha2_256, code)
}

func TestMultihashCodeNotAMultihash(t *testing.T) {
	_, err := MultihashCode(EncodeToString([]byte{0xff}))
	require.Error(t, err)
	assert.Equal(t, sderr.MultihashNotSupported, sderr.CodeOf(err))
}

func TestComputeMultihashUnsupportedAlgorithm(t *testing.T) {
	// SHA1 code is 0x11, not accepted by the method.
	_, err := ComputeMultihash(0x11, []byte("payload"))
	require.Error(t, err)
	assert.Equal(t, sderr.MultihashNotSupported, sderr.CodeOf(err))
}

func TestCalculateUniqueSuffix(t *testing.T) {
	suffixData := EncodeToString([]byte(`{"delta_hash":"abc"}`))

	suffix, err := CalculateUniqueSuffix(suffixData, Sha2_256)
	require.NoError(t, err)

	// The suffix itself must be a multihash carrying the algorithm code.
	code, err := MultihashCode(suffix)
	require.NoError(t, err)
	assert.Equal(t, Sha2_256, code)

	again, err := CalculateUniqueSuffix(suffixData, Sha2_256)
	require.NoError(t, err)
	assert.Equal(t, suffix, again)
}

func TestIsComputedUsingSupportedHashAlgorithm(t *testing.T) {
	mh, err := ComputeMultihash(Sha2_256, []byte("payload"))
	require.NoError(t, err)

	assert.True(t, IsComputedUsingSupportedHashAlgorithm(EncodeToString(mh)))
	assert.False(t, IsComputedUsingSupportedHashAlgorithm("not-a-multihash!"))
	assert.False(t, IsComputedUsingSupportedHashAlgorithm(EncodeToString([]byte{0x11, 0x01, 0xab})))
}
