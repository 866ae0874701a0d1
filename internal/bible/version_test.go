package bible

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestVersions(t *testing.T) {
	all := Versions()
	require.Len(t, all, 16)
	assert.Equal(t, KoreanRevised, all[0])
	assert.Equal(t, DefaultVersion, KoreanRevised)

	keys := make(map[rune]Version)
	for _, v := range all {
		assert.True(t, v.Valid())
		prev, dup := keys[v.Key()]
		assert.False(t, dup, "key %q bound to %s and %s", v.Key(), prev, v)
		keys[v.Key()] = v
	}
}

func TestParseVersion(t *testing.T) {
	t.Run("korean name", func(t *testing.T) {
		v, err := ParseVersion("개역개정")
		require.NoError(t, err)
		assert.Equal(t, RevisedNewKorean, v)
	})

	t.Run("latin name ignores case", func(t *testing.T) {
		v, err := ParseVersion("nkjv")
		require.NoError(t, err)
		assert.Equal(t, NKJV, v)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := ParseVersion("KJV1611")
		assert.True(t, errors.Is(err, ErrUnknownVersion))
	})
}

func TestVersionForKey(t *testing.T) {
	v, ok := VersionForKey('r')
	require.True(t, ok)
	assert.Equal(t, KoreanRevised, v)

	v, ok = VersionForKey('N')
	require.True(t, ok, "shifted key resolves to the same version")
	assert.Equal(t, NIV2011, v)

	_, ok = VersionForKey('1')
	assert.False(t, ok)
}

func TestVersionText(t *testing.T) {
	type doc struct {
		Version Version `yaml:"version"`
	}

	out, err := yaml.Marshal(doc{Version: NewKoreanStandard})
	require.NoError(t, err)
	assert.Contains(t, string(out), "새번역")

	var back doc
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, NewKoreanStandard, back.Version)

	_, err = VersionUnknown.MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Version(0)", VersionUnknown.String())
}
