package specfile

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules(t *testing.T) {
	const doc = `
ignore:
  - epics-base
aliases:
  geminiseq: seq
specFiles:
  ADCore: adcore
`
	rules, err := ParseRules(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"epics-base"}, rules.Ignore)
	assert.Equal(t, "seq", rules.Aliases["geminiseq"])
	assert.Equal(t, "pcre", rules.Aliases["geminipcre"], "default aliases are kept")
	assert.Equal(t, "adcore", rules.SpecFiles["ADCore"])
	assert.Equal(t, "agSeq", rules.SpecFiles["agseq"])
	assert.Equal(t, []string{"-devel"}, rules.StripSuffixes)
}

func TestParseRulesEmpty(t *testing.T) {
	rules, err := ParseRules(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)
}

func TestParseRulesUnknownField(t *testing.T) {
	_, err := ParseRules(strings.NewReader("ignores: [a]\n"))
	assert.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "rules.yaml", []byte("stripSuffixes: [\"-devel\", \"-static\"]\n"), 0o644))

	rules, err := LoadRules(fsys, "rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"-devel", "-static"}, rules.StripSuffixes)

	rules, err = LoadRules(fsys, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)

	_, err = LoadRules(fsys, "missing.yaml")
	assert.Error(t, err)
}
