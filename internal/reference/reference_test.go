package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d := Default()

	assert.Len(t, d.States, 37)
	assert.Equal(t, "FCT", d.States[len(d.States)-1])
	assert.Len(t, d.LGAs, 20)
	assert.Equal(t, []string{"Website", "Social media", "Referral", "Trade Fair/Summit", "Others"}, d.HowHeard)
	assert.Equal(t, []string{"Title Documents", "Land Acquisition", "Permits", "Regulatory Approvals", "Others"}, d.FacilitationServices)
	assert.True(t, d.Contains(KindCountries, "Nigeria"))
	assert.False(t, d.Contains(KindCountries, "Atlantis"))
	assert.Nil(t, d.List(Kind("planets")))
}

func TestParseRejectsEmptyList(t *testing.T) {
	_, err := Parse([]byte("states: [Ogun]\ncountries: [Nigeria]\nlgas: []\nfacilitation_services: [Permits]\nhow_heard: [Website]\n"))
	assert.ErrorContains(t, err, `"lgas" is empty`)
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("states: [unterminated"))
	assert.ErrorContains(t, err, "decode reference data")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.yaml")
	content := "states: [Ogun]\ncountries: [Nigeria]\nlgas: [Ifo]\nfacilitation_services: [Permits]\nhow_heard: [Referral, Others]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ifo"}, d.LGAs)

	same, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), same)
}
