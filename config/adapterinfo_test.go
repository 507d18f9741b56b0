package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInfoFilesDir = "./test/adapter-info"

type fakeInfoReader map[string]string

func (r fakeInfoReader) Read(network string) ([]byte, error) {
	if data, ok := r[network]; ok {
		return []byte(data), nil
	}
	return nil, errors.New("not found")
}

func TestLoadAdapterInfoFromDisk(t *testing.T) {
	adapterConfigs := map[string]Adapter{"someadapter": {Enabled: true}}

	infos, err := LoadAdapterInfoFromDisk(testInfoFilesDir, adapterConfigs, []string{"someAdapter"})
	require.NoError(t, err)

	expected := AdapterInfos{
		"someAdapter": {
			Enabled:    true,
			Maintainer: &MaintainerInfo{Email: "some-email@domain.com"},
			Formats:    []string{"interstitial", "rewarded"},
			Parameters: []ParameterInfo{
				{Name: "mediaId", Required: true},
				{Name: "testMode", Required: false},
			},
		},
	}
	assert.Equal(t, expected, infos)
}

func TestLoadAdapterInfoErrors(t *testing.T) {
	testCases := []struct {
		desc   string
		reader fakeInfoReader
	}{
		{desc: "missing file", reader: fakeInfoReader{}},
		{desc: "malformed yaml", reader: fakeInfoReader{"maio": "maintainer: [unclosed"}},
	}

	for _, test := range testCases {
		_, err := loadAdapterInfo(test.reader, nil, []string{"maio"})
		assert.Error(t, err, test.desc)
	}
}

func TestLoadAdapterInfoDisabled(t *testing.T) {
	reader := fakeInfoReader{"maio": "maintainer:\n  email: sdk@maio.example\n"}

	infos, err := loadAdapterInfo(reader, map[string]Adapter{"maio": {Enabled: false}}, []string{"maio"})
	require.NoError(t, err)
	assert.False(t, infos["maio"].Enabled)
	assert.Equal(t, "sdk@maio.example", infos["maio"].Maintainer.Email)
}
