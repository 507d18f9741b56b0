package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// AdapterInfos contains a mapping of network name to adapter info.
type AdapterInfos map[string]AdapterInfo

// AdapterInfo is the static metadata published for an adapter, read from <network>.yaml.
type AdapterInfo struct {
	Enabled    bool            // copied from adapter config for convenience.
	Maintainer *MaintainerInfo `yaml:"maintainer" json:"maintainer,omitempty"`
	// Formats lists the ad formats the network serves, e.g. interstitial or rewarded.
	Formats []string `yaml:"formats" json:"formats,omitempty"`
	// Parameters documents the initialization parameters the network reads.
	Parameters []ParameterInfo `yaml:"parameters" json:"parameters,omitempty"`
}

// MaintainerInfo specifies the support email address for an adapter.
type MaintainerInfo struct {
	Email string `yaml:"email" json:"email"`
}

// ParameterInfo describes one initialization parameter.
type ParameterInfo struct {
	Name     string `yaml:"name" json:"name"`
	Required bool   `yaml:"required" json:"required"`
}

// LoadAdapterInfoFromDisk parses the metadata file of every named network found under path.
func LoadAdapterInfoFromDisk(path string, adapterConfigs map[string]Adapter, networks []string) (AdapterInfos, error) {
	reader := infoReaderFromDisk{path}
	return loadAdapterInfo(reader, adapterConfigs, networks)
}

func loadAdapterInfo(r infoReader, adapterConfigs map[string]Adapter, networks []string) (AdapterInfos, error) {
	infos := AdapterInfos{}

	for _, network := range networks {
		data, err := r.Read(network)
		if err != nil {
			return nil, err
		}

		info := AdapterInfo{}
		if err := yaml.Unmarshal(data, &info); err != nil {
			return nil, fmt.Errorf("error parsing yaml for adapter %s: %v", network, err)
		}

		info.Enabled = isEnabledByConfig(adapterConfigs, network)
		infos[network] = info
	}

	return infos, nil
}

func isEnabledByConfig(adapterConfigs map[string]Adapter, network string) bool {
	a, ok := adapterConfigs[strings.ToLower(network)]
	return ok && a.Enabled
}

type infoReader interface {
	Read(network string) ([]byte, error)
}

type infoReaderFromDisk struct {
	path string
}

func (r infoReaderFromDisk) Read(network string) ([]byte, error) {
	path := fmt.Sprintf("%v/%v.yaml", r.path, network)
	return os.ReadFile(path)
}
