package config

import "github.com/goccy/go-yaml"

func UnmarshalClusterConfig(data []byte) (*Cluster, error) {
	var cfg Cluster
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MarshalClusterConfig(cfg *Cluster) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func UnmarshalToolConfig(data []byte) (*Tool, error) {
	var cfg Tool
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MarshalToolConfig(cfg *Tool) ([]byte, error) {
	return yaml.Marshal(cfg)
}
