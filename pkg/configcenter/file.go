package configcenter

import (
	"context"
	"io/ioutil"
	"path"
	"path/filepath"
	"sort"

	"github.com/gmodb/rwdb/pkg/config"
	"github.com/pingcap/errors"
)

// FileConfigCenter reads cluster configs from the *.yaml files of a directory once, at creation.
type FileConfigCenter struct {
	dir   string
	cfgs  map[string]*config.Cluster // key: cluster name
	paths map[string]string          // key: cluster name, value: config file path
}

func CreateFileConfigCenter(dir string) (*FileConfigCenter, error) {
	yamlFiles, err := listAllYamlFiles(dir)
	if err != nil {
		return nil, err
	}

	c := newFileConfigCenter(dir)

	for _, yamlFile := range yamlFiles {
		fileData, err := ioutil.ReadFile(yamlFile)
		if err != nil {
			return nil, err
		}
		cfg, err := config.UnmarshalClusterConfig(fileData)
		if err != nil {
			return nil, errors.WithMessage(err, "parse "+yamlFile)
		}
		if prev, ok := c.paths[cfg.Name]; ok {
			return nil, errors.Errorf("cluster %s is defined in both %s and %s", cfg.Name, prev, yamlFile)
		}
		c.cfgs[cfg.Name] = cfg
		c.paths[cfg.Name] = yamlFile
	}

	return c, nil
}

func newFileConfigCenter(dir string) *FileConfigCenter {
	return &FileConfigCenter{
		dir:   dir,
		cfgs:  make(map[string]*config.Cluster),
		paths: make(map[string]string),
	}
}

func listAllYamlFiles(dir string) ([]string, error) {
	infos, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ret []string
	for _, info := range infos {
		fileName := info.Name()
		if ext := path.Ext(fileName); ext == ".yaml" || ext == ".yml" {
			ret = append(ret, filepath.Join(dir, fileName))
		}
	}

	return ret, nil
}

func (f *FileConfigCenter) GetCluster(ctx context.Context, name string) (*config.Cluster, error) {
	cfg, ok := f.cfgs[name]
	if !ok {
		return nil, errors.WithMessage(ErrClusterNotFound, name)
	}
	return cfg, nil
}

// ListAllClusters returns the clusters ordered by name.
func (f *FileConfigCenter) ListAllClusters(ctx context.Context) ([]*config.Cluster, error) {
	ret := make([]*config.Cluster, 0, len(f.cfgs))
	for _, cfg := range f.cfgs {
		ret = append(ret, cfg)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret, nil
}

func (f *FileConfigCenter) Close() {}
