package configcenter

import (
	"context"

	"github.com/gmodb/rwdb/pkg/config"
	"github.com/pingcap/errors"
)

const (
	ConfigCenterTypeFile = "file"
	ConfigCenterTypeEtcd = "etcd"
)

var ErrClusterNotFound = errors.New("cluster not found")

type ConfigCenter interface {
	GetCluster(ctx context.Context, name string) (*config.Cluster, error)
	ListAllClusters(ctx context.Context) ([]*config.Cluster, error)
	Close()
}

func CreateConfigCenter(cfg config.ConfigCenter) (ConfigCenter, error) {
	switch cfg.Type {
	case ConfigCenterTypeFile:
		return CreateFileConfigCenter(cfg.ConfigFile.Path)
	case ConfigCenterTypeEtcd:
		return CreateEtcdConfigCenter(cfg.ConfigEtcd)
	default:
		return nil, errors.Errorf("invalid config center type: %s", cfg.Type)
	}
}
