package configcenter

import (
	"context"
	"path"
	"time"

	"github.com/gmodb/rwdb/pkg/config"
	"github.com/gmodb/rwdb/pkg/util/logutil"
	"github.com/pingcap/errors"
	"go.etcd.io/etcd/clientv3"
	"go.etcd.io/etcd/mvcc/mvccpb"
	"go.uber.org/zap"
)

const (
	DefaultEtcdDialTimeout = 3 * time.Second
)

type EtcdConfigCenter struct {
	etcdClient  *clientv3.Client
	kv          clientv3.KV
	basePath    string
	strictParse bool
}

func CreateEtcdConfigCenter(cfg config.ConfigEtcd) (*EtcdConfigCenter, error) {
	etcdConfig := clientv3.Config{
		Endpoints:   cfg.Addrs,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DialTimeout: DefaultEtcdDialTimeout,
	}
	etcdClient, err := clientv3.New(etcdConfig)
	if err != nil {
		return nil, errors.WithMessage(err, "create etcd config center error")
	}

	return NewEtcdConfigCenter(etcdClient, cfg.BasePath, cfg.StrictParse), nil
}

func NewEtcdConfigCenter(etcdClient *clientv3.Client, basePath string, strictParse bool) *EtcdConfigCenter {
	return &EtcdConfigCenter{
		etcdClient:  etcdClient,
		kv:          clientv3.NewKV(etcdClient),
		basePath:    basePath,
		strictParse: strictParse,
	}
}

func (e *EtcdConfigCenter) get(ctx context.Context, name string) (*mvccpb.KeyValue, error) {
	resp, err := e.kv.Get(ctx, getClusterPath(e.basePath, name))
	if err != nil {
		return nil, err
	}
	if len(resp.Kvs) == 0 {
		return nil, errors.WithMessage(ErrClusterNotFound, name)
	}
	return resp.Kvs[0], nil
}

func (e *EtcdConfigCenter) list(ctx context.Context) ([]*mvccpb.KeyValue, error) {
	baseDir := appendSlashToDirPath(e.basePath)
	resp, err := e.kv.Get(ctx, baseDir, clientv3.WithPrefix(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, err
	}
	return resp.Kvs, nil
}

func (e *EtcdConfigCenter) GetCluster(ctx context.Context, name string) (*config.Cluster, error) {
	etcdKeyValue, err := e.get(ctx, name)
	if err != nil {
		return nil, err
	}
	return config.UnmarshalClusterConfig(etcdKeyValue.Value)
}

// ListAllClusters returns the clusters under the base path. Unparsable values fail the call
// in strict mode and are skipped otherwise.
func (e *EtcdConfigCenter) ListAllClusters(ctx context.Context) ([]*config.Cluster, error) {
	etcdKeyValues, err := e.list(ctx)
	if err != nil {
		return nil, err
	}

	var ret []*config.Cluster
	for _, kv := range etcdKeyValues {
		cfg, err := config.UnmarshalClusterConfig(kv.Value)
		if err != nil {
			if e.strictParse {
				return nil, err
			}
			logutil.BgLogger().Warn("parse cluster config error", zap.Error(err), zap.ByteString("cluster", kv.Key))
			continue
		}
		ret = append(ret, cfg)
	}

	return ret, nil
}

func (e *EtcdConfigCenter) SetCluster(ctx context.Context, cfg *config.Cluster) error {
	value, err := config.MarshalClusterConfig(cfg)
	if err != nil {
		return err
	}
	_, err = e.kv.Put(ctx, getClusterPath(e.basePath, cfg.Name), string(value))
	return err
}

func (e *EtcdConfigCenter) DelCluster(ctx context.Context, name string) error {
	_, err := e.kv.Delete(ctx, getClusterPath(e.basePath, name))
	return err
}

func (e *EtcdConfigCenter) Close() {
	if err := e.etcdClient.Close(); err != nil {
		logutil.BgLogger().Error("close etcd client error", zap.Error(err))
	}
}

func getClusterPath(basePath, name string) string {
	return path.Join(basePath, name)
}

// avoid base dir path prefix equal
func appendSlashToDirPath(dir string) string {
	if len(dir) == 0 {
		return ""
	}
	if dir[len(dir)-1] == '/' {
		return dir
	}
	return dir + "/"
}
