package cluster

import (
	"context"
	"sync"

	"github.com/gmodb/rwdb/pkg/backend"
	"github.com/gmodb/rwdb/pkg/config"
	"github.com/gmodb/rwdb/pkg/rwdb"
	"github.com/gmodb/rwdb/pkg/util/logutil"
	"github.com/gmodb/rwdb/pkg/util/sync2"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

var ErrClusterNotFound = errors.New("cluster not found")

// Builder connects the client of a cluster config.
type Builder func(ctx context.Context, cfg *config.Cluster) (*rwdb.Client, error)

// DefaultBuilder picks the connector by cfg.Driver and connects to the cluster descriptor.
func DefaultBuilder(ctx context.Context, cfg *config.Cluster) (*rwdb.Client, error) {
	connector, err := backend.NewConnector(cfg.Driver)
	if err != nil {
		return nil, err
	}
	return rwdb.New(ctx, connector, cfg.Descriptor(), rwdb.WithName(cfg.Name))
}

// Manager owns the connected clusters. Reloads are two phase: PrepareReload connects
// the new client beside the current one, CommitReload switches to it and closes the old one.
type Manager struct {
	holders *sync2.Toggle[*Holder]
	build   Builder

	reloadLock     sync.Mutex
	reloadPrepared map[string]*Cluster
}

func CreateManager(ctx context.Context, cfgs []*config.Cluster, build Builder) (*Manager, error) {
	holder := NewHolder()
	for _, cfg := range cfgs {
		if _, ok := holder.clusters[cfg.Name]; ok {
			closeHolder(holder)
			return nil, errors.Errorf("duplicate cluster: %s", cfg.Name)
		}
		client, err := build(ctx, cfg)
		if err != nil {
			closeHolder(holder)
			return nil, errors.WithMessage(err, "build cluster "+cfg.Name)
		}
		holder.clusters[cfg.Name] = &Cluster{cfg: cfg, client: client}
	}
	return NewManager(holder, build), nil
}

func NewManager(holder *Holder, build Builder) *Manager {
	return &Manager{
		holders:        sync2.NewToggle(holder),
		build:          build,
		reloadPrepared: make(map[string]*Cluster),
	}
}

func (m *Manager) Get(name string) (*Cluster, error) {
	c, ok := m.holders.Current().Get(name)
	if !ok {
		return nil, errors.WithMessage(ErrClusterNotFound, name)
	}
	return c, nil
}

func (m *Manager) Names() []string {
	return m.holders.Current().Names()
}

// Ping checks both connections of a cluster, reconnecting when needed.
func (m *Manager) Ping(ctx context.Context, name string) error {
	c, err := m.Get(name)
	if err != nil {
		return err
	}
	return c.Do(func(client *rwdb.Client) error {
		return client.Ping(ctx)
	})
}

func (m *Manager) PrepareReload(ctx context.Context, cfg *config.Cluster) error {
	m.reloadLock.Lock()
	defer m.reloadLock.Unlock()

	client, err := m.build(ctx, cfg)
	if err != nil {
		return errors.WithMessage(err, "build cluster error")
	}

	if prev, ok := m.reloadPrepared[cfg.Name]; ok {
		prev.close()
	}
	m.reloadPrepared[cfg.Name] = &Cluster{cfg: cfg, client: client}
	m.holders.SwapOther(m.preparedHolder())
	return nil
}

// CommitReload switches the named clusters to their prepared clients and closes the old ones.
// Other prepared clusters stay prepared.
func (m *Manager) CommitReload(names []string) error {
	m.reloadLock.Lock()
	defer m.reloadLock.Unlock()

	for _, name := range names {
		if _, ok := m.reloadPrepared[name]; !ok {
			return errors.Errorf("cluster is not prepared: %s", name)
		}
	}

	old := m.holders.Current()
	next := old.clone()
	for _, name := range names {
		next.clusters[name] = m.reloadPrepared[name]
	}
	m.holders.SwapOther(next)
	if err := m.holders.Toggle(); err != nil {
		return err
	}

	for _, name := range names {
		if c, ok := old.Get(name); ok {
			c.close()
		}
		delete(m.reloadPrepared, name)
		logutil.BgLogger().Info("cluster reloaded", zap.String("cluster", name))
	}
	if len(m.reloadPrepared) > 0 {
		m.holders.SwapOther(m.preparedHolder())
	}
	return nil
}

// Remove drops a cluster and closes its client. Prepared reloads stay prepared.
func (m *Manager) Remove(name string) error {
	m.reloadLock.Lock()
	defer m.reloadLock.Unlock()

	current := m.holders.Current()
	c, ok := current.Get(name)
	if !ok {
		return errors.WithMessage(ErrClusterNotFound, name)
	}

	next := current.clone()
	delete(next.clusters, name)
	m.holders.SwapOther(next)
	if err := m.holders.Toggle(); err != nil {
		return err
	}
	c.close()

	if len(m.reloadPrepared) > 0 {
		m.holders.SwapOther(m.preparedHolder())
	}
	return nil
}

// Close closes every current and prepared client.
func (m *Manager) Close() {
	m.reloadLock.Lock()
	defer m.reloadLock.Unlock()

	closeHolder(m.holders.Current())
	for _, c := range m.reloadPrepared {
		c.close()
	}
	m.reloadPrepared = make(map[string]*Cluster)
}

func (m *Manager) preparedHolder() *Holder {
	next := m.holders.Current().clone()
	for name, c := range m.reloadPrepared {
		next.clusters[name] = c
	}
	return next
}

func closeHolder(h *Holder) {
	for _, c := range h.clusters {
		c.close()
	}
}
