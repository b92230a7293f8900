package cluster

import (
	"sort"
	"sync"

	"github.com/gmodb/rwdb/pkg/config"
	"github.com/gmodb/rwdb/pkg/rwdb"
)

// Cluster is a connected client together with the config it was built from.
type Cluster struct {
	cfg    *config.Cluster
	client *rwdb.Client
	// mu serializes statements on client, which is not safe for concurrent use.
	mu sync.Mutex
}

func (c *Cluster) Name() string {
	return c.cfg.Name
}

func (c *Cluster) Config() *config.Cluster {
	return c.cfg
}

// Do runs fn with exclusive use of the cluster client.
func (c *Cluster) Do(fn func(client *rwdb.Client) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.client)
}

func (c *Cluster) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client.Close()
}

// Holder is an immutable snapshot of the clusters by name.
type Holder struct {
	clusters map[string]*Cluster
}

func NewHolder() *Holder {
	return &Holder{clusters: make(map[string]*Cluster)}
}

func (h *Holder) Get(name string) (*Cluster, bool) {
	c, ok := h.clusters[name]
	return c, ok
}

// Names returns the cluster names in ascending order.
func (h *Holder) Names() []string {
	names := make([]string, 0, len(h.clusters))
	for name := range h.clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *Holder) Len() int {
	return len(h.clusters)
}

func (h *Holder) clone() *Holder {
	ret := NewHolder()
	for name, c := range h.clusters {
		ret.clusters[name] = c
	}
	return ret
}
