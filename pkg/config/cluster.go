package config

import (
	"github.com/gmodb/rwdb/pkg/driver"
)

// Cluster describes one master database and its optional read slave.
type Cluster struct {
	Version string    `yaml:"version"`
	Name    string    `yaml:"name"`
	Driver  string    `yaml:"driver"`
	Master  Endpoint  `yaml:"master"`
	Slave   *Endpoint `yaml:"slave,omitempty"`
}

type Endpoint struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Schema   string `yaml:"schema"`
}

func (e Endpoint) descriptor() *driver.Descriptor {
	return driver.NewDescriptor(e.Host, e.Port, e.Username, e.Password, e.Schema)
}

// Descriptor builds the connection descriptor of the cluster master,
// with the slave attached when one is configured.
func (c *Cluster) Descriptor() *driver.Descriptor {
	desc := c.Master.descriptor()
	if c.Slave != nil {
		desc = desc.WithSlave(c.Slave.descriptor())
	}
	return desc
}
