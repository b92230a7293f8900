package driver

import (
	"net"
	"strconv"
)

const DefaultPort = 3306

// Descriptor holds the credentials and location of one database endpoint.
// It is immutable once built; WithSlave returns a copy.
type Descriptor struct {
	host     string
	port     int
	user     string
	password string
	schema   string
	slave    *Descriptor
}

func NewDescriptor(host string, port int, user, password, schema string) *Descriptor {
	if port == 0 {
		port = DefaultPort
	}
	return &Descriptor{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		schema:   schema,
	}
}

// WithSlave returns a copy of d that references slave as its read replica.
// Only one level of slave is kept.
func (d *Descriptor) WithSlave(slave *Descriptor) *Descriptor {
	ret := *d
	if slave != nil {
		s := *slave
		s.slave = nil
		ret.slave = &s
	} else {
		ret.slave = nil
	}
	return &ret
}

func (d *Descriptor) Host() string       { return d.host }
func (d *Descriptor) Port() int          { return d.port }
func (d *Descriptor) User() string       { return d.user }
func (d *Descriptor) Password() string   { return d.password }
func (d *Descriptor) Schema() string     { return d.schema }
func (d *Descriptor) Slave() *Descriptor { return d.slave }

func (d *Descriptor) Addr() string {
	return net.JoinHostPort(d.host, strconv.Itoa(d.port))
}
