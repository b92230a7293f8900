package rwdb

import (
	"strings"
	"unicode"
)

type Role string

const (
	RoleMaster Role = "master"
	RoleSlave  Role = "slave"
)

// chooseEndpoint returns the endpoint a statement is sent to.
func (c *Client) chooseEndpoint(query string, useMaster bool) *endpoint {
	if c.slave == nil {
		return c.master
	}
	if useMaster {
		return c.master
	}
	if isSlaveQuery(query) {
		return c.slave
	}
	return c.master
}

// roleOf compares by identity: inside a transaction the slave handle is the master.
func (c *Client) roleOf(ep *endpoint) Role {
	if ep == c.master {
		return RoleMaster
	}
	return RoleSlave
}

// isSlaveQuery reports whether query may run on a read replica.
// SELECT ... INTO OUTFILE/DUMPFILE writes on the server host and stays on the master.
func isSlaveQuery(query string) bool {
	trimmed := strings.TrimLeftFunc(query, unicode.IsSpace)
	if !hasPrefixFold(trimmed, "select ") {
		return false
	}
	return !isSelectIntoQuery(query)
}

func isSelectIntoQuery(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "into outfile") || strings.Contains(lower, "into dumpfile")
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
