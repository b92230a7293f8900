/*
Package rwdb is a small SQL client that sends reads to a slave and everything else to a master.

A Client owns exactly two connections, opened eagerly from a driver.Descriptor: one to the master and,
when the descriptor references one, one to its slave. Each statement is routed by a lexical rule:

	no slave or UseMaster          -> master
	starts with "select "          -> slave, unless it contains "into outfile" or "into dumpfile"
	anything else                  -> master

# Parameters

Positional "?" placeholders bind one parameter each. A "??" marker binds a slice parameter and is
expanded to one "?" per element, which makes IN lists easy to write:

	rows, err := db.Execute(ctx, "SELECT * FROM foo WHERE id IN (??) AND color = ?", []int{1, 2, 3}, "blue")

# Per call options

Options that used to be one-shot flags are values. UseMaster and WithNoLock return a Querier carrying
the options for the calls made through it, and leave the Client untouched:

	name, err := db.UseMaster().SingleValue(ctx, "SELECT name FROM users WHERE id = ?", id)

# Transactions

Transaction runs a callback with auto-commit disabled on the master and with reads routed to the master.
A Client is not safe for concurrent use; use one Client per goroutine or serialize access.
*/
package rwdb
