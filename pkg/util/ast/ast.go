package ast

import (
	"strings"

	"github.com/pingcap/parser"
	"github.com/pingcap/parser/ast"
	"github.com/pingcap/parser/format"
	driver "github.com/pingcap/tidb/types/parser_driver"
)

const (
	KindDDL   = "ddl"
	KindDML   = "dml"
	KindOther = "other"
)

// Statement is one statement of a parsed script.
type Statement struct {
	Text string
	// Table is the first table the statement refers to, if any.
	Table string
	Kind  string
	// Fingerprint is the statement with literal values replaced by "?".
	Fingerprint string
}

// Split parses sql and returns its statements in order.
func Split(sql string) ([]*Statement, error) {
	nodes, _, err := parser.New().Parse(sql, "", "")
	if err != nil {
		return nil, err
	}

	stmts := make([]*Statement, 0, len(nodes))
	for _, node := range nodes {
		text := strings.Trim(node.Text(), " \t\r\n;")
		if text == "" {
			continue
		}
		stmt := &Statement{
			Text:  text,
			Table: ExtractFirstTableName(node),
			Kind:  kindOf(node),
		}
		// fingerprinting rewrites literals in place, so it runs last
		if fp, err := Fingerprint(node); err == nil {
			stmt.Fingerprint = fp
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func kindOf(node ast.StmtNode) string {
	switch node.(type) {
	case ast.DDLNode:
		return KindDDL
	case ast.DMLNode:
		return KindDML
	default:
		return KindOther
	}
}

type firstTableNameVisitor struct {
	table string
	found bool
}

func (f *firstTableNameVisitor) Enter(n ast.Node) (node ast.Node, skipChildren bool) {
	switch nn := n.(type) {
	case *ast.TableName:
		f.table = nn.Name.String()
		f.found = true
		return n, true
	}
	return n, false
}

func (f *firstTableNameVisitor) Leave(n ast.Node) (node ast.Node, ok bool) {
	return n, !f.found
}

func ExtractFirstTableName(stmt ast.StmtNode) string {
	visitor := &firstTableNameVisitor{}
	stmt.Accept(visitor)
	return visitor.table
}

type fingerprintVisitor struct{}

func (f *fingerprintVisitor) Enter(n ast.Node) (node ast.Node, skipChildren bool) {
	switch nn := n.(type) {
	case *ast.PatternInExpr:
		if len(nn.List) == 0 {
			return nn, false
		}
		if _, ok := nn.List[0].(*driver.ValueExpr); ok {
			nn.List = nn.List[:1]
		}
	case *driver.ValueExpr:
		nn.SetValue("?")
	}
	return n, false
}

func (f *fingerprintVisitor) Leave(n ast.Node) (node ast.Node, ok bool) {
	return n, true
}

// Fingerprint replaces the literal values of stmt with "?" and collapses IN lists,
// then restores it to text. stmt is modified.
func Fingerprint(stmt ast.StmtNode) (string, error) {
	stmt.Accept(&fingerprintVisitor{})

	sb := strings.Builder{}
	if err := stmt.Restore(format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)); err != nil {
		return "", err
	}
	return sb.String(), nil
}
