package ast

type NodeType int

const (
	NodeSelect NodeType = iota
	NodeInsert
	NodeUpdate
	NodeDelete
	NodeCreateTable
	NodeColumn
	NodeTable
	NodeValue
	NodeArray
	NodeFunction
	NodeGroupedExpr
	NodeBinaryExpr
	NodeUnaryExpr
	NodeBetweenExpr
	NodeSubqueryExpr
	NodeWhere
	NodeJoin
	NodeGroupBy
	NodeOrderBy
	NodeLimit
)

// Node is a SQL syntax tree element. Nodes are treated as immutable once
// handed to a visitor; fingerprints identify structurally equal trees.
type Node interface {
	Type() NodeType
	Accept(v Visitor) error
	Fingerprint() uint64
}

func fingerprintOf(n Node) uint64 {
	if n == nil {
		return 0
	}
	return n.Fingerprint()
}
