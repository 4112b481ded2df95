package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

func (j JoinType) Keyword() string {
	switch j {
	case JoinLeft:
		return "LEFT JOIN"
	case JoinRight:
		return "RIGHT JOIN"
	case JoinFull:
		return "FULL JOIN"
	case JoinCross:
		return "CROSS JOIN"
	default:
		return "INNER JOIN"
	}
}

// ----- Join conditions: singly-linked list with rolling fingerprint -----

type JoinConditionNode struct {
	Condition Node
	Operator  string
	Next      *JoinConditionNode

	acc uint64 // chain fingerprint up to this node
}

type JoinCondition struct {
	First *JoinConditionNode
	Tail  *JoinConditionNode
}

func (c *JoinCondition) Append(op string, cond Node) *JoinConditionNode {
	n := &JoinConditionNode{Operator: op, Condition: cond}
	fp := utils.NewHasher("on").String(op).U64(fingerprintOf(cond)).Sum()

	if c.First == nil {
		n.acc = utils.Mix64(0x9e3779b185ebca87, fp)
		c.First, c.Tail = n, n
		return n
	}
	n.acc = utils.Mix64(c.Tail.acc, fp)
	c.Tail.Next = n
	c.Tail = n
	return n
}

func (c *JoinCondition) Fingerprint() uint64 {
	if c == nil || c.Tail == nil {
		return 0
	}
	return c.Tail.acc
}

// ----- JoinClause -----

type JoinClause struct {
	JoinType   JoinType
	Table      *Table
	Conditions *JoinCondition
}

func NewJoinClause(joinType JoinType, table *Table) *JoinClause {
	return &JoinClause{JoinType: joinType, Table: table}
}

// On appends a condition joined with AND.
func (j *JoinClause) On(cond Node) *JoinClause {
	if j.Conditions == nil {
		j.Conditions = &JoinCondition{}
	}
	j.Conditions.Append(OpAnd, cond)
	return j
}

func (j *JoinClause) Type() NodeType         { return NodeJoin }
func (j *JoinClause) Accept(v Visitor) error { return v.VisitJoinClause(j) }

func (j *JoinClause) Fingerprint() uint64 {
	fp := utils.NewHasher("join").Int(int(j.JoinType)).Sum()
	if j.Table != nil {
		fp = utils.Mix64(fp, j.Table.Fingerprint())
	}
	if j.Conditions != nil {
		fp = utils.Mix64(fp, j.Conditions.Fingerprint())
	}
	return fp
}
