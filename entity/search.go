package entity

import (
	"github.com/Konsultn-Engineering/querystudy/ast"
	"github.com/Konsultn-Engineering/querystudy/predicate"
	"github.com/Konsultn-Engineering/querystudy/query"
)

// MemberSearch carries the optional filters of a member search. A nil field
// does not filter.
type MemberSearch struct {
	Username *string `json:"username,omitempty" form:"username"`
	TeamName *string `json:"teamName,omitempty" form:"teamName"`
	Age      *int    `json:"age,omitempty" form:"age"`
	AgeGoe   *int    `json:"ageGoe,omitempty" form:"ageGoe"`
	AgeLoe   *int    `json:"ageLoe,omitempty" form:"ageLoe"`
}

// SearchPredicate composes the present filters with AND. An empty search
// yields predicate.Empty.
func SearchPredicate(cond MemberSearch) predicate.Predicate {
	return predicate.All(
		QMember.Username.EqPtr(cond.Username),
		QTeam.Name.EqPtr(cond.TeamName),
		QMember.Age.EqPtr(cond.Age),
		QMember.Age.GoePtr(cond.AgeGoe),
		QMember.Age.LoePtr(cond.AgeLoe),
	)
}

// SearchQuery selects members matching cond, joined to their team when
// the team name is filtered on, ordered by id.
func SearchQuery(cond MemberSearch) *query.SelectBuilder {
	sb := query.SelectFrom(MemberMeta)
	if cond.TeamName != nil {
		sb.JoinEntity(ast.JoinInner, TeamMeta).OnFields(QMember.TeamID, QTeam.ID)
	}
	return sb.Where(SearchPredicate(cond)).OrderBy(QMember.ID, false)
}
