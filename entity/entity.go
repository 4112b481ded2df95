// Package entity holds the study schema and its typed paths.
package entity

import (
	"github.com/Konsultn-Engineering/querystudy/predicate"
	"github.com/Konsultn-Engineering/querystudy/schema"
)

type Team struct {
	ID   int64  `db:"column:team_id;primary" json:"id" yaml:"id"`
	Name string `db:"not null;unique" json:"name" yaml:"name"`
}

func (Team) TableName() string { return "teams" }

type Member struct {
	ID       int64  `db:"column:member_id;primary" json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Age      int    `json:"age" yaml:"age"`
	TeamID   *int64 `db:"fk:teams.team_id;on_delete:set null" json:"teamId,omitempty" yaml:"team_id,omitempty"`
}

func (Member) TableName() string { return "members" }

var (
	TeamMeta   = schema.MustMetaOf[Team]()
	MemberMeta = schema.MustMetaOf[Member]()
)

// QTeam and QMember are the typed paths used to filter each entity. They
// resolve at init, so a renamed field fails at startup.
var (
	QTeam = struct {
		ID   predicate.Path[int64]
		Name predicate.Path[string]
	}{
		ID:   predicate.MustPath[int64](TeamMeta, "ID"),
		Name: predicate.MustPath[string](TeamMeta, "Name"),
	}

	QMember = struct {
		ID       predicate.Path[int64]
		Username predicate.Path[string]
		Age      predicate.Path[int]
		TeamID   predicate.Path[int64]
	}{
		ID:       predicate.MustPath[int64](MemberMeta, "ID"),
		Username: predicate.MustPath[string](MemberMeta, "Username"),
		Age:      predicate.MustPath[int](MemberMeta, "Age"),
		TeamID:   predicate.MustPath[int64](MemberMeta, "TeamID"),
	}
)

// All lists the entities in creation order.
func All() []*schema.EntityMeta {
	return []*schema.EntityMeta{TeamMeta, MemberMeta}
}
