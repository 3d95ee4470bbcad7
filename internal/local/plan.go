package local

import (
	"shopkeeper/internal/entity"
)

// Finder is the part of a store cache the planner needs.
type Finder interface {
	FindByHandle(t entity.Type, handle string) (*entity.Entity, bool)
}

type Match struct {
	Local  *entity.Entity
	Remote *entity.Entity
}

// Plan splits declared records into those the store already has and those
// it still needs.
type Plan struct {
	Existing []Match
	New      []*entity.Entity
}

func (p Plan) Counts() map[string]int {
	return map[string]int{
		"Existing": len(p.Existing),
		"New":      len(p.New),
	}
}

// PlanEntities matches locals against the remote records by handle. Types
// without handles are always new.
func PlanEntities(locals []*entity.Entity, remote Finder) Plan {
	var plan Plan
	for _, l := range locals {
		if l.Type.Handleable() && l.Handle != "" {
			if r, ok := remote.FindByHandle(l.Type, l.Handle); ok {
				plan.Existing = append(plan.Existing, Match{Local: l, Remote: r})
				continue
			}
		}
		plan.New = append(plan.New, l)
	}
	return plan
}
