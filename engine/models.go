// Package engine implements the matching and recommendation core: pairwise
// profile similarity, candidate filtering and ranking, diversity injection,
// and mutual-match detection. Everything here is a pure function over
// in-memory inputs; callers own persistence, auth and delivery.
package engine

import "time"

// Action is the kind of a recorded interaction.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionView    Action = "view"
)

// Profile is an immutable snapshot of a user's matching attributes.
// A profile with Complete unset is never scored or offered as a candidate.
type Profile struct {
	City     string
	District string

	Position string
	Company  string

	Degree string
	School string
	Major  string

	Interests []string
	Traits    []string

	AboutMe    string
	LookingFor string

	Complete bool
}

// Candidate pairs a stable user identity with its profile snapshot.
// Profile may be nil when the user has not completed one.
type Candidate struct {
	UserID  int
	Profile *Profile
}

// Interaction records one directed action of a user toward another.
// Interactions are append-only; the engine only ever derives sets from them.
type Interaction struct {
	ActorID   int
	TargetID  int
	Action    Action
	SessionID string
	CreatedAt time.Time
}

// IDSet is a set of user IDs.
type IDSet map[int]struct{}

// NewIDSet builds a set from the given IDs.
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Add(id int) { s[id] = struct{}{} }

func (s IDSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// ExclusionSet derives the IDs a user must not be recommended again: the
// union of every approve and reject target over the full history. A later
// action never un-excludes an earlier one.
func ExclusionSet(history []Interaction) IDSet {
	s := make(IDSet)
	for _, it := range history {
		if it.Action == ActionApprove || it.Action == ActionReject {
			s.Add(it.TargetID)
		}
	}
	return s
}

// ApprovedSet derives the IDs a user has approved at any point in history.
func ApprovedSet(history []Interaction) IDSet {
	s := make(IDSet)
	for _, it := range history {
		if it.Action == ActionApprove {
			s.Add(it.TargetID)
		}
	}
	return s
}
