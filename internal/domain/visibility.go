package domain

// Visibility is the access tier of a pheme. The enum is open: tiers the
// service does not know about fall back to owner-only reads, so a newer
// writer cannot accidentally widen access through an older reader.
type Visibility byte

const (
	VisibilityPrivate   Visibility = 0 // owner only
	VisibilityProtected Visibility = 1 // owner and friends
	VisibilityPublic    Visibility = 2 // any authenticated user
)

// Relation describes how a reader relates to a pheme's owner.
type Relation int

const (
	RelationNone Relation = iota
	RelationFollower
	RelationFriend
	RelationOwner
)

// readPolicy maps each known tier to the weakest relation allowed to read it.
var readPolicy = map[Visibility]Relation{
	VisibilityPrivate:   RelationOwner,
	VisibilityProtected: RelationFriend,
	VisibilityPublic:    RelationNone,
}

// ReadableBy reports whether a reader with the given relation to the owner
// may read a pheme of this tier.
func (v Visibility) ReadableBy(rel Relation) bool {
	min, ok := readPolicy[v]
	if !ok {
		return rel == RelationOwner
	}
	return rel >= min
}

// VisibilityFloor returns the lowest tier the given relation may list when
// browsing another user's phemes. The owner sees everything.
func VisibilityFloor(rel Relation) Visibility {
	switch rel {
	case RelationOwner:
		return VisibilityPrivate
	case RelationFriend:
		return VisibilityProtected
	default:
		return VisibilityPublic
	}
}
