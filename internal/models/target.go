package models

import "fmt"

// TargetKind names something that can be liked or commented on.
type TargetKind string

const (
	TargetPost  TargetKind = "post"
	TargetSplit TargetKind = "split"
)

// Target is a tagged reference to exactly one likeable entity.
type Target struct {
	Kind TargetKind
	ID   uint
}

// PostTarget returns a Target for a post.
func PostTarget(id uint) Target { return Target{Kind: TargetPost, ID: id} }

// SplitTarget returns a Target for a split.
func SplitTarget(id uint) Target { return Target{Kind: TargetSplit, ID: id} }

// ResolveTarget requires exactly one non-zero id.
func ResolveTarget(postID, splitID *uint) (Target, error) {
	hasPost := postID != nil && *postID != 0
	hasSplit := splitID != nil && *splitID != 0
	switch {
	case hasPost && hasSplit:
		return Target{}, NewValidationError("Provide either postId or splitId, not both")
	case hasPost:
		return PostTarget(*postID), nil
	case hasSplit:
		return SplitTarget(*splitID), nil
	default:
		return Target{}, NewValidationError("Either postId or splitId is required")
	}
}

// Column is the foreign-key column referencing the target.
func (t Target) Column() string {
	switch t.Kind {
	case TargetSplit:
		return "split_id"
	default:
		return "post_id"
	}
}

// Assign sets the matching pointer field pair.
func (t Target) Assign(postID, splitID **uint) {
	id := t.ID
	if t.Kind == TargetSplit {
		*splitID = &id
		return
	}
	*postID = &id
}

// Label is the human name of the target, used in error messages.
func (t Target) Label() string {
	if t.Kind == TargetSplit {
		return "Split"
	}
	return "Post"
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}
