package model

import (
	author "library-backend/internal/domains/author/model"
	"library-backend/internal/shared/domainerr"
)

// OrderedAuthorRef pairs an author reference with its position in the
// caller-supplied name list.
type OrderedAuthorRef struct {
	ref      author.AuthorReference
	position int
}

func (r OrderedAuthorRef) Reference() author.AuthorReference {
	return r.ref
}

func (r OrderedAuthorRef) Position() int {
	return r.position
}

// AuthorList is the book's non-empty, duplicate-free author list. Input
// order is preserved through the position index regardless of the order
// the backing lookup returned references in.
type AuthorList struct {
	refs []OrderedAuthorRef
}

// NewAuthorList pairs every input name with exactly one resolved
// reference. Unmatched names and surplus references are both rejected:
// the list must account for precisely the names the caller sent.
func NewAuthorList(names []author.AuthorName, refs []author.AuthorReference) (AuthorList, error) {
	if len(names) == 0 {
		return AuthorList{}, domainerr.Validation("author list cannot be empty")
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name.String()]; dup {
			return AuthorList{}, domainerr.Validation("author list contains duplicate names")
		}
		seen[name.String()] = struct{}{}
	}

	byName := make(map[string]author.AuthorReference, len(refs))
	for _, ref := range refs {
		byName[ref.Name().String()] = ref
	}
	if len(byName) != len(refs) {
		return AuthorList{}, domainerr.Validation("author references contain duplicate names")
	}

	ordered := make([]OrderedAuthorRef, 0, len(names))
	usedIDs := make(map[author.AuthorID]struct{}, len(names))
	for idx, name := range names {
		ref, ok := byName[name.String()]
		if !ok {
			return AuthorList{}, domainerr.Validationf("author %q has no resolved reference", name.String())
		}
		if _, dup := usedIDs[ref.ID()]; dup {
			return AuthorList{}, domainerr.Validation("author list contains duplicate authors")
		}
		usedIDs[ref.ID()] = struct{}{}
		ordered = append(ordered, OrderedAuthorRef{ref: ref, position: idx})
	}

	if len(refs) > len(names) {
		return AuthorList{}, domainerr.Validation("author references do not match the requested names")
	}

	return AuthorList{refs: ordered}, nil
}

// HydrateAuthorList rebuilds a persisted list; entries arrive already
// paired with their stored position index.
func HydrateAuthorList(entries []OrderedAuthorRef) AuthorList {
	return AuthorList{refs: entries}
}

func HydrateOrderedAuthorRef(ref author.AuthorReference, position int) OrderedAuthorRef {
	return OrderedAuthorRef{ref: ref, position: position}
}

// Refs returns the entries sorted by position at construction time.
func (l AuthorList) Refs() []OrderedAuthorRef {
	return l.refs
}

func (l AuthorList) Len() int {
	return len(l.refs)
}
