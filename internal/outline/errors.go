package outline

import "errors"

var (
	// ErrBrokenCycle reports a next/prev chain that does not close.
	ErrBrokenCycle = errors.New("outline cycle is broken")
	// ErrNoAttachment reports a rectangle that shares no boundary with a
	// simple outline.
	ErrNoAttachment = errors.New("rectangle does not touch the outline")
	// ErrAmbiguousAttachment reports a rectangle touching a simple outline
	// along more than two edges.
	ErrAmbiguousAttachment = errors.New("rectangle touches the outline ambiguously")
	// ErrUnknownOutline reports a registry lookup for a missing id.
	ErrUnknownOutline = errors.New("unknown outline")
)
