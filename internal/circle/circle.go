package circle

import "errors"

// Circle is the visibility scope of a kilroy. A post's circle is fixed at
// creation and never changes.
type Circle string

const (
	// Community posts are visible to everyone.
	Community Circle = "community"
	// Verified posts are visible only to identity-verified viewers.
	Verified Circle = "verified"
)

var ErrInvalidCircle = errors.New("invalid circle")

func Parse(s string) (Circle, error) {
	switch Circle(s) {
	case Community, Verified:
		return Circle(s), nil
	}
	return "", ErrInvalidCircle
}

// CanView reports whether a viewer may read posts in circle c.
func CanView(viewerVerified bool, c Circle) bool {
	if c == Community {
		return true
	}
	return viewerVerified
}

// CanPostTo reports whether a viewer may create a post in circle c.
// Same rule as viewing: the verified circle is write-gated too.
func CanPostTo(viewerVerified bool, c Circle) bool {
	return CanView(viewerVerified, c)
}

// Coerce downgrades the verified circle to community for unverified
// callers. Used for both posting and list filtering so the policy is
// applied consistently.
func Coerce(viewerVerified bool, c Circle) Circle {
	if c == Verified && !viewerVerified {
		return Community
	}
	return c
}
