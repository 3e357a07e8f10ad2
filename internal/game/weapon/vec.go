package weapon

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X float64
	Y float64
}

var (
	// Left is the unit vector facing -X.
	Left = Vec2{X: -1}
	// Right is the unit vector facing +X.
	Right = Vec2{X: 1}
)

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{X: v.X * o.X, Y: v.Y * o.Y}
}

// Horizontal snaps v to Left or Right by the sign of X.
// ok is false when X is zero and no direction can be derived.
func (v Vec2) Horizontal() (dir Vec2, ok bool) {
	switch {
	case v.X < 0:
		return Left, true
	case v.X > 0:
		return Right, true
	default:
		return Vec2{}, false
	}
}
