package stream

// Point is an integer 2-D point. It is written as two 32-bit integers: X, Y.
type Point struct {
	X, Y int32
}

// Rect is an integer rectangle. It is written as four 32-bit integers: Left, Top, Right, Bottom.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Vec2 is written as two FIX24 floats: X, Y.
type Vec2 struct {
	X, Y float32
}

// Vec3 is written as three FIX24 floats: X, Y, Z.
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 is written as four FIX24 floats: X, Y, Z, W.
type Vec4 struct {
	X, Y, Z, W float32
}
