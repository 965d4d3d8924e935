package vec

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	got := Vec2{X: 1, Y: 2}.Add(Vec2{X: -3, Y: 5})
	if got != (Vec2{X: -2, Y: 7}) {
		t.Errorf("Add: получили %+v", got)
	}
}

func TestVec2DistanceTo(t *testing.T) {
	d := Vec2{}.DistanceTo(Vec2{X: 3, Y: 4})
	if math.Abs(d-5) > 1e-9 {
		t.Errorf("DistanceTo: получили %f, ожидали 5", d)
	}
}

func TestVec3ToVec2(t *testing.T) {
	got := Vec3{X: 4, Y: -2, Z: 30}.ToVec2()
	if got != (Vec2{X: 4, Y: -2}) {
		t.Errorf("ToVec2: получили %+v", got)
	}
}

func TestVec3Add(t *testing.T) {
	got := Vec3{X: 1, Y: 2, Z: 3}.Add(Vec3{Z: -1})
	if !got.Equals(Vec3{X: 1, Y: 2, Z: 2}) {
		t.Errorf("Add: получили %+v", got)
	}
}
