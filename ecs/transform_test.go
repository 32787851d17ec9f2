package ecs

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func approxVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, eps), "want %v, got %v", want, got)
}

func chain(t *testing.T) (*Scene, [3]*Transform) {
	t.Helper()
	s := NewScene("chain")
	var out [3]*Transform
	for i, name := range []string{"root", "mid", "leaf"} {
		out[i] = s.CreateGameObject(name).Transform()
	}
	out[0].SetPosition(mgl64.Vec3{1, 2, 3})
	out[0].SetRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}))
	out[0].SetScale(mgl64.Vec3{2, 2, 2})

	out[1].SetPosition(mgl64.Vec3{0, 1, 0})
	out[1].SetRotation(mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{1, 0, 0}))
	out[1].SetScale(mgl64.Vec3{1, 0.5, 1})

	out[2].SetPosition(mgl64.Vec3{3, 0, -1})
	out[2].SetRotation(mgl64.QuatRotate(-math.Pi/3, mgl64.Vec3{0, 0, 1}))

	require.NoError(t, out[1].SetParent(out[0]))
	require.NoError(t, out[2].SetParent(out[1]))
	return s, out
}

func TestTransformHierarchy(t *testing.T) {
	_, tr := chain(t)

	want := tr[0].TRS().Mul4(tr[1].TRS()).Mul4(tr[2].TRS())
	assert.True(t, want.ApproxEqualThreshold(tr[2].ToWorld(), eps))
	assert.True(t, tr[0].TRS().ApproxEqualThreshold(tr[0].ToWorld(), eps))

	// Changing an ancestor invalidates cached descendants.
	tr[0].Translate(mgl64.Vec3{10, 0, 0})
	want = tr[0].TRS().Mul4(tr[1].TRS()).Mul4(tr[2].TRS())
	assert.True(t, want.ApproxEqualThreshold(tr[2].ToWorld(), eps))

	tr[1].SetScale(mgl64.Vec3{3, 3, 3})
	want = tr[0].TRS().Mul4(tr[1].TRS()).Mul4(tr[2].TRS())
	assert.True(t, want.ApproxEqualThreshold(tr[2].ToWorld(), eps))
}

func TestTransformTRS(t *testing.T) {
	tr := NewTransform()
	assert.True(t, mgl64.Ident4().ApproxEqualThreshold(tr.TRS(), eps))

	tr.SetPosition(mgl64.Vec3{1, 2, 3})
	tr.SetScale(mgl64.Vec3{2, 3, 4})
	approxVec(t, mgl64.Vec3{3, 5, 7}, tr.TransformPoint(mgl64.Vec3{1, 1, 1}))

	tr.SetRotation(mgl64.Quat{})
	assert.Equal(t, mgl64.QuatIdent(), tr.Rotation())
}

func TestTransformSetParentRejectsCycles(t *testing.T) {
	_, tr := chain(t)

	cases := []struct {
		name   string
		child  *Transform
		parent *Transform
	}{
		{"self", tr[0], tr[0]},
		{"direct", tr[1], tr[2]},
		{"indirect", tr[0], tr[2]},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			before := c.child.Parent()
			assert.ErrorIs(t, c.child.SetParent(c.parent), ErrCyclicParent)
			assert.Same(t, before, c.child.Parent())
		})
	}

	require.NoError(t, tr[2].SetParent(nil))
	assert.Nil(t, tr[2].Parent())
	assert.True(t, tr[2].TRS().ApproxEqualThreshold(tr[2].ToWorld(), eps))
}

func TestTransformDestroyedParent(t *testing.T) {
	s := NewScene("weak")
	parent := s.CreateGameObject("parent")
	child := s.CreateGameObject("child")
	parent.Transform().SetPosition(mgl64.Vec3{5, 0, 0})
	child.Transform().SetPosition(mgl64.Vec3{1, 0, 0})
	require.NoError(t, child.Transform().SetParent(parent.Transform()))
	approxVec(t, mgl64.Vec3{6, 0, 0}, child.Transform().WorldPosition())

	stale := parent.Transform()
	parent.Destroy()

	assert.Nil(t, child.Transform().Parent())
	approxVec(t, mgl64.Vec3{1, 0, 0}, child.Transform().WorldPosition())
	assert.ErrorIs(t, child.Transform().SetParent(stale), ErrGameObjectDestroyed)
}

func TestTransformDirections(t *testing.T) {
	cases := []struct {
		name    string
		rot     mgl64.Quat
		forward mgl64.Vec3
		right   mgl64.Vec3
		up      mgl64.Vec3
	}{
		{"identity", mgl64.QuatIdent(), mgl64.Vec3{0, 0, -1}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}},
		{"yaw_90", mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}), mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}},
		{"pitch_90", mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}), mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := NewTransform()
			tr.SetRotation(c.rot)
			approxVec(t, c.forward, tr.Forward())
			approxVec(t, c.right, tr.Right())
			approxVec(t, c.up, tr.Up())
		})
	}
}

func TestTransformWorldSetters(t *testing.T) {
	s := NewScene("world")
	parent := s.CreateGameObject("parent").Transform()
	child := s.CreateGameObject("child").Transform()
	parent.SetPosition(mgl64.Vec3{0, 10, 0})
	parent.SetRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}))
	parent.SetScale(mgl64.Vec3{2, 2, 2})
	require.NoError(t, child.SetParent(parent))

	child.SetWorldPosition(mgl64.Vec3{4, 4, 4})
	approxVec(t, mgl64.Vec3{4, 4, 4}, child.WorldPosition())

	target := mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{1, 0, 0})
	child.SetWorldRotation(target)
	assert.True(t, target.ApproxEqualThreshold(child.WorldRotation(), eps))
}

func TestTransformLookAt(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(mgl64.Vec3{0, 0, 10})
	tr.LookAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})
	approxVec(t, mgl64.Vec3{0, 0, -1}, tr.Forward())

	tr.SetPosition(mgl64.Vec3{10, 0, 0})
	tr.LookAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})
	approxVec(t, mgl64.Vec3{-1, 0, 0}, tr.Forward())
	approxVec(t, mgl64.Vec3{0, 1, 0}, tr.Up())

	before := tr.Rotation()
	tr.LookAt(tr.Position(), mgl64.Vec3{0, 1, 0})
	assert.Equal(t, before, tr.Rotation())
}
