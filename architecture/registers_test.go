package architecture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegisterSet() *RegisterSet {
	return NewRegisterSet(
		NewStackPointerRegister("sp"),
		NewGeneralRegister("g0"),
		NewGeneralRegister("g1"),
		NewGeneralRegister("g2"),
		NewFloatRegister("f0"),
		NewFloatRegister("f1"))
}

func TestRegisterSetAssignsDenseIndices(t *testing.T) {
	set := newTestRegisterSet()

	require.Len(t, set.General, 3)
	require.Len(t, set.Float, 2)

	for idx, register := range set.General {
		assert.Equal(t, idx, register.Index)
		assert.Equal(t, GeneralClass, register.Class)
	}

	for idx, register := range set.Float {
		assert.Equal(t, idx, register.Index)
		assert.Equal(t, FloatClass, register.Class)
	}

	assert.Equal(t, "sp", set.StackPointer.Name)
	assert.True(t, set.StackPointer.IsStackPointer)
}

func TestRegisterSetConstructionPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRegisterSet(
			NewStackPointerRegister("sp"),
			NewGeneralRegister("g0"),
			NewGeneralRegister("g0"))
	})

	assert.Panics(t, func() {
		NewRegisterSet(NewGeneralRegister("g0"))
	})

	assert.Panics(t, func() {
		NewRegisterSet(
			NewStackPointerRegister("sp"),
			NewStackPointerRegister("sp2"))
	})

	assert.Panics(t, func() {
		NewRegisterSet(
			NewStackPointerRegister("sp"),
			&Register{Name: "bad"})
	})
}

func TestStackPointerHasNoMask(t *testing.T) {
	set := newTestRegisterSet()
	assert.Panics(t, func() {
		set.StackPointer.Mask()
	})
}

func TestMaskAlgebra(t *testing.T) {
	set := newTestRegisterSet()
	g0 := set.General[0]
	g1 := set.General[1]
	g2 := set.General[2]

	mask := RegisterMask(0)
	assert.True(t, mask.IsEmpty())
	assert.Equal(t, 0, mask.Count())

	mask = mask.Add(g0).Add(g2)
	assert.False(t, mask.IsEmpty())
	assert.Equal(t, 2, mask.Count())
	assert.True(t, mask.Contains(g0))
	assert.False(t, mask.Contains(g1))
	assert.True(t, mask.Contains(g2))

	mask = mask.Remove(g2)
	assert.Equal(t, 1, mask.Count())
	assert.False(t, mask.Contains(g2))

	union := set.Mask(g0).Union(set.Mask(g1))
	assert.Equal(t, set.Mask(g0, g1), union)

	assert.Equal(t, set.Mask(g1), union.Intersect(set.Mask(g1, g2)))
	assert.Equal(t, set.Mask(g0), union.Without(set.Mask(g1, g2)))
}

func TestAllOf(t *testing.T) {
	set := newTestRegisterSet()

	all := set.AllOf(GeneralClass)
	assert.Equal(t, 3, all.Count())
	for _, register := range set.General {
		assert.True(t, all.Contains(register))
	}

	assert.Equal(t, 2, set.AllOf(FloatClass).Count())
}

func TestMaskRejectsMixedClasses(t *testing.T) {
	set := newTestRegisterSet()
	assert.Panics(t, func() {
		set.Mask(set.General[0], set.Float[0])
	})
	assert.Panics(t, func() {
		set.Mask()
	})
}

func TestRegistersInRoundTrip(t *testing.T) {
	set := newTestRegisterSet()
	g0 := set.General[0]
	g2 := set.General[2]

	registers := set.RegistersIn(GeneralClass, set.Mask(g0, g2))
	require.Len(t, registers, 2)
	assert.Same(t, g0, registers[0])
	assert.Same(t, g2, registers[1])

	assert.Empty(t, set.RegistersIn(FloatClass, 0))

	assert.Panics(t, func() {
		set.RegistersIn(FloatClass, RegisterMask(1)<<60)
	})
}

func TestMaskString(t *testing.T) {
	set := newTestRegisterSet()

	assert.Equal(
		t,
		"{g0 g2}",
		set.MaskString(GeneralClass, set.Mask(set.General[0], set.General[2])))
	assert.Equal(t, "{}", set.MaskString(FloatClass, 0))
}
