package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorAlgebra(t *testing.T) {
	x := Vector3{X: 1}
	y := Vector3{Y: 1}

	assert.Equal(t, Vector3{Z: 1}, x.Cross(y))
	assert.Equal(t, Vector3{Z: -1}, y.Cross(x))
	assert.Equal(t, 0.0, x.Dot(y))
	assert.Equal(t, Vector3{X: 1, Y: 1}, x.Add(y))
	assert.Equal(t, Vector3{X: 1, Y: -1}, x.Sub(y))
	assert.Equal(t, Vector3{X: 3, Y: 6, Z: 9}, Vector3{1, 2, 3}.Scale(3))
	assert.Equal(t, 5.0, Vector3{X: 3, Y: 4}.Magnitude())
	assert.Equal(t, [3]float64{1, 2, 3}, Vector3{1, 2, 3}.Array())
}
