package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGrade(t *testing.T) {
	assert.Equal(t, "A", NormalizeGrade("a"))
	assert.Equal(t, "B+", NormalizeGrade(" b+ "))
	assert.Equal(t, "Z", NormalizeGrade("z"))
}

func TestPointFor(t *testing.T) {
	assert.Equal(t, 5.0, PointFor("A"))
	assert.Equal(t, 4.5, PointFor("B+"))
	assert.Equal(t, 0.0, PointFor("F"))
	assert.Equal(t, 0.0, PointFor("unknown"))
}

func TestCatalogCodesMatchCatalog(t *testing.T) {
	assert.Len(t, CatalogCodes, len(CourseCatalog))
	for _, code := range CatalogCodes {
		assert.Contains(t, CourseCatalog, code)
	}
}
