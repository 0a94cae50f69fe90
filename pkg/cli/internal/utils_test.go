package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	assert.Equal(t, "0 packages", Count(0, "package", "packages"))
	assert.Equal(t, "1 package", Count(1, "package", "packages"))
	assert.Equal(t, "2 records", Count(2, "record", "records"))
}
