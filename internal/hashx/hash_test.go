package hashx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Sum(nil))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", Sum([]byte("hello")))

	// same bytes, same digest
	assert.Equal(t, Sum([]byte("abc")), Sum([]byte("abc")))
	assert.NotEqual(t, Sum([]byte("abc")), Sum([]byte("abd")))
}
