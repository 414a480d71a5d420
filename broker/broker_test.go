package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RED:Insufficient margin", Message(Response{"stat": "Not_Ok", "emsg": "RED:Insufficient margin"}))
	assert.Equal(t, "Invalid Session", Message(Response{"Message": "Invalid Session"}))
	assert.Equal(t, "Not_Ok", Message(Response{"stat": "Not_Ok"}))
	assert.Empty(t, Message(Response{}))
	assert.Empty(t, Message(Response{"emsg": 42}), "non-string fields are ignored")
}
