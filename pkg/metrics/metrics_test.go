package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	assert.NotNil(t, Registry)
	assert.Equal(t, prometheus.DefaultRegisterer, Registry)
}
