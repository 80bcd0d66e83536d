package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersAreLabelled(t *testing.T) {
	before := testutil.ToFloat64(AuditsTotal.WithLabelValues("component", "A"))
	AuditsTotal.WithLabelValues("component", "A").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AuditsTotal.WithLabelValues("component", "A")))

	FindingsTotal.WithLabelValues("img-alt", "error").Add(2)
	assert.GreaterOrEqual(t, testutil.ToFloat64(FindingsTotal.WithLabelValues("img-alt", "error")), 2.0)
}

func TestStartServer_Disabled(t *testing.T) {
	for _, addr := range []string{"", "off", " Disabled "} {
		srv, errs := StartServer(context.Background(), addr)
		assert.Nil(t, srv)
		assert.Nil(t, errs)
	}
}
