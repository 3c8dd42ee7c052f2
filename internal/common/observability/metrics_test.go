package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_RecordQueryRun(t *testing.T) {
	obs := New("contact-harvester-test")
	require.NotNil(t, obs)
	defer obs.Shutdown()

	assert.NotPanics(t, func() {
		obs.RecordQueryRun(context.Background(), "success", 1500*time.Millisecond, 7)
		obs.RecordQueryRun(context.Background(), "SEARCH_PAGE_UNAVAILABLE", 20*time.Millisecond, 0)
	})
}

func TestObservability_NilAndZeroAreNoOps(t *testing.T) {
	var nilObs *Observability
	assert.NotPanics(t, func() {
		nilObs.RecordQueryRun(context.Background(), "success", time.Second, 1)
		nilObs.Shutdown()
	})

	zero := &Observability{}
	assert.NotPanics(t, func() {
		zero.RecordQueryRun(context.Background(), "success", time.Second, 1)
		zero.Shutdown()
	})
}
