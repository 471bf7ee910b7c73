package qdrant

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingCollections_Create(t *testing.T) {
	errCreate := errors.New("create failed")

	tests := []struct {
		name        string
		setup       func(p *pendingCollections)
		fnErr       error
		wantCalls   int
		wantErr     error
		wantPending bool
	}{
		{
			name:        "missing collection is created",
			setup:       func(p *pendingCollections) { p.set("docs", true) },
			wantCalls:   1,
			wantPending: false,
		},
		{
			name:        "existing collection is left alone",
			setup:       func(p *pendingCollections) { p.set("docs", false) },
			wantCalls:   0,
			wantPending: false,
		},
		{
			name:      "unknown collection is left alone",
			setup:     func(p *pendingCollections) {},
			wantCalls: 0,
		},
		{
			name:        "failed create stays pending",
			setup:       func(p *pendingCollections) { p.set("docs", true) },
			fnErr:       errCreate,
			wantCalls:   1,
			wantErr:     errCreate,
			wantPending: true,
		},
		{
			name: "reset clears pending state",
			setup: func(p *pendingCollections) {
				p.set("docs", true)
				p.set("docs", false)
			},
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPendingCollections()
			tt.setup(p)

			calls := 0
			err := p.create("docs", func() error {
				calls++
				return tt.fnErr
			})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantPending, p.isPending("docs"))
		})
	}
}

func TestPendingCollections_CreateOnlyOnce(t *testing.T) {
	p := newPendingCollections()
	p.set("docs", true)
	p.set("other", true)

	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.create("docs", func() error {
				calls.Add(1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, p.isPending("docs"))
	require.True(t, p.isPending("other"))
}

func TestPendingCollections_RetryAfterFailure(t *testing.T) {
	p := newPendingCollections()
	p.set("docs", true)

	err := p.create("docs", func() error { return errors.New("unavailable") })
	require.Error(t, err)

	calls := 0
	require.NoError(t, p.create("docs", func() error {
		calls++
		return nil
	}))
	require.NoError(t, p.create("docs", func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
	assert.False(t, p.isPending("docs"))
}
