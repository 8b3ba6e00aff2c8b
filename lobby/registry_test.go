package lobby

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	u, err := r.Register(&mockConn{id: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", u.ID)
	assert.True(t, u.Online)
	assert.False(t, u.Playing)
	assert.Empty(t, u.Name)

	_, err = r.Register(&mockConn{id: "c1"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	online, total := r.Len()
	assert.Equal(t, 1, online)
	assert.Equal(t, 1, total)
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	want, err := r.Register(&mockConn{id: "c1"})
	require.NoError(t, err)

	got, err := r.Lookup("c1")
	require.NoError(t, err)
	assert.Same(t, want, got)

	_, err = r.Lookup("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_MarkOffline(t *testing.T) {
	r := NewRegistry()
	u, err := r.Register(&mockConn{id: "c1"})
	require.NoError(t, err)
	u.Playing = true

	require.NoError(t, r.MarkOffline("c1", time.Now()))
	assert.False(t, u.Online)
	assert.False(t, u.Playing)

	assert.ErrorIs(t, r.MarkOffline("missing", time.Now()), ErrNotFound)

	online, total := r.Len()
	assert.Equal(t, 0, online)
	assert.Equal(t, 1, total)
}

func TestRegistry_Purge(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		offline     map[string]time.Duration
		online      []string
		cutoff      time.Duration
		wantRemoved int
		wantLeft    []string
	}{
		{
			name:        "nothing offline",
			online:      []string{"a", "b"},
			cutoff:      time.Hour,
			wantRemoved: 0,
			wantLeft:    []string{"a", "b"},
		},
		{
			name:        "only users offline before cutoff",
			offline:     map[string]time.Duration{"old": 0, "new": 2 * time.Hour},
			online:      []string{"live"},
			cutoff:      time.Hour,
			wantRemoved: 1,
			wantLeft:    []string{"new", "live"},
		},
		{
			name:        "offline exactly at cutoff is kept",
			offline:     map[string]time.Duration{"edge": time.Hour},
			cutoff:      time.Hour,
			wantRemoved: 0,
			wantLeft:    []string{"edge"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			for id, at := range tt.offline {
				_, err := r.Register(&mockConn{id: id})
				require.NoError(t, err)
				require.NoError(t, r.MarkOffline(id, base.Add(at)))
			}
			for _, id := range tt.online {
				_, err := r.Register(&mockConn{id: id})
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantRemoved, r.Purge(base.Add(tt.cutoff)))

			for _, id := range tt.wantLeft {
				_, err := r.Lookup(id)
				assert.NoError(t, err, "user %s", id)
			}
			_, total := r.Len()
			assert.Equal(t, len(tt.wantLeft), total)
		})
	}
}
