package status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDegradedWhenUnreachable(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound) // any response counts as alive
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	downURL := down.URL
	down.Close()

	c := NewChecker(map[string]string{"case-service": up.URL, "address-index": downURL})
	c.SetTTL(time.Millisecond)
	s := c.Check(context.Background())

	assert.Equal(t, "degraded", s.State)
	require.Len(t, s.Components, 2)
	byName := map[string]string{}
	for _, comp := range s.Components {
		byName[comp.Name] = comp.Status
	}
	assert.Equal(t, "ok", byName["case-service"])
	assert.Equal(t, "unreachable", byName["address-index"])
}

func TestCheckCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c := NewChecker(map[string]string{"case-service": srv.URL})
	c.SetTTL(time.Minute)
	c.Check(context.Background())
	c.Check(context.Background())
	assert.Equal(t, 1, hits)
}
