package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProxySupplier_RoundRobin(t *testing.T) {
	s := NewProxySupplier(context.Background(), []string{"http://a:1", "http://b:2"}, "")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "http://a:1", s.Get())
	assert.Equal(t, "http://b:2", s.Get())
	assert.Equal(t, "http://a:1", s.Get())
}

func TestProxySupplier_Empty(t *testing.T) {
	s := NewProxySupplier(context.Background(), nil, "http://example.com")
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.Get())
}

func TestProxySupplier_DropsDeadProxies(t *testing.T) {
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer live.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	s := NewProxySupplier(context.Background(), []string{failing.URL, live.URL}, "http://probe.invalid/best")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, live.URL, s.Get())
}
