package proxy

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

const probeTimeout = 5 * time.Second

// ProxySupplier hands out proxy URLs in round-robin order.
type ProxySupplier interface {
	Get() string
	Len() int
}

type proxySupplier struct {
	proxies []string
	current int
}

// NewProxySupplier keeps the proxies that can reach probeURL. Proxies are
// probed one after another. An empty probeURL keeps every proxy untested.
func NewProxySupplier(ctx context.Context, proxies []string, probeURL string) ProxySupplier {
	if len(proxies) == 0 {
		return &proxySupplier{}
	}
	if probeURL == "" {
		return &proxySupplier{proxies: append([]string(nil), proxies...)}
	}

	log.Infof("🔄 Testing %d proxies...", len(proxies))

	valid := make([]string, 0, len(proxies))
	for i, p := range proxies {
		log.Debugf("🔄 Testing proxy %d/%d: %s", i+1, len(proxies), p)
		if isProxyValid(ctx, p, probeURL) {
			valid = append(valid, p)
			log.Infof("✅ Proxy %s is working", p)
		} else {
			log.Infof("❌ Proxy %s is not working, skipping", p)
		}
	}

	log.Infof("✅ Proxy supplier initialized with %d working proxies out of %d tested", len(valid), len(proxies))
	return &proxySupplier{proxies: valid}
}

// Get returns the next proxy URL, or "" when none are configured.
func (p *proxySupplier) Get() string {
	if len(p.proxies) == 0 {
		return ""
	}
	proxy := p.proxies[p.current]
	p.current = (p.current + 1) % len(p.proxies)
	return proxy
}

func (p *proxySupplier) Len() int { return len(p.proxies) }

func isProxyValid(ctx context.Context, proxyURL, probeURL string) bool {
	client := resty.New().
		SetTimeout(probeTimeout).
		SetRetryCount(0).
		SetProxy(proxyURL)
	defer client.Close()

	resp, err := client.R().
		SetContext(ctx).
		Head(probeURL)
	if err != nil {
		log.Debugf("Proxy test failed for %s: %v", proxyURL, err)
		return false
	}
	if resp.IsError() {
		log.Debugf("Proxy test failed for %s with status: %s", proxyURL, resp.Status())
		return false
	}
	return true
}
