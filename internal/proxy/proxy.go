// Package proxy turns raw proxy lines into dispatch configuration.
package proxy

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	xproxy "golang.org/x/net/proxy"
)

type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeSOCKS Scheme = "socks"
)

// Descriptor is a normalized proxy. URI may embed user:pass@host:port.
type Descriptor struct {
	Scheme Scheme
	URI    string
}

// Resolve normalizes raw. It never fails; malformed input produces a URI that
// errors when first used.
func Resolve(raw string) Descriptor {
	switch {
	case strings.HasPrefix(raw, "socks4://"), strings.HasPrefix(raw, "socks5://"):
		return Descriptor{Scheme: SchemeSOCKS, URI: raw}
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return Descriptor{Scheme: SchemeHTTP, URI: raw}
	}
	if parts := strings.Split(raw, ":"); len(parts) == 4 {
		return Descriptor{
			Scheme: SchemeHTTP,
			URI:    fmt.Sprintf("http://%s:%s@%s:%s", parts[2], parts[3], parts[0], parts[1]),
		}
	}
	return Descriptor{Scheme: SchemeHTTP, URI: "http://" + raw}
}

func (d Descriptor) URL() (*url.URL, error) {
	u, err := url.Parse(d.URI)
	if err != nil {
		return nil, fmt.Errorf("proxy %q: %w", d.URI, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy %q: missing host", d.URI)
	}
	return u, nil
}

// DialContext returns a dial function tunnelling through a SOCKS descriptor.
// Only SOCKS5 is dialable; socks4 resolves but fails here.
func (d Descriptor) DialContext() (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	if d.Scheme != SchemeSOCKS {
		return nil, fmt.Errorf("proxy %q is not a socks proxy", d.URI)
	}
	u, err := d.URL()
	if err != nil {
		return nil, err
	}
	dialer, err := xproxy.FromURL(u, xproxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("proxy %q: %w", d.URI, err)
	}
	if cd, ok := dialer.(xproxy.ContextDialer); ok {
		return cd.DialContext, nil
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(network, addr)
	}, nil
}
