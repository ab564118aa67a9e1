package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// NewDefaultTransport creates a new transport with sane defaults for a
// webhook client. Values start from http.DefaultTransport; the idle
// connection pool per host is raised since a sender posts to one host.
func NewDefaultTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   10,
	}
}

// NewDefaultTransportWithTLS creates a new transport with the specified TLS configuration.
func NewDefaultTransportWithTLS(tlsConfig *tls.Config) *http.Transport {
	t := NewDefaultTransport()
	t.TLSClientConfig = tlsConfig
	return t
}
