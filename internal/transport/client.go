package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds CheckProxy. It is a connectivity probe only.
const checkProxyTimeout = 2 * time.Second

// maxRedirects is the number of redirects followed before the last response
// is returned as is.
const maxRedirects = 10

// SOCKS5 greeting bytes.
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthNoAccept = 0xFF
)

// Options configures the HTTP client used for crawling.
type Options struct {
	// Host is the hostname of the crawled site. Cookie and Headers are only
	// sent to this host.
	Host string

	// ProxyAddress routes every connection through a SOCKS5 proxy at
	// "host:port". Empty means direct connections.
	ProxyAddress string

	// Timeout is the per-request timeout. Zero means no timeout.
	Timeout time.Duration

	// Cookie is a raw cookie string ("a=1; b=2") sent with every request.
	Cookie string

	// Headers are set on every request, overriding existing values.
	Headers map[string]string
}

// NewHTTPClient creates the HTTP client used by the fetcher.
//
// The client keeps a cookie jar and follows at most maxRedirects redirects,
// none of which may leave the host of the first request. A redirect to
// another host is not followed; the redirect response is returned instead.
// A configured cookie and headers are injected into requests to opts.Host only.
func NewHTTPClient(opts Options) (*http.Client, error) {
	injecting := opts.Cookie != "" || len(opts.Headers) > 0
	if injecting && opts.Host == "" {
		return nil, ErrSiteHostRequired
	}

	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, errors.New("default transport is not *http.Transport")
	}
	transport := base.Clone()
	transport.MaxIdleConnsPerHost = 16
	transport.IdleConnTimeout = 30 * time.Second

	if opts.ProxyAddress != "" {
		if !isValidProxyAddress(opts.ProxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", opts.ProxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = contextDialer(dialer)
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	var rt http.RoundTripper = transport
	if injecting {
		rt = &headerInjectingTransport{
			base:    transport,
			host:    opts.Host,
			cookie:  opts.Cookie,
			headers: opts.Headers,
		}
	}

	return &http.Client{
		Transport:     rt,
		Timeout:       opts.Timeout,
		Jar:           jar,
		CheckRedirect: checkRedirect,
	}, nil
}

// checkRedirect stops after maxRedirects hops and at the first hop that
// leaves the host of the original request.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return http.ErrUseLastResponse
	}
	if !sameHost(req.URL.Hostname(), via[0].URL.Hostname()) {
		return http.ErrUseLastResponse
	}
	return nil
}

func sameHost(a, b string) bool {
	return strings.EqualFold(a, b)
}

// contextDialer adapts a proxy.Dialer to http.Transport.DialContext.
// The SOCKS5 dialer from x/net implements proxy.ContextDialer; other dialers
// are wrapped so a cancelled context still returns promptly.
func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()
		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// isValidProxyAddress checks if the address is in "host:port" format with a
// port between 1 and 65535.
func isValidProxyAddress(address string) bool {
	parts := strings.Split(address, ":")
	if len(parts) != 2 {
		return false
	}
	host, port := parts[0], parts[1]
	if host == "" || port == "" {
		return false
	}

	portNum := 0
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
		portNum = portNum*10 + int(c-'0')
		if portNum > 65535 {
			return false
		}
	}
	return portNum >= 1
}

// CheckProxy performs the SOCKS5 greeting against address and reports
// whether the proxy accepts unauthenticated clients.
func CheckProxy(ctx context.Context, address string) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}
	if resp[0] != socks5Version || resp[1] == socks5AuthNoAccept || resp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// custom headers and cookies into requests for a single host.
type headerInjectingTransport struct {
	base    http.RoundTripper
	host    string
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper. Requests to any host other than
// t.host are passed through unchanged.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !sameHost(req.URL.Hostname(), t.host) {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
