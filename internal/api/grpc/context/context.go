package context

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

// Metadata keys read from incoming requests.
const (
	FingerprintKey  = "x-device-fingerprint"
	DeviceTypeKey   = "x-device-type"
	BrowserKey      = "x-browser"
	OSKey           = "x-os"
	ForwardedForKey = "x-forwarded-for"
	UserAgentKey    = "user-agent"
	TenantKey       = "x-tenant-id"
)

type principalKey struct{}

type sessionTokenKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager represents a gRPC context manager for identity and device data.
// Principals and tokens live in context values set by the authentication
// interceptor; device data is read from request metadata.
type Manager struct {
	trustedProxies []netip.Prefix
}

// NewManager creates a new gRPC context manager instance. x-forwarded-for is
// only honored when the transport peer is one of trustedProxies.
func NewManager(trustedProxies ...netip.Prefix) *Manager {
	return &Manager{trustedProxies: trustedProxies}
}

// ParseTrustedProxies parses CIDR ranges or single addresses.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			prefix, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// SetPrincipalToContext stores the authenticated principal.
func (m *Manager) SetPrincipalToContext(ctx context.Context, principal *model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipalFromContext returns the principal set by the authentication interceptor.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (*model.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*model.Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

// SetSessionTokenToContext stores the bearer token the request was authenticated with.
func (m *Manager) SetSessionTokenToContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey{}, token)
}

// GetSessionTokenFromContext returns the bearer token of the request.
func (m *Manager) GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionTokenKey{}).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// GetDeviceFromContext collects the device description sent by the client.
// The IP is the peer address unless the peer is a trusted proxy, in which case
// it is the right-most x-forwarded-for entry that is not a trusted proxy.
func (m *Manager) GetDeviceFromContext(ctx context.Context) model.DeviceContext {
	md, _ := metadata.FromIncomingContext(ctx)

	dc := model.DeviceContext{
		Fingerprint: first(md, FingerprintKey),
		UserAgent:   first(md, UserAgentKey),
		DeviceType:  first(md, DeviceTypeKey),
		Browser:     first(md, BrowserKey),
		OS:          first(md, OSKey),
		IP:          m.clientIP(PeerIP(ctx), md.Get(ForwardedForKey)),
	}

	return dc
}

func (m *Manager) clientIP(peerIP string, forwarded []string) string {
	if !m.trusted(peerIP) {
		return peerIP
	}

	var hops []string
	for _, header := range forwarded {
		hops = append(hops, strings.Split(header, ",")...)
	}

	client := peerIP
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return client
		}
		client = addr.Unmap().String()
		if !m.trusted(client) {
			return client
		}
	}
	return client
}

func (m *Manager) trusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range m.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// PeerIP returns the host part of the transport peer address, or "".
func PeerIP(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String()
	}
	return host
}

func first(md metadata.MD, key string) string {
	if md == nil {
		return ""
	}
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
