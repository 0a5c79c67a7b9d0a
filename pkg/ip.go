package pkg

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"
)

// ReadUserIP returns the client address of r, taken from X-Real-Ip, then the
// first X-Forwarded-For hop, then RemoteAddr. Clients on the host itself or
// behind a docker bridge gateway are reported as "localhost".
func ReadUserIP(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("X-Real-Ip"))
	if raw == "" {
		// X-Forwarded-For: client, proxy1, proxy2
		first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		raw = strings.TrimSpace(first)
	}
	if raw == "" {
		raw = r.RemoteAddr
	}

	addr, err := parseAddr(raw)
	if err != nil {
		return "", err
	}
	if IPIsLocal(addr) {
		return "localhost", nil
	}
	return addr.String(), nil
}

// IPIsLocal reports loopback addresses and docker bridge gateways (172.x.0.1).
func IPIsLocal(addr netip.Addr) bool {
	if addr.IsLoopback() {
		return true
	}
	if !addr.Is4() {
		return false
	}
	octets := addr.As4()
	return octets[0] == 172 && octets[2] == 0 && octets[3] == 1
}

func parseAddr(raw string) (netip.Addr, error) {
	if addrPort, err := netip.ParseAddrPort(raw); err == nil {
		return addrPort.Addr().Unmap(), nil
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip addr %s is invalid", raw)
	}
	return addr.Unmap(), nil
}
