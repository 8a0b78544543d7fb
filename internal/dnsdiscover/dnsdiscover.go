// Package dnsdiscover is the optional SRV-record discovery add-on (C11):
// instead of a bare host:port, a transmitter can be pointed at a service
// name and have its actual host:port resolved via a single SRV query.
// Grounded on the teacher's own dns.Client/dns.Msg usage in
// cmd/stego-send/main.go.
package dnsdiscover

import (
	"fmt"
	"time"

	"github.com/miekg/dns"

	"github.com/faanross/holocast/internal/holoerr"
)

// Resolve looks up the SRV record for service under resolver and returns the
// target host:port of the highest-priority, highest-weight answer.
func Resolve(resolver, service string) (host string, port int, err error) {
	c := &dns.Client{Timeout: 3 * time.Second}
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(service), dns.TypeSRV)

	resp, _, err := c.Exchange(m, resolver)
	if err != nil {
		return "", 0, fmt.Errorf("dnsdiscover: exchange: %w", err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", 0, fmt.Errorf("dnsdiscover: %w: rcode %d for %s", holoerr.ErrTransport, resp.Rcode, service)
	}

	var best *dns.SRV
	for _, rr := range resp.Answer {
		srv, ok := rr.(*dns.SRV)
		if !ok {
			continue
		}
		if best == nil || srv.Priority < best.Priority ||
			(srv.Priority == best.Priority && srv.Weight > best.Weight) {
			best = srv
		}
	}
	if best == nil {
		return "", 0, fmt.Errorf("dnsdiscover: %w: no SRV answer for %s", holoerr.ErrTransport, service)
	}

	return trimTrailingDot(best.Target), int(best.Port), nil
}

func trimTrailingDot(s string) string {
	if len(s) > 0 && s[len(s)-1] == '.' {
		return s[:len(s)-1]
	}
	return s
}
