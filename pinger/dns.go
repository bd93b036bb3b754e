package pinger

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/miekg/dns"
)

type dnsPinger struct {
	base
	server string
	name   string
	client *dns.Client
}

func newDNS(u *url.URL) (Pinger, error) {
	host := u.Hostname()
	name := strings.Trim(u.Path, "/")
	if host == "" || name == "" {
		return nil, fmt.Errorf("%w: dns address needs dns://server/name", ErrInvalidAddress)
	}
	port := u.Port()
	if port == "" {
		port = "53"
	}
	return &dnsPinger{
		base:   newBase("dns", u),
		server: net.JoinHostPort(host, port),
		name:   dns.Fqdn(name),
		client: &dns.Client{},
	}, nil
}

// Ping resolves the A record of name at server. Any rcode other than
// NOERROR is a failure.
func (p *dnsPinger) Ping(ctx context.Context) error {
	m := new(dns.Msg)
	m.SetQuestion(p.name, dns.TypeA)

	r, _, err := p.client.ExchangeContext(ctx, m, p.server)
	if err != nil {
		return err
	}
	if r.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("dns %s: rcode %s", strings.TrimSuffix(p.name, "."), dns.RcodeToString[r.Rcode])
	}
	return nil
}
