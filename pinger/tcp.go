package pinger

import (
	"context"
	"fmt"
	"net"
	"net/url"
)

type tcpPinger struct {
	base
	hostport string
	dialer   net.Dialer
}

func newTCP(u *url.URL) (Pinger, error) {
	if u.Port() == "" {
		return nil, fmt.Errorf("%w: tcp address needs host:port", ErrInvalidAddress)
	}
	return &tcpPinger{base: newBase("tcp", u), hostport: u.Host}, nil
}

// Ping dials and immediately closes the connection.
func (p *tcpPinger) Ping(ctx context.Context) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.hostport)
	if err != nil {
		return err
	}
	return conn.Close()
}
