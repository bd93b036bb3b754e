package pinger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

type httpPinger struct {
	base
	target string
	client *http.Client
}

func newHTTP(u *url.URL) *httpPinger {
	return &httpPinger{
		base:   newBase(u.Scheme, u),
		target: u.String(),
		client: &http.Client{
			// A redirect still proves the dependency answered.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Ping issues a GET; any 2xx or 3xx response is success.
func (p *httpPinger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
