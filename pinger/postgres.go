package pinger

import (
	"context"
	"net/url"

	"github.com/jackc/pgx/v5"
)

type postgresPinger struct {
	base
	connString string
}

func newPostgres(u *url.URL) *postgresPinger {
	return &postgresPinger{base: newBase("postgres", u), connString: u.String()}
}

// Ping opens a single connection, pings and closes it.
func (p *postgresPinger) Ping(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, p.connString)
	if err != nil {
		return err
	}
	defer conn.Close(context.WithoutCancel(ctx))

	return conn.Ping(ctx)
}
