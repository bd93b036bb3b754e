package pinger

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-sql-driver/mysql"
	"github.com/xo/dburl"
)

type mysqlPinger struct {
	base
	connector driver.Connector
}

func newMySQL(u *url.URL) (Pinger, error) {
	du, err := dburl.Parse(u.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	dsn, err := dburl.GenMysql(du)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing dsn: %v", ErrInvalidAddress, err)
	}
	// A bare connector, not database/sql: every ping must open a fresh
	// connection.
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("building mysql connector: %w", err)
	}
	return &mysqlPinger{base: newBase("mysql", u), connector: connector}, nil
}

// Ping connects, pings and disconnects.
func (p *mysqlPinger) Ping(ctx context.Context) error {
	conn, err := p.connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	pinger, ok := conn.(driver.Pinger)
	if !ok {
		return errors.New("mysql driver missing Ping(ctx)")
	}
	return pinger.Ping(ctx)
}
