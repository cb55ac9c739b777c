package store

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type backend struct {
	RowQuerier
	pingErr  error
	closeErr error
	closed   *int
}

func (b backend) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(b) }
func (b backend) Ping(context.Context) error                              { return b.pingErr }
func (b backend) Close() error {
	*b.closed++
	return b.closeErr
}

func TestOpen_NothingEnabled(t *testing.T) {
	s, err := Open(context.Background(), Config{AppName: "missionsync-api"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.Archive != nil || s.CH != nil {
		t.Fatalf("backends opened: %+v", s)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard on empty store: %v", err)
	}
}

func TestOpen_BadURLFails(t *testing.T) {
	_, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "::nope"}})
	if err == nil || !strings.HasPrefix(err.Error(), "pg:") {
		t.Fatalf("err = %v", err)
	}
}

func TestGuard_NamesFailingBackends(t *testing.T) {
	var closed int
	s := &Store{
		PG:      backend{closed: &closed},
		Archive: backend{closed: &closed, pingErr: errors.New("connection refused")},
	}
	err := s.Guard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "archive: connection refused") || strings.Contains(err.Error(), "pg:") {
		t.Fatalf("Guard = %v", err)
	}
}

func TestClose_ClosesEveryBackend(t *testing.T) {
	var closed int
	s := &Store{
		PG:      backend{closed: &closed},
		Archive: backend{closed: &closed, closeErr: errors.New("busy")},
	}
	if err := s.Close(context.Background()); err == nil || err.Error() != "busy" {
		t.Fatalf("Close = %v", err)
	}
	if closed != 2 {
		t.Fatalf("closed %d backends, want 2", closed)
	}
}
