package ch

import (
	"context"
	"testing"
)

func TestOpen_RejectsBadDSN(t *testing.T) {
	for _, url := range []string{"", "clickhouse://%zz"} {
		if _, err := Open(context.Background(), Config{URL: url}); err == nil {
			t.Fatalf("Open(%q) succeeded", url)
		}
	}
}

func TestOpen_IsLazy(t *testing.T) {
	c, err := Open(context.Background(), Config{URL: "clickhouse://127.0.0.1:1/journal", Role: "sync", App: "missionsync-sync"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	var nilCH *CH
	if err := nilCH.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestClientInfo(t *testing.T) {
	info := ClientInfo("missionsync-api", "api")
	if len(info.Products) != 4 {
		t.Fatalf("products = %+v", info.Products)
	}
	if p := info.Products[0]; p.Name != "missionsync-api" || p.Version != "api" {
		t.Fatalf("first product = %+v", p)
	}
}
