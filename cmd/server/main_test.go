package main

import "testing"

func TestListenAddr(t *testing.T) {
	if got := listenAddr(""); got != ":8080" {
		t.Fatalf("expected default :8080, got %s", got)
	}

	if got := listenAddr("9090"); got != ":9090" {
		t.Fatalf("expected :9090, got %s", got)
	}
}
