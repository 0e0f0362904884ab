//go:build linux

package core

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

func bindTestListener(t *testing.T) *AbstractListener {
	t.Helper()
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	listener, err := BindAbstractListener(token)
	if err != nil {
		t.Fatalf("BindAbstractListener: %v", err)
	}
	t.Cleanup(func() { listener.Close() })
	return listener
}

func TestBindAbstractListener(t *testing.T) {
	t.Run("should reject invalid names", func(t *testing.T) {
		if _, err := BindAbstractListener(""); !models.IsCode(err, models.BindError) {
			t.Errorf("Expected BindError for empty name, got %v", err)
		}
		if _, err := BindAbstractListener(strings.Repeat("a", 108)); !models.IsCode(err, models.BindError) {
			t.Errorf("Expected BindError for long name, got %v", err)
		}
	})

	t.Run("should refuse a name already bound", func(t *testing.T) {
		listener := bindTestListener(t)

		_, err := BindAbstractListener(listener.Name())
		if !models.IsCode(err, models.BindError) {
			t.Errorf("Expected BindError for duplicate name, got %v", err)
		}
	})

	t.Run("should bind distinct addresses for distinct tokens", func(t *testing.T) {
		first := bindTestListener(t)
		second := bindTestListener(t)
		if first.Address() == second.Address() {
			t.Errorf("Two listeners share address %s", first.Address())
		}
		if !strings.HasPrefix(first.Address(), "@") {
			t.Errorf("Expected abstract address, got %s", first.Address())
		}
	})
}

func TestAbstractListener_AcceptOne(t *testing.T) {
	t.Run("should accept exactly one peer", func(t *testing.T) {
		listener := bindTestListener(t)

		client, err := net.Dial("unix", listener.Address())
		if err != nil {
			t.Fatalf("Dial: %v", err)
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server, err := listener.AcceptOne(ctx)
		if err != nil {
			t.Fatalf("AcceptOne: %v", err)
		}
		defer server.Close()

		if _, err := client.Write([]byte("hi")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		buf := make([]byte, 2)
		if _, err := io.ReadFull(server, buf); err != nil {
			t.Fatalf("Read: %v", err)
		}
		if string(buf) != "hi" {
			t.Errorf("Unexpected data %q", buf)
		}

		if _, err := listener.AcceptOne(ctx); err == nil {
			t.Error("Expected second AcceptOne to fail")
		}

		second, err := net.Dial("unix", listener.Address())
		if err == nil {
			second.Close()
			t.Error("Expected a second dial to be refused after the single accept")
		}
	})

	t.Run("should time out without a peer", func(t *testing.T) {
		listener := bindTestListener(t)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := listener.AcceptOne(ctx)
		if !models.IsCode(err, models.Timeout) {
			t.Errorf("Expected Timeout, got %v", err)
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Expected context.DeadlineExceeded in chain, got %v", err)
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("AcceptOne took %v to time out", elapsed)
		}
	})

	t.Run("should report the context deadline when the socket expires first", func(t *testing.T) {
		listener := bindTestListener(t)
		ctx := lateContext{Context: context.Background(), deadline: time.Now().Add(30 * time.Millisecond)}

		_, err := listener.AcceptOne(ctx)
		if !models.IsCode(err, models.Timeout) {
			t.Errorf("Expected Timeout, got %v", err)
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Expected context.DeadlineExceeded in chain, got %v", err)
		}
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		listener := bindTestListener(t)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		_, err := listener.AcceptOne(ctx)
		if !models.IsCode(err, models.Timeout) {
			t.Errorf("Expected Timeout, got %v", err)
		}
	})

	t.Run("should fail after Close", func(t *testing.T) {
		listener := bindTestListener(t)
		if err := listener.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if err := listener.Close(); err != nil {
			t.Errorf("Second Close returned %v", err)
		}

		_, err := listener.AcceptOne(context.Background())
		if !models.IsCode(err, models.SessionClosed) {
			t.Errorf("Expected SessionClosed, got %v", err)
		}
	})
}
