package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func stubNewUniversal(t *testing.T, fn func(opt *goredis.UniversalOptions) goredis.UniversalClient) {
	t.Helper()
	orig := NewUniversal
	NewUniversal = fn
	t.Cleanup(func() { NewUniversal = orig })
}

// unreachable returns a real client whose Ping fails without a server.
func unreachable(*goredis.UniversalOptions) goredis.UniversalClient {
	return goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
}

func TestOpen_UsesAddrWhenAddrsEmpty(t *testing.T) {
	var captured *goredis.UniversalOptions
	stubNewUniversal(t, func(opt *goredis.UniversalOptions) goredis.UniversalClient {
		captured = opt
		return unreachable(opt)
	})

	_, err := Open(context.Background(), Config{Addr: " 127.0.0.1:6379 ", DialTimeout: 50 * time.Millisecond})
	if err == nil {
		t.Fatalf("expected ping error, got nil")
	}
	if captured == nil {
		t.Fatalf("NewUniversal was not called")
	}
	if len(captured.Addrs) != 1 || captured.Addrs[0] != "127.0.0.1:6379" {
		t.Fatalf("unexpected Addrs: %+v", captured.Addrs)
	}
	if captured.TLSConfig != nil {
		t.Fatalf("TLS must be off by default")
	}
}

func TestOpen_SentinelAndTLS(t *testing.T) {
	var captured *goredis.UniversalOptions
	stubNewUniversal(t, func(opt *goredis.UniversalOptions) goredis.UniversalClient {
		captured = opt
		return unreachable(opt)
	})

	cfg := Config{
		Mode:        "Sentinel",
		Addrs:       []string{"10.0.0.1:26379", "", "10.0.0.2:26379"},
		MasterName:  " mymaster ",
		DB:          1,
		DialTimeout: 50 * time.Millisecond,
		TLSEnabled:  true,
	}
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatalf("expected ping error, got nil")
	}
	if got := captured.Addrs; len(got) != 2 {
		t.Fatalf("unexpected Addrs: %+v", got)
	}
	if captured.MasterName != "mymaster" || captured.DB != 1 {
		t.Fatalf("unexpected options: %+v", captured)
	}
	if captured.TLSConfig == nil || captured.TLSConfig.MinVersion != tls.VersionTLS12 {
		t.Fatalf("expected TLS 1.2 minimum")
	}
}

func TestConfigOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"no address", Config{}, errAddressRequired},
		{"negative db", Config{Addr: "a:1", DB: -1}, errInvalidDB},
		{"single with two addrs", Config{Addrs: []string{"a:1", "b:1"}}, errSingleModeAddrCount},
		{"single with master", Config{Addr: "a:1", MasterName: "m"}, errMasterNameUnexpected},
		{"cluster with one addr", Config{Mode: ModeCluster, Addr: "a:1"}, errClusterModeAddrCount},
		{"cluster with db", Config{Mode: ModeCluster, Addrs: []string{"a:1", "b:1"}, DB: 2}, errClusterDBUnsupported},
		{"sentinel without master", Config{Mode: ModeSentinel, Addr: "a:1"}, errMasterNameRequired},
		{"unknown mode", Config{Mode: "ring", Addr: "a:1"}, errUnsupportedMode},
		{"single ok", Config{Addr: "a:1"}, nil},
		{"cluster ok", Config{Mode: ModeCluster, Addrs: []string{"a:1", "b:1"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.options()
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOpen_InvalidConfigSkipsDial(t *testing.T) {
	stubNewUniversal(t, func(*goredis.UniversalOptions) goredis.UniversalClient {
		t.Fatalf("NewUniversal must not be called")
		return nil
	})
	if _, err := Open(context.Background(), Config{Mode: ModeCluster, Addr: "a:1"}); !errors.Is(err, errClusterModeAddrCount) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOpen_PingErrorNamesAddress(t *testing.T) {
	stubNewUniversal(t, unreachable)
	_, err := Open(context.Background(), Config{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	if err == nil || !strings.Contains(err.Error(), "cache: ping 127.0.0.1:1") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_PingAndClose(t *testing.T) {
	c := &Client{rdb: unreachable(nil)}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := c.Ping(ctx); err == nil {
		t.Fatalf("expected ping error without a server")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
