// Package testutil provides shared helpers for tests: redis setup with
// skip-if-unavailable semantics and credential builders.
package testutil

import (
	"context"
	"net"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
)

// TestingTB is the subset of testing.TB used by the helpers, kept as an
// interface so helpers stay usable from benchmarks.
type TestingTB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Skip(args ...any)
	Skipf(format string, args ...any)
	Logf(format string, args ...any)
}

// GetTestRedisAddr returns the redis address for tests and whether a server
// is reachable there.
func GetTestRedisAddr(t TestingTB) (string, bool) {
	t.Helper()

	host := getEnvOrDefault("TEST_REDIS_HOST", "localhost")
	port := getEnvOrDefault("TEST_REDIS_PORT", "6379")
	addr := net.JoinHostPort(host, port)

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		return addr, false
	}
	if cerr := conn.Close(); cerr != nil {
		t.Logf("warning: failed to close probe connection: %v", cerr)
	}
	return addr, true
}

// SetupTestRedis creates a Redis client for testing. Tests are skipped if
// Redis is not available, unless TEST_REDIS_REQUIRED is truthy.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr, ok := GetTestRedisAddr(t)
	if !ok {
		if requireRedis() {
			t.Fatal("Redis not available for testing")
		}
		t.Skip("Redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	return client
}

// CustomerCredential builds a credential with the CUSTOMER role.
func CustomerCredential(token string) domainauth.Credential {
	return domainauth.Credential{
		Token: token,
		Roles: []domainauth.Role{domainauth.RoleCustomer},
	}
}

// AdminCredential builds a credential with the ADMIN role.
func AdminCredential(token string) domainauth.Credential {
	return domainauth.Credential{
		Token: token,
		Roles: []domainauth.Role{domainauth.RoleAdmin},
	}
}

func requireRedis() bool {
	return envBool("TEST_REDIS_REQUIRED")
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes"
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
