package cmd

import (
	"net"
	"testing"

	"github.com/revatlas/revatlas/internal/iofs"
	"github.com/revatlas/revatlas/internal/iotesting"
	"github.com/revatlas/revatlas/pkg/config"
)

func ensureTestConfigFile(home string) error {
	if err := iofs.EnsureDirs(home); err != nil {
		return err
	}
	return iofs.EnsureConfigFile(home)
}

// useTestConfig points the package config to a temporary SQLite
// database for the duration of the test.
func useTestConfig(t *testing.T, opts ...config.Option) {
	t.Helper()
	prev := cfg
	cfg = iotesting.GetTestConfig(t)
	cfg.Update(opts)
	t.Cleanup(func() { cfg = prev })
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("cannot find a free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
