package lakefs

import (
	"errors"
	"testing"

	"github.com/additiveai/lakeFS/api/ephemeral"
)

func TestNewClient_NoEndpoint(t *testing.T) {
	t.Setenv(EnvEndpoint, "")

	_, err := NewClient()
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument without endpoint, got %v", err)
	}
}

func TestNewClient_EndpointFromEnv(t *testing.T) {
	t.Setenv(EnvEndpoint, "http://localhost:8000")
	t.Setenv(EnvAccessKeyID, "AKIAEXAMPLE")
	t.Setenv(EnvSecretAccessKey, "secret")

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.transport == nil {
		t.Error("expected a transport built from the environment")
	}
}

func TestClient_StorageConfigCached(t *testing.T) {
	client, transport := newTestClient(t)

	cfg, err := client.StorageConfig(t.Context())
	if err != nil {
		t.Fatalf("StorageConfig failed: %v", err)
	}
	if cfg.BlockstoreType != "mem" {
		t.Errorf("expected blockstore 'mem', got %s", cfg.BlockstoreType)
	}

	if _, err := client.StorageConfig(t.Context()); err != nil {
		t.Fatalf("StorageConfig failed: %v", err)
	}
	if transport.CallCount("config") != 1 {
		t.Errorf("expected a single storage config probe, got %d", transport.CallCount("config"))
	}
}

func TestClient_PresignModeExplicitOverride(t *testing.T) {
	transport := ephemeral.New()
	transport.Config.PreSignSupport = true

	client, err := NewClient(WithTransport(transport))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	forced := false
	presign, err := client.presignMode(t.Context(), &forced)
	if err != nil {
		t.Fatalf("presignMode failed: %v", err)
	}
	if presign {
		t.Error("expected explicit override to win over the advertised default")
	}

	// Explicit preference never needs the storage config probe.
	if transport.CallCount("config") != 0 {
		t.Errorf("expected no config probe, got %d", transport.CallCount("config"))
	}

	presign, err = client.presignMode(t.Context(), nil)
	if err != nil {
		t.Fatalf("presignMode failed: %v", err)
	}
	if !presign {
		t.Error("expected the advertised default when no preference is forced")
	}
}
