// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"testing"
)

func TestProviderLoadDefaults(t *testing.T) {
	p := NewProvider()

	cfg, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ContainerEngine != ContainerEngineAuto {
		t.Errorf("container engine = %s, want auto", cfg.ContainerEngine)
	}
}

func TestProviderLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `repository: "provided"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Repository != "provided" {
		t.Errorf("repository = %s, want provided", cfg.Repository)
	}
}

func TestProviderLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, want context.Canceled", err)
	}
}
