// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"reflect"
	"testing"

	"boxcar-cli/pkg/platform"
)

func TestHostExecCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sandbox platform.SandboxType
		want    []string
	}{
		{
			name:    "no sandbox runs the binary directly",
			sandbox: platform.SandboxNone,
			want:    []string{"docker", "image", "ls"},
		},
		{
			name:    "flatpak escapes to the host",
			sandbox: platform.SandboxFlatpak,
			want:    []string{"flatpak-spawn", "--host", "docker", "image", "ls"},
		},
		{
			name:    "snap escapes to the host",
			sandbox: platform.SandboxSnap,
			want:    []string{"snap", "run", "--shell", "docker", "image", "ls"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := hostExecCommand(tt.sandbox)(context.Background(), "docker", "image", "ls")
			if !reflect.DeepEqual(cmd.Args, tt.want) {
				t.Errorf("args = %v, want %v", cmd.Args, tt.want)
			}
		})
	}
}
