// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// Test scaffolding bridging the tests (written against the earlier
// sync.Once-based cache) to the current sync.OnceValue implementation.
// Production code is untouched; tests swap detectOnce for an equivalent
// resettable cache backed by sandboxOnce/detectedSandbox.
var (
	sandboxOnce     sync.Once
	detectedSandbox SandboxType
)

func resetSandboxDetection() {
	sandboxOnce = sync.Once{}
	detectedSandbox = SandboxNone
	detectOnce = func() SandboxType {
		sandboxOnce.Do(func() {
			detectedSandbox = detectSandboxFrom(os.Getenv, statFile)
		})
		return detectedSandbox
	}
}

func detectSandboxInternal() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
}

func init() {
	resetSandboxDetection()
}
