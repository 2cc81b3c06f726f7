// SPDX-License-Identifier: MPL-2.0

// Package container provides a unified abstraction layer for container engines (Docker/Podman).
//
// The Engine interface defines the operations the task runner needs: image
// queries and transfer (ImageExists, PullImage, PushImage, RemoveImage) and the
// container lifecycle (CreateContainer, CopyInto, StartContainer, CopyFrom,
// CommitContainer, StopContainer, RemoveContainer, SpawnShell). Two
// implementations are provided: DockerEngine and PodmanEngine, both embedding
// BaseCLIEngine for shared CLI argument construction and command execution.
//
// Engine selection uses NewEngine(EngineType) with automatic fallback if the
// preferred engine is unavailable, or AutoDetectEngine() for preference-less
// detection (Podman is tried first).
//
// Every operation reports failure as an *OpError, which classifies the outcome
// as a system failure, a user-command failure, or an interruption. Callers use
// the classification to decide whether a failed task is retryable and whether
// its container may be committed.
package container
