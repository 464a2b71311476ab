package domain

import "time"

// BuildSpec describes how to invoke the external asset build task.
type BuildSpec struct {
	Command []string
	// Dir is the application directory the task runs in.
	Dir string
	// Env holds KEY=VALUE pairs layered over the process environment.
	Env []string
}

// BuildResult is the outcome of one build task invocation.
type BuildResult struct {
	Success  bool
	Elapsed  time.Duration
	Output   string
	ExitCode int
}
