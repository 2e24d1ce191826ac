// Package compute wraps the remote compute API that owns the instance.
package compute

import "context"

// Compute is the set of remote operations the dispatcher needs.
type Compute interface {
	// StartInstance begins powering on the instance.
	StartInstance(ctx context.Context, instanceID string) error
	// StopInstance begins powering off the instance.
	StopInstance(ctx context.Context, instanceID string) error
	// InstanceState returns the current power state name, e.g. "running".
	InstanceState(ctx context.Context, instanceID string) (string, error)
}
