package ui

import (
	"errors"
	"fmt"
)

// Tree and renderer errors.
var (
	// ErrInvalidSize indicates a negative width or height.
	ErrInvalidSize = errors.New("invalid size")

	// ErrHasParent indicates the child must be removed from its parent first.
	ErrHasParent = errors.New("node already has a parent")

	// ErrCycle indicates the child is the parent itself or one of its ancestors.
	ErrCycle = errors.New("node would become its own ancestor")

	// ErrNotChild indicates the node is not a child of the receiver.
	ErrNotChild = errors.New("node is not a child")

	// ErrNotContainer indicates the node kind cannot own children.
	ErrNotContainer = errors.New("node cannot have children")

	// ErrForeignNode indicates the node was created by a different renderer.
	ErrForeignNode = errors.New("node belongs to another renderer")

	// ErrRootNode indicates an operation that cannot be applied to the root.
	ErrRootNode = errors.New("operation not allowed on root node")

	// ErrRendererDestroyed indicates the renderer has been destroyed.
	ErrRendererDestroyed = errors.New("renderer destroyed")

	// ErrNodeDestroyed indicates the node has been destroyed.
	ErrNodeDestroyed = errors.New("node destroyed")

	// ErrUnsettled indicates external updates kept enqueueing more updates.
	ErrUnsettled = errors.New("updates did not settle")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "add", "remove", "settle")
	Target string // Node id or other target, may be empty
	Err    error  // Underlying error
}

func newOpError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OperationError.
// Matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// HandlerError reports a failure raised by a user handler during dispatch.
type HandlerError struct {
	NodeID string
	Kind   EventKind
	Err    error
}

func (e *HandlerError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s handler on %s: %v", e.Kind, e.NodeID, e.Err)
}

func (e *HandlerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("panic: %v", e.Value)
}
