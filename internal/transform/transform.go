package transform

import (
	"fmt"

	"github.com/rgehrsitz/hiquote/internal/domain"
)

// QuoteTransform is a composable what-if edit of a quote. Transforms never modify their
// input; Apply returns a new quote so alternatives can be priced side by side.
type QuoteTransform interface {
	// Apply returns a modified copy of base.
	Apply(base *domain.Quote) (*domain.Quote, error)

	// Name returns a short identifier such as "set_copay".
	Name() string

	// Description returns a human-readable summary of the edit.
	Description() string

	// Validate checks the parameters against base without applying them.
	Validate(base *domain.Quote) error
}

// ApplyTransforms applies transforms in order, each receiving the output of the previous one.
func ApplyTransforms(base *domain.Quote, transforms []QuoteTransform) (*domain.Quote, error) {
	if base == nil {
		return nil, fmt.Errorf("base quote cannot be nil")
	}

	if len(transforms) == 0 {
		return base.DeepCopy(), nil
	}

	current := base
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}

		current = next
	}

	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

// targetGroups returns the indexes of the groups a transform addresses. An empty
// selector means every group.
func targetGroups(q *domain.Quote, selector string) ([]int, error) {
	if selector == "" {
		idx := make([]int, len(q.Groups))
		for i := range q.Groups {
			idx[i] = i
		}
		return idx, nil
	}
	for i := range q.Groups {
		if q.Groups[i].ID == selector || q.Groups[i].Name == selector {
			return []int{i}, nil
		}
	}
	return nil, fmt.Errorf("group %s not found in quote", selector)
}
