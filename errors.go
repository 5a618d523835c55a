package eigenfaces

import (
	"errors"
	"fmt"
)

var (
	// ErrNotTrained is returned by Classify when Train has not completed.
	ErrNotTrained = errors.New("model is not trained")

	// ErrEmptyInput is returned when an operation is given zero images,
	// a zero-length vector or a zero-length distance list.
	ErrEmptyInput = errors.New("empty input")

	// ErrLabelMismatch is returned when the label list is not
	// index-aligned with the training images.
	ErrLabelMismatch = errors.New("labels not aligned with training images")
)

// dimension mismatch in a matrix or vector operation
func shapeError(op string, expected, actual int) error {
	return fmt.Errorf("%s: dimension mismatch: expected %d, got %d", op, expected, actual)
}
