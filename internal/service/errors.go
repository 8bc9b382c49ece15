package service

import (
	"fmt"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

// storageErr marks err as an infrastructure fault while keeping it inspectable.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", model.ErrStorageFailure, op, err)
}
