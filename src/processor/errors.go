package processor

import "github.com/pkg/errors"

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrInvalidFrame   = errors.New("invalid dataframe")
)
