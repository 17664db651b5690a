package risk

import "errors"

var (
	ErrUnknownLevel    = errors.New("unknown risk level")
	ErrUnknownSeverity = errors.New("unknown defect severity")

	ErrInvalidWeights    = errors.New("invalid severity weights")
	ErrInvalidThresholds = errors.New("invalid risk thresholds")
)
