package dataset

import "errors"

var (
	ErrOpenDataset      = errors.New("failed to open dataset")
	ErrMalformedDataset = errors.New("malformed dataset")
	ErrEmptyDataset     = errors.New("no usable rows in dataset")
	ErrUnknownTrack     = errors.New("unknown track")
	ErrBadRow           = errors.New("bad row")
)
