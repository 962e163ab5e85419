package ocr

import "errors"

var (
	// ErrPoolClosed is returned by Acquire after Close.
	ErrPoolClosed = errors.New("ocr engine pool closed")
	// ErrEmptyPool is returned when a pool is built without engines.
	ErrEmptyPool = errors.New("ocr engine pool needs at least one engine")
)
