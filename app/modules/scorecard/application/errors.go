package scorecardservice

import "errors"

// ErrOCRFailed wraps failures of the text recognition engine.
var ErrOCRFailed = errors.New("ocr failed")
