package localize

import "errors"

// ErrInitialization indicates the backend could not be initialized for the
// requested locale chain.
var ErrInitialization = errors.New("localize: initialization failed")

// ErrUsage indicates a formatting or construction call violated its contract.
var ErrUsage = errors.New("localize: invalid usage")

// ErrBackend indicates the backend broke the formatting contract, such as
// returning a batch result of the wrong length.
var ErrBackend = errors.New("localize: backend contract violation")
