package meter

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrMalformedExample indicates a sigmoid example without a label and a
	// truth flag, or whose label has no matching prediction.
	ErrMalformedExample = errors.New("meter: malformed example")

	// ErrUndefinedAUC indicates a label with no positive or no negative examples.
	ErrUndefinedAUC = errors.New("meter: AUC undefined")
)
