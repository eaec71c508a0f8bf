package connectrpc

import (
	"fmt"
	"math"
)

// toInt32 narrows a counter for a wire field, failing instead of wrapping.
func toInt32[T ~int | ~int64](name string, value T) (int32, error) {
	if int64(value) > math.MaxInt32 || int64(value) < math.MinInt32 {
		return 0, fmt.Errorf("%s does not fit in int32: %d", name, value)
	}
	return int32(value), nil
}
