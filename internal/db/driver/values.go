package driver

import (
	sqldriver "database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is how temporal values are rendered into rows.
const TimeLayout = "2006-01-02 15:04:05.999999999Z07:00"

// Scalar reduces a value decoded by an engine driver to one of nil, bool,
// int64, float64 or string.
func Scalar(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool, int64, float64, string:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint:
		return unsigned(uint64(x))
	case uint64:
		return unsigned(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(TimeLayout)
	case [16]byte:
		// pgx decodes uuid columns into a bare array
		return uuid.UUID(x).String()
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(b)
	case sqldriver.Valuer:
		val, err := x.Value()
		if err != nil || val == nil {
			return nil
		}
		return Scalar(val)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

func unsigned(u uint64) any {
	if u > math.MaxInt64 {
		return strconv.FormatUint(u, 10)
	}
	return int64(u)
}
