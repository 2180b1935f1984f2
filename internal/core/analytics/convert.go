package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ToFloat converts a numeric cell to float64. Numeric and decimal columns come back from
// some drivers as text; they are parsed exactly before the final conversion. nil is 0.
func ToFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case decimal.Decimal:
		return v.InexactFloat64(), nil
	case []byte:
		return parseDecimal(string(v))
	case string:
		return parseDecimal(v)
	default:
		return 0, fmt.Errorf("unsupported numeric value %T", value)
	}
}

func parseDecimal(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}

// FormatLabel renders a dimension or counter label cell as text
func FormatLabel(value interface{}) string {
	if value == nil {
		return "NULL"
	}

	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(DayLayout)
	case int, int32, int64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return decimal.NewFromFloat(toFloat64(v)).String()
	case decimal.Decimal:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toFloat64(value interface{}) float64 {
	f, _ := ToFloat(value)
	return f
}
