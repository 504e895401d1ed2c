package config

import (
	"fmt"
	"reflect"

	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// decodeHook lets YAML numbers and user-typed strings ("250 000", "3,5%")
// populate decimal fields, and text names populate enums such as the
// baseline mode.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringOrNumberToDecimalHook(),
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func stringOrNumberToDecimalHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != decimalType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return validation.ParseRate("decimal", v)
		case float64:
			return decimal.NewFromFloat(v), nil
		case float32:
			return decimal.NewFromFloat32(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case int32:
			return decimal.NewFromInt32(v), nil
		case uint64:
			return decimal.NewFromInt(int64(v)), nil
		case decimal.Decimal:
			return v, nil
		default:
			return nil, fmt.Errorf("cannot decode %s into a decimal", from)
		}
	}
}
