package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Optional is a JSON value that distinguishes an absent key, an explicit
// null and a concrete value.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Get returns the value when one was supplied, or nil for absent and null.
func (o Optional[T]) Get() *T {
	if !o.Present || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// Parameters is the typed form of the client parameter bag.
type Parameters struct {
	Temperature  Optional[float64]
	TopP         Optional[float64]
	TopK         Optional[int]
	MaxNewTokens Optional[int]
}

// ParseParameters decodes the client parameter bag. Unknown keys are ignored,
// as is a bag that is absent, null or not a JSON object. A recognized key with
// a value of the wrong type yields a *ParameterError.
func ParseParameters(raw json.RawMessage) (Parameters, error) {
	var params Parameters

	var bag map[string]json.RawMessage
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &bag) != nil {
		return params, nil
	}

	var err error
	if params.Temperature, err = decodeOptional[float64](bag, "temperature"); err != nil {
		return Parameters{}, err
	}
	if params.TopP, err = decodeOptional[float64](bag, "top_p"); err != nil {
		return Parameters{}, err
	}
	if params.TopK, err = decodeOptional[int](bag, "top_k"); err != nil {
		return Parameters{}, err
	}
	if params.MaxNewTokens, err = decodeOptional[int](bag, "max_new_tokens"); err != nil {
		return Parameters{}, err
	}

	if err := checkRange("top_k", params.TopK, 0, MaxTopK); err != nil {
		return Parameters{}, err
	}
	if err := checkRange("max_new_tokens", params.MaxNewTokens, 1, MaxOutputTokens); err != nil {
		return Parameters{}, err
	}
	return params, nil
}

// Bounds of the integer parameters. The provider carries top_k as a float32,
// exact up to 2^24, and the output token limit as a positive int32.
const (
	MaxTopK         = 1 << 24
	MaxOutputTokens = math.MaxInt32
)

func checkRange(key string, opt Optional[int], lo, hi int) error {
	if v := opt.Get(); v != nil && (*v < lo || *v > hi) {
		return &ParameterError{
			Key: key,
			Err: fmt.Errorf("must be between %d and %d, got %d", lo, hi, *v),
		}
	}
	return nil
}

func decodeOptional[T any](bag map[string]json.RawMessage, key string) (Optional[T], error) {
	var opt Optional[T]
	raw, ok := bag[key]
	if !ok {
		return opt, nil
	}
	opt.Present = true
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		opt.Null = true
		return opt, nil
	}
	if err := json.Unmarshal(raw, &opt.Value); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			err = errors.New("expected " + typeErr.Type.String() + ", got " + typeErr.Value)
		}
		return opt, &ParameterError{Key: key, Err: err}
	}
	return opt, nil
}

// MapParameters renames the recognized client parameters onto the provider
// configuration. Absent and null parameters are left unset.
func MapParameters(p Parameters) Config {
	return Config{
		Temperature:     p.Temperature.Get(),
		TopP:            p.TopP.Get(),
		TopK:            p.TopK.Get(),
		MaxOutputTokens: p.MaxNewTokens.Get(),
	}
}
