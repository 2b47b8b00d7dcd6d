// FILE: lixenwraith/envconfig/decode.go
package envconfig

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Upper bounds on raw lengths accepted by the network hooks
const (
	maxIPLength   = 45 // IPv6 with zone
	maxCIDRLength = 49
	maxURLLength  = 2048
)

// scalarHook converts a raw string into the extended scalar types:
// durations, RFC3339 timestamps, IPs, CIDRs, URLs and TextUnmarshalers.
var scalarHook = mapstructure.ComposeDecodeHookFunc(
	stringToNetIPHookFunc(),
	stringToNetIPNetHookFunc(),
	stringToURLHookFunc(),
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToTimeHookFunc(time.RFC3339),
	mapstructure.TextUnmarshallerHookFunc(),
)

// decodeScalar runs raw through the decode hooks for target type t
func decodeScalar(raw string, t reflect.Type) (any, error) {
	out, err := mapstructure.DecodeHookExec(scalarHook, reflect.ValueOf(raw), reflect.New(t).Elem())
	if err != nil {
		return nil, err
	}

	v := reflect.ValueOf(out)
	if v.IsValid() && v.Type() == reflect.PointerTo(t) {
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != t {
		return nil, fmt.Errorf("%w: no decoder for %s", ErrUnsupportedType, t)
	}
	return v.Interface(), nil
}

func stringToNetIPHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != ipType {
			return data, nil
		}

		str := data.(string)
		if len(str) > maxIPLength {
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}
		ip := net.ParseIP(str)
		if ip == nil {
			return nil, &net.ParseError{Type: "IP address", Text: str}
		}
		return ip, nil
	}
}

func stringToNetIPNetHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != ipNetType {
			return data, nil
		}

		str := data.(string)
		if len(str) > maxCIDRLength {
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, err
		}
		return *ipnet, nil
	}
}

func stringToURLHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != urlType {
			return data, nil
		}

		str := data.(string)
		if len(str) > maxURLLength {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, err
		}
		return *u, nil
	}
}

// assemble decodes a tree of resolved, already typed values into target.
// Keys follow the env tag, falling back to the Go field name, which is the
// lookup mapstructure itself performs.
func assemble(tree map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: tagEnv,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(tree); err != nil {
		return fmt.Errorf("assembling %T: %w", target, err)
	}
	return nil
}

// setTreeValue stores value in tree under path, creating intermediate maps
func setTreeValue(tree map[string]any, path []string, value any) {
	current := tree
	for _, segment := range path[:len(path)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[path[len(path)-1]] = value
}
