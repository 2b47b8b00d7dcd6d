// FILE: lixenwraith/envconfig/doc.go

// Package envconfig builds strongly-typed configuration structs from
// environment variables, reporting every misconfiguration in one pass.
//
// Features:
//   - Namespaced keys derived from the struct's own type name
//   - Nested config structs resolved under an extended prefix
//   - Built-in rules for strings, integers, floats and booleans, plus
//     durations, timestamps, IPs, CIDRs, URLs and TextUnmarshalers
//   - Per-field chains of named transform and validate steps
//   - Defaults, and private fields that never read the environment
//   - A Secret type that masks its content in every textual path
//   - Snapshots from the process, from maps, or from TOML/JSON/YAML files
//
// Quick Start:
//
//	type Database struct {
//	    URL     string `env:"url"`
//	    Timeout int    `env:"timeout" default:"5"`
//	}
//
//	type AppConfig struct {
//	    Port     int    `env:"port" chain:"int,positive"`
//	    Password envconfig.Secret `env:"password"`
//	    Database Database `env:"database"`
//	}
//
//	r := envconfig.NewBuilder().
//	    WithStep("positive", envconfig.Validate(func(v any) error {
//	        if v.(int) <= 0 {
//	            return envconfig.Invalid("port must be positive")
//	        }
//	        return nil
//	    })).
//	    MustBuild()
//
//	cfg, err := envconfig.MustLoad[AppConfig](r)
//
// reads APPCONFIG__PORT, APPCONFIG__PASSWORD, APPCONFIG__DATABASE__URL and
// APPCONFIG__DATABASE__TIMEOUT.
//
// Key naming:
// A field's config name is its env tag, or its Go name in snake_case. The
// key is the uppercase prefix, "__", and the uppercase name. Nested structs
// extend the prefix by one segment. Names starting with "_" mark private
// fields, which must carry a default tag and are never looked up.
//
// Outcomes:
// Scan and Load return either the populated struct, an *AggregateError
// holding every NotSet, MissingDefault, UnionType and Conversion defect in
// encounter order, or a *ValidationError the moment a validator rejects a
// value. MustScan, MustLoad and FromEnv additionally print aggregated
// defects one per line to the sink and call the exit hook.
//
// Pointer fields to non-config types and interface fields are union types
// and always rejected. Lists and maps are not supported.
package envconfig
