package domain

import "slices"

// EnvDefaults holds environment variables that are applied only when the
// surrounding environment does not already define them.
type EnvDefaults map[string]string

// DefaultEnv returns the defaults used for asset compilation.
func DefaultEnv() EnvDefaults {
	return EnvDefaults{
		"RAILS_GROUPS": "assets",
		"RAILS_ENV":    "production",
	}
}

// Resolve returns KEY=VALUE pairs for each default not already set according to lookup.
// The result is sorted by key.
func (d EnvDefaults) Resolve(lookup func(string) (string, bool)) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	res := make([]string, 0, len(keys))
	for _, k := range keys {
		if lookup != nil {
			if _, ok := lookup(k); ok {
				continue
			}
		}
		res = append(res, k+"="+d[k])
	}
	return res
}
