// Package identity maintains the multi-key index that maps any known
// platform id or normalized name to one canonical player identity.
package identity

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithCapacityHint pre-sizes the indices for an expected number of
// identities across all seasons.
func WithCapacityHint(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.byID = make(map[idKey]string, n)
			r.byName = make(map[string]string, n)
			r.records = make(map[string]*record, n)
		}
	}
}
