// Package shared provides a registry of lazily built, reference-counted
// instances, such as connection pools or parsed configuration, that many
// goroutines use but only one should construct.
//
// Instances are keyed by their Go type and an optional tag:
//
//	registry := shared.NewRegistry(shared.DefaultConfig())
//	defer registry.Close()
//
//	h, err := shared.Get(registry, openPool, shared.WithTag("primary"))
//	if err != nil {
//		return err
//	}
//	defer h.Release()
//	pool := h.Value()
//
// Callers that arrive while an instance is being built wait for that build
// and share its result. A failed build is returned to all of them and is not
// cached.
//
// When the last handle to an instance is released, the instance is evicted
// and closed if it implements io.Closer; the next Get builds a new one with a
// new Generation. Instances obtained with Permanent stay until Close.
package shared
