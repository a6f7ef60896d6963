// Package resource provides scoped ownership of native open_jtalk resources.
//
// Every native object (Mecab, NJD, JPCommon) must be initialized exactly
// once before use and cleared exactly once afterwards. A Managed value ties
// that pair to a Go scope:
//
//	m, err := resource.Acquire(mecab.New(lib))
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	m.Get().Load(dir)
//
// Close clears the resource the first time it is called and is a no-op
// afterwards, so an explicit Close followed by the deferred one is safe.
// Get after Close panics.
//
// # Observers
//
// Register observers to follow resource lifecycles:
//
//	tracker := resource.NewTracker()
//	m, err := resource.Acquire(njd.New(lib), resource.WithObserver(tracker))
//	...
//	if tracker.Live() != 0 {
//	    log.Printf("%d resources still initialized", tracker.Live())
//	}
//
// # Thread Safety
//
// Managed is safe to Close from any goroutine. The wrapped resource is not
// goroutine-safe; callers serialize access to it.
package resource
