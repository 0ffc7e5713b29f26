package future

// RecompleteHook is called when a completion is attempted on a future
// that is already done.
type RecompleteHook func()

// StrictRecomplete treats a second completion attempt as a bug in the caller.
func StrictRecomplete() RecompleteHook {
	return func() {
		panic("future is already completed")
	}
}

// DiscardRecomplete silently drops the redundant attempt.
func DiscardRecomplete() RecompleteHook {
	return func() {
	}
}

type options struct {
	recomplete RecompleteHook
}

func newOptions() *options {
	return &options{
		recomplete: StrictRecomplete(),
	}
}

type Option func(o *options)

func OnRecomplete(hook RecompleteHook) Option {
	return func(o *options) {
		o.recomplete = hook
	}
}
