package agent

const (
	DefaultMaxConcurrentTasks = 64
)

type options struct {
	maxConcurrentTasks int
}

func newOptions() *options {
	return &options{
		maxConcurrentTasks: DefaultMaxConcurrentTasks,
	}
}

type Option func(o *options)

func MaxConcurrentTasks(count int) Option {
	return func(o *options) {
		if count > 0 {
			o.maxConcurrentTasks = count
		}
	}
}
