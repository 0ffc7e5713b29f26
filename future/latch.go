package future

// Latch is a payload-less future. Repeated completion is tolerated
// because the value is always the same trivial one.
type Latch struct {
	*Future[struct{}]
}

func NewLatch() *Latch {
	return &Latch{
		Future: New[struct{}](OnRecomplete(DiscardRecomplete())),
	}
}

func (l *Latch) SetCompleted() {
	l.Set(struct{}{})
}
