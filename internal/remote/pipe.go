package remote

import "sync"

// Pipe is an in-process Link for tests and -mock runs: what one side sends
// the bound handler receives, unless the pipe is marked unreachable, in
// which case the value is silently dropped like a QoS 0 publish to a dead
// broker.
type Pipe struct {
	mu        sync.Mutex
	onRun     func(bool)
	reachable bool
	dropped   int
}

func NewPipe() *Pipe {
	return &Pipe{reachable: true}
}

// Bind sets the receiving side.
func (p *Pipe) Bind(onRun func(bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onRun = onRun
}

// SetReachable simulates the peer appearing or disappearing.
func (p *Pipe) SetReachable(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reachable = v
}

// Dropped reports how many sends were lost while unreachable.
func (p *Pipe) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

func (p *Pipe) Send(running bool) {
	p.mu.Lock()
	onRun, ok := p.onRun, p.reachable
	if !ok || onRun == nil {
		p.dropped++
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	onRun(running)
}

func (p *Pipe) Close() {}
