package worker

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

type job struct {
	name string
	run  Task
}

// Pool runs notification fan-out and other fire-and-forget work off the
// request path. A full queue drops the task rather than blocking a request;
// every task carries a name so dropped or failed work is traceable.
type Pool struct {
	taskQueue chan job
	wg        sync.WaitGroup
	isClosing atomic.Bool
}

func NewPool(size int) *Pool {
	p := &Pool{
		taskQueue: make(chan job, 1000),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.startWorker()
	}

	return p
}

func (p *Pool) startWorker() {
	defer p.wg.Done()
	for j := range p.taskQueue {
		if err := j.run(context.Background()); err != nil {
			log.Printf("background task %s failed: %v", j.name, err)
		}
	}
}

func (p *Pool) Submit(name string, t Task) {
	if p.isClosing.Load() {
		log.Printf("task %s submitted during shutdown, dropping", name)
		return
	}
	select {
	case p.taskQueue <- job{name: name, run: t}:
	default:
		log.Printf("task queue full, dropping %s", name)
	}
}

// Shutdown closes the queue and waits for workers to finish
func (p *Pool) Shutdown() {
	p.isClosing.Store(true)
	close(p.taskQueue)
	p.wg.Wait()
}
