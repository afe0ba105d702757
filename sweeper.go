package mfaGuard

import (
	"sync"
	"time"
)

// sweeper owns the periodic attempt sweep. It is started by Build and stopped
// by Guard.Close; the tick callback runs on its own goroutine and only
// touches the in-memory tracker, so it never blocks request serving.
type sweeper struct {
	interval time.Duration
	tick     func()
	stop     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func startSweeper(interval time.Duration, tick func()) *sweeper {
	s := &sweeper{
		interval: interval,
		tick:     tick,
		stop:     make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stop:
			return
		}
	}
}

// Stop halts the sweep loop and waits for an in-flight tick to finish.
func (s *sweeper) Stop() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
}
