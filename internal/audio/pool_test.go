package audio

import (
	"sync"
	"testing"
	"time"
)

func checkConservation(t *testing.T, p *Pool) {
	t.Helper()
	a, f, d := p.Counts()
	if a+f+d != p.Len() {
		t.Errorf("available %d + filling %d + device %d != %d", a, f, d, p.Len())
	}
}

func TestPoolStartsAvailable(t *testing.T) {
	p := NewPool(5, 1024)

	a, f, d := p.Counts()
	if a != 5 || f != 0 || d != 0 {
		t.Errorf("Counts() = %d/%d/%d, expected 5/0/0", a, f, d)
	}
	for i := range 5 {
		b, ok := p.TryAcquire()
		if !ok {
			t.Fatalf("TryAcquire %d failed", i)
		}
		if len(b.Data) != 1024 {
			t.Errorf("buffer size = %d, expected 1024", len(b.Data))
		}
	}
	if _, ok := p.TryAcquire(); ok {
		t.Error("TryAcquire should fail on an empty pool")
	}
	checkConservation(t, p)
}

func TestPoolReleaseWakesAcquire(t *testing.T) {
	p := NewPool(1, 8)
	b, _ := p.TryAcquire()
	p.Submitted(b)

	got := make(chan *Buffer)
	go func() {
		nb, ok := p.Acquire()
		if !ok {
			got <- nil
			return
		}
		got <- nb
	}()

	select {
	case <-got:
		t.Fatal("Acquire returned before a buffer was released")
	case <-time.After(20 * time.Millisecond):
	}

	p.Release(b)

	select {
	case nb := <-got:
		if nb != b {
			t.Errorf("Acquire returned %v, expected the released buffer", nb)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not wake after Release")
	}
}

func TestPoolCloseUnblocksAcquire(t *testing.T) {
	p := NewPool(1, 8)
	p.TryAcquire()

	done := make(chan bool)
	go func() {
		_, ok := p.Acquire()
		done <- ok
	}()

	p.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("Acquire should fail after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not wake Acquire")
	}
}

func TestPoolDoubleReleaseIgnored(t *testing.T) {
	p := NewPool(2, 8)
	b, _ := p.TryAcquire()
	p.Submitted(b)
	p.Release(b)
	p.Release(b)

	if a, _, _ := p.Counts(); a != 2 {
		t.Errorf("available = %d, expected 2", a)
	}
	checkConservation(t, p)
}

func TestPoolConservationUnderLoad(t *testing.T) {
	p := NewPool(5, 64)
	inFlight := make(chan *Buffer, 5)

	var wg sync.WaitGroup
	wg.Add(2)

	// Device side: play and release
	go func() {
		defer wg.Done()
		for b := range inFlight {
			p.Release(b)
		}
	}()

	// Filler side: acquire, fill and submit
	go func() {
		defer wg.Done()
		defer close(inFlight)
		for range 2000 {
			b, ok := p.Acquire()
			if !ok {
				return
			}
			b.Data[0]++
			p.Submitted(b)
			inFlight <- b
		}
	}()

	// Observer
	stop := make(chan struct{})
	observed := make(chan struct{})
	go func() {
		defer close(observed)
		for {
			select {
			case <-stop:
				return
			default:
				checkConservation(t, p)
			}
		}
	}()

	wg.Wait()
	close(stop)
	<-observed

	if a, _, _ := p.Counts(); a != 5 {
		t.Errorf("available = %d after drain, expected 5", a)
	}
}
