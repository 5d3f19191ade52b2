package arena

import (
	"sync"
	"testing"
	"time"
)

func TestCommitPublishesBackBuffer(t *testing.T) {
	a := New(16)

	a.View(func(mem []byte, gen uint64) {
		if gen != 0 {
			t.Errorf("generation = %d before first commit, expected 0", gen)
		}
	})

	a.Back()[0] = 42
	a.View(func(mem []byte, _ uint64) {
		if mem[0] != 0 {
			t.Error("uncommitted writes must not be visible")
		}
	})

	if gen := a.Commit(); gen != 1 {
		t.Errorf("Commit() = %d, expected 1", gen)
	}
	a.View(func(mem []byte, gen uint64) {
		if mem[0] != 42 || gen != 1 {
			t.Errorf("View saw %d at generation %d, expected 42 at 1", mem[0], gen)
		}
	})
}

func TestBackStartsFromLastCommit(t *testing.T) {
	a := New(8)
	a.Back()[3] = 7
	a.Commit()

	if a.Back()[3] != 7 {
		t.Error("back buffer should carry the committed state forward")
	}

	a.Back()[3]++
	a.Commit()
	a.View(func(mem []byte, _ uint64) {
		if mem[3] != 8 {
			t.Errorf("mem[3] = %d, expected 8", mem[3])
		}
	})
}

func TestReadersSeeWholeGenerations(t *testing.T) {
	a := New(256)
	const ticks = 500

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range ticks {
			a.View(func(mem []byte, gen uint64) {
				// The writer fills every byte with the generation number
				want := byte(gen)
				for i, b := range mem {
					if b != want {
						t.Errorf("byte %d = %d in generation %d", i, b, gen)
						return
					}
				}
			})
		}
	}()

	for gen := 1; gen <= ticks; gen++ {
		back := a.Back()
		for i := range back {
			back[i] = byte(gen)
		}
		a.Commit()
	}
	wg.Wait()

	if a.Generation() != ticks {
		t.Errorf("Generation() = %d, expected %d", a.Generation(), ticks)
	}
}

func TestNewDefaultSize(t *testing.T) {
	if New(0).Size() != DefaultSize {
		t.Errorf("Size() = %d, expected %d", New(0).Size(), DefaultSize)
	}
}

func TestCommitDoesNotWaitForReaders(t *testing.T) {
	a := New(8)
	a.Back()[0] = 1
	a.Commit()

	entered := make(chan struct{})
	release := make(chan struct{})
	seen := make(chan byte, 1)
	go func() {
		a.View(func(mem []byte, _ uint64) {
			close(entered)
			<-release
			seen <- mem[0]
		})
	}()
	<-entered

	done := make(chan struct{})
	go func() {
		defer close(done)
		for gen := 2; gen <= 5; gen++ {
			a.Back()[0] = byte(gen)
			a.Commit()
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Commit blocked behind a reader inside View")
	}

	a.View(func(mem []byte, gen uint64) {
		if mem[0] != 5 || gen != 5 {
			t.Errorf("View saw %d at generation %d, expected 5 at 5", mem[0], gen)
		}
	})

	close(release)
	if got := <-seen; got != 1 {
		t.Errorf("pinned reader saw %d, expected its generation to stay 1", got)
	}
}
