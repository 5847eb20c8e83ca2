package stm

import "sync"
import "testing"

import "github.com/stretchr/testify/assert"

func TestAppendlistDrainEmpty(t *testing.T) {
	l := newappendlist[int]()
	assert.Empty(t, l.drain())
}

func TestAppendlistAddDrain(t *testing.T) {
	l := newappendlist[int]()
	for i := 0; i < 10; i++ {
		l.add(i)
	}
	got := l.drain()
	assert.Len(t, got, 10)

	seen := map[int]bool{}
	for _, v := range got {
		seen[v] = true
	}
	for i := 0; i < 10; i++ {
		assert.True(t, seen[i])
	}

	assert.Empty(t, l.drain())
}

func TestAppendlistConcurrentAdd(t *testing.T) {
	l := newappendlist[int]()
	n, routines := 1000, 20

	var wg sync.WaitGroup
	for g := 0; g < routines; g++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				l.add(base*n + i)
			}
		}(g)
	}
	wg.Wait()

	got := l.drain()
	assert.Len(t, got, n*routines)
}
