package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNameLocks(t *testing.T) {
	locks := newNameLocks()

	unlockA := locks.lock("a")
	unlockB := locks.lock("b")
	assert.Equal(t, 2, locks.size())

	acquired := make(chan struct{})
	go func() {
		defer locks.lock("a")()
		close(acquired)
	}()
	select {
	case <-acquired:
		t.Fatal("second holder of a name must wait")
	case <-time.After(20 * time.Millisecond):
	}

	unlockA()
	<-acquired
	unlockB()
	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, 5*time.Millisecond)
}
