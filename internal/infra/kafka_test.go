// README: Producer shutdown behavior tests (no broker needed).
package infra

import (
	"context"
	"sync"
	"testing"
)

// TestProducerPublishDuringShutdown: publishes racing the context
// cancellation must never panic on the closed inbox.
func TestProducerPublishDuringShutdown(t *testing.T) {
	p := NewProducer([]string{"localhost:9"}, "test-topic", 16)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				p.Publish([]byte("order"), []byte("payload"))
			}
		}()
	}
	cancel()
	wg.Wait()
	p.WaitClosed()
}

func TestProducerPublishAfterClose(t *testing.T) {
	p := NewProducer([]string{"localhost:9"}, "test-topic", 4)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()
	p.WaitClosed()

	// A late publish is a silent no-op.
	p.Publish([]byte("order"), []byte("payload"))
}
