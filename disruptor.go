package match

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrDisruptorTimeout is returned when shutdown times out
var ErrDisruptorTimeout = errors.New("disruptor: shutdown timeout")

// EventHandler consumes the events of a RingBuffer, always from a single goroutine.
type EventHandler[T any] interface {
	OnEvent(event T)
}

// RingBuffer is a multi-producer single-consumer ring buffer.
// Events are handed to the handler one at a time, in claim order.
type RingBuffer[T any] struct {
	// Cache line padding to avoid false sharing
	_                [56]byte
	producerSequence atomic.Int64
	_                [56]byte
	consumerSequence atomic.Int64
	_                [56]byte

	buffer     []T
	bufferMask int64
	capacity   int64

	// published[i] holds the sequence last written into slot i
	published []int64

	handler EventHandler[T]

	isShutdown atomic.Bool
	// inflight counts producers between the shutdown check and the published store
	inflight atomic.Int64
	done     chan struct{}
}

// NewRingBuffer creates a new MPSC RingBuffer.
// capacity must be a power of 2.
func NewRingBuffer[T any](capacity int64, handler EventHandler[T]) *RingBuffer[T] {
	if capacity <= 0 || (capacity&(capacity-1)) != 0 {
		panic("size must be a power of 2")
	}

	rb := &RingBuffer[T]{
		buffer:     make([]T, capacity),
		published:  make([]int64, capacity),
		capacity:   capacity,
		bufferMask: capacity - 1,
		handler:    handler,
		done:       make(chan struct{}),
	}

	rb.producerSequence.Store(-1)
	rb.consumerSequence.Store(-1)

	for i := range rb.published {
		atomic.StoreInt64(&rb.published[i], -1)
	}

	return rb
}

// Publish claims the next slot and writes event into it. Safe for concurrent producers.
// It returns false when the ring buffer is shutting down.
func (rb *RingBuffer[T]) Publish(event T) bool {
	rb.inflight.Add(1)
	defer rb.inflight.Add(-1)

	if rb.isShutdown.Load() {
		return false
	}

	var nextSeq int64
	for {
		currentProducerSeq := rb.producerSequence.Load()
		nextSeq = currentProducerSeq + 1

		// The producer may not lap the consumer.
		wrapPoint := nextSeq - rb.capacity
		if wrapPoint > rb.consumerSequence.Load() {
			if rb.isShutdown.Load() {
				return false
			}
			runtime.Gosched()
			continue
		}

		if rb.producerSequence.CompareAndSwap(currentProducerSeq, nextSeq) {
			break
		}
		runtime.Gosched()
	}

	index := nextSeq & rb.bufferMask
	rb.buffer[index] = event

	// Make the write visible to the consumer.
	atomic.StoreInt64(&rb.published[index], nextSeq)
	return true
}

// Start runs the consumer loop on a new goroutine.
func (rb *RingBuffer[T]) Start() {
	go rb.Run()
}

// Run is the consumer loop. It returns once Shutdown was called and every
// claimed event has been handled.
func (rb *RingBuffer[T]) Run() {
	defer close(rb.done)

	nextConsumerSeq := rb.consumerSequence.Load() + 1

	for {
		availableSeq := rb.producerSequence.Load()

		if rb.isShutdown.Load() {
			rb.drain(nextConsumerSeq)
			return
		}

		if nextConsumerSeq > availableSeq {
			runtime.Gosched()
			continue
		}

		nextConsumerSeq = rb.consume(nextConsumerSeq, availableSeq)
	}
}

// drain keeps consuming until no producer is left mid-publish, then handles
// everything claimed up to that point.
func (rb *RingBuffer[T]) drain(next int64) {
	for {
		next = rb.consume(next, rb.producerSequence.Load())
		if rb.inflight.Load() == 0 {
			rb.consume(next, rb.producerSequence.Load())
			return
		}
		runtime.Gosched()
	}
}

// consume handles events from next up to and including last, returning the next sequence to read.
func (rb *RingBuffer[T]) consume(next, last int64) int64 {
	for next <= last {
		index := next & rb.bufferMask

		// Wait until the producer that claimed this slot has written it.
		for atomic.LoadInt64(&rb.published[index]) != next {
			runtime.Gosched()
		}

		var zero T
		event := rb.buffer[index]
		rb.buffer[index] = zero
		rb.handler.OnEvent(event)

		rb.consumerSequence.Store(next)
		next++
	}
	return next
}

// Shutdown stops accepting events and waits for the consumer to drain the buffer.
func (rb *RingBuffer[T]) Shutdown(ctx context.Context) error {
	rb.isShutdown.Store(true)

	select {
	case <-rb.done:
		return nil
	case <-ctx.Done():
		return ErrDisruptorTimeout
	}
}

// ConsumerSequence returns the last handled sequence (for monitoring).
func (rb *RingBuffer[T]) ConsumerSequence() int64 {
	return rb.consumerSequence.Load()
}

// ProducerSequence returns the last claimed sequence (for monitoring).
func (rb *RingBuffer[T]) ProducerSequence() int64 {
	return rb.producerSequence.Load()
}

// GetPendingEvents returns the number of claimed but not yet handled events.
func (rb *RingBuffer[T]) GetPendingEvents() int64 {
	return rb.producerSequence.Load() - rb.consumerSequence.Load()
}
