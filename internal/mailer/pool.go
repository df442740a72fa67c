package mailer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	ErrQueueFull = errors.New("mail queue full")
	ErrClosed    = errors.New("mailer is shut down")
)

type Worker struct {
	ID         int
	WorkerPool chan chan Message
	JobChannel chan Message
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Message, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Message),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, send func(Message)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case msg := <-w.JobChannel:
				w.Logger.Debug("worker sending mail", "worker_id", w.ID, "subject", msg.Subject)
				send(msg)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	Workers   int
	QueueSize int
}

// Mailer queues messages and delivers them on a fixed set of workers.
// Shutdown stops intake and waits until every queued message was handed to
// the sender.
type Mailer struct {
	sender Sender
	logger *slog.Logger

	jobQueue   chan Message
	workerPool chan chan Message
	maxWorkers int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func New(sender Sender, cfg Config, logger *slog.Logger) *Mailer {
	ctx, cancel := context.WithCancel(context.Background())

	workers := cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	m := &Mailer{
		sender:     sender,
		logger:     logger,
		jobQueue:   make(chan Message, queueSize),
		workerPool: make(chan chan Message, workers),
		maxWorkers: workers,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	for i := 0; i < m.maxWorkers; i++ {
		NewWorker(i, m.workerPool, logger).Start(ctx, &m.wg, m.deliver)
	}
	go m.dispatch()

	logger.Info("mail worker pool started", "workers", m.maxWorkers, "queue_size", queueSize)
	return m
}

func (m *Mailer) dispatch() {
	defer close(m.done)
	for msg := range m.jobQueue {
		jobChannel := <-m.workerPool
		jobChannel <- msg
	}
}

func (m *Mailer) deliver(msg Message) {
	if err := m.sender.Send(m.ctx, msg); err != nil {
		m.logger.Error("failed to send mail", "to", msg.To, "subject", msg.Subject, "error", err)
		return
	}
	m.logger.Info("mail sent", "to", msg.To, "subject", msg.Subject)
}

// Enqueue never blocks; it fails when the queue is full or the mailer is
// shut down.
func (m *Mailer) Enqueue(msg Message) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	select {
	case m.jobQueue <- msg:
		return nil
	default:
		m.logger.Warn("mail queue full, dropping message", "to", msg.To, "queue_capacity", cap(m.jobQueue))
		return ErrQueueFull
	}
}

func (m *Mailer) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.jobQueue)
	m.mu.Unlock()

	m.logger.Info("shutting down mailer", "pending", len(m.jobQueue))
	<-m.done
	m.cancel()
	m.wg.Wait()
	m.logger.Info("mailer shutdown complete")
}
