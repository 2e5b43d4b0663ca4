package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"portfolio-backend/internal/models"
)

type chatLogWriter interface {
	Insert(ctx context.Context, l *models.ChatLog) error
}

// Pool drains chat log entries onto Postgres off the request path. The
// log is diagnostic only, so a full queue drops entries rather than
// blocking the relay.
type Pool struct {
	repo        chatLogWriter
	queue       chan models.ChatLog
	workerCount int
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

func NewPool(repo chatLogWriter, workerCount, queueSize int) *Pool {
	return &Pool{
		repo:        repo,
		queue:       make(chan models.ChatLog, queueSize),
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.Printf("Started %d chat log worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

// Enqueue never blocks; entries are dropped when the queue is full.
func (p *Pool) Enqueue(l models.ChatLog) {
	select {
	case p.queue <- l:
	default:
		log.Println("Chat log queue full, dropping entry")
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case l := <-p.queue:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := p.repo.Insert(ctx, &l); err != nil {
				log.Printf("Worker %d: failed to write chat log: %v", id, err)
			}
			cancel()
		}
	}
}
