package workers

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/hollis-dev/shoeboxbackend/config"
	"github.com/hollis-dev/shoeboxbackend/media"
	"github.com/hollis-dev/shoeboxbackend/store"
)

type ThumbnailJob struct {
	PhotoID      int64
	RelativePath string // relative to ROOT_DIRECTORY
}

// ThumbnailGenerator runs a pool of workers that generate thumbnails for
// scanned photos and record the result on the photo store. Jobs are
// deduplicated by photo ID while queued or in flight.
type ThumbnailGenerator struct {
	JobQueue  chan ThumbnailJob
	Config    config.Config
	Photos    *store.PhotoStore
	Processor *media.Processor
	Wg        sync.WaitGroup
	StopChan  chan struct{}
	Pending   map[int64]bool
	Mutex     sync.Mutex
}

func NewThumbnailGenerator(cfg config.Config, photos *store.PhotoStore, processor *media.Processor, queueSize, numWorkers int) *ThumbnailGenerator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	gen := &ThumbnailGenerator{
		JobQueue:  make(chan ThumbnailJob, queueSize),
		Config:    cfg,
		Photos:    photos,
		Processor: processor,
		StopChan:  make(chan struct{}),
		Pending:   make(map[int64]bool),
	}

	gen.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go gen.worker(i)
	}
	log.Printf("started %d thumbnail worker(s) with queue size %d", numWorkers, queueSize)

	return gen
}

func (tg *ThumbnailGenerator) worker(id int) {
	defer tg.Wg.Done()
	log.Printf("thumbnail worker %d started", id)
	for {
		select {
		case job, ok := <-tg.JobQueue:
			if !ok {
				log.Printf("thumbnail worker %d stopping: queue closed", id)
				return
			}
			tg.process(id, job)
		case <-tg.StopChan:
			log.Printf("thumbnail worker %d stopping: stop signal", id)
			return
		}
	}
}

func (tg *ThumbnailGenerator) process(id int, job ThumbnailJob) {
	defer func() {
		tg.Mutex.Lock()
		delete(tg.Pending, job.PhotoID)
		tg.Mutex.Unlock()
	}()

	absPath := filepath.Join(tg.Config.RootDirectory, filepath.FromSlash(job.RelativePath))
	if _, err := os.Stat(absPath); err != nil {
		log.Printf("thumbnail worker %d: skipping photo %d, cannot stat %s: %v", id, job.PhotoID, absPath, err)
		return
	}

	relThumbPath, err := tg.Processor.GenerateThumbnail(absPath, tg.Config.ThumbnailMaxSize)
	if err != nil {
		log.Printf("thumbnail worker %d: failed to generate thumbnail for photo %d (%s): %v", id, job.PhotoID, job.RelativePath, err)
		return
	}
	tg.Photos.SetThumbnail(job.PhotoID, relThumbPath)
}

// Enqueue schedules thumbnail generation for a photo unless a job for it
// is already queued or running. Returns false when the queue is full.
func (tg *ThumbnailGenerator) Enqueue(job ThumbnailJob) bool {
	tg.Mutex.Lock()
	if tg.Pending[job.PhotoID] {
		tg.Mutex.Unlock()
		return true
	}
	tg.Pending[job.PhotoID] = true
	tg.Mutex.Unlock()

	select {
	case tg.JobQueue <- job:
		return true
	default:
		tg.Mutex.Lock()
		delete(tg.Pending, job.PhotoID)
		tg.Mutex.Unlock()
		log.Printf("thumbnail queue full, dropping job for photo %d", job.PhotoID)
		return false
	}
}

// Stop signals all workers to exit and waits for them.
func (tg *ThumbnailGenerator) Stop() {
	close(tg.StopChan)
	tg.Wg.Wait()
}
