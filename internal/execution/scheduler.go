package execution

// Scheduler distributes jobs across workers
type Scheduler interface {
	Schedule(jobs []Job, workerCount int) [][]Job
}

// RoundRobinScheduler distributes jobs evenly across workers
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule assigns jobs to workers round-robin, keeping declaration order
// within each worker's batch.
func (s *RoundRobinScheduler) Schedule(jobs []Job, workerCount int) [][]Job {
	if workerCount <= 0 {
		workerCount = 1
	}

	batches := make([][]Job, workerCount)
	for i := range batches {
		batches[i] = make([]Job, 0)
	}

	for i, job := range jobs {
		batches[i%workerCount] = append(batches[i%workerCount], job)
	}

	return batches
}
