package services

import (
	"context"
	"log"
	"sync"

	"github.com/jetmil/dreamcapture/repository"
)

// enrichmentTask is one unit of background enrichment work.
type enrichmentTask struct {
	kind      string // "dream" or "moment"
	contentID string
	text      string // dream description or moment caption
	title     string
	mediaType string
}

// EnrichmentService runs best-effort content enrichment off the request path.
// Handlers only enqueue; a dedicated worker drains the queue. Enrichment is
// idempotent (overwrites, never appends), tolerates partial results, and a
// total failure leaves the created content untouched and valid.
type EnrichmentService interface {
	EnqueueDream(dreamID, description, title string)
	EnqueueMoment(momentID, caption, mediaType string)
	Start(ctx context.Context)
	Stop()
}

type enrichmentService struct {
	dreamRepo  repository.DreamRepository
	momentRepo repository.MomentRepository
	aiService  AIService

	tasks chan enrichmentTask
	wg    sync.WaitGroup
}

// NewEnrichmentService creates a new instance of EnrichmentService with a
// bounded task queue.
func NewEnrichmentService(
	dreamRepo repository.DreamRepository,
	momentRepo repository.MomentRepository,
	aiService AIService,
	queueSize int,
) EnrichmentService {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &enrichmentService{
		dreamRepo:  dreamRepo,
		momentRepo: momentRepo,
		aiService:  aiService,
		tasks:      make(chan enrichmentTask, queueSize),
	}
}

// EnqueueDream schedules dream analysis and image generation. Never blocks:
// a full queue drops the task, because enrichment is best effort.
func (s *enrichmentService) EnqueueDream(dreamID, description, title string) {
	s.enqueue(enrichmentTask{kind: "dream", contentID: dreamID, text: description, title: title})
}

// EnqueueMoment schedules moment tagging. Never blocks.
func (s *enrichmentService) EnqueueMoment(momentID, caption, mediaType string) {
	s.enqueue(enrichmentTask{kind: "moment", contentID: momentID, text: caption, mediaType: mediaType})
}

func (s *enrichmentService) enqueue(task enrichmentTask) {
	select {
	case s.tasks <- task:
	default:
		log.Printf("WARN: [EnrichmentService] Queue full, dropping %s enrichment for %s.", task.kind, task.contentID)
	}
}

// Start launches the worker goroutine. An in-flight task outliving its
// content's expiry still completes: writing enrichment to a hidden row is
// harmless since hidden items remain addressable by ID.
func (s *enrichmentService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Println("INFO: [EnrichmentService] Worker started.")
		for {
			select {
			case <-ctx.Done():
				log.Println("INFO: [EnrichmentService] Worker stopping.")
				return
			case task := <-s.tasks:
				s.process(ctx, task)
			}
		}
	}()
}

// Stop waits for the worker to exit after its context is cancelled.
func (s *enrichmentService) Stop() {
	s.wg.Wait()
}

func (s *enrichmentService) process(ctx context.Context, task enrichmentTask) {
	switch task.kind {
	case "dream":
		s.processDream(ctx, task)
	case "moment":
		s.processMoment(ctx, task)
	}
}

// processDream analyzes the dream and generates its image. Partial results
// persist: a failed image generation still writes analysis and tags.
func (s *enrichmentService) processDream(ctx context.Context, task enrichmentTask) {
	analysis := s.aiService.AnalyzeDream(ctx, task.text)

	visualPrompt := analysis.VisualPrompt
	if visualPrompt == "" {
		visualPrompt = task.text
		if len(visualPrompt) > 200 {
			visualPrompt = visualPrompt[:200]
		}
	}
	imageURL := s.aiService.GenerateImage(ctx, visualPrompt, task.title)

	if err := s.dreamRepo.UpdateEnrichment(task.contentID, analysis, analysis.Tags, imageURL); err != nil {
		// Best effort: the dream itself stays valid without enrichment.
		log.Printf("ERROR: [EnrichmentService] Failed to persist enrichment for dream %s: %v", task.contentID, err)
		return
	}
	log.Printf("INFO: [EnrichmentService] Enriched dream %s (%d tags, image=%t).", task.contentID, len(analysis.Tags), imageURL != "")
}

// processMoment extracts tags for the moment.
func (s *enrichmentService) processMoment(ctx context.Context, task enrichmentTask) {
	tags := s.aiService.AnalyzeMoment(ctx, task.text, task.mediaType)
	if err := s.momentRepo.UpdateTags(task.contentID, tags); err != nil {
		log.Printf("ERROR: [EnrichmentService] Failed to persist tags for moment %s: %v", task.contentID, err)
		return
	}
	log.Printf("INFO: [EnrichmentService] Enriched moment %s (%d tags).", task.contentID, len(tags))
}
