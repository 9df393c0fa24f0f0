package processor

import (
	"github.com/geocine/bookcat/internal/models"
)

// Processor interface for transforming the record set before rendering
type Processor interface {
	Name() string
	Process(books []*models.Book) ([]*models.Book, error)
}

// Pipeline runs multiple processors in sequence
type Pipeline struct {
	processors []Processor
}

// NewPipeline creates a new processor pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{
		processors: make([]Processor, 0),
	}
}

// Add adds a processor to the pipeline
func (p *Pipeline) Add(processor Processor) {
	p.processors = append(p.processors, processor)
}

// Process runs all processors on the record set, threading the possibly
// shrunk slice through each stage
func (p *Pipeline) Process(books []*models.Book) ([]*models.Book, error) {
	var err error
	for _, processor := range p.processors {
		if books, err = processor.Process(books); err != nil {
			return nil, err
		}
	}
	return books, nil
}
