// Package config loads and validates stencil job files.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fdstencil/fornberg"
)

const (
	DefaultName    = "stencils"
	DefaultWorkers = 4
	MaxWorkers     = 256
)

var (
	ErrNoStencils    = errors.New("config: job has no stencils")
	ErrDuplicateName = errors.New("config: duplicate stencil name")
	ErrEmptyName     = errors.New("config: stencil name is empty")
	ErrWorkers       = errors.New("config: workers out of range")
)

// Job is a named batch of independent stencils.
type Job struct {
	Name     string        `yaml:"name"`
	Workers  int           `yaml:"workers"`
	Stencils []StencilSpec `yaml:"stencils"`
}

// StencilSpec describes one call to the solver. Points are supplied by the
// author of the job, never generated.
type StencilSpec struct {
	Name      string    `yaml:"name" json:"name"`
	Order     int       `yaml:"order" json:"order"`
	At        float64   `yaml:"at" json:"at"`
	Points    []float64 `yaml:"points" json:"points"`
	AllOrders bool      `yaml:"all_orders,omitempty" json:"all_orders,omitempty"`
}

// StencilError reports which stencil of a job failed validation.
type StencilError struct {
	Index int
	Name  string
	Err   error
}

func (e *StencilError) Error() string {
	return fmt.Sprintf("stencil %d (%q): %v", e.Index, e.Name, e.Err)
}

func (e *StencilError) Unwrap() error {
	return e.Err
}

func DefaultJob() *Job {
	return &Job{
		Name:    DefaultName,
		Workers: DefaultWorkers,
	}
}

func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a job document and fills unset fields with defaults.
func Parse(data []byte) (*Job, error) {
	job := DefaultJob()
	if err := yaml.Unmarshal(data, job); err != nil {
		return nil, err
	}
	if job.Workers == 0 {
		job.Workers = DefaultWorkers
	}
	if job.Name == "" {
		job.Name = DefaultName
	}
	return job, nil
}

func Save(path string, job *Job) error {
	data, err := yaml.Marshal(job)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the job shape and every stencil's solver input.
func (j *Job) Validate() error {
	if err := j.ValidateShape(); err != nil {
		return err
	}
	for i, s := range j.Stencils {
		if err := s.Validate(); err != nil {
			return &StencilError{Index: i, Name: s.Name, Err: err}
		}
	}
	return nil
}

// ValidateShape checks everything except the solver inputs: stencil count,
// worker count and stencil names.
func (j *Job) ValidateShape() error {
	if len(j.Stencils) == 0 {
		return ErrNoStencils
	}
	if j.Workers < 1 || j.Workers > MaxWorkers {
		return fmt.Errorf("%w: %d", ErrWorkers, j.Workers)
	}
	seen := make(map[string]int, len(j.Stencils))
	for i, s := range j.Stencils {
		if s.Name == "" {
			return &StencilError{Index: i, Err: ErrEmptyName}
		}
		if prev, ok := seen[s.Name]; ok {
			return &StencilError{Index: i, Name: s.Name,
				Err: fmt.Errorf("%w (first at %d)", ErrDuplicateName, prev)}
		}
		seen[s.Name] = i
	}
	return nil
}

func (s StencilSpec) Validate() error {
	return fornberg.Validate(s.Order, s.At, s.Points)
}
