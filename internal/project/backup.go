package project

import (
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/ensurefill/internal/model"
)

// JobFileVersion is written into every saved job.
const JobFileVersion = "1.0.0"

// JobFile is the top-level structure of a saved fill job. It carries the
// inputs and, once filled, the resulting paths.
type JobFile struct {
	Version   string    `json:"version" yaml:"version"`
	CreatedAt string    `json:"created_at" yaml:"created_at"`
	Job       model.Job `json:"job" yaml:"job"`
}

// ExportJob writes a job to the given path as JSON or YAML depending on
// the extension.
func ExportJob(exportPath string, job model.Job) error {
	file := JobFile{
		Version:   JobFileVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Job:       job,
	}
	if err := writeFile(exportPath, file); err != nil {
		return fmt.Errorf("failed to write job file: %w", err)
	}
	return nil
}

// ImportJob reads a saved job file. The caller is responsible for
// validating the job parameters.
func ImportJob(importPath string) (JobFile, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return JobFile{}, fmt.Errorf("failed to read job file: %w", err)
	}
	var file JobFile
	if err := unmarshal(importPath, data, &file); err != nil {
		return JobFile{}, fmt.Errorf("failed to parse job file: %w", err)
	}
	if file.Version == "" {
		return JobFile{}, fmt.Errorf("invalid job file: missing version field")
	}
	return file, nil
}
