// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func Load(path string) (*WorkerRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg WorkerRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

func (r *WorkerRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// FindByTaskType returns the worker registered for a Zeebe task type, or nil.
func (r *WorkerRegistry) FindByTaskType(taskType string) *Worker {
	for i := range r.Workers {
		if r.Workers[i].TaskType == taskType {
			return &r.Workers[i]
		}
	}
	return nil
}

// Validate checks the registry for duplicate ids/task types and missing
// required fields.
func (r *WorkerRegistry) Validate() error {
	ids := map[string]bool{}
	taskTypes := map[string]bool{}
	for _, w := range r.Workers {
		if w.ID == "" || w.TaskType == "" || w.Category == "" {
			return fmt.Errorf("worker %q: id, taskType and category are required", w.ID)
		}
		if ids[w.ID] {
			return fmt.Errorf("duplicate worker id %q", w.ID)
		}
		if taskTypes[w.TaskType] {
			return fmt.Errorf("duplicate task type %q", w.TaskType)
		}
		ids[w.ID] = true
		taskTypes[w.TaskType] = true
	}
	return nil
}
