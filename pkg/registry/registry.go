// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*TaskRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg TaskRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// FindByTaskType returns the task definition for a Zeebe task type.
func (r *TaskRegistry) FindByTaskType(taskType string) (*Task, error) {
	for i := range r.Tasks {
		if r.Tasks[i].TaskType == taskType {
			return &r.Tasks[i], nil
		}
	}
	return nil, fmt.Errorf("task type %q not found in registry", taskType)
}

// TaskTypes lists every task type in registry order.
func (r *TaskRegistry) TaskTypes() []string {
	types := make([]string, 0, len(r.Tasks))
	for _, task := range r.Tasks {
		types = append(types, task.TaskType)
	}
	return types
}
