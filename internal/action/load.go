package action

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a JSON task file and validates every entry. Validation runs
// before anything touches the network, so a bad entry anywhere in the file
// stops the whole run up front.
func LoadFile(path string) ([]Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	var actions []Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("failed to parse task file %s: %w", path, err)
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("task file %s contains no tasks", path)
	}

	for i := range actions {
		if err := actions[i].Validate(); err != nil {
			return nil, fmt.Errorf("task file %s entry %d: %w", path, i, err)
		}
	}
	return actions, nil
}
