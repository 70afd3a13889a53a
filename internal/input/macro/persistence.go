package macro

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Encoder turns a macro's actions into another representation, such as the
// byte layout a keyboard firmware expects. The actions slice is a copy and
// may be kept by the encoder.
type Encoder interface {
	Encode(actions []Action) ([]byte, error)
}

// persistedAction is the JSON-serializable form of an Action.
type persistedAction struct {
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

// persistedData is the root structure of a macro document.
type persistedData struct {
	Version int               `json:"version"`
	SavedAt time.Time         `json:"saved_at"`
	Actions []persistedAction `json:"actions"`
}

const currentVersion = 1

// toPersistedAction converts an Action to its JSON form.
func toPersistedAction(a Action) persistedAction {
	return persistedAction{
		Kind:  a.Kind().String(),
		Value: Payload(a),
	}
}

// fromPersistedAction converts the JSON form back to an Action.
func fromPersistedAction(p persistedAction) (Action, error) {
	kind, err := ParseKind(p.Kind)
	if err != nil {
		return nil, err
	}
	return FromPayload(kind, p.Value)
}

// MarshalActions encodes actions as a versioned JSON document.
func MarshalActions(actions []Action) ([]byte, error) {
	data := persistedData{
		Version: currentVersion,
		SavedAt: time.Now(),
		Actions: make([]persistedAction, len(actions)),
	}
	for i, a := range actions {
		data.Actions[i] = toPersistedAction(a)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal macro: %w", err)
	}
	return jsonData, nil
}

// UnmarshalActions decodes a document written by MarshalActions.
func UnmarshalActions(jsonData []byte) ([]Action, error) {
	var data persistedData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal macro: %w", err)
	}

	if data.Version > currentVersion {
		return nil, fmt.Errorf("unsupported macro file version: %d (max supported: %d)",
			data.Version, currentVersion)
	}

	actions := make([]Action, len(data.Actions))
	for i, p := range data.Actions {
		a, err := fromPersistedAction(p)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions[i] = a
	}
	return actions, nil
}

// JSONEncoder encodes actions as a macro document.
type JSONEncoder struct{}

// Encode implements Encoder.
func (JSONEncoder) Encode(actions []Action) ([]byte, error) {
	return MarshalActions(actions)
}

// Save writes the list to the specified file.
// The file is written atomically using a temporary file and rename.
func Save(list *List, path string) error {
	jsonData, err := list.Encode(JSONEncoder{})
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		// Clean up temp file on failure
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Load replaces the contents of list with the document at path.
// A missing file leaves the list untouched and is not an error.
// The list is only cleared once the document has decoded successfully.
func Load(list *List, path string) error {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read macro file: %w", err)
	}
	return Import(list, jsonData, false)
}

// Export returns the list as a portable JSON document.
func Export(list *List) ([]byte, error) {
	return list.Encode(JSONEncoder{})
}

// Import loads a JSON document into list. When merge is true the actions
// are appended after the existing lines; otherwise they replace them.
func Import(list *List, jsonData []byte, merge bool) error {
	actions, err := UnmarshalActions(jsonData)
	if err != nil {
		return err
	}

	if !merge {
		list.Clear()
	}
	list.AppendAll(actions)
	return nil
}

// DefaultDocumentsDir returns the default directory for macro documents.
// On Unix-like systems: ~/.config/keymacro/macros
func DefaultDocumentsDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "keymacro", "macros"), nil
}
