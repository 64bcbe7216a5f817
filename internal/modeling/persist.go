package modeling

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "spotifyeda/internal/errors"
)

const modelFormatVersion = 1

type modelFile struct {
	Version int       `json:"version"`
	Model   *Pipeline `json:"model"`
}

// SaveModel writes the fitted pipeline as JSON, creating parent directories
func SaveModel(model *Pipeline, path string) error {
	if model == nil {
		return apperrors.NewInvalidInputError("model is nil", nil)
	}

	data, err := json.MarshalIndent(modelFile{Version: modelFormatVersion, Model: model}, "", "  ")
	if err != nil {
		return apperrors.NewIOError("failed to encode model", err).WithContext("path", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewIOError("failed to create model directory", err).WithContext("path", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.NewIOError("failed to write model", err).WithContext("path", path)
	}
	return nil
}

// LoadModel reads a pipeline written by SaveModel
func LoadModel(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewIOError("failed to read model", err).WithContext("path", path)
	}

	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, apperrors.NewIOError("failed to decode model", err).WithContext("path", path)
	}
	if file.Version != modelFormatVersion || file.Model == nil || file.Model.Scaler == nil ||
		file.Model.Classifier == nil || !file.Model.Classifier.Fitted() {
		return nil, apperrors.NewIOError(fmt.Sprintf("unsupported model file (version %d)", file.Version), nil).
			WithContext("path", path)
	}
	return file.Model, nil
}
