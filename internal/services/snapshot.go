package services

import (
	"encoding/json"
	"fmt"

	"github.com/mikelady/voicegit/internal/models"
)

// ExportFilename is the download name of an exported snapshot
const ExportFilename = "voice-commits.json"

// EncodeSnapshot renders records as an indented JSON array in store order.
// A nil slice encodes as [] so an empty store still exports a valid list.
func EncodeSnapshot(records []models.CommitRecord) ([]byte, error) {
	if records == nil {
		records = []models.CommitRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot reads a snapshot produced by EncodeSnapshot
func DecodeSnapshot(data []byte) ([]models.CommitRecord, error) {
	var records []models.CommitRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return records, nil
}
