package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/recstore/internal/model"
)

// RecordsFile is the snapshot file name inside a store directory.
const RecordsFile = "records.jsonl"

// JSONLStore keeps each store's records as a JSONL snapshot, one record
// per line in store order.
type JSONLStore struct {
	baseDir string // data directory
}

// NewJSONLStore creates a new JSONL store.
func NewJSONLStore(baseDir string) *JSONLStore {
	return &JSONLStore{baseDir: baseDir}
}

// getRecordsPath returns the path to records.jsonl for a store.
func (s *JSONLStore) getRecordsPath(name string) string {
	return filepath.Join(s.baseDir, name, RecordsFile)
}

// ReadAllRecords reads all records from the JSONL file.
// Returns nil if the file doesn't exist, which means the store has never
// been initialized.
func (s *JSONLStore) ReadAllRecords(name string) ([]model.Record, error) {
	file, err := os.Open(s.getRecordsPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	records := []model.Record{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var record model.Record
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse record at line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading records file: %w", err)
	}

	return records, nil
}

// WriteAllRecords overwrites the JSONL file with the given records.
// A nil slice deletes the file so the store reads back as uninitialized.
func (s *JSONLStore) WriteAllRecords(name string, records []model.Record) error {
	if records == nil {
		return s.DeleteFile(name)
	}

	dir := filepath.Join(s.baseDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	var buf bytes.Buffer
	for i := range records {
		data, err := json.Marshal(&records[i])
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	if err := writeFileAtomic(dir, "records-*.tmp", s.getRecordsPath(name), buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// DeleteFile removes the records.jsonl file for a store.
func (s *JSONLStore) DeleteFile(name string) error {
	err := os.Remove(s.getRecordsPath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete records file: %w", err)
	}
	return nil
}

// Exists returns true if the records file exists.
func (s *JSONLStore) Exists(name string) bool {
	_, err := os.Stat(s.getRecordsPath(name))
	return err == nil
}
