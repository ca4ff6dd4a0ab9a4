package collection

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Loading never fails the request path: a missing source yields an empty
// collection, a malformed unit is skipped, a malformed top-level structure
// yields an empty collection. All of it is logged and the pipeline degrades
// to fewer results.

// loadArray reads a JSON array source of embedded documents.
func loadArray(path string, logger *zap.Logger) []domain.Document {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Collection source not found", zap.String("path", path))
		} else {
			logger.Warn("Cannot read collection source", zap.String("path", path), zap.Error(err))
		}
		return nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		logger.Warn("Collection source is not a JSON array",
			zap.String("path", path), zap.Error(err))
		return nil
	}

	docs := make([]domain.Document, 0, len(elements))
	skipped := 0
	for i, el := range elements {
		var doc domain.Document
		if err := json.Unmarshal(el, &doc); err != nil {
			skipped++
			continue
		}
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("%s::%d", path, i)
		}
		docs = append(docs, doc)
	}
	if skipped > 0 {
		logger.Warn("Skipped malformed collection entries",
			zap.String("path", path), zap.Int("skipped", skipped))
	}
	return docs
}

// loadLines reads a line-delimited source of incrementally ingested
// documents. Records must carry their own text and embedding; lines missing
// either are discarded individually, not the whole file.
func loadLines(path string, logger *zap.Logger) []domain.Document {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Collection source not found", zap.String("path", path))
		} else {
			logger.Warn("Cannot read collection source", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	defer f.Close()

	var docs []domain.Document
	skipped := 0
	lineNo := 0

	scanner := bufio.NewScanner(f)
	// Imported support conversations can be long single lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec lineRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		if rec.Text == "" || len(rec.Embedding) == 0 {
			skipped++
			continue
		}
		docs = append(docs, rec.document(path, lineNo))
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("Stopped reading collection source",
			zap.String("path", path), zap.Error(err))
	}
	if skipped > 0 {
		logger.Warn("Discarded incomplete line records",
			zap.String("path", path), zap.Int("skipped", skipped))
	}
	return docs
}

// lineRecord tolerates both record shapes the mail importers produced:
// flat fields on the record itself and a nested meta object.
type lineRecord struct {
	ID         string          `json:"id"`
	Text       string          `json:"text"`
	Embedding  []float32       `json:"embedding"`
	Meta       domain.Metadata `json:"meta"`
	Subject    string          `json:"subject"`
	SourceType string          `json:"sourceType"`
}

func (r lineRecord) document(path string, lineNo int) domain.Document {
	meta := r.Meta
	if meta == nil {
		meta = domain.Metadata{}
	}
	if r.Subject != "" && meta.Str("name") == "" {
		meta["name"] = r.Subject
	}
	if r.SourceType != "" && meta.Str("sourceType") == "" {
		meta["sourceType"] = r.SourceType
	}

	id := r.ID
	if id == "" {
		id = fmt.Sprintf("%s::%d", path, lineNo)
	}
	return domain.Document{ID: id, Text: r.Text, Embedding: r.Embedding, Meta: meta}
}
