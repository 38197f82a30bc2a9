package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

// Record is one input object. Only Texto feeds the pipeline; ID is kept
// as decoded, whatever its JSON type.
type Record struct {
	ID    any    `json:"id,omitempty"`
	Texto string `json:"texto"`
}

// Validate rejects records whose text is not valid UTF-8.
func (r Record) Validate() error {
	if !utf8.ValidString(r.Texto) {
		return fmt.Errorf("%w: texto is not valid UTF-8", internalerr.ErrInvalidRecord)
	}
	return nil
}

const recordSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["texto"],
		"properties": {
			"texto": {"type": "string"}
		}
	}
}`

var compiledRecordSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("records.json", strings.NewReader(recordSchema)); err != nil {
		panic(fmt.Sprintf("add record schema: %v", err))
	}
	return compiler.MustCompile("records.json")
}

// LoadRecords decodes a JSON array of records from r. The payload is
// validated against the record schema and every text is NFC-normalized.
func LoadRecords(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidRecord, err)
	}
	if err := compiledRecordSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidRecord, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidRecord, err)
	}

	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records[i].Texto = norm.NFC.String(records[i].Texto)
	}
	return records, nil
}

// LoadRecordsFile reads records from the JSON file at path.
func LoadRecordsFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := LoadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Texts extracts the corpus from records, in order.
func Texts(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Texto
	}
	return out
}
