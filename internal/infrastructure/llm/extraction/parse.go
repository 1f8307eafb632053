package extraction

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kirillkom/dossier/internal/core/domain"
)

var fencePatterns = []*regexp.Regexp{
	regexp.MustCompile("```json\\n([\\s\\S]*?)\\n```"),
	regexp.MustCompile("```\\n([\\s\\S]*?)\\n```"),
}

const replySchema = `{"type": "object"}`

var objectSchema = jsonschema.MustCompileString("reply.json", replySchema)

// ParseReply pulls the first JSON object out of a model reply: a fenced block
// if there is one, otherwise the first brace that opens a well-formed object.
// Anything else becomes {rawText, parseError: true}.
func ParseReply(reply string) *domain.RawExtraction {
	for _, re := range fencePatterns {
		if m := re.FindStringSubmatch(reply); m != nil {
			ext, err := decodeObject(strings.TrimSpace(m[1]))
			if err != nil {
				return parseFailure(reply)
			}
			return ext
		}
	}
	if ext, ok := firstObject(reply); ok {
		return ext
	}
	return parseFailure(reply)
}

// firstObject tries each '{' in turn and keeps the first one that decodes.
func firstObject(reply string) (*domain.RawExtraction, bool) {
	for offset := 0; offset < len(reply); {
		i := strings.IndexByte(reply[offset:], '{')
		if i < 0 {
			return nil, false
		}
		start := offset + i
		offset = start + 1

		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(reply[start:])).Decode(&raw); err != nil {
			continue
		}
		if ext, err := decodeObject(string(raw)); err == nil {
			return ext, true
		}
	}
	return nil, false
}

func decodeObject(candidate string) (*domain.RawExtraction, error) {
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	if err := objectSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("reply shape: %w", err)
	}

	ext := domain.NewRawExtraction()
	if err := ext.UnmarshalJSON([]byte(candidate)); err != nil {
		return nil, err
	}
	return ext, nil
}

func parseFailure(reply string) *domain.RawExtraction {
	return domain.NewRawExtraction(
		domain.Field{Key: domain.FieldRawText, Value: domain.StringValue(reply)},
		domain.Field{Key: domain.FieldParseError, Value: domain.BoolValue(true)},
	)
}
