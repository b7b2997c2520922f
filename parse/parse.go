package parse

import (
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ToolCall is one structured request extracted from assistant text.
type ToolCall struct {
	ToolName   string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters"`
}

// ParsedResponse is the outcome of parsing a raw assistant reply.
// Rationale is always populated: it is the natural-language portion of the
// reply with any fenced structured blocks stripped. ToolCalls is nil when no
// structured call was found. Content holds the raw payload of the block the
// tool calls came from. StructuredCall carries the parameters of an api_call
// tool call when the strict parser selected one.
type ParsedResponse struct {
	Rationale      string
	ToolCalls      []ToolCall
	Content        string
	StructuredCall map[string]any
}

// Parser extracts a ParsedResponse from raw assistant text. Implementations
// never fail: malformed input degrades to "rationale = full text".
type Parser interface {
	Parse(raw string) ParsedResponse
}

// fencedBlock is one closed ``` block found in the text.
type fencedBlock struct {
	tag     string // text after the opening fence on the same line, e.g. "json"
	content string
	start   int // offset of the opening fence
	end     int // offset just past the closing fence
}

const fence = "```"

// findFencedBlocks scans raw for closed triple-backtick blocks in document
// order. An opening fence without a closing one is ignored (its text stays
// part of the rationale).
func findFencedBlocks(raw string) []fencedBlock {
	var blocks []fencedBlock
	pos := 0
	for {
		open := strings.Index(raw[pos:], fence)
		if open < 0 {
			break
		}
		open += pos
		tagEnd := strings.IndexByte(raw[open+len(fence):], '\n')
		if tagEnd < 0 {
			break // fence opens on the last line; nothing can close it
		}
		tag := strings.TrimSpace(raw[open+len(fence) : open+len(fence)+tagEnd])
		bodyStart := open + len(fence) + tagEnd + 1
		closeRel := strings.Index(raw[bodyStart:], fence)
		if closeRel < 0 {
			break
		}
		end := bodyStart + closeRel + len(fence)
		blocks = append(blocks, fencedBlock{
			tag:     tag,
			content: strings.TrimSpace(raw[bodyStart : bodyStart+closeRel]),
			start:   open,
			end:     end,
		})
		pos = end
	}
	return blocks
}

// rationaleOutside returns all text outside the given blocks, line-trimmed
// with blank lines collapsed.
func rationaleOutside(raw string, blocks []fencedBlock) string {
	var outside strings.Builder
	pos := 0
	for _, b := range blocks {
		outside.WriteString(raw[pos:b.start])
		pos = b.end
	}
	outside.WriteString(raw[pos:])

	var lines []string
	for _, line := range strings.Split(outside.String(), "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

// decodeParams converts a gjson object into a parameter map.
func decodeParams(v gjson.Result) map[string]any {
	m, ok := v.Value().(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// Strict is the API-oriented parsing strategy: fenced blocks are scanned in
// document order and the first entry of a tool_calls list that has a string
// tool_name, an object parameters, and string url and method values inside
// parameters is selected as the single tool call. Blocks that fail to decode
// are skipped.
type Strict struct {
	log *zap.Logger
}

// NewStrict returns a Strict parser. A nil logger disables debug logging.
func NewStrict(log *zap.Logger) *Strict {
	if log == nil {
		log = zap.NewNop()
	}
	return &Strict{log: log}
}

func (p *Strict) Parse(raw string) ParsedResponse {
	blocks := findFencedBlocks(raw)
	out := ParsedResponse{Rationale: rationaleOutside(raw, blocks)}

	for _, b := range blocks {
		if !gjson.Valid(b.content) {
			p.log.Debug("skipping undecodable block", zap.Int("offset", b.start))
			continue
		}
		calls := gjson.Get(b.content, "tool_calls")
		if !calls.IsArray() {
			continue
		}
		for _, entry := range calls.Array() {
			if !validStrictEntry(entry) {
				continue
			}
			call := ToolCall{
				ToolName:   entry.Get("tool_name").String(),
				Parameters: decodeParams(entry.Get("parameters")),
			}
			out.ToolCalls = []ToolCall{call}
			out.Content = b.content
			if call.ToolName == "api_call" {
				out.StructuredCall = call.Parameters
			}
			p.log.Debug("selected tool call", zap.String("tool", call.ToolName))
			return out
		}
	}
	return out
}

// validStrictEntry checks the API-oriented entry shape: string tool_name,
// object parameters, and string-valued url and method inside parameters.
func validStrictEntry(entry gjson.Result) bool {
	if entry.Get("tool_name").Type != gjson.String {
		return false
	}
	params := entry.Get("parameters")
	if !params.IsObject() {
		return false
	}
	return params.Get("url").Type == gjson.String &&
		params.Get("method").Type == gjson.String
}

// Lenient is the general parsing strategy: it takes the last fenced json
// block in the text, treats everything before it as the rationale, and takes
// a top-level tool_calls list verbatim without per-entry validation. Any
// decode failure degrades to "whole text is rationale".
type Lenient struct {
	log *zap.Logger
}

// NewLenient returns a Lenient parser. A nil logger disables debug logging.
func NewLenient(log *zap.Logger) *Lenient {
	if log == nil {
		log = zap.NewNop()
	}
	return &Lenient{log: log}
}

func (p *Lenient) Parse(raw string) ParsedResponse {
	trimmed := strings.TrimSpace(raw)

	closing := strings.LastIndex(raw, fence)
	if closing < 0 {
		return ParsedResponse{Rationale: trimmed}
	}
	opening := strings.LastIndex(raw[:closing], fence+"json")
	if opening < 0 {
		return ParsedResponse{Rationale: trimmed}
	}

	body := strings.TrimSpace(raw[opening+len(fence+"json") : closing])
	if !gjson.Valid(body) {
		p.log.Debug("last json block failed to decode; treating full text as rationale")
		return ParsedResponse{Rationale: trimmed}
	}

	out := ParsedResponse{Rationale: strings.TrimSpace(raw[:opening])}
	calls := gjson.Get(body, "tool_calls")
	if !calls.Exists() {
		return out
	}
	out.Content = body
	for _, entry := range calls.Array() {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ToolName:   entry.Get("tool_name").String(),
			Parameters: decodeParams(entry.Get("parameters")),
		})
	}
	p.log.Debug("parsed tool_calls from last block", zap.Int("count", len(out.ToolCalls)))
	return out
}
