package dispatcher

import "encoding/json"

// BlockType tags one content block of a response envelope.
type BlockType string

const (
	BlockTypeText BlockType = "text"
	BlockTypeJSON BlockType = "json"
)

type Block struct {
	Type BlockType `json:"type"`
	Text string    `json:"text"`
}

// Response is the uniform envelope every invocation returns. Anticipated
// failures (validation, unknown operation, storage) come back as a
// normal Response with IsError set; callers never see a raised fault.
type Response struct {
	Blocks  []Block `json:"blocks"`
	IsError bool    `json:"is_error"`
}

func textResponse(text string) Response {
	return Response{Blocks: []Block{{Type: BlockTypeText, Text: text}}}
}

func errorResponse(text string) Response {
	return Response{Blocks: []Block{{Type: BlockTypeText, Text: text}}, IsError: true}
}

func jsonBlock(v any) (Block, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Block{}, err
	}
	return Block{Type: BlockTypeJSON, Text: string(data)}, nil
}
