package dto

import "encoding/json"

// FailureMessage mirrors the domain failure text for callers that only see dto.
const FailureMessage = "Failed to get response"

type AskInput struct {
	Query string
}

type PassageOutput struct {
	Text     string  `json:"text"`
	Filename string  `json:"filename,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

type GraphEntryOutput struct {
	Entity    string   `json:"entity"`
	Neighbors []string `json:"neighbors"`
}

type SectionOutput struct {
	Kind    string   `json:"kind"`
	Heading string   `json:"heading,omitempty"`
	Body    string   `json:"body,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// AskOutput is one settled submission. Passages and Graph are nil when the
// backend omitted them and non-nil (possibly empty) when it sent an array.
type AskOutput struct {
	RequestID string
	Error     string
	Answer    string
	Passages  []PassageOutput
	Graph     []GraphEntryOutput
	Sections  []SectionOutput
	Plain     string
}

// MarshalJSON writes the response blocks only. Absent arrays are omitted and
// empty ones are kept as [].
func (o AskOutput) MarshalJSON() ([]byte, error) {
	type wire struct {
		Error    string              `json:"error,omitempty"`
		Answer   string              `json:"answer,omitempty"`
		Passages *[]PassageOutput    `json:"passages,omitempty"`
		Graph    *[]GraphEntryOutput `json:"graph,omitempty"`
	}
	w := wire{Error: o.Error, Answer: o.Answer}
	if o.Passages != nil {
		w.Passages = &o.Passages
	}
	if o.Graph != nil {
		w.Graph = &o.Graph
	}
	return json.Marshal(w)
}

func (o AskOutput) Failed() bool {
	return o.Error != ""
}

// FailureOutput is what a view shows when a submission could not be answered.
func FailureOutput() AskOutput {
	return AskOutput{
		Error:    FailureMessage,
		Sections: []SectionOutput{{Kind: "error", Body: FailureMessage}},
		Plain:    FailureMessage + "\n",
	}
}

type IngestInput struct {
	Path string
}

type IngestOutput struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Bytes    int    `json:"bytes"`
}
