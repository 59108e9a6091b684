package domain

// FailureMessage is the only text a user ever sees when a query fails.
const FailureMessage = "Failed to get response"

type Passage struct {
	Text     string
	Filename string
	Score    float64
}

type GraphEntry struct {
	Entity    string
	Neighbors []string
}

// Response is the backend payload. Every field is optional. A nil Passages or
// Graph slice means the key was absent; an empty non-nil slice was sent as [].
type Response struct {
	Error    string
	Answer   string
	Passages []Passage
	Graph    []GraphEntry
}

func FailureResponse() Response {
	return Response{Error: FailureMessage}
}

func (r Response) Failed() bool {
	return r.Error != ""
}

type Document struct {
	Filename string
	Content  []byte
}

type IngestReceipt struct {
	Status   string
	Filename string
}
