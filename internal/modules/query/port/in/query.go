package in

import (
	"context"

	"graphsearch/internal/modules/query/dto"
)

type Usecase interface {
	Ask(ctx context.Context, input dto.AskInput) (dto.AskOutput, error)
	Ingest(ctx context.Context, input dto.IngestInput) (dto.IngestOutput, error)
}
