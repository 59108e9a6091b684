package in

import (
	"context"

	"graphsearch/internal/modules/query/dto"
	queryin "graphsearch/internal/modules/query/port/in"
)

type CLIHandler struct {
	usecase queryin.Usecase
}

func NewCLIHandler(usecase queryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Ask(ctx context.Context, query string) (dto.AskOutput, error) {
	return h.usecase.Ask(ctx, dto.AskInput{Query: query})
}

func (h CLIHandler) Ingest(ctx context.Context, path string) (dto.IngestOutput, error) {
	return h.usecase.Ingest(ctx, dto.IngestInput{Path: path})
}
