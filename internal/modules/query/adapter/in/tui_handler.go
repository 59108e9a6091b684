package in

import (
	"context"

	"graphsearch/internal/modules/query/dto"
	queryin "graphsearch/internal/modules/query/port/in"
)

type TUIHandler struct {
	usecase queryin.Usecase
}

func NewTUIHandler(usecase queryin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Ask(ctx context.Context, query string) (dto.AskOutput, error) {
	return h.usecase.Ask(ctx, dto.AskInput{Query: query})
}

func (h TUIHandler) Ingest(ctx context.Context, path string) (dto.IngestOutput, error) {
	return h.usecase.Ingest(ctx, dto.IngestInput{Path: path})
}
