package usecase

import (
	"context"

	"graphsearch/internal/modules/query/domain"
	"graphsearch/internal/modules/query/dto"
	queryin "graphsearch/internal/modules/query/port/in"
	"graphsearch/internal/modules/query/service"
)

type Interactor struct {
	svc *service.QueryService
}

func NewInteractor(svc *service.QueryService) queryin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Ask(ctx context.Context, input dto.AskInput) (dto.AskOutput, error) {
	resp, requestID, err := i.svc.Ask(ctx, input.Query)
	if err != nil {
		return dto.AskOutput{}, err
	}
	out := mapResponse(resp)
	out.RequestID = requestID
	return out, nil
}

func (i *Interactor) Ingest(ctx context.Context, input dto.IngestInput) (dto.IngestOutput, error) {
	receipt, size, err := i.svc.Ingest(ctx, input.Path)
	if err != nil {
		return dto.IngestOutput{}, err
	}
	return dto.IngestOutput{Status: receipt.Status, Filename: receipt.Filename, Bytes: size}, nil
}

func mapResponse(resp domain.Response) dto.AskOutput {
	out := dto.AskOutput{
		Error:  resp.Error,
		Answer: resp.Answer,
	}
	if resp.Passages != nil {
		out.Passages = make([]dto.PassageOutput, 0, len(resp.Passages))
		for _, p := range resp.Passages {
			out.Passages = append(out.Passages, dto.PassageOutput{Text: p.Text, Filename: p.Filename, Score: p.Score})
		}
	}
	if resp.Graph != nil {
		out.Graph = make([]dto.GraphEntryOutput, 0, len(resp.Graph))
		for _, g := range resp.Graph {
			neighbors := g.Neighbors
			if neighbors == nil {
				neighbors = []string{}
			}
			out.Graph = append(out.Graph, dto.GraphEntryOutput{Entity: g.Entity, Neighbors: neighbors})
		}
	}
	sections := resp.Sections()
	out.Sections = make([]dto.SectionOutput, 0, len(sections))
	for _, s := range sections {
		out.Sections = append(out.Sections, dto.SectionOutput{
			Kind:    string(s.Kind),
			Heading: s.Heading,
			Body:    s.Body,
			Items:   s.Items,
		})
	}
	out.Plain = domain.RenderPlain(sections)
	return out
}
