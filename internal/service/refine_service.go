package service

import (
	"context"

	"darwinian-be/internal/dto"
	"darwinian-be/internal/pkg/logger"
	"darwinian-be/pkg/events"
	"darwinian-be/pkg/workflow"
)

type IRefineService interface {
	Refine(ctx context.Context, req *dto.RefineRequest) (*dto.RefineResponse, error)
}

type refineService struct {
	refiner   *workflow.Refiner
	publisher IPublisherService
	logger    logger.ILogger
}

func NewRefineService(refiner *workflow.Refiner, publisher IPublisherService, log logger.ILogger) IRefineService {
	return &refineService{
		refiner:   refiner,
		publisher: publisher,
		logger:    log,
	}
}

func (s *refineService) Refine(ctx context.Context, req *dto.RefineRequest) (*dto.RefineResponse, error) {
	var history []dto.RefineRevision

	final, err := s.refiner.Run(ctx, req.Question, func(state workflow.RevisionState) {
		history = append(history, dto.RefineRevision{
			Revision: state.RevisionNumber,
			Score:    state.Score,
			Critique: state.Critique,
		})

		if req.SessionId == nil || s.publisher == nil {
			return
		}
		event := events.New(events.TypeRefineStep, req.SessionId.String(), map[string]interface{}{
			"revision": state.RevisionNumber,
			"score":    state.Score,
			"draft":    state.Draft,
			"critique": state.Critique,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("RefineService", "Failed to publish refine step", map[string]interface{}{"error": err.Error()})
		}
	})
	if err != nil {
		return nil, err
	}

	return &dto.RefineResponse{
		Question:  final.Question,
		Answer:    final.Draft,
		Score:     final.Score,
		Revisions: final.RevisionNumber,
		Critique:  final.Critique,
		History:   history,
	}, nil
}
