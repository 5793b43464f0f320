package service

import (
	"context"
	"errors"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
)

var (
	ErrListNotFound     = errors.New("list not found")
	ErrCampaignNotFound = errors.New("campaign not found")
)

type ListService struct {
	Store store.Store
}

func (s *ListService) Create(ctx context.Context, l domain.List) (domain.List, error) {
	if l.Name == "" {
		return domain.List{}, ErrInvalidRequest
	}
	id, err := s.Store.Lists().CreateList(ctx, l)
	if err != nil {
		return domain.List{}, err
	}
	return s.Store.Lists().GetListByID(ctx, id)
}

func (s *ListService) Get(ctx context.Context, id int64) (domain.List, error) {
	l, err := s.Store.Lists().GetListByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.List{}, ErrListNotFound
		}
		return domain.List{}, err
	}
	return l, nil
}

func (s *ListService) ListAll(ctx context.Context) ([]domain.List, error) {
	return s.Store.Lists().ListAllLists(ctx)
}

type CampaignService struct {
	Store store.Store
}

func (s *CampaignService) Create(ctx context.Context, c domain.Campaign) (domain.Campaign, error) {
	if c.Name == "" {
		return domain.Campaign{}, ErrInvalidRequest
	}
	id, err := s.Store.Campaigns().CreateCampaign(ctx, c)
	if err != nil {
		return domain.Campaign{}, err
	}
	return s.Store.Campaigns().GetCampaignByID(ctx, id)
}

func (s *CampaignService) Get(ctx context.Context, id int64) (domain.Campaign, error) {
	c, err := s.Store.Campaigns().GetCampaignByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Campaign{}, ErrCampaignNotFound
		}
		return domain.Campaign{}, err
	}
	return c, nil
}

func (s *CampaignService) ListAll(ctx context.Context) ([]domain.Campaign, error) {
	return s.Store.Campaigns().ListAllCampaigns(ctx)
}
