package animeflv

import (
	"context"
	"log"
	"strconv"

	"anibridge/internal/ttlcache"
	"anibridge/models"
)

// Service fronts the scraping client with the shared TTL cache. Challenge
// errors pass through uncached so a later request can retry after the site
// calms down.
type Service struct {
	client *Client
	cache  *ttlcache.Cache
}

func NewService(client *Client, cache *ttlcache.Cache) *Service {
	return &Service{client: client, cache: cache}
}

func (s *Service) Search(ctx context.Context, query string, page int) ([]models.Anime, error) {
	key := ttlcache.Key("animeflv_search", query, strconv.Itoa(page))
	if v, ok := s.cache.Get(key); ok {
		if animes, ok := v.([]models.Anime); ok {
			log.Printf("[animeflv] search cache hit query=%q page=%d", query, page)
			return animes, nil
		}
	}
	animes, err := s.client.Search(ctx, query, page)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, animes)
	return animes, nil
}

func (s *Service) Info(ctx context.Context, id string) (*models.AnimeInfo, error) {
	key := ttlcache.Key("animeflv_info", id)
	if v, ok := s.cache.Get(key); ok {
		if info, ok := v.(models.AnimeInfo); ok {
			log.Printf("[animeflv] info cache hit id=%s", id)
			return &info, nil
		}
	}
	info, err := s.client.Info(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, *info)
	return info, nil
}

// VideoSources fetches an episode's raw server payload and flattens it into
// categorized sources.
func (s *Service) VideoSources(ctx context.Context, id string, episode int, format Format) ([]models.VideoSource, error) {
	key := ttlcache.Key("animeflv_sources", id, strconv.Itoa(episode), string(format))
	if v, ok := s.cache.Get(key); ok {
		if sources, ok := v.([]models.VideoSource); ok {
			log.Printf("[animeflv] sources cache hit id=%s episode=%d", id, episode)
			return sources, nil
		}
	}
	raw, err := s.client.VideoServers(ctx, id, episode, format)
	if err != nil {
		return nil, err
	}
	sources := ExtractSources(raw)
	s.cache.Set(key, sources)
	return sources, nil
}

func (s *Service) LatestEpisodes(ctx context.Context) ([]models.Episode, error) {
	key := ttlcache.Key("animeflv_latest_episodes")
	if v, ok := s.cache.Get(key); ok {
		if episodes, ok := v.([]models.Episode); ok {
			return episodes, nil
		}
	}
	episodes, err := s.client.LatestEpisodes(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, episodes)
	return episodes, nil
}

func (s *Service) LatestAnimes(ctx context.Context) ([]models.Anime, error) {
	key := ttlcache.Key("animeflv_latest_animes")
	if v, ok := s.cache.Get(key); ok {
		if animes, ok := v.([]models.Anime); ok {
			return animes, nil
		}
	}
	animes, err := s.client.LatestAnimes(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, animes)
	return animes, nil
}
