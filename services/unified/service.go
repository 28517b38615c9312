package unified

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"anibridge/internal/ttlcache"
	"anibridge/models"
)

// Source tags accepted by Detail. Search results carry the same tag so the
// client can feed it straight back.
const (
	SourceJikan = "jikan"
	SourceIMDB  = "imdb"
	SourceTMDB  = "tmdb"
)

// General-title results outside this set (actors, individual episodes, video
// games) are discarded during unified search.
var allowedTitleTypes = map[string]bool{
	"movie":        true,
	"tvSeries":     true,
	"tvMiniSeries": true,
	"tvMovie":      true,
}

// Service merges and normalizes title metadata across the anime catalog
// (Jikan), the general-title database (IMDbAPI) and the secondary metadata
// source (TMDB).
type Service struct {
	jikan *jikanClient
	imdb  *imdbClient
	tmdb  *tmdbClient
	cache *ttlcache.Cache
}

// Options configures the providers behind a Service. Base URLs default to the
// public endpoints and exist so tests can point clients at fakes.
type Options struct {
	JikanBaseURL string
	IMDBBaseURL  string
	IMDBToken    string
	TMDBBaseURL  string
	TMDBAPIKey   string
	HTTPClient   *http.Client
	Cache        *ttlcache.Cache
}

func NewService(opts Options) *Service {
	cache := opts.Cache
	if cache == nil {
		cache = ttlcache.New(time.Hour)
	}
	return &Service{
		jikan: newJikanClient(opts.JikanBaseURL, opts.HTTPClient),
		imdb:  newIMDBClient(opts.IMDBBaseURL, opts.IMDBToken, opts.HTTPClient),
		tmdb:  newTMDBClient(opts.TMDBBaseURL, opts.TMDBAPIKey, opts.HTTPClient),
		cache: cache,
	}
}

// TMDBConfigured reports whether the secondary metadata provider can serve as
// a fallback for failed general-title lookups.
func (s *Service) TMDBConfigured() bool { return s.tmdb.isConfigured() }

// Search fans out to the anime catalog and the general-title database and
// merges the results: anime entries first, then general titles that survive
// the content-type allow-list and title dedup. A provider failure is logged
// and degrades to zero results from that provider; both failing yields an
// empty result set, not an error.
func (s *Service) Search(ctx context.Context, query string, page int) ([]models.UnifiedResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Msg: "query is required"}
	}

	results := make([]models.UnifiedResult, 0, 16)

	animes, err := s.jikan.search(ctx, query, page)
	if err != nil {
		log.Printf("[unified] jikan search failed query=%q err=%v", query, err)
	}
	for _, anime := range animes {
		results = append(results, unifiedFromJikan(anime))
	}

	if !s.imdb.isConfigured() {
		log.Printf("[unified] skipping imdbapi search, token not configured")
		return results, nil
	}

	titles, err := s.imdb.searchTitles(ctx, query)
	if err != nil {
		log.Printf("[unified] imdbapi search failed query=%q err=%v", query, err)
	}
	animeCount := len(results)
	for _, title := range titles {
		if !allowedTitleTypes[title.TitleType.Text] {
			continue
		}
		if duplicatesAnime(results[:animeCount], title.displayTitle()) {
			continue
		}
		results = append(results, unifiedFromIMDB(title))
	}

	return results, nil
}

// duplicatesAnime reports whether a general-title name exactly matches (case
// insensitively) an anime entry already collected in this batch. Only the
// general-title item is ever dropped.
func duplicatesAnime(animes []models.UnifiedResult, title string) bool {
	for _, r := range animes {
		if strings.EqualFold(r.Title, title) {
			return true
		}
	}
	return false
}

// Detail resolves full metadata for one title, dispatching on the source tag
// from a prior search. The tmdb source is partitioned by content type and
// requires contentType to be "movie" or "tv". Results are cached; provider
// failures surface as typed errors for the routing layer to map.
//
// There is no automatic cross-provider fallback: when an imdb lookup fails
// and a TMDB key is configured, the caller re-issues the request with the
// tmdb id it obtained from search.
func (s *Service) Detail(ctx context.Context, source, id, contentType string) (*models.UnifiedDetail, error) {
	source = strings.ToLower(strings.TrimSpace(source))
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ValidationError{Msg: "id is required"}
	}

	key := ttlcache.Key("unified_detail", source, id, contentType)
	if v, ok := s.cache.Get(key); ok {
		if detail, ok := v.(models.UnifiedDetail); ok {
			log.Printf("[unified] detail cache hit source=%s id=%s", source, id)
			return &detail, nil
		}
	}

	var (
		detail *models.UnifiedDetail
		err    error
	)
	switch source {
	case SourceJikan:
		detail, err = s.jikanDetail(ctx, id)
	case SourceIMDB:
		detail, err = s.imdbDetail(ctx, id)
	case SourceTMDB:
		detail, err = s.tmdbDetail(ctx, id, contentType)
	default:
		return nil, &ValidationError{Msg: "invalid source: must be jikan, imdb, or tmdb"}
	}
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, *detail)
	return detail, nil
}

func (s *Service) jikanDetail(ctx context.Context, id string) (*models.UnifiedDetail, error) {
	anime, err := s.jikan.full(ctx, id)
	if err != nil {
		log.Printf("[unified] jikan detail failed id=%s err=%v", id, err)
		return nil, err
	}
	detail := detailFromJikan(*anime)
	return &detail, nil
}

func (s *Service) imdbDetail(ctx context.Context, id string) (*models.UnifiedDetail, error) {
	title, err := s.imdb.title(ctx, id)
	if err != nil {
		log.Printf("[unified] imdbapi detail failed id=%s err=%v", id, err)
		return nil, err
	}
	detail := detailFromIMDB(*title)
	return &detail, nil
}

func (s *Service) tmdbDetail(ctx context.Context, id, contentType string) (*models.UnifiedDetail, error) {
	if contentType != "movie" && contentType != "tv" {
		return nil, &ValidationError{Msg: "content_type must be movie or tv for tmdb details"}
	}
	if !s.tmdb.isConfigured() {
		return nil, ErrNotConfigured
	}

	record, err := s.tmdb.details(ctx, contentType, id)
	if err != nil {
		log.Printf("[unified] tmdb detail failed id=%s type=%s err=%v", id, contentType, err)
		return nil, err
	}

	// The imdb cross id comes from a second, independent call. Losing it is
	// tolerated: the detail record still stands without it.
	imdbID, err := s.tmdb.externalIDs(ctx, contentType, id)
	if err != nil {
		log.Printf("[unified] tmdb external ids failed id=%s type=%s err=%v", id, contentType, err)
		imdbID = ""
	}

	detail := detailFromTMDB(*record, contentType, imdbID)
	return &detail, nil
}

// IMDBTitleRaw proxies a title record from IMDbAPI unchanged, cached.
func (s *Service) IMDBTitleRaw(ctx context.Context, id string) (json.RawMessage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ValidationError{Msg: "title id is required"}
	}
	if !s.imdb.isConfigured() {
		return nil, ErrNotConfigured
	}

	key := ttlcache.Key("imdb_title", id)
	if v, ok := s.cache.Get(key); ok {
		if raw, ok := v.(json.RawMessage); ok {
			return raw, nil
		}
	}

	raw, err := s.imdb.rawTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, raw)
	return raw, nil
}

// TMDBDetailsRaw proxies a detail record from TMDB unchanged, cached.
func (s *Service) TMDBDetailsRaw(ctx context.Context, id, contentType string) (json.RawMessage, error) {
	id = strings.TrimSpace(id)
	if id == "" || (contentType != "movie" && contentType != "tv") {
		return nil, &ValidationError{Msg: "tmdb id and a movie or tv content type are required"}
	}
	if !s.tmdb.isConfigured() {
		return nil, ErrNotConfigured
	}

	key := ttlcache.Key("tmdb_detail", id, contentType)
	if v, ok := s.cache.Get(key); ok {
		if raw, ok := v.(json.RawMessage); ok {
			return raw, nil
		}
	}

	raw, err := s.tmdb.rawDetails(ctx, contentType, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, raw)
	return raw, nil
}

func unifiedFromJikan(a jikanAnime) models.UnifiedResult {
	links := a.externalLinks()
	return models.UnifiedResult{
		Source:        SourceJikan,
		ContentType:   "anime",
		Title:         a.displayTitle(),
		MALID:         a.MALID,
		ImageURL:      a.Images.JPG.ImageURL,
		EpisodesCount: a.Episodes,
		Synopsis:      a.Synopsis,
		IMDBID:        extractIMDBID(links),
		TMDBID:        extractTMDBID(links),
	}
}

func detailFromJikan(a jikanAnime) models.UnifiedDetail {
	links := a.externalLinks()
	contentType := a.Type
	if contentType == "" {
		contentType = "anime"
	}
	genres := make([]string, 0, len(a.Genres))
	for _, g := range a.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}
	return models.UnifiedDetail{
		UnifiedResult: models.UnifiedResult{
			Source:        SourceJikan,
			ContentType:   contentType,
			Title:         a.displayTitle(),
			MALID:         a.MALID,
			IMDBID:        extractIMDBID(links),
			TMDBID:        extractTMDBID(links),
			ImageURL:      a.Images.JPG.LargeImageURL,
			Synopsis:      a.Synopsis,
			EpisodesCount: a.Episodes,
			ReleaseYear:   a.Year,
		},
		Genres: genres,
		Status: a.Status,
		Score:  a.Score,
	}
}

func unifiedFromIMDB(t imdbTitle) models.UnifiedResult {
	return models.UnifiedResult{
		Source:        SourceIMDB,
		ContentType:   t.TitleType.Text,
		Title:         t.displayTitle(),
		IMDBID:        t.ID,
		ImageURL:      t.PrimaryImage.URL,
		ReleaseYear:   t.ReleaseYear.Year,
		TMDBID:        extractTMDBID(t.externalLinks()),
		EpisodesCount: t.NumberOfEpisodes,
		Synopsis:      t.Plot.PlotText.Text,
	}
}

func detailFromIMDB(t imdbTitle) models.UnifiedDetail {
	// Series that have ended carry their end year as a coarse status marker.
	status := ""
	if t.TitleType.Text == "tvSeries" && t.SeriesEndYear.Year > 0 {
		status = strconv.Itoa(t.SeriesEndYear.Year)
	}
	return models.UnifiedDetail{
		UnifiedResult: models.UnifiedResult{
			Source:        SourceIMDB,
			ContentType:   t.TitleType.Text,
			Title:         t.displayTitle(),
			IMDBID:        t.ID,
			TMDBID:        extractTMDBID(t.externalLinks()),
			ImageURL:      t.PrimaryImage.URL,
			Synopsis:      t.Plot.PlotText.Text,
			EpisodesCount: t.NumberOfEpisodes,
			ReleaseYear:   t.ReleaseYear.Year,
		},
		Genres: t.genreNames(),
		Status: status,
		Score:  t.RatingsSummary.AggregateRating,
	}
}

func detailFromTMDB(d tmdbDetail, contentType, imdbID string) models.UnifiedDetail {
	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}
	episodes := 0
	if contentType == "tv" {
		episodes = d.NumberOfEpisodes
	}
	return models.UnifiedDetail{
		UnifiedResult: models.UnifiedResult{
			Source:        SourceTMDB,
			ContentType:   contentType,
			Title:         d.displayTitle(),
			IMDBID:        imdbID,
			TMDBID:        strconv.FormatInt(d.ID, 10),
			ImageURL:      d.posterURL(),
			Synopsis:      d.Overview,
			EpisodesCount: episodes,
			ReleaseYear:   d.releaseYear(),
		},
		Genres: genres,
		Status: d.Status,
		Score:  d.VoteAverage,
	}
}
