// Package testsupport provides in-memory implementations of the repository
// interfaces and the media host for tests.
package testsupport

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/domain"
)

// Store holds every table in memory. Repositories obtained from it share state.
type Store struct {
	mu sync.Mutex

	users         map[uuid.UUID]*domain.User
	videos        map[uuid.UUID]*domain.Video
	comments      map[uuid.UUID]*domain.Comment
	likes         map[uuid.UUID]*domain.Like
	tweets        map[uuid.UUID]*domain.Tweet
	playlists     map[uuid.UUID]*domain.Playlist
	subscriptions map[uuid.UUID]*domain.Subscription
	history       map[uuid.UUID]map[uuid.UUID]time.Time

	clock time.Time
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*domain.User),
		videos:        make(map[uuid.UUID]*domain.Video),
		comments:      make(map[uuid.UUID]*domain.Comment),
		likes:         make(map[uuid.UUID]*domain.Like),
		tweets:        make(map[uuid.UUID]*domain.Tweet),
		playlists:     make(map[uuid.UUID]*domain.Playlist),
		subscriptions: make(map[uuid.UUID]*domain.Subscription),
		history:       make(map[uuid.UUID]map[uuid.UUID]time.Time),
		clock:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so orderings are deterministic.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) Users() *UserRepo                 { return &UserRepo{s} }
func (s *Store) Videos() *VideoRepo               { return &VideoRepo{s} }
func (s *Store) Comments() *CommentRepo           { return &CommentRepo{s} }
func (s *Store) Likes() *LikeRepo                 { return &LikeRepo{s} }
func (s *Store) Tweets() *TweetRepo               { return &TweetRepo{s} }
func (s *Store) Playlists() *PlaylistRepo         { return &PlaylistRepo{s} }
func (s *Store) Subscriptions() *SubscriptionRepo { return &SubscriptionRepo{s} }

// LikeCount reports the stored likes pointing at target.
func (s *Store) LikeCount(target domain.LikeTarget) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLikesLocked(target)
}

func (s *Store) countLikesLocked(target domain.LikeTarget) int {
	n := 0
	for _, l := range s.likes {
		if l.Target() == target {
			n++
		}
	}
	return n
}

func (s *Store) likedLocked(target domain.LikeTarget, userID uuid.UUID) bool {
	for _, l := range s.likes {
		if l.LikedBy == userID && l.Target() == target {
			return true
		}
	}
	return false
}

func (s *Store) summaryLocked(id uuid.UUID) domain.UserSummary {
	u, ok := s.users[id]
	if !ok {
		return domain.UserSummary{ID: id}
	}
	return domain.UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

func (s *Store) subscriberCountLocked(channelID uuid.UUID) int {
	n := 0
	for _, sub := range s.subscriptions {
		if sub.ChannelID == channelID {
			n++
		}
	}
	return n
}

func (s *Store) subscribedLocked(subscriberID, channelID uuid.UUID) bool {
	for _, sub := range s.subscriptions {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			return true
		}
	}
	return false
}

func (s *Store) videoWithOwnerLocked(v *domain.Video) *domain.VideoWithOwner {
	return &domain.VideoWithOwner{
		ID:          v.ID,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		Owner:       s.summaryLocked(v.OwnerID),
	}
}

func playlistVideo(v *domain.Video) *domain.PlaylistVideo {
	return &domain.PlaylistVideo{
		ID:          v.ID,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		CreatedAt:   v.CreatedAt,
	}
}

// UserRepo implements domain.UserRepository.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return domain.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.s.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) get(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.get(func(u *domain.User) bool { return u.ID == id })
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.get(func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.get(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepo) update(id uuid.UUID, apply func(*domain.User) error) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := apply(u); err != nil {
		return nil, err
	}
	u.UpdatedAt = r.s.tick()
	cp := *u
	return &cp, nil
}

func (r *UserRepo) UpdateAccount(_ context.Context, id uuid.UUID, fullName, email string) (*domain.User, error) {
	return r.update(id, func(u *domain.User) error {
		for _, other := range r.s.users {
			if other.ID != id && other.Email == email {
				return domain.ErrDuplicate
			}
		}
		u.FullName, u.Email = fullName, email
		return nil
	})
}

func (r *UserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.update(id, func(u *domain.User) error { u.PasswordHash = passwordHash; return nil })
	return err
}

func (r *UserRepo) UpdateAvatar(_ context.Context, id uuid.UUID, url string) (*domain.User, error) {
	return r.update(id, func(u *domain.User) error { u.Avatar = url; return nil })
}

func (r *UserRepo) UpdateCoverImage(_ context.Context, id uuid.UUID, url string) (*domain.User, error) {
	return r.update(id, func(u *domain.User) error { u.CoverImage = url; return nil })
}

func (r *UserRepo) SetRefreshTokenHash(_ context.Context, id uuid.UUID, hash string) error {
	_, err := r.update(id, func(u *domain.User) error { u.RefreshTokenHash = hash; return nil })
	return err
}

func (r *UserRepo) RotateRefreshTokenHash(_ context.Context, id uuid.UUID, oldHash, newHash string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.RefreshTokenHash != oldHash {
		return false, nil
	}
	u.RefreshTokenHash = newHash
	return true, nil
}

func (r *UserRepo) GetChannelProfile(_ context.Context, username string, viewerID uuid.UUID) (*domain.ChannelProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username != username {
			continue
		}
		subscribedTo := 0
		for _, sub := range r.s.subscriptions {
			if sub.SubscriberID == u.ID {
				subscribedTo++
			}
		}
		return &domain.ChannelProfile{
			ID:                        u.ID,
			Username:                  u.Username,
			Email:                     u.Email,
			FullName:                  u.FullName,
			Avatar:                    u.Avatar,
			CoverImage:                u.CoverImage,
			SubscribersCount:          r.s.subscriberCountLocked(u.ID),
			ChannelsSubscribedToCount: subscribedTo,
			IsSubscribed:              r.s.subscribedLocked(viewerID, u.ID),
			CreatedAt:                 u.CreatedAt,
		}, nil
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) AddToWatchHistory(_ context.Context, userID, videoID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.history[userID] == nil {
		r.s.history[userID] = make(map[uuid.UUID]time.Time)
	}
	r.s.history[userID][videoID] = r.s.tick()
	return nil
}

func (r *UserRepo) GetWatchHistory(_ context.Context, userID uuid.UUID) ([]*domain.VideoWithOwner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	type entry struct {
		video     *domain.Video
		watchedAt time.Time
	}
	var entries []entry
	for videoID, at := range r.s.history[userID] {
		if v, ok := r.s.videos[videoID]; ok {
			entries = append(entries, entry{v, at})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].watchedAt.After(entries[j].watchedAt) })
	out := make([]*domain.VideoWithOwner, 0, len(entries))
	for _, e := range entries {
		out = append(out, r.s.videoWithOwnerLocked(e.video))
	}
	return out, nil
}

// VideoRepo implements domain.VideoRepository.
type VideoRepo struct{ s *Store }

func (r *VideoRepo) Create(_ context.Context, video *domain.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	now := r.s.tick()
	video.CreatedAt, video.UpdatedAt = now, now
	cp := *video
	r.s.videos[video.ID] = &cp
	return nil
}

func (r *VideoRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *VideoRepo) List(_ context.Context, filter domain.VideoFilter, page domain.PageRequest) (*domain.Page[*domain.VideoWithOwner], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	page = page.Normalize()
	query := strings.ToLower(filter.Query)

	var matched []*domain.Video
	for _, v := range r.s.videos {
		if filter.OwnerID != nil && v.OwnerID != *filter.OwnerID {
			continue
		}
		if !v.IsPublished && !(filter.IncludeUnpublished && filter.OwnerID != nil) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(v.Title), query) &&
			!strings.Contains(strings.ToLower(v.Description), query) {
			continue
		}
		matched = append(matched, v)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if filter.SortDesc {
			a, b = b, a
		}
		switch filter.SortBy {
		case domain.VideoSortViews:
			return a.Views < b.Views
		case domain.VideoSortDuration:
			return a.Duration < b.Duration
		case domain.VideoSortTitle:
			return a.Title < b.Title
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	docs := make([]*domain.VideoWithOwner, 0, page.Limit)
	for i := page.Offset(); i < len(matched) && len(docs) < page.Limit; i++ {
		docs = append(docs, r.s.videoWithOwnerLocked(matched[i]))
	}
	return domain.NewPage(docs, len(matched), page), nil
}

func (r *VideoRepo) GetDetail(_ context.Context, id, viewerID uuid.UUID) (*domain.VideoDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	target := domain.LikeTarget{Kind: domain.LikeVideo, ID: id}
	return &domain.VideoDetail{
		ID:          v.ID,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		Owner: domain.VideoOwner{
			UserSummary:      r.s.summaryLocked(v.OwnerID),
			SubscribersCount: r.s.subscriberCountLocked(v.OwnerID),
			IsSubscribed:     r.s.subscribedLocked(viewerID, v.OwnerID),
		},
		LikesCount: r.s.countLikesLocked(target),
		IsLiked:    r.s.likedLocked(target, viewerID),
	}, nil
}

func (r *VideoRepo) Update(_ context.Context, video *domain.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.videos[video.ID]; !ok {
		return domain.ErrNotFound
	}
	video.UpdatedAt = r.s.tick()
	cp := *video
	r.s.videos[video.ID] = &cp
	return nil
}

func (r *VideoRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Views++
	return nil
}

func (r *VideoRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.videos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.videos, id)
	return nil
}

func (r *VideoRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.ChannelVideo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.ChannelVideo
	for _, v := range r.s.videos {
		if v.OwnerID != ownerID {
			continue
		}
		out = append(out, &domain.ChannelVideo{
			ID:          v.ID,
			VideoFile:   v.VideoFile,
			Thumbnail:   v.Thumbnail,
			Title:       v.Title,
			Description: v.Description,
			Views:       v.Views,
			IsPublished: v.IsPublished,
			LikesCount:  r.s.countLikesLocked(domain.LikeTarget{Kind: domain.LikeVideo, ID: v.ID}),
			CreatedAt:   v.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *VideoRepo) GetChannelStats(_ context.Context, ownerID uuid.UUID) (*domain.ChannelStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := &domain.ChannelStats{TotalSubscribers: r.s.subscriberCountLocked(ownerID)}
	for _, v := range r.s.videos {
		if v.OwnerID != ownerID {
			continue
		}
		stats.TotalVideos++
		stats.TotalViews += v.Views
		stats.TotalLikes += r.s.countLikesLocked(domain.LikeTarget{Kind: domain.LikeVideo, ID: v.ID})
	}
	return stats, nil
}

// CommentRepo implements domain.CommentRepository.
type CommentRepo struct{ s *Store }

func (r *CommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := r.s.tick()
	comment.CreatedAt, comment.UpdatedAt = now, now
	cp := *comment
	r.s.comments[comment.ID] = &cp
	return nil
}

func (r *CommentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CommentRepo) UpdateContent(_ context.Context, id uuid.UUID, content string) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = r.s.tick()
	cp := *c
	return &cp, nil
}

func (r *CommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *CommentRepo) DeleteByVideo(_ context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uuid.UUID
	for id, c := range r.s.comments {
		if c.VideoID == videoID {
			ids = append(ids, id)
			delete(r.s.comments, id)
		}
	}
	return ids, nil
}

func (r *CommentRepo) ListByVideo(_ context.Context, videoID, viewerID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.CommentView], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	page = page.Normalize()
	var matched []*domain.Comment
	for _, c := range r.s.comments {
		if c.VideoID == videoID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	docs := make([]*domain.CommentView, 0, page.Limit)
	for i := page.Offset(); i < len(matched) && len(docs) < page.Limit; i++ {
		c := matched[i]
		target := domain.LikeTarget{Kind: domain.LikeComment, ID: c.ID}
		docs = append(docs, &domain.CommentView{
			ID:         c.ID,
			Content:    c.Content,
			CreatedAt:  c.CreatedAt,
			LikesCount: r.s.countLikesLocked(target),
			Owner:      r.s.summaryLocked(c.OwnerID),
			IsLiked:    r.s.likedLocked(target, viewerID),
		})
	}
	return domain.NewPage(docs, len(matched), page), nil
}

// LikeRepo implements domain.LikeRepository.
type LikeRepo struct{ s *Store }

func (r *LikeRepo) Find(_ context.Context, target domain.LikeTarget, userID uuid.UUID) (*domain.Like, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.likes {
		if l.LikedBy == userID && l.Target() == target {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *LikeRepo) Create(_ context.Context, like *domain.Like) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.likedLocked(like.Target(), like.LikedBy) {
		return domain.ErrDuplicate
	}
	if like.ID == uuid.Nil {
		like.ID = uuid.New()
	}
	like.CreatedAt = r.s.tick()
	cp := *like
	r.s.likes[like.ID] = &cp
	return nil
}

func (r *LikeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.likes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.likes, id)
	return nil
}

func (r *LikeRepo) CountByTarget(_ context.Context, target domain.LikeTarget) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.countLikesLocked(target), nil
}

func (r *LikeRepo) DeleteByTarget(_ context.Context, target domain.LikeTarget) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, l := range r.s.likes {
		if l.Target() == target {
			delete(r.s.likes, id)
			n++
		}
	}
	return n, nil
}

func (r *LikeRepo) DeleteByComments(_ context.Context, commentIDs []uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[uuid.UUID]bool, len(commentIDs))
	for _, id := range commentIDs {
		ids[id] = true
	}
	var n int64
	for id, l := range r.s.likes {
		if l.CommentID != nil && ids[*l.CommentID] {
			delete(r.s.likes, id)
			n++
		}
	}
	return n, nil
}

func (r *LikeRepo) ListLikedVideos(_ context.Context, userID uuid.UUID) ([]*domain.LikedVideo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.LikedVideo
	for _, l := range r.s.likes {
		if l.LikedBy != userID || l.VideoID == nil {
			continue
		}
		v, ok := r.s.videos[*l.VideoID]
		if !ok || !v.IsPublished {
			continue
		}
		out = append(out, &domain.LikedVideo{LikedAt: l.CreatedAt, LikedVideo: *r.s.videoWithOwnerLocked(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LikedAt.After(out[j].LikedAt) })
	return out, nil
}

// TweetRepo implements domain.TweetRepository.
type TweetRepo struct{ s *Store }

func (r *TweetRepo) Create(_ context.Context, tweet *domain.Tweet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tweet.ID == uuid.Nil {
		tweet.ID = uuid.New()
	}
	now := r.s.tick()
	tweet.CreatedAt, tweet.UpdatedAt = now, now
	cp := *tweet
	r.s.tweets[tweet.ID] = &cp
	return nil
}

func (r *TweetRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Tweet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TweetRepo) UpdateContent(_ context.Context, id uuid.UUID, content string) (*domain.Tweet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Content = content
	t.UpdatedAt = r.s.tick()
	cp := *t
	return &cp, nil
}

func (r *TweetRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tweets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.tweets, id)
	return nil
}

func (r *TweetRepo) ListByOwner(_ context.Context, ownerID, viewerID uuid.UUID) ([]*domain.TweetView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owner := r.s.summaryLocked(ownerID)
	var out []*domain.TweetView
	for _, t := range r.s.tweets {
		if t.OwnerID != ownerID {
			continue
		}
		target := domain.LikeTarget{Kind: domain.LikeTweet, ID: t.ID}
		out = append(out, &domain.TweetView{
			ID:           t.ID,
			Content:      t.Content,
			OwnerDetails: domain.TweetOwner{ID: owner.ID, Username: owner.Username, Avatar: owner.Avatar},
			LikesCount:   r.s.countLikesLocked(target),
			IsLiked:      r.s.likedLocked(target, viewerID),
			CreatedAt:    t.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// PlaylistRepo implements domain.PlaylistRepository.
type PlaylistRepo struct{ s *Store }

func copyPlaylist(p *domain.Playlist) *domain.Playlist {
	cp := *p
	cp.Videos = append([]uuid.UUID{}, p.Videos...)
	return &cp
}

func (r *PlaylistRepo) Create(_ context.Context, playlist *domain.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	now := r.s.tick()
	playlist.CreatedAt, playlist.UpdatedAt = now, now
	if playlist.Videos == nil {
		playlist.Videos = []uuid.UUID{}
	}
	r.s.playlists[playlist.ID] = copyPlaylist(playlist)
	return nil
}

func (r *PlaylistRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyPlaylist(p), nil
}

func (r *PlaylistRepo) mutate(id uuid.UUID, apply func(*domain.Playlist)) (*domain.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	apply(p)
	p.UpdatedAt = r.s.tick()
	return copyPlaylist(p), nil
}

func (r *PlaylistRepo) Update(_ context.Context, id uuid.UUID, name, description string) (*domain.Playlist, error) {
	return r.mutate(id, func(p *domain.Playlist) { p.Name, p.Description = name, description })
}

func (r *PlaylistRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.playlists[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.playlists, id)
	return nil
}

func (r *PlaylistRepo) AddVideo(_ context.Context, playlistID, videoID uuid.UUID) (*domain.Playlist, error) {
	return r.mutate(playlistID, func(p *domain.Playlist) {
		for _, id := range p.Videos {
			if id == videoID {
				return
			}
		}
		p.Videos = append(p.Videos, videoID)
	})
}

func (r *PlaylistRepo) RemoveVideo(_ context.Context, playlistID, videoID uuid.UUID) (*domain.Playlist, error) {
	return r.mutate(playlistID, func(p *domain.Playlist) { p.Videos = without(p.Videos, videoID) })
}

func without(ids []uuid.UUID, drop uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

func (r *PlaylistRepo) RemoveVideoFromAll(_ context.Context, videoID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.playlists {
		p.Videos = without(p.Videos, videoID)
	}
	return nil
}

func (r *PlaylistRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.PlaylistSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.PlaylistSummary
	for _, p := range r.s.playlists {
		if p.OwnerID != ownerID {
			continue
		}
		summary := &domain.PlaylistSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			UpdatedAt:   p.UpdatedAt,
		}
		for _, id := range p.Videos {
			if v, ok := r.s.videos[id]; ok {
				summary.TotalVideos++
				summary.TotalViews += v.Views
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *PlaylistRepo) GetDetail(_ context.Context, id uuid.UUID) (*domain.PlaylistDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	detail := &domain.PlaylistDetail{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Videos:      []*domain.PlaylistVideo{},
		Owner:       r.s.summaryLocked(p.OwnerID),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, videoID := range p.Videos {
		v, ok := r.s.videos[videoID]
		if !ok || !v.IsPublished {
			continue
		}
		detail.Videos = append(detail.Videos, playlistVideo(v))
		detail.TotalVideos++
		detail.TotalViews += v.Views
	}
	return detail, nil
}

// SubscriptionRepo implements domain.SubscriptionRepository.
type SubscriptionRepo struct{ s *Store }

func (r *SubscriptionRepo) Find(_ context.Context, subscriberID, channelID uuid.UUID) (*domain.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sub := range r.s.subscriptions {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *SubscriptionRepo) Create(_ context.Context, sub *domain.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.subscribedLocked(sub.SubscriberID, sub.ChannelID) {
		return domain.ErrDuplicate
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.CreatedAt = r.s.tick()
	cp := *sub
	r.s.subscriptions[sub.ID] = &cp
	return nil
}

func (r *SubscriptionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subscriptions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.subscriptions, id)
	return nil
}

func (r *SubscriptionRepo) ListSubscribers(_ context.Context, channelID uuid.UUID) ([]*domain.Subscriber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Subscriber
	for _, sub := range r.s.subscriptions {
		if sub.ChannelID != channelID {
			continue
		}
		out = append(out, &domain.Subscriber{
			UserSummary:      r.s.summaryLocked(sub.SubscriberID),
			SubscribersCount: r.s.subscriberCountLocked(sub.SubscriberID),
			SubscribedAt:     sub.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscribedAt.After(out[j].SubscribedAt) })
	return out, nil
}

func (r *SubscriptionRepo) ListSubscribedChannels(_ context.Context, subscriberID uuid.UUID) ([]*domain.SubscribedChannel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.SubscribedChannel
	for _, sub := range r.s.subscriptions {
		if sub.SubscriberID != subscriberID {
			continue
		}
		channel := &domain.SubscribedChannel{
			UserSummary:  r.s.summaryLocked(sub.ChannelID),
			SubscribedAt: sub.CreatedAt,
		}
		for _, v := range r.s.videos {
			if v.OwnerID != sub.ChannelID || !v.IsPublished {
				continue
			}
			if channel.LatestVideo == nil || v.CreatedAt.After(channel.LatestVideo.CreatedAt) {
				channel.LatestVideo = playlistVideo(v)
			}
		}
		out = append(out, channel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscribedAt.After(out[j].SubscribedAt) })
	return out, nil
}

var (
	_ domain.UserRepository         = (*UserRepo)(nil)
	_ domain.VideoRepository        = (*VideoRepo)(nil)
	_ domain.CommentRepository      = (*CommentRepo)(nil)
	_ domain.LikeRepository         = (*LikeRepo)(nil)
	_ domain.TweetRepository        = (*TweetRepo)(nil)
	_ domain.PlaylistRepository     = (*PlaylistRepo)(nil)
	_ domain.SubscriptionRepository = (*SubscriptionRepo)(nil)
)
