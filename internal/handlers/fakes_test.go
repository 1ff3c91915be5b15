package handlers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
	"github.com/vidtube/backend/internal/videos"
)

type inMemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{users: make(map[string]models.User)}
}

func (s *inMemoryUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *inMemoryUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (s *inMemoryUserStore) FindByLogin(_ context.Context, login string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	login = strings.ToLower(login)
	for _, u := range s.users {
		if u.Username == login || u.Email == login {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *inMemoryUserStore) UpdateAccount(_ context.Context, id, fullName, email string, updatedAt time.Time) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	u.FullName, u.Email, u.UpdatedAt = fullName, email, updatedAt
	s.users[id] = u
	return u, nil
}

func (s *inMemoryUserStore) UpdatePassword(_ context.Context, id, hash string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password, u.UpdatedAt = hash, updatedAt
	s.users[id] = u
	return nil
}

func (s *inMemoryUserStore) UpdateAvatar(_ context.Context, id, avatar string, updatedAt time.Time) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	u.Avatar, u.UpdatedAt = avatar, updatedAt
	s.users[id] = u
	return u, nil
}

type mediaUploaderStub struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (m *mediaUploaderStub) Upload(_ context.Context, kind storage.Kind, localPath string) (storage.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return storage.Asset{}, m.err
	}
	m.uploads = append(m.uploads, localPath)
	id := uuid.NewString()
	return storage.Asset{URL: "https://cdn.example.com/" + storage.ObjectKey(kind, id) + ".png", PublicID: id, Kind: kind}, nil
}

type orphanQueueStub struct {
	orphans []videos.Orphan
}

func (q *orphanQueueStub) Enqueue(orphan videos.Orphan) error {
	q.orphans = append(q.orphans, orphan)
	return nil
}

type videoServiceStub struct {
	videos    map[string]models.Video
	deleteErr error
	published []videos.PublishInput
}

func newVideoServiceStub(vs ...models.Video) *videoServiceStub {
	s := &videoServiceStub{videos: make(map[string]models.Video)}
	for _, v := range vs {
		s.videos[v.ID] = v
	}
	return s
}

func (s *videoServiceStub) Publish(_ context.Context, ownerID string, in videos.PublishInput) (models.Video, error) {
	s.published = append(s.published, in)
	v := models.Video{ID: uuid.NewString(), OwnerID: ownerID, Title: in.Title, Description: in.Description, IsPublished: true, AssetStatus: models.AssetStatusReady}
	s.videos[v.ID] = v
	return v, nil
}

func (s *videoServiceStub) Get(_ context.Context, viewerID, id string) (models.Video, error) {
	v, ok := s.videos[id]
	if !ok || (!v.IsPublished && v.OwnerID != viewerID) {
		return models.Video{}, repositories.ErrNotFound
	}
	return v, nil
}

func (s *videoServiceStub) FindByID(_ context.Context, id string) (models.Video, error) {
	v, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return v, nil
}

func (s *videoServiceStub) owned(userID, id string) (models.Video, error) {
	v, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	if v.OwnerID != userID {
		return models.Video{}, videos.ErrForbidden
	}
	return v, nil
}

func (s *videoServiceStub) UpdateDetails(_ context.Context, userID, id string, in videos.UpdateInput) (models.Video, error) {
	v, err := s.owned(userID, id)
	if err != nil {
		return models.Video{}, err
	}
	v.Title, v.Description = in.Title, in.Description
	s.videos[id] = v
	return v, nil
}

func (s *videoServiceStub) TogglePublish(_ context.Context, userID, id string) (models.Video, error) {
	v, err := s.owned(userID, id)
	if err != nil {
		return models.Video{}, err
	}
	v.IsPublished = !v.IsPublished
	s.videos[id] = v
	return v, nil
}

func (s *videoServiceStub) Delete(_ context.Context, userID, id string) (models.Video, error) {
	v, err := s.owned(userID, id)
	if err != nil {
		return models.Video{}, err
	}
	if s.deleteErr != nil {
		v.AssetStatus = models.AssetStatusDeleteFailed
		s.videos[id] = v
		return models.Video{}, s.deleteErr
	}
	delete(s.videos, id)
	return v, nil
}

type commentStoreStub struct {
	comments map[string]models.Comment
}

func newCommentStoreStub(cs ...models.Comment) *commentStoreStub {
	s := &commentStoreStub{comments: make(map[string]models.Comment)}
	for _, c := range cs {
		s.comments[c.ID] = c
	}
	return s
}

func (s *commentStoreStub) Create(_ context.Context, c models.Comment) error {
	s.comments[c.ID] = c
	return nil
}

func (s *commentStoreStub) FindByID(_ context.Context, id string) (models.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return c, nil
}

func (s *commentStoreStub) UpdateContent(_ context.Context, id, content string, updatedAt time.Time) (models.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	c.Content, c.UpdatedAt = content, updatedAt
	s.comments[id] = c
	return c, nil
}

func (s *commentStoreStub) Delete(_ context.Context, id string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

type tweetStoreStub struct {
	tweets map[string]models.Tweet
}

func (s *tweetStoreStub) Create(_ context.Context, t models.Tweet) error {
	s.tweets[t.ID] = t
	return nil
}

func (s *tweetStoreStub) FindByID(_ context.Context, id string) (models.Tweet, error) {
	t, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return t, nil
}

func (s *tweetStoreStub) ListByOwner(_ context.Context, ownerID string) ([]models.Tweet, error) {
	var out []models.Tweet
	for _, t := range s.tweets {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *tweetStoreStub) UpdateContent(_ context.Context, id, content string, updatedAt time.Time) (models.Tweet, error) {
	t, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	t.Content, t.UpdatedAt = content, updatedAt
	s.tweets[id] = t
	return t, nil
}

func (s *tweetStoreStub) Delete(_ context.Context, id string) error {
	delete(s.tweets, id)
	return nil
}

// likeTogglerStub mirrors the store's toggle semantics per (user, target, id).
type likeTogglerStub struct {
	likes   map[string]models.Like
	targets map[string]bool
}

func (s *likeTogglerStub) Toggle(_ context.Context, userID string, target models.LikeTarget, targetID string) (models.Like, bool, error) {
	if !s.targets[targetID] {
		return models.Like{}, false, repositories.ErrNotFound
	}
	key := userID + "|" + string(target) + "|" + targetID
	if like, ok := s.likes[key]; ok {
		delete(s.likes, key)
		return like, false, nil
	}
	like := models.Like{ID: uuid.NewString(), LikedBy: userID, TargetType: target, TargetID: targetID}
	s.likes[key] = like
	return like, true, nil
}

type subscriptionTogglerStub struct {
	subs  map[string]models.Subscription
	calls int
}

func (s *subscriptionTogglerStub) Toggle(_ context.Context, subscriberID, channelID string) (models.Subscription, bool, error) {
	s.calls++
	key := subscriberID + "|" + channelID
	if sub, ok := s.subs[key]; ok {
		delete(s.subs, key)
		return sub, false, nil
	}
	sub := models.Subscription{ID: uuid.NewString(), SubscriberID: subscriberID, ChannelID: channelID}
	s.subs[key] = sub
	return sub, true, nil
}

type taskStoreStub struct {
	tasks map[int64]models.Task
}

func (s *taskStoreStub) List(_ context.Context) ([]models.Task, error) {
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (s *taskStoreStub) FindByID(_ context.Context, id int64) (models.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, repositories.ErrNotFound
	}
	return t, nil
}

func (s *taskStoreStub) Create(_ context.Context, task models.Task) error {
	if _, ok := s.tasks[task.ID]; ok {
		return repositories.ErrConflict
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *taskStoreStub) Update(_ context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, repositories.ErrNotFound
	}
	if patch.Task != nil {
		t.Task = *patch.Task
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = patch.UpdatedAt
	s.tasks[id] = t
	return t, nil
}

func (s *taskStoreStub) Delete(_ context.Context, id int64) (models.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, repositories.ErrNotFound
	}
	delete(s.tasks, id)
	return t, nil
}

// viewsStub records the arguments of the last view call.
type viewsStub struct {
	lastQuery    models.VideoQuery
	lastPage     models.Page
	lastChannel  string
	searchResult []models.VideoListItem
	comments     []models.CommentView
	stats        models.ChannelStats
	err          error
}

func (v *viewsStub) ListVideoComments(_ context.Context, videoID string, page models.Page) ([]models.CommentView, error) {
	v.lastPage = page
	if v.err != nil {
		return nil, v.err
	}
	if v.comments == nil {
		return []models.CommentView{}, nil
	}
	return v.comments, nil
}

func (v *viewsStub) ChannelStats(_ context.Context, channelID string) (models.ChannelStats, error) {
	v.lastChannel = channelID
	return v.stats, v.err
}

func (v *viewsStub) ListChannelVideos(_ context.Context, channelID string) ([]models.ChannelVideo, error) {
	v.lastChannel = channelID
	return []models.ChannelVideo{}, v.err
}

func (v *viewsStub) ListLikedVideos(_ context.Context, userID string) ([]models.LikedVideo, error) {
	return []models.LikedVideo{}, v.err
}

func (v *viewsStub) ListSubscribers(_ context.Context, channelID string) ([]models.SubscriberView, error) {
	v.lastChannel = channelID
	return []models.SubscriberView{}, v.err
}

func (v *viewsStub) ListSubscribedChannels(_ context.Context, subscriberID string) ([]models.SubscribedChannelView, error) {
	return []models.SubscribedChannelView{}, v.err
}

func (v *viewsStub) SearchVideos(_ context.Context, q models.VideoQuery) ([]models.VideoListItem, error) {
	v.lastQuery = q
	if v.searchResult == nil {
		return []models.VideoListItem{}, v.err
	}
	return v.searchResult, v.err
}

func (v *viewsStub) ChannelProfile(_ context.Context, username, viewerID string) (models.ChannelProfile, error) {
	if v.err != nil {
		return models.ChannelProfile{}, v.err
	}
	return models.ChannelProfile{PublicProfile: models.PublicProfile{Username: username}}, nil
}
