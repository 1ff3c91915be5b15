package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresUserRepository_CreateFindAndUpdate(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createTestUser(t, repo, "alice")

	dup := user
	dup.ID = uuid.NewString()
	dup.Email = "other@example.com"
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict when creating duplicate username, got %v", err)
	}

	byEmail, err := repo.FindByLogin(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	byName, err := repo.FindByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if byEmail.ID != user.ID || byName.ID != user.ID || byName.Password != user.Password {
		t.Fatalf("unexpected users fetched: %+v %+v", byEmail, byName)
	}

	updated, err := repo.UpdateAccount(ctx, user.ID, "Alice Renamed", "renamed@example.com", time.Now().UTC())
	if err != nil {
		t.Fatalf("update account: %v", err)
	}
	if updated.FullName != "Alice Renamed" || updated.Email != "renamed@example.com" {
		t.Fatalf("expected updated fields to persist, got %+v", updated)
	}

	if err := repo.UpdatePassword(ctx, user.ID, "rotated-hash", time.Now().UTC()); err != nil {
		t.Fatalf("update password: %v", err)
	}
	fetched, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.Password != "rotated-hash" {
		t.Fatalf("expected rotated password hash, got %q", fetched.Password)
	}

	if _, err := repo.UpdateAvatar(ctx, uuid.NewString(), "x", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing user, got %v", err)
	}
}

func TestPostgresSessionStore_SaveFindAndDelete(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	user := createTestUser(t, NewPostgresUserRepository(testPool), "owner")

	store := NewPostgresSessionStore(testPool)
	expires := time.Now().UTC().Add(24 * time.Hour)
	session := auth.Session{RefreshToken: uuid.NewString(), UserID: user.ID, ExpiresAt: expires}

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, err := store.Find(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if loaded.UserID != session.UserID || !timesClose(loaded.ExpiresAt, expires, time.Millisecond) {
		t.Fatalf("unexpected session loaded: %+v", loaded)
	}

	if err := store.Delete(ctx, session.RefreshToken); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if err := store.Delete(ctx, session.RefreshToken); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound deleting twice, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := store.Save(ctx, auth.Session{RefreshToken: uuid.NewString(), UserID: user.ID, ExpiresAt: expires}); err != nil {
			t.Fatalf("save session %d: %v", i, err)
		}
	}
	if err := store.DeleteForUser(ctx, user.ID); err != nil {
		t.Fatalf("delete user sessions: %v", err)
	}
	if n := countRows(t, "sessions"); n != 0 {
		t.Fatalf("expected no sessions after DeleteForUser, got %d", n)
	}
}

func TestPostgresVideoRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	owner := createTestUser(t, NewPostgresUserRepository(testPool), "owner")
	repo := NewPostgresVideoRepository(testPool)
	video := createTestVideo(t, repo, owner.ID, "First video", time.Now().UTC())

	published, err := repo.SetPublished(ctx, video.ID, false, time.Now().UTC())
	if err != nil {
		t.Fatalf("set published: %v", err)
	}
	if published.IsPublished {
		t.Fatal("expected video to be unpublished")
	}

	updated, err := repo.UpdateDetails(ctx, video.ID, models.VideoDetailsUpdate{
		Title:       "Renamed",
		Description: "New description",
		Thumbnail:   "https://cdn.example.com/image/new",
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("update details: %v", err)
	}
	if updated.Title != "Renamed" || updated.Thumbnail != "https://cdn.example.com/image/new" {
		t.Fatalf("unexpected updated video: %+v", updated)
	}

	if err := repo.SetAssetStatus(ctx, video.ID, models.AssetStatusDeleteFailed); err != nil {
		t.Fatalf("set asset status: %v", err)
	}
	fetched, err := repo.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("find video: %v", err)
	}
	if fetched.AssetStatus != models.AssetStatusDeleteFailed {
		t.Fatalf("expected delete_failed status, got %q", fetched.AssetStatus)
	}

	if err := repo.Delete(ctx, video.ID); err != nil {
		t.Fatalf("delete video: %v", err)
	}
	if _, err := repo.FindByID(ctx, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestPostgresLikeRepository_ToggleTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	owner := createTestUser(t, users, "owner")
	fan := createTestUser(t, users, "fan")
	video := createTestVideo(t, NewPostgresVideoRepository(testPool), owner.ID, "Likeable", time.Now().UTC())

	repo := NewPostgresLikeRepository(testPool)

	like, liked, err := repo.Toggle(ctx, fan.ID, models.LikeTargetVideo, video.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked || like.ID == "" {
		t.Fatalf("expected like to be created, got liked=%v like=%+v", liked, like)
	}
	if n := countRows(t, "likes"); n != 1 {
		t.Fatalf("expected exactly one like, got %d", n)
	}

	removed, liked, err := repo.Toggle(ctx, fan.ID, models.LikeTargetVideo, video.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked || removed.ID != like.ID {
		t.Fatalf("expected like %s to be removed, got liked=%v like=%+v", like.ID, liked, removed)
	}
	if n := countRows(t, "likes"); n != 0 {
		t.Fatalf("expected no likes after second toggle, got %d", n)
	}

	if _, _, err := repo.Toggle(ctx, fan.ID, models.LikeTargetTweet, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound liking a missing tweet, got %v", err)
	}
}

func TestPostgresLikeRepository_UniquePairPerTarget(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	owner := createTestUser(t, users, "owner")
	fan := createTestUser(t, users, "fan")
	video := createTestVideo(t, NewPostgresVideoRepository(testPool), owner.ID, "Raced", time.Now().UTC())

	seeded := uuid.NewString()
	if _, err := testPool.Exec(ctx, `INSERT INTO likes (id, liked_by, video_id) VALUES ($1, $2, $3)`, seeded, fan.ID, video.ID); err != nil {
		t.Fatalf("seed like: %v", err)
	}

	if _, err := testPool.Exec(ctx, `INSERT INTO likes (id, liked_by, video_id) VALUES ($1, $2, $3)`, uuid.NewString(), fan.ID, video.ID); err == nil {
		t.Fatal("expected unique index to reject a second like for the same pair")
	}

	removed, liked, err := NewPostgresLikeRepository(testPool).Toggle(ctx, fan.ID, models.LikeTargetVideo, video.ID)
	if err != nil {
		t.Fatalf("toggle existing like: %v", err)
	}
	if liked || removed.ID != seeded {
		t.Fatalf("expected seeded like to be removed, got liked=%v like=%+v", liked, removed)
	}
}

func TestPostgresSubscriptionRepository_Toggle(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	channel := createTestUser(t, users, "channel")
	viewer := createTestUser(t, users, "viewer")

	repo := NewPostgresSubscriptionRepository(testPool)

	sub, subscribed, err := repo.Toggle(ctx, viewer.ID, channel.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !subscribed || sub.ChannelID != channel.ID {
		t.Fatalf("expected active subscription, got %v %+v", subscribed, sub)
	}

	views := NewPostgresViewRepository(testPool)
	subscribers, err := views.ListSubscribers(ctx, channel.ID)
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subscribers) != 1 || subscribers[0].Subscriber.Username != "viewer" {
		t.Fatalf("unexpected subscribers: %+v", subscribers)
	}

	channels, err := views.ListSubscribedChannels(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("list subscribed channels: %v", err)
	}
	if len(channels) != 1 || channels[0].Channel.ID != channel.ID {
		t.Fatalf("unexpected subscribed channels: %+v", channels)
	}

	profile, err := views.ChannelProfile(ctx, "CHANNEL", viewer.ID)
	if err != nil {
		t.Fatalf("channel profile: %v", err)
	}
	if profile.SubscribersCount != 1 || !profile.IsSubscribed || profile.ChannelsSubscribedToCount != 0 {
		t.Fatalf("unexpected channel profile: %+v", profile)
	}

	if _, subscribed, err = repo.Toggle(ctx, viewer.ID, channel.ID); err != nil || subscribed {
		t.Fatalf("expected unsubscribe, got subscribed=%v err=%v", subscribed, err)
	}
	if n := countRows(t, "subscriptions"); n != 0 {
		t.Fatalf("expected no subscriptions, got %d", n)
	}

	subscribers, err = views.ListSubscribers(ctx, channel.ID)
	if err != nil {
		t.Fatalf("list subscribers after unsubscribe: %v", err)
	}
	if subscribers == nil || len(subscribers) != 0 {
		t.Fatalf("expected empty non-nil subscriber list, got %#v", subscribers)
	}
}

func TestPostgresTaskRepository_DuplicateIDRejected(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresTaskRepository(testPool)
	now := time.Now().UTC()
	task := models.Task{ID: 7, Task: "write docs", Status: models.TaskStatusToDo, CreatedAt: now, UpdatedAt: now}

	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	dup := task
	dup.Task = "something else"
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate id, got %v", err)
	}

	tasks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Task != "write docs" {
		t.Fatalf("expected the original task only, got %+v", tasks)
	}

	status := models.TaskStatusCompleted
	updated, err := repo.Update(ctx, task.ID, models.TaskPatch{Status: &status, UpdatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Status != models.TaskStatusCompleted || updated.Task != "write docs" {
		t.Fatalf("expected only status to change, got %+v", updated)
	}

	deleted, err := repo.Delete(ctx, task.ID)
	if err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if deleted.ID != task.ID {
		t.Fatalf("expected deleted task %d, got %+v", task.ID, deleted)
	}
	if _, err := repo.FindByID(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgresViewRepository_VideoCommentsPagination(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	owner := createTestUser(t, users, "owner")
	video := createTestVideo(t, NewPostgresVideoRepository(testPool), owner.ID, "Popular", time.Now().UTC())

	comments := NewPostgresCommentRepository(testPool)
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	for i := 1; i <= 25; i++ {
		c := models.Comment{
			ID:        uuid.NewString(),
			VideoID:   video.ID,
			OwnerID:   owner.ID,
			Content:   fmt.Sprintf("comment %02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			UpdatedAt: base,
		}
		if err := comments.Create(ctx, c); err != nil {
			t.Fatalf("create comment %d: %v", i, err)
		}
	}

	views := NewPostgresViewRepository(testPool)
	page, err := views.ListVideoComments(ctx, video.ID, models.Page{Number: 2, Size: 10})
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(page) != 10 {
		t.Fatalf("expected 10 comments, got %d", len(page))
	}
	for i, c := range page {
		want := fmt.Sprintf("comment %02d", i+11)
		if c.Content != want {
			t.Fatalf("position %d: expected %q got %q", i, want, c.Content)
		}
		if c.CreatedBy.Username != "owner" {
			t.Fatalf("expected author profile, got %+v", c.CreatedBy)
		}
	}

	last, err := views.ListVideoComments(ctx, video.ID, models.Page{Number: 3, Size: 10})
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if len(last) != 5 {
		t.Fatalf("expected 5 comments on the last page, got %d", len(last))
	}

	if _, err := views.ListVideoComments(ctx, uuid.NewString(), models.Page{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing video, got %v", err)
	}
}

func TestPostgresViewRepository_ChannelStats(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	channel := createTestUser(t, users, "channel")
	fan := createTestUser(t, users, "fan")

	views := NewPostgresViewRepository(testPool)
	stats, err := views.ChannelStats(ctx, channel.ID)
	if err != nil {
		t.Fatalf("stats for empty channel: %v", err)
	}
	if stats != (models.ChannelStats{}) {
		t.Fatalf("expected all-zero stats, got %+v", stats)
	}

	videoRepo := NewPostgresVideoRepository(testPool)
	video := createTestVideo(t, videoRepo, channel.ID, "Stats", time.Now().UTC())
	if _, err := testPool.Exec(ctx, `UPDATE videos SET views = 40 WHERE id = $1`, video.ID); err != nil {
		t.Fatalf("set views: %v", err)
	}
	createTestVideo(t, videoRepo, channel.ID, "More stats", time.Now().UTC())

	tweet := models.Tweet{ID: uuid.NewString(), OwnerID: channel.ID, Content: "hello", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := NewPostgresTweetRepository(testPool).Create(ctx, tweet); err != nil {
		t.Fatalf("create tweet: %v", err)
	}
	comment := models.Comment{ID: uuid.NewString(), VideoID: video.ID, OwnerID: channel.ID, Content: "pinned", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := NewPostgresCommentRepository(testPool).Create(ctx, comment); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	likes := NewPostgresLikeRepository(testPool)
	for _, target := range []struct {
		kind models.LikeTarget
		id   string
	}{
		{models.LikeTargetVideo, video.ID},
		{models.LikeTargetTweet, tweet.ID},
		{models.LikeTargetComment, comment.ID},
	} {
		if _, _, err := likes.Toggle(ctx, fan.ID, target.kind, target.id); err != nil {
			t.Fatalf("like %s: %v", target.kind, err)
		}
	}
	if _, _, err := NewPostgresSubscriptionRepository(testPool).Toggle(ctx, fan.ID, channel.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	stats, err = views.ChannelStats(ctx, channel.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := models.ChannelStats{TotalViews: 40, TotalVideos: 2, TotalSubscribers: 1, TotalLikes: 3}
	if stats != want {
		t.Fatalf("expected %+v got %+v", want, stats)
	}

	liked, err := views.ListLikedVideos(ctx, fan.ID)
	if err != nil {
		t.Fatalf("liked videos: %v", err)
	}
	if len(liked) != 1 || liked[0].Video.ID != video.ID || liked[0].Video.Owner.Username != "channel" {
		t.Fatalf("unexpected liked videos: %+v", liked)
	}

	channelVideos, err := views.ListChannelVideos(ctx, channel.ID)
	if err != nil {
		t.Fatalf("channel videos: %v", err)
	}
	if len(channelVideos) != 2 {
		t.Fatalf("expected 2 channel videos, got %d", len(channelVideos))
	}
}

func TestPostgresViewRepository_SearchVideos(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	owner := createTestUser(t, users, "owner")
	other := createTestUser(t, users, "other")

	videoRepo := NewPostgresVideoRepository(testPool)
	base := time.Now().UTC().Add(-time.Hour)
	cats := createTestVideo(t, videoRepo, owner.ID, "Funny Cats", base)
	dogs := createTestVideo(t, videoRepo, owner.ID, "Dogs 100% real", base.Add(time.Minute))
	hidden := createTestVideo(t, videoRepo, other.ID, "Hidden cats", base.Add(2*time.Minute))
	if _, err := videoRepo.SetPublished(ctx, hidden.ID, false, time.Now().UTC()); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	views := NewPostgresViewRepository(testPool)

	all, err := views.SearchVideos(ctx, models.NewVideoQuery("", "", "", "", models.Page{}))
	if err != nil {
		t.Fatalf("empty search: %v", err)
	}
	if got := videoIDs(all); strings.Join(got, ",") != dogs.ID+","+cats.ID {
		t.Fatalf("expected every published video newest first, got %v", got)
	}

	matched, err := views.SearchVideos(ctx, models.NewVideoQuery("CATS", "", "title", "asc", models.Page{}))
	if err != nil {
		t.Fatalf("search cats: %v", err)
	}
	if len(matched) != 1 || matched[0].ID != cats.ID || matched[0].CreatedBy.Username != "owner" {
		t.Fatalf("unexpected cats search result: %+v", matched)
	}

	literal, err := views.SearchVideos(ctx, models.NewVideoQuery("100%", "", "", "", models.Page{}))
	if err != nil {
		t.Fatalf("search literal percent: %v", err)
	}
	if len(literal) != 1 || literal[0].ID != dogs.ID {
		t.Fatalf("expected %% to match literally, got %+v", literal)
	}

	none, err := views.SearchVideos(ctx, models.NewVideoQuery("", other.ID, "", "", models.Page{}))
	if err != nil {
		t.Fatalf("search by owner: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected unpublished video to be excluded, got %+v", none)
	}

	_, err = views.SearchVideos(ctx, models.VideoQuery{OwnerID: "not-a-uuid", SortBy: models.VideoSortCreatedAt, Page: models.Page{Number: 1, Size: 10}})
	if err == nil {
		t.Fatal("expected malformed owner id to fail the query")
	}
	if errors.Is(err, ErrInvalid) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		t.Fatalf("read failure must not map onto a write sentinel: %v", err)
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "TRUNCATE TABLE likes, subscriptions, comments, tweets, videos, sessions, tasks, users CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := testPool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func createTestUser(t *testing.T, repo *PostgresUserRepository, username string) models.User {
	t.Helper()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     username + "@example.com",
		FullName:  strings.ToUpper(username[:1]) + username[1:],
		Avatar:    "https://cdn.example.com/image/" + username,
		Password:  "password-hash",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createTestVideo(t *testing.T, repo *PostgresVideoRepository, ownerID, title string, createdAt time.Time) models.Video {
	t.Helper()
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		VideoFile:   "https://cdn.example.com/video/" + uuid.NewString(),
		Thumbnail:   "https://cdn.example.com/image/" + uuid.NewString(),
		Title:       title,
		Description: title + " description",
		Duration:    12.5,
		IsPublished: true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := repo.Create(context.Background(), video); err != nil {
		t.Fatalf("create test video: %v", err)
	}
	return video
}

func videoIDs(items []models.VideoListItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func timesClose(a, b time.Time, tolerance time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
