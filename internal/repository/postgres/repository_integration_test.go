package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"jobmarket-backend/internal/db"
	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB migrates and connects to TEST_DATABASE_URL, skipping when unset.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.Up(dsn, ""))

	pool, err := database.NewPostgresConnection(context.Background(), dsn, database.PoolConfig{MaxConns: 20, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createAccount(t *testing.T, repo domain.AccountRepository, role domain.Role) *domain.Account {
	t.Helper()
	id := uuid.NewString()
	acc := &domain.Account{
		ID:           id,
		Username:     "it_" + id[:8],
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
		DateJoined:   time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), acc))
	return acc
}

func TestAccountRepositoryIntegration(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(pool)

	acc := createAccount(t, accounts, domain.RoleJobSeeker)

	dup := *acc
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, accounts.Create(ctx, &dup), domain.ErrConflict, "username is unique")

	email := acc.Username + "@Example.com"
	require.NoError(t, accounts.SetEmail(ctx, acc.ID, email))
	taken, err := accounts.EmailTakenByOther(ctx, acc.Username+"@example.COM", uuid.NewString())
	require.NoError(t, err)
	assert.True(t, taken, "email comparison is case-insensitive")

	title := "Backend engineer"
	updated, err := accounts.UpdateFields(ctx, acc.ID, domain.AccountFields{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "Test", updated.FirstName)

	_, err = accounts.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerificationCodeIsSingleUse(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(pool)
	codes := NewVerificationRepository(pool)

	acc := createAccount(t, accounts, domain.RoleUnset)
	require.NoError(t, codes.Upsert(ctx, acc.ID, "111111"))
	require.NoError(t, codes.Upsert(ctx, acc.ID, "222222"))

	assert.ErrorIs(t, codes.Consume(ctx, acc.ID, "111111"), domain.ErrNotFound, "replaced code")
	require.NoError(t, codes.Consume(ctx, acc.ID, "222222"))
	assert.ErrorIs(t, codes.Consume(ctx, acc.ID, "222222"), domain.ErrNotFound, "already used")

	got, err := accounts.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.IsEmailVerified)
}

func TestConcurrentSharesAreNotLost(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(pool)
	posts := NewPostRepository(pool)

	author := createAccount(t, accounts, domain.RoleJobSeeker)
	post := &domain.Post{AuthorID: author.ID, Content: "hello"}
	require.NoError(t, posts.Create(ctx, post))

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := posts.IncrementShares(ctx, post.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := posts.Get(ctx, post.ID, "")
	require.NoError(t, err)
	assert.Equal(t, n, got.SharesCount)
}

func TestConcurrentCommentsKeepCountExact(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(pool)
	posts := NewPostRepository(pool)

	author := createAccount(t, accounts, domain.RoleJobSeeker)
	post := &domain.Post{AuthorID: author.ID, Content: "busy thread"}
	require.NoError(t, posts.Create(ctx, post))

	const n = 20
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := &domain.Comment{PostID: post.ID, AuthorID: author.ID, Content: "reply"}
			assert.NoError(t, posts.AddComment(ctx, c))
			ids[i] = c.ID
		}(i)
	}
	wg.Wait()

	got, err := posts.Get(ctx, post.ID, "")
	require.NoError(t, err)
	assert.Equal(t, n, got.CommentsCount)

	// Deletes racing with fresh comments.
	for i := 0; i < n/2; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, posts.DeleteComment(ctx, post.ID, id))
		}(ids[i])
		go func() {
			defer wg.Done()
			assert.NoError(t, posts.AddComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: author.ID, Content: "late"}))
		}()
	}
	wg.Wait()

	got, err = posts.Get(ctx, post.ID, "")
	require.NoError(t, err)
	list, err := posts.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, list, n)
	assert.Equal(t, len(list), got.CommentsCount)
}

func TestConcurrentLikesFromManyUsers(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(pool)
	posts := NewPostRepository(pool)

	author := createAccount(t, accounts, domain.RoleJobSeeker)
	post := &domain.Post{AuthorID: author.ID, Content: "popular"}
	require.NoError(t, posts.Create(ctx, post))

	const n = 15
	fans := make([]*domain.Account, n)
	for i := range fans {
		fans[i] = createAccount(t, accounts, domain.RoleJobSeeker)
	}

	var wg sync.WaitGroup
	for _, fan := range fans {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			state, err := posts.ToggleLike(ctx, post.ID, userID)
			if assert.NoError(t, err) {
				assert.True(t, state.Liked)
			}
		}(fan.ID)
	}
	wg.Wait()

	got, err := posts.Get(ctx, post.ID, fans[0].ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.LikesCount)
	assert.True(t, got.IsLiked)

	// The same user toggling from two goroutines ends where it started.
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			_, err := posts.ToggleLike(ctx, post.ID, fans[1].ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err = posts.Get(ctx, post.ID, fans[1].ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.LikesCount)
	assert.True(t, got.IsLiked)
}

func TestCommentsCountMatchesRows(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(pool)
	posts := NewPostRepository(pool)

	author := createAccount(t, accounts, domain.RoleJobSeeker)
	post := &domain.Post{AuthorID: author.ID, Content: "thread"}
	require.NoError(t, posts.Create(ctx, post))

	var ids []int64
	for _, text := range []string{"one", "two", "three"} {
		c := &domain.Comment{PostID: post.ID, AuthorID: author.ID, Content: text}
		require.NoError(t, posts.AddComment(ctx, c))
		assert.Equal(t, author.Username, c.AuthorName)
		ids = append(ids, c.ID)
	}
	require.NoError(t, posts.DeleteComment(ctx, post.ID, ids[0]))
	assert.ErrorIs(t, posts.DeleteComment(ctx, post.ID, ids[0]), domain.ErrNotFound)

	got, err := posts.Get(ctx, post.ID, "")
	require.NoError(t, err)
	list, err := posts.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, len(list), got.CommentsCount)
	assert.Equal(t, 2, got.CommentsCount)

	err = posts.AddComment(ctx, &domain.Comment{PostID: -1, AuthorID: author.ID, Content: "orphan"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleLikeIsAnInvolution(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(pool)
	posts := NewPostRepository(pool)

	author := createAccount(t, accounts, domain.RoleJobSeeker)
	fan := createAccount(t, accounts, domain.RoleEmployer)
	post := &domain.Post{AuthorID: author.ID, Content: "like me"}
	require.NoError(t, posts.Create(ctx, post))

	state, err := posts.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeState{Liked: true, LikesCount: 1}, *state)

	got, err := posts.Get(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, got.IsLiked)

	state, err = posts.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeState{Liked: false, LikesCount: 0}, *state)
}

func TestCompanyFollowAndReviewConstraints(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(pool)
	companies := NewCompanyRepository(pool)

	owner := createAccount(t, accounts, domain.RoleEmployer)
	fan := createAccount(t, accounts, domain.RoleJobSeeker)
	c := &domain.Company{OwnerID: owner.ID, Name: "Acme"}
	require.NoError(t, companies.Create(ctx, c))

	created, err := companies.Follow(ctx, c.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = companies.Follow(ctx, c.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := companies.FollowersCount(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, companies.CreateReview(ctx, &domain.CompanyReview{CompanyID: c.ID, UserID: fan.ID, Rating: 4}))
	err = companies.CreateReview(ctx, &domain.CompanyReview{CompanyID: c.ID, UserID: fan.ID, Rating: 5})
	assert.ErrorIs(t, err, domain.ErrConflict)

	card, err := companies.GetCard(ctx, c.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, card.IsFollowing)
	assert.Equal(t, 1, card.ReviewsCount)
	assert.InDelta(t, 4.0, card.AvgRating, 0.001)
}

func TestSkillsAreUniquePerUserCaseInsensitive(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(pool)
	profiles := NewProfileRepository(pool)

	acc := createAccount(t, accounts, domain.RoleJobSeeker)

	first, err := profiles.CreateSkills(ctx, acc.ID, []string{"Go", "SQL"})
	require.NoError(t, err)
	assert.Len(t, first, 2)

	again, err := profiles.CreateSkills(ctx, acc.ID, []string{"go", "Docker"})
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "Docker", again[0].Name)

	other := createAccount(t, accounts, domain.RoleJobSeeker)
	err = profiles.UpsertSkillAnswer(ctx, &domain.SkillAnswer{UserID: other.ID, SkillID: first[0].ID, Answer: domain.AnswerYes})
	assert.ErrorIs(t, err, domain.ErrNotFound, "cannot answer another user's skill")
}

func TestJobListBatchLookups(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(pool)
	companies := NewCompanyRepository(pool)
	jobs := NewJobRepository(pool)

	owner := createAccount(t, accounts, domain.RoleEmployer)
	loner := createAccount(t, accounts, domain.RoleEmployer)
	rater := createAccount(t, accounts, domain.RoleJobSeeker)

	first := &domain.Company{OwnerID: owner.ID, Name: "First"}
	require.NoError(t, companies.Create(ctx, first))
	second := &domain.Company{OwnerID: owner.ID, Name: "Second"}
	require.NoError(t, companies.Create(ctx, second))

	rated := &domain.JobPost{EmployerID: owner.ID, CompanyID: &second.ID, Title: "Rated", IsActive: true}
	require.NoError(t, jobs.Create(ctx, rated))
	unrated := &domain.JobPost{EmployerID: owner.ID, Title: "Unrated", IsActive: true}
	require.NoError(t, jobs.Create(ctx, unrated))
	require.NoError(t, jobs.UpsertRating(ctx, rated.ID, rater.ID, 5))
	require.NoError(t, jobs.UpsertRating(ctx, rated.ID, owner.ID, 2))

	stats, err := jobs.RatingStatsFor(ctx, []int64{rated.ID, unrated.ID}, rater.ID)
	require.NoError(t, err)
	single, err := jobs.RatingStats(ctx, rated.ID, rater.ID)
	require.NoError(t, err)
	assert.Equal(t, *single, stats[rated.ID])
	assert.Equal(t, 5, stats[rated.ID].UserRating)
	assert.NotContains(t, stats, unrated.ID)

	firsts, err := companies.FirstOwnedIDs(ctx, []string{owner.ID, loner.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{owner.ID: first.ID}, firsts)

	cards, err := companies.CardsByID(ctx, []int64{first.ID, second.ID, -1}, "")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Second", cards[second.ID].Name)
	assert.Equal(t, 1, cards[second.ID].VacanciesCount)
}
