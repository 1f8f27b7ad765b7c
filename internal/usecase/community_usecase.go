package usecase

import (
	"context"
	"strings"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/policy"
	"jobmarket-backend/internal/profile"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/storage"
)

const maxFeedPage = 100

type communityUsecase struct {
	postRepo domain.PostRepository
	store    storage.BlobStore
}

func NewCommunityUsecase(postRepo domain.PostRepository, store storage.BlobStore) domain.CommunityUsecase {
	return &communityUsecase{postRepo: postRepo, store: store}
}

func (uc *communityUsecase) CreatePost(ctx context.Context, actor domain.Actor, content string, image *domain.Upload, baseURL string) (*domain.Post, error) {
	if err := policy.Authorize(actor, policy.PostCreate, policy.Resource{}); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" && image == nil {
		return nil, apperror.Validation("Post must have content or an image")
	}

	post := &domain.Post{AuthorID: actor.ID, Content: content}
	if image != nil {
		url, err := storeImage(ctx, uc.store, "posts", *image)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		discardBlob(ctx, uc.store, post.Image)
		return nil, apperror.Internal(err)
	}
	return uc.GetPost(ctx, actor, post.ID, baseURL)
}

func (uc *communityUsecase) GetPost(ctx context.Context, actor domain.Actor, id int64, baseURL string) (*domain.Post, error) {
	post, err := uc.postRepo.Get(ctx, id, actor.ID)
	if err != nil {
		return nil, repoErr(err, "Post not found")
	}
	decoratePost(post, actor, profile.New(baseURL))
	return post, nil
}

// ListPosts returns the feed newest first, optionally limited to one author.
func (uc *communityUsecase) ListPosts(ctx context.Context, actor domain.Actor, filter domain.PostFilter, baseURL string) ([]domain.Post, error) {
	if filter.Limit <= 0 || filter.Limit > maxFeedPage {
		filter.Limit = defaultPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	posts, err := uc.postRepo.List(ctx, filter, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	r := profile.New(baseURL)
	for i := range posts {
		decoratePost(&posts[i], actor, r)
	}
	return posts, nil
}

func (uc *communityUsecase) UpdatePost(ctx context.Context, actor domain.Actor, id int64, content *string, image *domain.Upload, baseURL string) (*domain.Post, error) {
	post, err := uc.ownedPost(ctx, actor, policy.PostUpdate, id)
	if err != nil {
		return nil, err
	}

	newContent := post.Content
	if content != nil {
		newContent = strings.TrimSpace(*content)
	}
	var newImage *string
	if image != nil {
		url, err := storeImage(ctx, uc.store, "posts", *image)
		if err != nil {
			return nil, err
		}
		newImage = &url
	}
	if newContent == "" && newImage == nil && post.Image == "" {
		return nil, apperror.Validation("Post must have content or an image")
	}

	if err := uc.postRepo.Update(ctx, id, newContent, newImage); err != nil {
		if newImage != nil {
			discardBlob(ctx, uc.store, *newImage)
		}
		return nil, repoErr(err, "Post not found")
	}
	if newImage != nil {
		discardBlob(ctx, uc.store, post.Image)
	}
	return uc.GetPost(ctx, actor, id, baseURL)
}

func (uc *communityUsecase) DeletePost(ctx context.Context, actor domain.Actor, id int64) error {
	post, err := uc.ownedPost(ctx, actor, policy.PostDelete, id)
	if err != nil {
		return err
	}
	if err := uc.postRepo.Delete(ctx, id); err != nil {
		return repoErr(err, "Post not found")
	}
	discardBlob(ctx, uc.store, post.Image)
	return nil
}

// ToggleLike flips the caller's like; two calls restore the original state.
func (uc *communityUsecase) ToggleLike(ctx context.Context, actor domain.Actor, id int64) (*domain.LikeState, error) {
	if err := policy.Authorize(actor, policy.PostLike, policy.Resource{}); err != nil {
		return nil, err
	}
	state, err := uc.postRepo.ToggleLike(ctx, id, actor.ID)
	if err != nil {
		return nil, repoErr(err, "Post not found")
	}
	return state, nil
}

func (uc *communityUsecase) SharePost(ctx context.Context, actor domain.Actor, id int64) (int, error) {
	if err := policy.Authorize(actor, policy.PostShare, policy.Resource{}); err != nil {
		return 0, err
	}
	count, err := uc.postRepo.IncrementShares(ctx, id)
	if err != nil {
		return 0, repoErr(err, "Post not found")
	}
	return count, nil
}

func (uc *communityUsecase) AddComment(ctx context.Context, actor domain.Actor, postID int64, content string) (*domain.Comment, error) {
	if err := policy.Authorize(actor, policy.CommentCreate, policy.Resource{}); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("Content is required")
	}

	comment := &domain.Comment{PostID: postID, AuthorID: actor.ID, Content: content}
	if err := uc.postRepo.AddComment(ctx, comment); err != nil {
		return nil, repoErr(err, "Post not found")
	}
	return comment, nil
}

// ListComments returns the post's comments newest first.
func (uc *communityUsecase) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	if _, err := uc.postRepo.Get(ctx, postID, ""); err != nil {
		return nil, repoErr(err, "Post not found")
	}
	comments, err := uc.postRepo.ListComments(ctx, postID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return comments, nil
}

func (uc *communityUsecase) UpdateComment(ctx context.Context, actor domain.Actor, postID, commentID int64, content string) (*domain.Comment, error) {
	comment, err := uc.ownedComment(ctx, actor, policy.CommentUpdate, postID, commentID)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("Content is required")
	}
	if err := uc.postRepo.UpdateComment(ctx, commentID, content); err != nil {
		return nil, repoErr(err, "Comment not found")
	}
	comment.Content = content
	return comment, nil
}

func (uc *communityUsecase) DeleteComment(ctx context.Context, actor domain.Actor, postID, commentID int64) error {
	if _, err := uc.ownedComment(ctx, actor, policy.CommentDelete, postID, commentID); err != nil {
		return err
	}
	if err := uc.postRepo.DeleteComment(ctx, postID, commentID); err != nil {
		return repoErr(err, "Comment not found")
	}
	return nil
}

func (uc *communityUsecase) ownedPost(ctx context.Context, actor domain.Actor, action policy.Action, id int64) (*domain.Post, error) {
	if !actor.Authenticated() {
		return nil, apperror.Unauthorized("Authentication credentials were not provided")
	}
	post, err := uc.postRepo.Get(ctx, id, actor.ID)
	if err != nil {
		return nil, repoErr(err, "Post not found")
	}
	if err := policy.Authorize(actor, action, policy.Resource{OwnerID: post.AuthorID}); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *communityUsecase) ownedComment(ctx context.Context, actor domain.Actor, action policy.Action, postID, commentID int64) (*domain.Comment, error) {
	if !actor.Authenticated() {
		return nil, apperror.Unauthorized("Authentication credentials were not provided")
	}
	comment, err := uc.postRepo.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, repoErr(err, "Comment not found")
	}
	if err := policy.Authorize(actor, action, policy.Resource{OwnerID: comment.AuthorID}); err != nil {
		return nil, err
	}
	return comment, nil
}

func decoratePost(p *domain.Post, actor domain.Actor, r profile.Resolver) {
	if p.AuthorAccount != nil {
		p.Author = r.Author(p.AuthorAccount)
	} else {
		p.Author = domain.AuthorRef{ID: p.AuthorID}
	}
	p.Image = r.URL(p.Image)
	p.IsOwner = actor.Authenticated() && actor.ID == p.AuthorID
}
