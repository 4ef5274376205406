package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	PostKeyPrefix     = "post:%d"
	FeedFirstPagePref = "feed:first:%s"
	CommentsKeyPrefix = "post:%d:comments"
)

const (
	UserTTL     = 5 * time.Minute
	PostTTL     = 30 * time.Minute
	FeedTTL     = 1 * time.Minute
	CommentsTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// FeedFirstPageKey keys the cached first page of the approved feed per category.
// The "all" bucket holds the unfiltered feed. Cursor pages are never cached.
func FeedFirstPageKey(category string) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf(FeedFirstPagePref, category)
}

func CommentsKey(postID uint) string {
	return fmt.Sprintf(CommentsKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, CommentsKey(postID))
}

// InvalidateFeed drops the cached first page for the given category and the unfiltered bucket.
func InvalidateFeed(ctx context.Context, category string) {
	Invalidate(ctx, FeedFirstPageKey(category))
	Invalidate(ctx, FeedFirstPageKey(""))
}
