package seed

import (
	"fmt"
	"log"

	"sahityapata/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	MaxDays     int
	ShouldClean bool
}

// Run populates the database with a realistic mix of users, posts across
// every moderation state, comments, and likes. Counters are recomputed at
// the end so seeded data satisfies the counter invariants.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 60
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]
		post := f.BuildPost(author)

		// Roughly 70% approved, 20% pending, 10% rejected.
		switch roll := f.rng.Intn(10); {
		case roll < 7:
			post.Status = models.StatusApproved
		case roll < 9:
			post.Status = models.StatusPending
		default:
			post.Status = models.StatusRejected
		}

		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}

	for _, post := range posts {
		if post.Status != models.StatusApproved {
			continue
		}
		for i := 0; i < f.rng.Intn(5); i++ {
			commenter := users[f.rng.Intn(len(users))]
			if _, err := f.CreateComment(post, commenter); err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
		}
		for i := 0; i < f.rng.Intn(8); i++ {
			liker := users[f.rng.Intn(len(users))]
			if err := f.CreateLike(post, liker); err != nil {
				return fmt.Errorf("create like: %w", err)
			}
		}
	}

	// Recompute counters so every denormalized value matches its source.
	if err := db.Exec(
		`UPDATE posts SET comment_count =
		 (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)`,
	).Error; err != nil {
		return fmt.Errorf("recount comments: %w", err)
	}
	if err := db.Exec(
		`UPDATE users SET post_count =
		 (SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id)`,
	).Error; err != nil {
		return fmt.Errorf("recount posts: %w", err)
	}

	log.Printf("seeded %d users and %d posts", len(users), len(posts))
	return nil
}

func clean(db *gorm.DB) error {
	for _, table := range []string{"likes", "comments", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
