package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alumninet/backend/internal/database"
	"alumninet/backend/internal/models"
	"alumninet/backend/internal/search"
)

type CreatePostPayload struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

// PostFeedResponse is a page of the post feed.
type PostFeedResponse struct {
	Previous *search.PageMarker `json:"previous,omitempty"`
	Results  []models.Post      `json:"results"`
	Next     *search.PageMarker `json:"next,omitempty"`
}

// GetPostsHandler returns the post feed, sorted by "new" (default) or "top".
func GetPostsHandler(c *gin.Context) {
	sortBy := c.DefaultQuery("sortby", "new")
	page, limit := GetPaginationParams(c)

	order := "created_at DESC"
	if sortBy == "top" {
		order = "points_count DESC, created_at DESC"
	}

	db := database.GetDB()

	var total int64
	if err := db.Model(&models.Post{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load posts."})
		return
	}

	window := search.PaginationWindow(page, limit, int(total))

	var posts []models.Post
	err := db.Preload("Author").
		Order(order).
		Scopes(PaginateScope(page, limit)).
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load posts."})
		return
	}

	c.JSON(http.StatusOK, PostFeedResponse{
		Previous: window.Previous,
		Results:  posts,
		Next:     window.Next,
	})
}

// GetPostHandler returns a single post with its comment tree.
func GetPostHandler(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format."})
		return
	}

	db := database.GetDB()
	var post models.Post
	err = db.Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("points_count DESC, created_at ASC")
		}).
		Preload("Comments.Author").
		First(&post, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post does not exist."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load post."})
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePostHandler creates a new post authored by the authenticated user.
func CreatePostHandler(c *gin.Context) {
	var payload CreatePostPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload: " + err.Error()})
		return
	}

	authUserID := c.MustGet("userID").(uuid.UUID)

	post := models.Post{
		AuthorID: authUserID,
		Title:    payload.Title,
		Body:     payload.Body,
	}

	db := database.GetDB()
	if err := db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create post."})
		return
	}

	db.Preload("Author").First(&post, "id = ?", post.ID)
	c.JSON(http.StatusCreated, post)
}

// DeletePostHandler deletes the authenticated user's own post.
func DeletePostHandler(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format."})
		return
	}

	authUserID := c.MustGet("userID").(uuid.UUID)

	db := database.GetDB()
	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post does not exist."})
		return
	}
	if post.AuthorID != authUserID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only delete your own posts."})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete post."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted."})
}

// VotePostHandler applies an up or down vote to a post. Repeating a vote with
// the same direction removes it; the opposite direction flips it. The post's
// points and the author's post karma move together in one transaction.
func VotePostHandler(value int) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format."})
			return
		}

		authUserID := c.MustGet("userID").(uuid.UUID)
		db := database.GetDB()

		var post models.Post
		if err := db.First(&post, "id = ?", postID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post does not exist."})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var existing models.PostVote
			findErr := tx.Where("post_id = ? AND user_id = ?", postID, authUserID).First(&existing).Error

			var delta int
			switch {
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				delta = value
				vote := models.PostVote{PostID: postID, UserID: authUserID, Value: value}
				if err := tx.Create(&vote).Error; err != nil {
					return err
				}
			case findErr != nil:
				return findErr
			case existing.Value == value:
				// Same direction again: retract the vote.
				delta = -value
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
			default:
				// Opposite direction: flip.
				delta = 2 * value
				if err := tx.Model(&existing).Update("value", value).Error; err != nil {
					return err
				}
			}

			err := tx.Model(&models.Post{}).Where("id = ?", postID).
				Update("points_count", gorm.Expr("points_count + ?", delta)).Error
			if err != nil {
				return err
			}
			return tx.Model(&models.User{}).Where("id = ?", post.AuthorID).
				Update("post_karma", gorm.Expr("post_karma + ?", delta)).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register vote."})
			return
		}

		db.First(&post, "id = ?", postID)
		c.JSON(http.StatusOK, gin.H{"id": post.ID, "pointsCount": post.PointsCount})
	}
}
